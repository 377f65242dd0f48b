//go:build linux

package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest  = "org.freedesktop.Notifications"
	notifyPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyCall  = notifyDest + ".Notify"
	notifyCateg = "transfer.complete"
)

// Notify sends a desktop notification over the session bus.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{
		"desktop-entry": dbus.MakeVariant(AppName),
		"category":      dbus.MakeVariant(notifyCateg),
	}
	var id uint32
	err = conn.Object(notifyDest, notifyPath).Call(notifyCall, 0,
		AppName, uint32(0), opts.IconPath, title, body, []string{}, hints,
		int32(opts.timeout().Milliseconds())).Store(&id)
	if err != nil {
		return fmt.Errorf("notify %q: %w", title, err)
	}
	return nil
}
