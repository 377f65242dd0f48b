//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

const requestResponse = "org.freedesktop.portal.Request.Response"

var portalHandleToken = newPortalHandleToken

// portalScreenshot asks xdg-desktop-portal for a screenshot and waits for the
// Response signal carrying the file URI.
func portalScreenshot(ctx context.Context, interactive bool, opts Options) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: dbus connect: %v", ErrNoDisplay, err)
	}
	defer conn.Close()

	sigc := make(chan *dbus.Signal, 4)
	conn.Signal(sigc)
	defer conn.RemoveSignal(sigc)

	// Subscribe before calling so a fast Response is not missed.
	token := portalHandleToken()
	handle := requestPath(conn.Names()[0], token)
	if err := watchRequest(ctx, conn, handle); err != nil {
		return nil, err
	}

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	var got dbus.ObjectPath
	call := obj.CallWithContext(ctx, "org.freedesktop.portal.Screenshot.Screenshot", 0, "", portalScreenshotOptions(interactive, token, opts))
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&got); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}
	if got != handle {
		// Older portals pick their own request path.
		handle = got
		if err := watchRequest(ctx, conn, handle); err != nil {
			return nil, err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("portal screenshot: %w", ctx.Err())
		case sig, ok := <-sigc:
			if !ok {
				return nil, errors.New("portal screenshot: bus closed")
			}
			if sig.Path != handle || sig.Name != requestResponse {
				continue
			}
			uri, err := responseURI(sig.Body)
			if err != nil {
				return nil, err
			}
			return loadPortalFile(uri)
		}
	}
}

func watchRequest(ctx context.Context, conn *dbus.Conn, handle dbus.ObjectPath) error {
	err := conn.AddMatchSignalContext(ctx,
		dbus.WithMatchObjectPath(handle),
		dbus.WithMatchInterface("org.freedesktop.portal.Request"),
		dbus.WithMatchMember("Response"),
	)
	if err != nil {
		return fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	return nil
}

// requestPath is the object path the portal uses for a request made by the
// unique bus name sender with the given handle token.
func requestPath(sender, token string) dbus.ObjectPath {
	s := strings.ReplaceAll(strings.TrimPrefix(sender, ":"), ".", "_")
	return dbus.ObjectPath("/org/freedesktop/portal/desktop/request/" + s + "/" + token)
}

// responseURI extracts the screenshot location from a Response signal body.
func responseURI(body []interface{}) (string, error) {
	if len(body) < 2 {
		return "", errors.New("portal screenshot: malformed response")
	}
	if code, ok := body[0].(uint32); ok && code != 0 {
		return "", fmt.Errorf("portal screenshot cancelled (code %d)", code)
	}
	res, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", errors.New("portal screenshot: malformed response")
	}
	v, ok := res["uri"]
	if !ok {
		return "", errors.New("portal screenshot: response missing image data")
	}
	uri, ok := v.Value().(string)
	if !ok {
		return "", errors.New("portal screenshot: uri is not a string")
	}
	return uri, nil
}

func newPortalHandleToken() string {
	return fmt.Sprintf("photomark_%d", time.Now().UnixNano())
}

func portalScreenshotOptions(interactive bool, token string, opts Options) map[string]dbus.Variant {
	cursorMode := "hidden"
	if opts.IncludeCursor {
		cursorMode = "embedded"
	}
	return map[string]dbus.Variant{
		"interactive":  dbus.MakeVariant(interactive),
		"handle_token": dbus.MakeVariant(token),
		"modal":        dbus.MakeVariant(interactive),
		"cursor_mode":  dbus.MakeVariant(cursorMode),
	}
}

// loadPortalFile decodes the PNG the portal wrote and removes it.
func loadPortalFile(uri string) (*image.RGBA, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return nil, fmt.Errorf("portal screenshot: unexpected uri %q", uri)
	}
	f, err := os.Open(u.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", u.Path, err)
	}
	defer f.Close()
	defer os.Remove(u.Path)

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", u.Path, err)
	}
	return toRGBA(img), nil
}
