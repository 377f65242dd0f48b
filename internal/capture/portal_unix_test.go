//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortalScreenshotOptions(t *testing.T) {
	tests := []struct {
		name        string
		interactive bool
		opts        Options
		wantCursor  string
	}{
		{name: "defaults", wantCursor: "hidden"},
		{name: "interactive with cursor", interactive: true, opts: Options{IncludeCursor: true}, wantCursor: "embedded"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := portalScreenshotOptions(tc.interactive, "tok", tc.opts)
			assert.Len(t, values, 4)
			assert.Equal(t, tc.interactive, values["interactive"].Value())
			assert.Equal(t, tc.interactive, values["modal"].Value())
			assert.Equal(t, tc.wantCursor, values["cursor_mode"].Value())
			assert.Equal(t, "tok", values["handle_token"].Value())
		})
	}
}

func TestRequestPath(t *testing.T) {
	assert.Equal(t, dbus.ObjectPath("/org/freedesktop/portal/desktop/request/1_42/tok"), requestPath(":1.42", "tok"))
}

func TestResponseURI(t *testing.T) {
	uri, err := responseURI([]interface{}{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/s.png")}})
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/s.png", uri)

	_, err = responseURI([]interface{}{uint32(1), map[string]dbus.Variant{}})
	assert.ErrorContains(t, err, "cancelled")
	_, err = responseURI([]interface{}{uint32(0), map[string]dbus.Variant{}})
	assert.ErrorContains(t, err, "missing image data")
	_, err = responseURI(nil)
	assert.Error(t, err)
}

func TestLoadPortalFileRejectsRemoteURI(t *testing.T) {
	_, err := loadPortalFile("https://example.com/x.png")
	assert.Error(t, err)
}
