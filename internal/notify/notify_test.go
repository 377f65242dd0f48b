package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/photomark/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recording(n *Notifier) *[]sent {
	var out []sent
	n.send = func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		out = append(out, s)
		return nil
	}
	return &out
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n := New(DefaultPreferences())
	got := recording(n)
	n.Save("doc.json")
	n.Copy("")
	assert.Empty(t, *got)

	var nilNotifier *Notifier
	nilNotifier.Enable(EventSave, true)
	nilNotifier.Save("doc.json")
}

func TestSaveAndCopy(t *testing.T) {
	n := New(DefaultPreferences())
	got := recording(n)
	n.Enable(EventSave, true)
	n.Enable(EventCopy, true)

	dir := t.TempDir()
	n.Save(filepath.Join(dir, "doc.json"))
	n.Copy("")

	require.Len(t, *got, 2)
	assert.Equal(t, "photomark", (*got)[0].title)
	assert.Equal(t, "Saved annotations to "+filepath.Join(dir, "doc.json"), (*got)[0].body)
	assert.Equal(t, "Copied image to clipboard", (*got)[1].body)
}

func TestExportPreviewIsTemporary(t *testing.T) {
	n := New(DefaultPreferences())
	got := recording(n)
	n.Enable(EventExport, true)

	n.Export("/tmp/claim.png", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	require.Len(t, *got, 1)
	icon := (*got)[0].opts.IconPath
	assert.NotEmpty(t, icon)
	assert.True(t, (*got)[0].iconExisted, "icon exists while sending")
	_, err := os.Stat(icon)
	assert.True(t, os.IsNotExist(err), "icon removed afterwards")
}

func TestSendFailureIsLoggedOnly(t *testing.T) {
	n := New(DefaultPreferences())
	n.send = func(string, string, platform.Options) error { return errors.New("no bus") }
	n.Enable(EventCopy, true)
	assert.NotPanics(t, func() { n.Copy("document") })
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("PHOTOMARK_NOTIFY_TITLE", "Claims")
	t.Setenv("PHOTOMARK_NOTIFY_COPY_TEXT", "Clipboard now holds %s")
	prefs := LoadPreferences()
	assert.Equal(t, "Claims", prefs.Title)
	assert.Equal(t, "Clipboard now holds %s", prefs.Events[EventCopy].Template)
	assert.Equal(t, DefaultPreferences().Events[EventSave], prefs.Events[EventSave])
}
