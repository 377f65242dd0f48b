// Package ui hosts an annotation editor in a desktop window.
package ui

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/notify"
	"github.com/example/photomark/internal/theme"
)

// DefaultWidth is the initial window width.
const DefaultWidth = 960

// loadEvent carries a finished image load onto the event goroutine.
type loadEvent struct{ apply func() }

// Window shows one editor.
type Window struct {
	ed       *editor.Editor
	resolver editor.Resolver
	log      *zap.Logger
	theme    *theme.Theme
	title    string
	width    int
	notifier *notify.Notifier
	copy     func(image.Image) error
	onClose  func()
	err      error
}

// Option modifies a Window during creation.
type Option func(*Window)

// WithLogger sets the logger for window diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(w *Window) {
		if l != nil {
			w.log = l
		}
	}
}

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option {
	return func(w *Window) {
		if t != nil {
			w.theme = t
		}
	}
}

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(w *Window) { w.title = title } }

// WithWidth sets the initial window width.
func WithWidth(px int) Option { return func(w *Window) { w.width = px } }

// WithNotifier announces clipboard copies.
func WithNotifier(n *notify.Notifier) Option { return func(w *Window) { w.notifier = n } }

// WithClipboard sets the function that receives the flattened image on copy.
func WithClipboard(fn func(image.Image) error) Option { return func(w *Window) { w.copy = fn } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(w *Window) { w.onClose = fn } }

// New creates a window for ed. The image is fetched through resolver once
// the window is up.
func New(ed *editor.Editor, resolver editor.Resolver, opts ...Option) *Window {
	w := &Window{
		ed:       ed,
		resolver: resolver,
		log:      zap.NewNop(),
		theme:    theme.Default(),
		title:    "photomark",
		width:    DefaultWidth,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Run executes the UI loop using shiny's driver and returns once the window
// is closed.
func (w *Window) Run() error {
	driver.Main(w.Main)
	return w.err
}

// Main runs the event loop on s.
func (w *Window) Main(s screen.Screen) {
	defer func() {
		w.ed.Close()
		if w.onClose != nil {
			w.onClose()
		}
	}()

	sz := windowSize(w.width, w.ed.MaxHeight())
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: sz.X, Height: sz.Y, Title: w.title})
	if err != nil {
		w.err = fmt.Errorf("new window: %w", err)
		return
	}
	defer win.Release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := newController(w.ed, w.theme, w.log)
	c.notifier = w.notifier
	if w.copy != nil {
		c.copyImage = w.copy
	}
	c.repaintAfter = func(d time.Duration) {
		time.AfterFunc(d, func() {
			if ctx.Err() == nil {
				win.Send(paint.Event{})
			}
		})
	}
	c.resize(sz)

	w.ed.LoadAsync(ctx, w.resolver, func(apply func()) {
		if ctx.Err() == nil {
			win.Send(loadEvent{apply: apply})
		}
	})

	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff && c.cancelPointer() {
				win.Send(paint.Event{})
			}
		case size.Event:
			c.resize(e.Size())
			win.Send(paint.Event{})
		case paint.Event:
			w.paint(s, win, c)
		case mouse.Event:
			if c.handleMouse(e) {
				win.Send(paint.Event{})
			}
		case key.Event:
			repaint, quit := c.handleKey(e)
			if quit {
				return
			}
			if repaint {
				win.Send(paint.Event{})
			}
		case loadEvent:
			e.apply()
			win.Send(paint.Event{})
		case error:
			w.log.Warn("window event", zap.Error(e))
		}
	}
}

func (w *Window) paint(s screen.Screen, win screen.Window, c *controller) {
	b, err := s.NewBuffer(c.chrome.size)
	if err != nil {
		w.log.Warn("new buffer", zap.Error(err))
		return
	}
	defer b.Release()
	c.draw(b.RGBA())
	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
}
