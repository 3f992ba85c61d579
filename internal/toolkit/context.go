// Package toolkit is the portable half of lightgui: windows, widgets, the
// event model and the run loop. Native work is delegated to a Backend.
//
// A Context is single-threaded. Every call, including the ones backends make
// back into it, must come from the goroutine that called Initialize.
package toolkit

import (
	"errors"
	"log/slog"
	"time"
)

var (
	ErrNotInitialized    = errors.New("toolkit not initialized")
	ErrNilWindow         = errors.New("nil window")
	ErrNotRealized       = errors.New("window has no native resource")
	ErrUnsupportedWidget = errors.New("widget type not supported by backend")
)

const (
	defaultIdleInterval = 10 * time.Millisecond
	firstWidgetID       = 1000
)

type Option func(*Context)

func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.log = l
		}
	}
}

// WithIdleInterval sets how long Run sleeps between iterations.
func WithIdleInterval(d time.Duration) Option {
	return func(c *Context) {
		if d > 0 {
			c.idle = d
		}
	}
}

// Context owns the window directory and the backend for the span between
// Initialize and Terminate.
type Context struct {
	backend Backend
	log     *slog.Logger
	idle    time.Duration

	initialized bool
	windows     []*Window

	nextWidgetID int
	lastPointer  Point
	pumping      bool
}

// Initialize brings up the backend. A failure leaves nothing to clean up.
func Initialize(b Backend, opts ...Option) (*Context, error) {
	c := &Context{
		backend:      b,
		log:          slog.Default(),
		idle:         defaultIdleInterval,
		nextWidgetID: firstWidgetID,
	}
	for _, opt := range opts {
		opt(c)
	}
	if b == nil {
		return nil, errors.New("nil backend")
	}

	if err := b.Initialize(c); err != nil {
		c.log.Error("failed to initialize platform backend", "backend", b.Name(), "err", err)
		return nil, err
	}

	c.windows = make([]*Window, 0, 10)
	c.initialized = true
	c.log.Debug("toolkit initialized", "backend", b.Name())
	return c, nil
}

// Terminate destroys every remaining window and releases the backend.
func (c *Context) Terminate() {
	if !c.Initialized() {
		return
	}

	for len(c.windows) > 0 {
		c.DestroyWindow(c.windows[len(c.windows)-1])
	}
	c.windows = nil

	c.backend.Terminate()
	c.initialized = false
}

func (c *Context) Initialized() bool {
	return c != nil && c.initialized
}

func (c *Context) Logger() *slog.Logger {
	return c.log
}

func (c *Context) Backend() Backend {
	return c.backend
}

// Windows returns a snapshot of the directory. Its order carries no meaning.
func (c *Context) Windows() []*Window {
	if !c.Initialized() {
		return nil
	}
	out := make([]*Window, len(c.windows))
	copy(out, c.windows)
	return out
}

func (c *Context) WindowCount() int {
	if !c.Initialized() {
		return 0
	}
	return len(c.windows)
}

// WindowByNative resolves a native window handle back to its window.
func (c *Context) WindowByNative(h NativeHandle) *Window {
	if !c.Initialized() || h == 0 {
		return nil
	}
	for _, w := range c.windows {
		if w.native == h {
			return w
		}
	}
	return nil
}

// WidgetByNative resolves a native control handle back to its widget.
func (c *Context) WidgetByNative(h NativeHandle) *Widget {
	if !c.Initialized() || h == 0 {
		return nil
	}
	for _, w := range c.windows {
		for _, wd := range w.widgets {
			if wd.native == h {
				return wd
			}
		}
	}
	return nil
}

// WidgetByID resolves a widget identity, as used for Win32 control ids.
func (c *Context) WidgetByID(id int) *Widget {
	if !c.Initialized() || id == 0 {
		return nil
	}
	for _, w := range c.windows {
		for _, wd := range w.widgets {
			if wd.id == id {
				return wd
			}
		}
	}
	return nil
}

func (c *Context) addWindow(w *Window) {
	if len(c.windows) == cap(c.windows) {
		grown := make([]*Window, len(c.windows), 2*cap(c.windows)+1)
		copy(grown, c.windows)
		c.windows = grown
	}
	c.windows = append(c.windows, w)
}

// removeWindow swaps w with the last entry and shrinks the directory.
func (c *Context) removeWindow(w *Window) {
	for i, other := range c.windows {
		if other == w {
			last := len(c.windows) - 1
			c.windows[i] = c.windows[last]
			c.windows[last] = nil
			c.windows = c.windows[:last]
			return
		}
	}
}
