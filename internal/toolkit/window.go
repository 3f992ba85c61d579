package toolkit

import "fmt"

// Window is a portable top-level window. It owns its widgets and, through
// the backend, exactly one native window for its whole lifetime.
type Window struct {
	ctx *Context

	title     string
	width     int
	height    int
	visible   bool
	resizable bool
	dirty     bool

	widgets []*Widget
	sink    EventSink

	native NativeHandle
}

func (w *Window) Title() string { return w.title }

func (w *Window) Size() (width, height int) { return w.width, w.height }

func (w *Window) Visible() bool { return w.visible }

func (w *Window) Resizable() bool { return w.resizable }

// Dirty reports whether the back buffer has content not yet shown.
func (w *Window) Dirty() bool { return w.dirty }

// Invalidate schedules a render on the next loop iteration.
func (w *Window) Invalidate() { w.dirty = true }

func (w *Window) Native() NativeHandle { return w.native }

// SetNative records the backend handle. Only backends call it.
func (w *Window) SetNative(h NativeHandle) { w.native = h }

// Widgets returns a snapshot of the window's widgets in insertion order,
// modulo swap-with-last removals.
func (w *Window) Widgets() []*Widget {
	out := make([]*Widget, len(w.widgets))
	copy(out, w.widgets)
	return out
}

func (w *Window) live() bool {
	return w != nil && w.ctx != nil
}

// CreateWindow creates a window and its native counterpart. The window starts
// hidden and dirty. On failure nothing is added to the directory.
func (c *Context) CreateWindow(title string, width, height int, resizable bool) (*Window, error) {
	if !c.Initialized() {
		return nil, ErrNotInitialized
	}

	w := &Window{
		title:     title,
		width:     width,
		height:    height,
		resizable: resizable,
		dirty:     true,
		widgets:   make([]*Widget, 0, 20),
	}

	if err := c.backend.CreateWindow(w); err != nil {
		c.log.Warn("failed to create platform window", "title", title, "err", err)
		return nil, fmt.Errorf("create window %q: %w", title, err)
	}

	w.ctx = c
	c.addWindow(w)
	return w, nil
}

// DestroyWindow destroys every widget of w, then its native window, then
// drops it from the directory. A nil or already destroyed window is a no-op.
func (c *Context) DestroyWindow(w *Window) {
	if !c.Initialized() || !w.live() {
		return
	}

	for len(w.widgets) > 0 {
		c.DestroyWidget(w.widgets[len(w.widgets)-1])
	}
	w.widgets = nil

	c.backend.DestroyWindow(w)
	w.native = 0

	c.removeWindow(w)
	w.sink = nil
	w.ctx = nil
}

func (c *Context) ShowWindow(w *Window) {
	if !c.Initialized() || !w.live() {
		return
	}
	w.visible = true
	c.backend.ShowWindow(w)
}

func (c *Context) HideWindow(w *Window) {
	if !c.Initialized() || !w.live() {
		return
	}
	w.visible = false
	c.backend.HideWindow(w)
}

func (c *Context) SetWindowTitle(w *Window, title string) {
	if !c.Initialized() || !w.live() {
		return
	}
	w.title = title
	c.backend.SetWindowTitle(w, title)
}

// SetWindowEventCallback registers the window's only sink, replacing any
// previous one. A nil sink stops delivery.
func (c *Context) SetWindowEventCallback(w *Window, sink EventSink) {
	if !c.Initialized() || !w.live() {
		return
	}
	w.sink = sink
}
