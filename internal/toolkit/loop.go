package toolkit

import "time"

// Dispatch delivers ev to the sink of w with ev.Window set to w. Events
// raised outside ProcessEvents are dropped; the state change that caused
// them has already been applied by the caller.
func (c *Context) Dispatch(w *Window, ev Event) {
	if !c.Initialized() || !w.live() || w.sink == nil {
		return
	}
	if !c.pumping {
		c.log.Debug("dropping event raised outside the event pump", "kind", ev.Kind)
		return
	}
	ev.Window = w
	w.sink.HandleEvent(ev)
}

// Resize applies a native size change and reports it. Sizes equal to the
// current one are ignored, since some native sources report moves too.
func (c *Context) Resize(w *Window, width, height int) {
	if !c.Initialized() || !w.live() {
		return
	}
	if w.width == width && w.height == height {
		return
	}
	w.width = width
	w.height = height
	w.dirty = true
	c.Dispatch(w, Event{
		Kind:   WindowResize,
		Resize: ResizeEvent{Width: width, Height: height},
	})
}

// PointerMoved reports a pointer position. The delta is taken against the
// last position reported for any window of this context, starting at the
// origin after Initialize.
func (c *Context) PointerMoved(w *Window, x, y int) {
	if !c.Initialized() || !w.live() {
		return
	}
	ev := Event{
		Kind: PointerMove,
		Pointer: PointerEvent{
			X:  x,
			Y:  y,
			DX: x - c.lastPointer.X,
			DY: y - c.lastPointer.Y,
		},
	}
	c.lastPointer = Point{X: x, Y: y}
	c.Dispatch(w, ev)
}

// Activate reports a native click on a button. The position is the button's
// origin, not the pointer position.
func (c *Context) Activate(wd *Widget) {
	if !c.Initialized() || !wd.live() || wd.kind != Button {
		return
	}
	origin := wd.rect.Origin()
	c.Dispatch(wd.window, Event{
		Kind: WidgetActivated,
		Activation: ActivationEvent{
			Widget: wd,
			X:      origin.X,
			Y:      origin.Y,
		},
	})
}

// Close reports a native close request. The window is not destroyed.
func (c *Context) Close(w *Window) {
	c.Dispatch(w, Event{Kind: WindowClose})
}

// ProcessEvents drains the native queue, dispatching as it goes. It returns
// false when the native quit signal was seen.
func (c *Context) ProcessEvents() bool {
	if !c.Initialized() {
		return false
	}
	prev := c.pumping
	c.pumping = true
	defer func() { c.pumping = prev }()
	return c.backend.ProcessEvents()
}

// RenderWindow blits the back buffer of a dirty, realized window. Hidden
// windows are rendered too.
func (c *Context) RenderWindow(w *Window) {
	if !c.Initialized() || !w.live() || w.native == 0 || !w.dirty {
		return
	}
	c.backend.RenderWindow(w)
	w.dirty = false
}

// Run processes events and renders every window until the native quit
// signal arrives.
func (c *Context) Run() {
	for c.ProcessEvents() {
		for _, w := range c.Windows() {
			c.RenderWindow(w)
		}
		time.Sleep(c.idle)
	}
}

// Quit asks the backend to post its native quit signal. Run returns once
// ProcessEvents observes it.
func (c *Context) Quit() {
	if !c.Initialized() {
		return
	}
	c.backend.PostQuit()
}
