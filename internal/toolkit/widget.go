package toolkit

import "fmt"

type WidgetKind int

const (
	Button WidgetKind = iota
	Label
	TextField
	Checkbox
	Slider
	Panel
)

func (k WidgetKind) String() string {
	switch k {
	case Button:
		return "button"
	case Label:
		return "label"
	case TextField:
		return "textfield"
	case Checkbox:
		return "checkbox"
	case Slider:
		return "slider"
	case Panel:
		return "panel"
	default:
		return fmt.Sprintf("widget(%d)", int(k))
	}
}

// Widget is a portable control inside one window. Its native control is
// always a child of the window's native window.
type Widget struct {
	kind   WidgetKind
	window *Window

	rect      Rect
	text      string
	visible   bool
	enabled   bool
	bg        Color
	fg        Color
	id        int
	destroyed bool

	native NativeHandle
}

func (wd *Widget) Kind() WidgetKind { return wd.kind }

// Window returns the owning window. The reference is never used to free it.
func (wd *Widget) Window() *Window { return wd.window }

func (wd *Widget) Rect() Rect { return wd.rect }

func (wd *Widget) Text() string { return wd.text }

func (wd *Widget) Visible() bool { return wd.visible }

func (wd *Widget) Enabled() bool { return wd.enabled }

func (wd *Widget) Background() Color { return wd.bg }

func (wd *Widget) Foreground() Color { return wd.fg }

// ID is unique across all widgets of the process' context, starting at 1000.
func (wd *Widget) ID() int { return wd.id }

func (wd *Widget) Native() NativeHandle { return wd.native }

func (wd *Widget) SetNative(h NativeHandle) { wd.native = h }

func (wd *Widget) live() bool {
	return wd != nil && !wd.destroyed && wd.window.live()
}

func defaultColors(kind WidgetKind) (bg, fg Color) {
	if kind == Label {
		return Transparent, Black
	}
	return White, Black
}

func (c *Context) CreateButton(w *Window, text string, x, y, width, height int) (*Widget, error) {
	return c.CreateWidget(w, Button, text, Rect{X: x, Y: y, Width: width, Height: height})
}

func (c *Context) CreateLabel(w *Window, text string, x, y, width, height int) (*Widget, error) {
	return c.CreateWidget(w, Label, text, Rect{X: x, Y: y, Width: width, Height: height})
}

// CreateTextField creates a single-line editable field. Empty text is fine.
func (c *Context) CreateTextField(w *Window, text string, x, y, width, height int) (*Widget, error) {
	return c.CreateWidget(w, TextField, text, Rect{X: x, Y: y, Width: width, Height: height})
}

// CreateWidget realizes a widget of any kind. The widget is added to w only
// after the backend created its native control.
func (c *Context) CreateWidget(w *Window, kind WidgetKind, text string, rect Rect) (*Widget, error) {
	if !c.Initialized() {
		return nil, ErrNotInitialized
	}
	if !w.live() {
		return nil, ErrNilWindow
	}
	if w.native == 0 {
		return nil, ErrNotRealized
	}

	bg, fg := defaultColors(kind)
	wd := &Widget{
		kind:    kind,
		window:  w,
		rect:    rect,
		text:    text,
		visible: true,
		enabled: true,
		bg:      bg,
		fg:      fg,
		id:      c.nextWidgetID,
	}
	c.nextWidgetID++

	if err := c.backend.CreateWidget(wd); err != nil {
		c.log.Warn("failed to create platform widget", "kind", kind, "err", err)
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	if len(w.widgets) == cap(w.widgets) {
		grown := make([]*Widget, len(w.widgets), 2*cap(w.widgets)+1)
		copy(grown, w.widgets)
		w.widgets = grown
	}
	w.widgets = append(w.widgets, wd)
	return wd, nil
}

// DestroyWidget releases the native control and removes wd from its window.
func (c *Context) DestroyWidget(wd *Widget) {
	if !c.Initialized() || !wd.live() {
		return
	}

	c.backend.DestroyWidget(wd)
	wd.native = 0

	w := wd.window
	for i, other := range w.widgets {
		if other == wd {
			last := len(w.widgets) - 1
			w.widgets[i] = w.widgets[last]
			w.widgets[last] = nil
			w.widgets = w.widgets[:last]
			break
		}
	}
	wd.destroyed = true
}

func (c *Context) SetWidgetText(wd *Widget, text string) {
	c.updateWidget(wd, func() { wd.text = text })
}

// GetWidgetText copies the widget text into buf as a NUL-terminated string,
// truncating to len(buf)-1 bytes. It returns the number of bytes copied, or
// -1 for a nil widget, an empty buffer or an uninitialized toolkit.
func (c *Context) GetWidgetText(wd *Widget, buf []byte) int {
	if !c.Initialized() || !wd.live() || len(buf) == 0 {
		return -1
	}
	n := copy(buf[:len(buf)-1], wd.text)
	buf[n] = 0
	return n
}

func (c *Context) SetWidgetPosition(wd *Widget, x, y int) {
	c.updateWidget(wd, func() {
		wd.rect.X = x
		wd.rect.Y = y
	})
}

func (c *Context) SetWidgetSize(wd *Widget, width, height int) {
	c.updateWidget(wd, func() {
		wd.rect.Width = width
		wd.rect.Height = height
	})
}

func (c *Context) SetWidgetVisible(wd *Widget, visible bool) {
	c.updateWidget(wd, func() { wd.visible = visible })
}

func (c *Context) SetWidgetEnabled(wd *Widget, enabled bool) {
	c.updateWidget(wd, func() { wd.enabled = enabled })
}

func (c *Context) SetWidgetBackgroundColor(wd *Widget, color Color) {
	c.updateWidget(wd, func() { wd.bg = color })
}

func (c *Context) SetWidgetTextColor(wd *Widget, color Color) {
	c.updateWidget(wd, func() { wd.fg = color })
}

func (c *Context) updateWidget(wd *Widget, mutate func()) {
	if !c.Initialized() || !wd.live() {
		return
	}
	mutate()
	c.backend.UpdateWidget(wd)
}

// NativeTextChanged records text the user edited inside a native control.
// The backend already shows it, so no resync is requested.
func (c *Context) NativeTextChanged(wd *Widget, text string) {
	if !c.Initialized() || !wd.live() {
		return
	}
	wd.text = text
}
