package toolkit

type EventKind int

const (
	PointerMove EventKind = iota
	PointerButton
	Key
	WindowResize
	WindowClose
	WidgetActivated
)

func (k EventKind) String() string {
	switch k {
	case PointerMove:
		return "pointer-move"
	case PointerButton:
		return "pointer-button"
	case Key:
		return "key"
	case WindowResize:
		return "window-resize"
	case WindowClose:
		return "window-close"
	case WidgetActivated:
		return "widget-activated"
	default:
		return "unknown"
	}
}

type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

type PointerEvent struct {
	X, Y   int
	DX, DY int
}

type ButtonEvent struct {
	Button  MouseButton
	Pressed bool
	X, Y    int
}

// KeyEvent carries the native key code untranslated: an X keysym on X11,
// a virtual-key code on Win32.
type KeyEvent struct {
	Code    int
	Pressed bool
	Ctrl    bool
	Shift   bool
	Alt     bool
}

type ResizeEvent struct {
	Width, Height int
}

type ActivationEvent struct {
	Widget *Widget
	X, Y   int
}

// Event is a tagged record. Only the payload matching Kind is meaningful.
// Window is always set by the dispatcher.
type Event struct {
	Kind   EventKind
	Window *Window

	Pointer    PointerEvent
	Button     ButtonEvent
	Key        KeyEvent
	Resize     ResizeEvent
	Activation ActivationEvent
}

// EventSink receives the events of one window. It is called synchronously
// from ProcessEvents on the toolkit thread.
type EventSink interface {
	HandleEvent(ev Event)
}

type SinkFunc func(ev Event)

func (f SinkFunc) HandleEvent(ev Event) { f(ev) }
