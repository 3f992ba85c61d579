package toolkit

// NativeHandle identifies a native resource inside a backend: an X11 window
// id, an HWND, or a synthetic counter. Zero means "not realized".
type NativeHandle uintptr

// Backend realizes portable windows and widgets as native resources and
// translates the native event source into portable events.
//
// Backends never free portable records. Create* must release everything it
// acquired before returning an error.
type Backend interface {
	Name() string

	Initialize(ctx *Context) error
	Terminate()

	CreateWindow(w *Window) error
	DestroyWindow(w *Window)
	ShowWindow(w *Window)
	HideWindow(w *Window)
	SetWindowTitle(w *Window, title string)

	CreateWidget(wd *Widget) error
	DestroyWidget(wd *Widget)
	UpdateWidget(wd *Widget)

	// ProcessEvents drains the native queue without blocking and reports
	// false once for every native quit signal observed during the drain.
	ProcessEvents() bool

	// RenderWindow clears the back buffer and copies it to the visible
	// surface. The caller has already checked the dirty flag.
	RenderWindow(w *Window)

	// PostQuit enqueues the native quit signal.
	PostQuit()
}
