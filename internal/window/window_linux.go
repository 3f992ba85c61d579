//go:build linux

package window

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"unsafe"

	"github.com/tinyrange/lightgui/internal/toolkit"
)

const (
	nativeName   = "x11"
	quitAtomName = "_LIGHTGUI_QUIT"

	disabledPixel = 0x808080
)

// x11Surface is the native side of a top-level window.
type x11Surface struct {
	window uintptr
	gc     uintptr
	pixmap uintptr
	width  int
	height int
}

// x11Control is the child window realizing one widget.
type x11Control struct {
	window uintptr
	parent *x11Surface
}

type x11Backend struct {
	opts Options
	ctx  *toolkit.Context
	log  *slog.Logger

	display uintptr
	screen  int32
	root    uintptr
	depth   int32
	font    *xFontStruct

	wmDelete  uintptr
	quitAtom  uintptr
	msgWindow uintptr

	hints *wmHints

	surfaces map[uintptr]*x11Surface
	controls map[uintptr]*x11Control
	focus    *toolkit.Widget
}

func newNative(opts Options) (toolkit.Backend, error) {
	return &x11Backend{opts: opts}, nil
}

func (b *x11Backend) Name() string { return nativeName }

func (b *x11Backend) Initialize(ctx *toolkit.Context) error {
	runtime.LockOSThread()
	if err := ensureLibs(); err != nil {
		runtime.UnlockOSThread()
		return fmt.Errorf("load libX11: %w", err)
	}

	dpy := xOpenDisplay(nil)
	if dpy == 0 {
		runtime.UnlockOSThread()
		return errors.New("XOpenDisplay failed")
	}

	screen := xDefaultScreen(dpy)
	root := xRootWindow(dpy, screen)

	font := xLoadQueryFont(dpy, cString(b.opts.Font))
	if font == nil {
		xCloseDisplay(dpy)
		runtime.UnlockOSThread()
		return fmt.Errorf("XLoadQueryFont %q failed", b.opts.Font)
	}

	var swa xSetWindowAttributes
	msg := xCreateWindow(dpy, root, 0, 0, 1, 1, 0, 0, inputOutput, 0, 0, unsafe.Pointer(&swa))
	if msg == 0 {
		xFreeFont(dpy, font)
		xCloseDisplay(dpy)
		runtime.UnlockOSThread()
		return errors.New("XCreateWindow failed for the message window")
	}

	b.ctx = ctx
	b.log = ctx.Logger()
	b.display = dpy
	b.screen = screen
	b.root = root
	b.depth = xDefaultDepth(dpy, screen)
	b.font = font
	b.msgWindow = msg
	b.wmDelete = xInternAtom(dpy, cString("WM_DELETE_WINDOW"), 0)
	b.quitAtom = xInternAtom(dpy, cString(quitAtomName), 0)
	b.surfaces = make(map[uintptr]*x11Surface)
	b.controls = make(map[uintptr]*x11Control)

	hints, err := openHints()
	if err != nil {
		b.log.Warn("window manager hints unavailable", "call", "xgbutil.NewConn", "err", err)
	} else {
		b.hints = hints
	}

	xSync(dpy, 0)
	return nil
}

func (b *x11Backend) Terminate() {
	if b.display == 0 {
		return
	}
	if b.hints != nil {
		b.hints.close()
		b.hints = nil
	}
	xDestroyWindow(b.display, b.msgWindow)
	xFreeFont(b.display, b.font)
	xCloseDisplay(b.display)
	b.display = 0
	b.msgWindow = 0
	b.font = nil
	b.surfaces = nil
	b.controls = nil
	b.focus = nil
	b.ctx = nil
	runtime.UnlockOSThread()
}

func pixel(c toolkit.Color) uint64 { return uint64(c.RGB()) }

func (b *x11Backend) CreateWindow(w *toolkit.Window) error {
	if b.display == 0 {
		return errors.New("backend not initialized")
	}
	width, height := w.Size()

	var swa xSetWindowAttributes
	swa.BackgroundPixel = pixel(b.opts.Background)
	swa.EventMask = exposureMask | structureNotifyMask | keyPressMask | keyReleaseMask |
		buttonPressMask | buttonReleaseMask | pointerMotionMask

	win := xCreateWindow(
		b.display, b.root,
		0, 0,
		extent(width), extent(height),
		0,
		b.depth,
		inputOutput,
		0,
		cwBackPixel|cwBorderPixel|cwEventMask,
		unsafe.Pointer(&swa),
	)
	if win == 0 {
		return errors.New("XCreateWindow failed")
	}

	gc := xCreateGC(b.display, win, 0, nil)
	if gc == 0 {
		xDestroyWindow(b.display, win)
		return errors.New("XCreateGC failed")
	}
	xSetFont(b.display, gc, b.font.Fid)

	pm := xCreatePixmap(b.display, win, extent(width), extent(height), uint32(b.depth))
	if pm == 0 {
		xFreeGC(b.display, gc)
		xDestroyWindow(b.display, win)
		return errors.New("XCreatePixmap failed")
	}

	title := w.Title()
	xStoreName(b.display, win, cString(title))
	xSetWMProtocols(b.display, win, &b.wmDelete, 1)

	s := &x11Surface{window: win, gc: gc, pixmap: pm, width: width, height: height}
	b.clearPixmap(s)
	b.surfaces[win] = s

	if b.hints != nil {
		// The hint connection must see the window before it can decorate it.
		xSync(b.display, 0)
		if err := b.hints.setName(win, title); err != nil {
			b.log.Warn("failed to set window name", "call", "ewmh.WmNameSet", "err", err)
		}
		if !w.Resizable() {
			if err := b.hints.fixSize(win, width, height); err != nil {
				b.log.Warn("failed to set size hints", "call", "icccm.WmNormalHintsSet", "err", err)
			}
		}
	}

	w.SetNative(toolkit.NativeHandle(win))
	xFlush(b.display)
	return nil
}

// DestroyWindow releases the pixmap, the GC and the window, in that order.
func (b *x11Backend) DestroyWindow(w *toolkit.Window) {
	s, ok := b.surfaces[uintptr(w.Native())]
	if !ok {
		return
	}
	xFreePixmap(b.display, s.pixmap)
	xFreeGC(b.display, s.gc)
	xDestroyWindow(b.display, s.window)
	delete(b.surfaces, s.window)
	w.SetNative(0)
	xFlush(b.display)
}

func (b *x11Backend) ShowWindow(w *toolkit.Window) {
	if s, ok := b.surfaces[uintptr(w.Native())]; ok {
		xMapWindow(b.display, s.window)
		xFlush(b.display)
	}
}

func (b *x11Backend) HideWindow(w *toolkit.Window) {
	if s, ok := b.surfaces[uintptr(w.Native())]; ok {
		xUnmapWindow(b.display, s.window)
		xFlush(b.display)
	}
}

func (b *x11Backend) SetWindowTitle(w *toolkit.Window, title string) {
	s, ok := b.surfaces[uintptr(w.Native())]
	if !ok {
		return
	}
	xStoreName(b.display, s.window, cString(title))
	if b.hints != nil {
		xSync(b.display, 0)
		if err := b.hints.setName(s.window, title); err != nil {
			b.log.Warn("failed to set window name", "call", "ewmh.WmNameSet", "err", err)
		}
	}
	xFlush(b.display)
}

func (b *x11Backend) CreateWidget(wd *toolkit.Widget) error {
	parent, ok := b.surfaces[uintptr(wd.Window().Native())]
	if !ok {
		return toolkit.ErrNotRealized
	}
	switch wd.Kind() {
	case toolkit.Button, toolkit.Label, toolkit.TextField:
	default:
		return fmt.Errorf("%s: %w", wd.Kind(), toolkit.ErrUnsupportedWidget)
	}

	r := wd.Rect()
	var swa xSetWindowAttributes
	swa.BackgroundPixel = b.controlBackground(wd)
	swa.EventMask = exposureMask | buttonPressMask | buttonReleaseMask

	child := xCreateWindow(
		b.display, parent.window,
		int32(r.X), int32(r.Y),
		extent(r.Width), extent(r.Height),
		0,
		0,
		inputOutput,
		0,
		cwBackPixel|cwEventMask,
		unsafe.Pointer(&swa),
	)
	if child == 0 {
		return errors.New("XCreateWindow failed")
	}
	b.controls[child] = &x11Control{window: child, parent: parent}
	if wd.Visible() {
		xMapWindow(b.display, child)
	}
	wd.SetNative(toolkit.NativeHandle(child))
	xFlush(b.display)
	return nil
}

func (b *x11Backend) DestroyWidget(wd *toolkit.Widget) {
	c, ok := b.controls[uintptr(wd.Native())]
	if !ok {
		return
	}
	if b.focus == wd {
		b.focus = nil
	}
	xDestroyWindow(b.display, c.window)
	delete(b.controls, c.window)
	wd.SetNative(0)
	xFlush(b.display)
}

func (b *x11Backend) UpdateWidget(wd *toolkit.Widget) {
	c, ok := b.controls[uintptr(wd.Native())]
	if !ok {
		return
	}
	r := wd.Rect()
	xMoveResizeWindow(b.display, c.window, int32(r.X), int32(r.Y), extent(r.Width), extent(r.Height))
	xSetWindowBackground(b.display, c.window, b.controlBackground(wd))
	if wd.Visible() {
		xMapWindow(b.display, c.window)
		xClearWindow(b.display, c.window)
		b.drawControl(wd, c)
	} else {
		xUnmapWindow(b.display, c.window)
	}
	xFlush(b.display)
}

// controlBackground is the pixel the server clears a control to. Transparent
// controls take the window background.
func (b *x11Backend) controlBackground(wd *toolkit.Widget) uint64 {
	if bg := wd.Background(); bg.Opaque() {
		return pixel(bg)
	}
	return pixel(b.opts.Background)
}

func (b *x11Backend) drawControl(wd *toolkit.Widget, c *x11Control) {
	r := wd.Rect()
	gc := c.parent.gc
	w, h := extent(r.Width), extent(r.Height)

	if bg := wd.Background(); bg.Opaque() || wd.Kind() != toolkit.Label {
		xSetForeground(b.display, gc, b.controlBackground(wd))
		xFillRectangle(b.display, c.window, gc, 0, 0, w, h)
	}

	fg := pixel(wd.Foreground())
	if !wd.Enabled() {
		fg = disabledPixel
	}
	xSetForeground(b.display, gc, fg)
	if wd.Kind() != toolkit.Label && w > 1 && h > 1 {
		xDrawRectangle(b.display, c.window, gc, 0, 0, w-1, h-1)
	}

	text := wd.Text()
	if text == "" {
		return
	}
	baseline := (int32(r.Height) + b.font.Ascent - b.font.Descent) / 2
	x := int32(4)
	switch wd.Kind() {
	case toolkit.Button:
		x = (int32(r.Width) - xTextWidth(b.font, cString(text), int32(len(text)))) / 2
	case toolkit.Label:
		x = 2
	}
	xDrawString(b.display, c.window, gc, x, baseline, cString(text), int32(len(text)))
}

func (b *x11Backend) clearPixmap(s *x11Surface) {
	xSetForeground(b.display, s.gc, pixel(b.opts.Background))
	xFillRectangle(b.display, s.pixmap, s.gc, 0, 0, extent(s.width), extent(s.height))
}

func (b *x11Backend) RenderWindow(w *toolkit.Window) {
	s, ok := b.surfaces[uintptr(w.Native())]
	if !ok {
		return
	}
	b.clearPixmap(s)
	xCopyArea(b.display, s.pixmap, s.window, s.gc, 0, 0, extent(s.width), extent(s.height), 0, 0)
	xFlush(b.display)
}

func (b *x11Backend) PostQuit() {
	if b.display == 0 {
		return
	}
	if b.hints != nil {
		err := b.hints.postQuit(b.msgWindow)
		if err == nil {
			return
		}
		b.log.Warn("failed to post quit message", "call", "xproto.SendEvent", "err", err)
	}

	var ev xEvent
	cm := ev.client()
	cm.Type = clientMessage
	cm.Window = b.msgWindow
	cm.MessageType = b.quitAtom
	cm.Format = 32
	if xSendEvent(b.display, b.msgWindow, 0, 0, unsafe.Pointer(&ev[0])) == 0 {
		b.log.Error("failed to post quit message", "call", "XSendEvent")
		return
	}
	xFlush(b.display)
}

// ProcessEvents drains the Xlib queue. A quit message is remembered and the
// drain continues.
func (b *x11Backend) ProcessEvents() bool {
	if b.display == 0 {
		return false
	}
	running := true
	for xPending(b.display) > 0 {
		var ev xEvent
		xNextEvent(b.display, unsafe.Pointer(&ev[0]))
		if !b.handleEvent(&ev) {
			running = false
		}
	}
	return running
}

// resolve maps an X window to its portable window and, for widget children,
// the widget. Child coordinates are translated by the returned offset.
func (b *x11Backend) resolve(win uintptr) (*toolkit.Window, *toolkit.Widget, toolkit.Point) {
	h := toolkit.NativeHandle(win)
	if _, ok := b.surfaces[win]; ok {
		return b.ctx.WindowByNative(h), nil, toolkit.Point{}
	}
	if _, ok := b.controls[win]; ok {
		if wd := b.ctx.WidgetByNative(h); wd != nil {
			return wd.Window(), wd, wd.Rect().Origin()
		}
	}
	return nil, nil, toolkit.Point{}
}

func mouseButton(n uint32) (toolkit.MouseButton, bool) {
	switch n {
	case button1:
		return toolkit.ButtonLeft, true
	case button2:
		return toolkit.ButtonMiddle, true
	case button3:
		return toolkit.ButtonRight, true
	}
	return 0, false
}

func (b *x11Backend) handleEvent(ev *xEvent) bool {
	switch ev.kind() {
	case clientMessage:
		cm := ev.client()
		if cm.Window == b.msgWindow && cm.MessageType == b.quitAtom {
			return false
		}
		if cm.Format == 32 && cm.Data[0] == uint64(b.wmDelete) {
			if w, _, _ := b.resolve(cm.Window); w != nil {
				b.ctx.Close(w)
			}
		}

	case configureNotify:
		ce := ev.configure()
		s, ok := b.surfaces[ce.Window]
		if !ok {
			return true
		}
		width, height := int(ce.Width), int(ce.Height)
		if width != s.width || height != s.height {
			pm := xCreatePixmap(b.display, s.window, extent(width), extent(height), uint32(b.depth))
			if pm == 0 {
				b.log.Error("failed to recreate back buffer", "call", "XCreatePixmap", "width", width, "height", height)
			} else {
				xFreePixmap(b.display, s.pixmap)
				s.pixmap = pm
				s.width, s.height = width, height
				b.clearPixmap(s)
			}
		}
		if w, _, _ := b.resolve(ce.Window); w != nil {
			b.ctx.Resize(w, width, height)
		}

	case expose:
		win := ev.anyEvent().Window
		w, wd, _ := b.resolve(win)
		switch {
		case wd != nil:
			b.drawControl(wd, b.controls[win])
		case w != nil:
			w.Invalidate()
		}

	case motionNotify:
		me := ev.motion()
		if w, _, off := b.resolve(me.Window); w != nil {
			b.ctx.PointerMoved(w, int(me.X)+off.X, int(me.Y)+off.Y)
		}

	case buttonPress, buttonRelease:
		be := ev.button()
		button, ok := mouseButton(be.Button)
		if !ok {
			return true
		}
		w, wd, off := b.resolve(be.Window)
		if w == nil {
			return true
		}
		pressed := ev.kind() == buttonPress
		if pressed && button == toolkit.ButtonLeft {
			b.focus = wd
			if wd != nil {
				b.ctx.Activate(wd)
			}
		}
		b.ctx.Dispatch(w, buttonEvent(button, pressed, int(be.X)+off.X, int(be.Y)+off.Y))

	case keyPress, keyRelease:
		ke := ev.key()
		w, _, _ := b.resolve(ke.Window)
		if w == nil {
			return true
		}
		pressed := ev.kind() == keyPress
		sym := xLookupKeysym(unsafe.Pointer(ke), 0)
		b.ctx.Dispatch(w, keyEvent(int(sym), pressed,
			ke.State&controlMask != 0, ke.State&shiftMask != 0, ke.State&mod1Mask != 0))
		if pressed {
			b.typeInto(w, ke, sym)
		}
	}
	return true
}

// typeInto feeds a key press to the focused text field of w.
func (b *x11Backend) typeInto(w *toolkit.Window, ke *xKeyEvent, sym uint64) {
	wd := b.focus
	if wd == nil || wd.Kind() != toolkit.TextField || wd.Window() != w || !wd.Enabled() {
		return
	}
	c, ok := b.controls[uintptr(wd.Native())]
	if !ok {
		return
	}

	var buf [32]byte
	var keysym uint64
	n := xLookupString(unsafe.Pointer(ke), &buf[0], int32(len(buf)), &keysym, nil)
	text := editText(wd.Text(), buf[:max(n, 0)], sym == xkBackSpace)
	if text == wd.Text() {
		return
	}
	b.ctx.NativeTextChanged(wd, text)
	xClearWindow(b.display, c.window)
	b.drawControl(wd, c)
	xFlush(b.display)
}
