//go:build windows

package window

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/tinyrange/lightgui/internal/toolkit"
)

const (
	nativeName = "win32"

	csHRedraw = 0x0002
	csVRedraw = 0x0001

	wsOverlappedWindow = 0x00CF0000
	wsThickFrame       = 0x00040000
	wsMaximizeBox      = 0x00010000
	wsClipChildren     = 0x02000000
	wsChild            = 0x40000000
	wsVisible          = 0x10000000
	wsDisabled         = 0x08000000
	wsBorder           = 0x00800000
	esAutoHScroll      = 0x0080

	swShow = 5
	swHide = 0

	swpNoZOrder = 0x0004

	wmDestroy        = 0x0002
	wmSize           = 0x0005
	wmPaint          = 0x000F
	wmClose          = 0x0010
	wmQuit           = 0x0012
	wmEraseBkgnd     = 0x0014
	wmSetFont        = 0x0030
	wmKeyDown        = 0x0100
	wmKeyUp          = 0x0101
	wmSysKeyDown     = 0x0104
	wmSysKeyUp       = 0x0105
	wmCommand        = 0x0111
	wmCtlColorEdit   = 0x0133
	wmCtlColorBtn    = 0x0135
	wmCtlColorStatic = 0x0138
	wmMouseMove      = 0x0200
	wmLButtonDown    = 0x0201
	wmLButtonUp      = 0x0202
	wmRButtonDown    = 0x0204
	wmRButtonUp      = 0x0205
	wmMButtonDown    = 0x0207
	wmMButtonUp      = 0x0208

	bnClicked = 0
	enChange  = 0x0300

	sizeMinimized = 1
	pmRemove      = 0x0001
	cwUseDefault  = 0x80000000
	srcCopy       = 0x00CC0020
	transparent   = 1
	hollowBrush   = 5
	defaultGUI    = 17

	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12

	iccStandardClasses = 0x4000

	errorClassAlreadyExists = 1410
)

var (
	// Make the class name unique per-process.
	windowClassName = fmt.Sprintf("LightGUIWindow_%d", os.Getpid())
	windowClass     = windows.StringToUTF16Ptr(windowClassName)

	wndProcCallback uintptr

	// current receives window procedure calls. A process has one context.
	current *winBackend
)

type winSurface struct {
	hwnd   windows.Handle
	hdc    windows.Handle
	memDC  windows.Handle
	bitmap windows.Handle
	old    uintptr
	width  int
	height int
}

type winControl struct {
	hwnd  windows.Handle
	brush windows.Handle
}

type winBackend struct {
	opts Options
	ctx  *toolkit.Context
	log  *slog.Logger

	instance windows.Handle
	bgBrush  windows.Handle

	surfaces map[windows.Handle]*winSurface
	controls map[windows.Handle]*winControl
}

func newNative(opts Options) (toolkit.Backend, error) {
	return &winBackend{opts: opts}, nil
}

func (b *winBackend) Name() string { return nativeName }

func (b *winBackend) Initialize(ctx *toolkit.Context) error {
	if current != nil {
		return errors.New("win32 backend already initialized")
	}
	runtime.LockOSThread()
	if err := validateProcs(); err != nil {
		runtime.UnlockOSThread()
		return err
	}

	icc := initCommonControlsEx{
		dwSize: uint32(unsafe.Sizeof(initCommonControlsEx{})),
		dwICC:  iccStandardClasses,
	}
	procInitCommonControlsEx.Call(uintptr(unsafe.Pointer(&icc)))

	b.instance = moduleHandle()
	if err := registerWindowClass(b.instance); err != nil {
		runtime.UnlockOSThread()
		return err
	}

	clearLastError()
	brush, _, _ := procCreateSolidBrush.Call(uintptr(colorRef(b.opts.Background)))
	if brush == 0 {
		runtime.UnlockOSThread()
		return winErr("CreateSolidBrush")
	}

	b.ctx = ctx
	b.log = ctx.Logger()
	b.bgBrush = windows.Handle(brush)
	b.surfaces = make(map[windows.Handle]*winSurface)
	b.controls = make(map[windows.Handle]*winControl)
	current = b
	return nil
}

// Terminate discards whatever is still queued, including the quit posted
// when the last window went away. The window class stays registered.
func (b *winBackend) Terminate() {
	if current != b {
		return
	}
	var m msg
	for {
		ret, _, _ := procPeekMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
		if ret == 0 {
			break
		}
	}
	procDeleteObject.Call(uintptr(b.bgBrush))
	b.bgBrush = 0
	b.surfaces = nil
	b.controls = nil
	b.ctx = nil
	current = nil
	runtime.UnlockOSThread()
}

func registerWindowClass(instance windows.Handle) error {
	if wndProcCallback == 0 {
		wndProcCallback = windows.NewCallback(wndProc)
	}
	wc := wndClassEx{
		cbSize:        uint32(unsafe.Sizeof(wndClassEx{})),
		style:         csHRedraw | csVRedraw,
		lpfnWndProc:   wndProcCallback,
		hInstance:     instance,
		hCursor:       loadCursor(),
		lpszClassName: windowClass,
	}

	clearLastError()
	ret, _, err := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc)))
	if ret == 0 {
		// A previous Initialize in this process already registered it.
		if errno, ok := err.(windows.Errno); ok && int(errno) == errorClassAlreadyExists {
			return nil
		}
		return winErr("RegisterClassExW")
	}
	return nil
}

func windowStyle(resizable bool) uint32 {
	style := uint32(wsOverlappedWindow | wsClipChildren)
	if !resizable {
		style &^= wsThickFrame | wsMaximizeBox
	}
	return style
}

func (b *winBackend) CreateWindow(w *toolkit.Window) error {
	if current != b {
		return errors.New("backend not initialized")
	}
	width, height := w.Size()
	style := windowStyle(w.Resizable())

	// Size the frame so the client area matches the request.
	r := rect{right: int32(width), bottom: int32(height)}
	procAdjustWindowRect.Call(uintptr(unsafe.Pointer(&r)), uintptr(style), 0)

	title, err := windows.UTF16PtrFromString(w.Title())
	if err != nil {
		return fmt.Errorf("window title: %w", err)
	}

	clearLastError()
	ret, _, _ := procCreateWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(windowClass)),
		uintptr(unsafe.Pointer(title)),
		uintptr(style),
		cwUseDefault,
		cwUseDefault,
		uintptr(r.right-r.left),
		uintptr(r.bottom-r.top),
		0,
		0,
		uintptr(b.instance),
		0,
	)
	hwnd := windows.Handle(ret)
	if hwnd == 0 {
		return winErr("CreateWindowExW")
	}

	clearLastError()
	dc, _, _ := procGetDC.Call(uintptr(hwnd))
	if dc == 0 {
		err := winErr("GetDC")
		procDestroyWindow.Call(uintptr(hwnd))
		return err
	}

	s := &winSurface{hwnd: hwnd, hdc: windows.Handle(dc), width: width, height: height}
	if err := b.createBuffer(s); err != nil {
		procReleaseDC.Call(uintptr(hwnd), dc)
		procDestroyWindow.Call(uintptr(hwnd))
		return err
	}

	b.surfaces[hwnd] = s
	w.SetNative(toolkit.NativeHandle(hwnd))
	return nil
}

// createBuffer creates the memory DC and bitmap of s and clears them.
func (b *winBackend) createBuffer(s *winSurface) error {
	clearLastError()
	mem, _, _ := procCreateCompatibleDC.Call(uintptr(s.hdc))
	if mem == 0 {
		return winErr("CreateCompatibleDC")
	}

	clearLastError()
	bmp, _, _ := procCreateCompatibleBitmap.Call(uintptr(s.hdc), uintptr(extent(s.width)), uintptr(extent(s.height)))
	if bmp == 0 {
		err := winErr("CreateCompatibleBitmap")
		procDeleteDC.Call(mem)
		return err
	}

	s.memDC = windows.Handle(mem)
	s.bitmap = windows.Handle(bmp)
	s.old, _, _ = procSelectObject.Call(mem, bmp)
	b.clearBuffer(s)
	return nil
}

func (b *winBackend) releaseBuffer(s *winSurface) {
	if s.memDC == 0 {
		return
	}
	procSelectObject.Call(uintptr(s.memDC), s.old)
	procDeleteObject.Call(uintptr(s.bitmap))
	procDeleteDC.Call(uintptr(s.memDC))
	s.memDC, s.bitmap, s.old = 0, 0, 0
}

func (b *winBackend) clearBuffer(s *winSurface) {
	r := rect{right: int32(s.width), bottom: int32(s.height)}
	procFillRect.Call(uintptr(s.memDC), uintptr(unsafe.Pointer(&r)), uintptr(b.bgBrush))
}

// DestroyWindow releases the bitmap and memory DC, then the window DC, then
// the window.
func (b *winBackend) DestroyWindow(w *toolkit.Window) {
	s, ok := b.surfaces[windows.Handle(w.Native())]
	if !ok {
		return
	}
	b.releaseBuffer(s)
	procReleaseDC.Call(uintptr(s.hwnd), uintptr(s.hdc))
	procDestroyWindow.Call(uintptr(s.hwnd))
	delete(b.surfaces, s.hwnd)
	w.SetNative(0)
}

func (b *winBackend) ShowWindow(w *toolkit.Window) {
	if s, ok := b.surfaces[windows.Handle(w.Native())]; ok {
		procShowWindow.Call(uintptr(s.hwnd), swShow)
	}
}

func (b *winBackend) HideWindow(w *toolkit.Window) {
	if s, ok := b.surfaces[windows.Handle(w.Native())]; ok {
		procShowWindow.Call(uintptr(s.hwnd), swHide)
	}
}

func (b *winBackend) SetWindowTitle(w *toolkit.Window, title string) {
	s, ok := b.surfaces[windows.Handle(w.Native())]
	if !ok {
		return
	}
	setText(s.hwnd, title)
}

func setText(hwnd windows.Handle, text string) {
	p, err := windows.UTF16PtrFromString(text)
	if err != nil {
		return
	}
	procSetWindowText.Call(uintptr(hwnd), uintptr(unsafe.Pointer(p)))
}

func getText(hwnd windows.Handle) string {
	n, _, _ := procGetWindowTextLength.Call(uintptr(hwnd))
	buf := make([]uint16, n+1)
	procGetWindowText.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

func controlClass(kind toolkit.WidgetKind) (class string, style uint32, ok bool) {
	switch kind {
	case toolkit.Button:
		return "BUTTON", 0, true
	case toolkit.Label:
		return "STATIC", 0, true
	case toolkit.TextField:
		return "EDIT", wsBorder | esAutoHScroll, true
	}
	return "", 0, false
}

func (b *winBackend) CreateWidget(wd *toolkit.Widget) error {
	parent, ok := b.surfaces[windows.Handle(wd.Window().Native())]
	if !ok {
		return toolkit.ErrNotRealized
	}
	class, style, ok := controlClass(wd.Kind())
	if !ok {
		return fmt.Errorf("%s: %w", wd.Kind(), toolkit.ErrUnsupportedWidget)
	}
	style |= wsChild
	if wd.Visible() {
		style |= wsVisible
	}
	if !wd.Enabled() {
		style |= wsDisabled
	}

	classPtr := windows.StringToUTF16Ptr(class)
	text, err := windows.UTF16PtrFromString(wd.Text())
	if err != nil {
		return fmt.Errorf("widget text: %w", err)
	}
	r := wd.Rect()

	clearLastError()
	ret, _, _ := procCreateWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(classPtr)),
		uintptr(unsafe.Pointer(text)),
		uintptr(style),
		uintptr(r.X),
		uintptr(r.Y),
		uintptr(r.Width),
		uintptr(r.Height),
		uintptr(parent.hwnd),
		uintptr(wd.ID()),
		uintptr(b.instance),
		0,
	)
	hwnd := windows.Handle(ret)
	if hwnd == 0 {
		return winErr("CreateWindowExW")
	}

	font, _, _ := procGetStockObject.Call(defaultGUI)
	procSendMessage.Call(uintptr(hwnd), wmSetFont, font, 1)

	c := &winControl{hwnd: hwnd}
	b.syncBrush(c, wd)
	b.controls[hwnd] = c
	wd.SetNative(toolkit.NativeHandle(hwnd))
	return nil
}

// syncBrush replaces the background brush of c. Transparent backgrounds have
// no brush.
func (b *winBackend) syncBrush(c *winControl, wd *toolkit.Widget) {
	if c.brush != 0 {
		procDeleteObject.Call(uintptr(c.brush))
		c.brush = 0
	}
	if bg := wd.Background(); bg.Opaque() {
		brush, _, _ := procCreateSolidBrush.Call(uintptr(colorRef(bg)))
		if brush == 0 {
			b.log.Warn("failed to create widget brush", "call", "CreateSolidBrush", "widget", wd.ID())
		}
		c.brush = windows.Handle(brush)
	}
}

func (b *winBackend) DestroyWidget(wd *toolkit.Widget) {
	c, ok := b.controls[windows.Handle(wd.Native())]
	if !ok {
		return
	}
	procDestroyWindow.Call(uintptr(c.hwnd))
	if c.brush != 0 {
		procDeleteObject.Call(uintptr(c.brush))
	}
	delete(b.controls, c.hwnd)
	wd.SetNative(0)
}

func (b *winBackend) UpdateWidget(wd *toolkit.Widget) {
	c, ok := b.controls[windows.Handle(wd.Native())]
	if !ok {
		return
	}
	if getText(c.hwnd) != wd.Text() {
		setText(c.hwnd, wd.Text())
	}
	r := wd.Rect()
	procSetWindowPos.Call(uintptr(c.hwnd), 0,
		uintptr(r.X), uintptr(r.Y), uintptr(r.Width), uintptr(r.Height), swpNoZOrder)
	show := uintptr(swHide)
	if wd.Visible() {
		show = swShow
	}
	procShowWindow.Call(uintptr(c.hwnd), show)
	enable := uintptr(0)
	if wd.Enabled() {
		enable = 1
	}
	procEnableWindow.Call(uintptr(c.hwnd), enable)
	b.syncBrush(c, wd)
	procInvalidateRect.Call(uintptr(c.hwnd), 0, 1)
}

func (b *winBackend) RenderWindow(w *toolkit.Window) {
	s, ok := b.surfaces[windows.Handle(w.Native())]
	if !ok || s.memDC == 0 {
		return
	}
	b.clearBuffer(s)
	procBitBlt.Call(uintptr(s.hdc), 0, 0, uintptr(s.width), uintptr(s.height),
		uintptr(s.memDC), 0, 0, srcCopy)
}

func (b *winBackend) PostQuit() {
	procPostQuitMessage.Call(0)
}

// ProcessEvents drains the thread queue. WM_QUIT is remembered and the drain
// continues.
func (b *winBackend) ProcessEvents() bool {
	if current != b {
		return false
	}
	quit := false
	var m msg
	for {
		ret, _, _ := procPeekMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
		if ret == 0 {
			break
		}
		if m.message == wmQuit {
			quit = true
			continue
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}
	return !quit
}

func wndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	if b := current; b != nil {
		if ret, handled := b.handleMessage(windows.Handle(hwnd), uint32(message), wParam, lParam); handled {
			return ret
		}
	}
	ret, _, _ := procDefWindowProc.Call(hwnd, message, wParam, lParam)
	return ret
}

func (b *winBackend) handleMessage(hwnd windows.Handle, message uint32, wParam, lParam uintptr) (uintptr, bool) {
	s, ok := b.surfaces[hwnd]
	if !ok {
		return 0, false
	}
	w := b.ctx.WindowByNative(toolkit.NativeHandle(hwnd))

	switch message {
	case wmClose:
		if w != nil {
			b.ctx.Close(w)
		}
		return 0, true

	case wmDestroy:
		if len(b.surfaces) == 1 {
			procPostQuitMessage.Call(0)
		}
		return 0, true

	case wmSize:
		if wParam == sizeMinimized {
			return 0, true
		}
		width, height := int(loword(lParam)), int(hiword(lParam))
		if width != s.width || height != s.height {
			b.releaseBuffer(s)
			s.width, s.height = width, height
			if err := b.createBuffer(s); err != nil {
				b.log.Error("failed to recreate back buffer", "err", err)
			}
		}
		if w != nil {
			b.ctx.Resize(w, width, height)
		}
		return 0, true

	case wmPaint:
		var ps paintStruct
		dc, _, _ := procBeginPaint.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&ps)))
		if s.memDC != 0 {
			procBitBlt.Call(dc, 0, 0, uintptr(s.width), uintptr(s.height), uintptr(s.memDC), 0, 0, srcCopy)
		}
		procEndPaint.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&ps)))
		return 0, true

	case wmEraseBkgnd:
		return 1, true

	case wmMouseMove:
		if w != nil {
			b.ctx.PointerMoved(w, int(int16(loword(lParam))), int(int16(hiword(lParam))))
		}
		return 0, true

	case wmLButtonDown, wmLButtonUp, wmRButtonDown, wmRButtonUp, wmMButtonDown, wmMButtonUp:
		if w != nil {
			button, pressed := winButton(message)
			b.ctx.Dispatch(w, buttonEvent(button, pressed,
				int(int16(loword(lParam))), int(int16(hiword(lParam)))))
		}
		return 0, true

	case wmKeyDown, wmKeyUp, wmSysKeyDown, wmSysKeyUp:
		if w != nil {
			pressed := message == wmKeyDown || message == wmSysKeyDown
			b.ctx.Dispatch(w, keyEvent(int(wParam), pressed,
				keyDown(vkControl), keyDown(vkShift), keyDown(vkMenu)))
		}
		// System keys still drive the window menu and Alt+F4.
		return 0, message == wmKeyDown || message == wmKeyUp

	case wmCommand:
		b.command(windows.Handle(lParam), int(loword(wParam)), hiword(wParam))
		return 0, true

	case wmCtlColorBtn, wmCtlColorStatic, wmCtlColorEdit:
		return b.controlColor(windows.Handle(wParam), windows.Handle(lParam))
	}
	return 0, false
}

func winButton(message uint32) (toolkit.MouseButton, bool) {
	switch message {
	case wmLButtonDown:
		return toolkit.ButtonLeft, true
	case wmLButtonUp:
		return toolkit.ButtonLeft, false
	case wmRButtonDown:
		return toolkit.ButtonRight, true
	case wmRButtonUp:
		return toolkit.ButtonRight, false
	case wmMButtonDown:
		return toolkit.ButtonMiddle, true
	}
	return toolkit.ButtonMiddle, false
}

func (b *winBackend) command(control windows.Handle, id int, code uint16) {
	switch code {
	case bnClicked:
		b.ctx.Activate(b.ctx.WidgetByID(id))
	case enChange:
		wd := b.ctx.WidgetByNative(toolkit.NativeHandle(control))
		if wd == nil || wd.Kind() != toolkit.TextField {
			return
		}
		if text := getText(control); text != wd.Text() {
			b.ctx.NativeTextChanged(wd, text)
		}
	}
}

func (b *winBackend) controlColor(dc, control windows.Handle) (uintptr, bool) {
	c, ok := b.controls[control]
	if !ok {
		return 0, false
	}
	wd := b.ctx.WidgetByNative(toolkit.NativeHandle(control))
	if wd == nil {
		return 0, false
	}
	procSetTextColor.Call(uintptr(dc), uintptr(colorRef(wd.Foreground())))
	if c.brush != 0 {
		procSetBkColor.Call(uintptr(dc), uintptr(colorRef(wd.Background())))
		return uintptr(c.brush), true
	}
	procSetBkMode.Call(uintptr(dc), transparent)
	brush, _, _ := procGetStockObject.Call(hollowBrush)
	return brush, true
}
