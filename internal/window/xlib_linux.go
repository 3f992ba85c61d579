//go:build linux

package window

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

const (
	inputOutput = 1

	keyPressMask        = 1 << 0
	keyReleaseMask      = 1 << 1
	buttonPressMask     = 1 << 2
	buttonReleaseMask   = 1 << 3
	pointerMotionMask   = 1 << 6
	exposureMask        = 1 << 15
	structureNotifyMask = 1 << 17

	cwBackPixel   = 1 << 1
	cwBorderPixel = 1 << 3
	cwEventMask   = 1 << 11

	keyPress        = 2
	keyRelease      = 3
	buttonPress     = 4
	buttonRelease   = 5
	motionNotify    = 6
	expose          = 12
	configureNotify = 22
	clientMessage   = 33

	button1 = 1
	button2 = 2
	button3 = 3

	shiftMask   = 1 << 0
	controlMask = 1 << 2
	mod1Mask    = 1 << 3

	xkBackSpace = 0xff08
)

type xSetWindowAttributes struct {
	BackgroundPixmap uintptr
	BackgroundPixel  uint64
	BorderPixmap     uint64
	BorderPixel      uint64
	BitGravity       int32
	WinGravity       int32
	BackingStore     int32
	BackingPlanes    uint64
	BackingPixel     uint64
	SaveUnder        int32
	EventMask        int64
	DoNotPropagate   int64
	OverrideRedirect int32
	Colormap         uintptr
	Cursor           uintptr
}

// The event structs mirror the LP64 layouts of the XEvent union members.

type xAnyEvent struct {
	Type      int32
	Serial    uint64
	SendEvent int32
	Display   uintptr
	Window    uintptr
}

type xButtonEvent struct {
	Type       int32
	Serial     uint64
	SendEvent  int32
	Display    uintptr
	Window     uintptr
	Root       uintptr
	Subwindow  uintptr
	Time       uint64
	X, Y       int32
	XRoot      int32
	YRoot      int32
	State      uint32
	Button     uint32
	SameScreen int32
}

type xMotionEvent struct {
	Type       int32
	Serial     uint64
	SendEvent  int32
	Display    uintptr
	Window     uintptr
	Root       uintptr
	Subwindow  uintptr
	Time       uint64
	X, Y       int32
	XRoot      int32
	YRoot      int32
	State      uint32
	IsHint     byte
	SameScreen int32
}

type xKeyEvent struct {
	Type       int32
	Serial     uint64
	SendEvent  int32
	Display    uintptr
	Window     uintptr
	Root       uintptr
	Subwindow  uintptr
	Time       uint64
	X, Y       int32
	XRoot      int32
	YRoot      int32
	State      uint32
	Keycode    uint32
	SameScreen int32
}

type xConfigureEvent struct {
	Type             int32
	Serial           uint64
	SendEvent        int32
	Display          uintptr
	Event            uintptr
	Window           uintptr
	X, Y             int32
	Width, Height    int32
	BorderWidth      int32
	Above            uintptr
	OverrideRedirect int32
}

type xClientMessageEvent struct {
	Type        int32
	Serial      uint64
	SendEvent   int32
	Display     uintptr
	Window      uintptr
	MessageType uintptr
	Format      int32
	Data        [5]uint64
}

type xCharStruct struct {
	LBearing   int16
	RBearing   int16
	Width      int16
	Ascent     int16
	Descent    int16
	Attributes uint16
}

type xFontStruct struct {
	ExtData        uintptr
	Fid            uintptr
	Direction      uint32
	MinCharOrByte2 uint32
	MaxCharOrByte2 uint32
	MinByte1       uint32
	MaxByte1       uint32
	AllCharsExist  int32
	DefaultChar    uint32
	NProperties    int32
	Properties     uintptr
	MinBounds      xCharStruct
	MaxBounds      xCharStruct
	PerChar        uintptr
	Ascent         int32
	Descent        int32
}

// xEvent is the XEvent union: 24 longs.
type xEvent [192]byte

func (e *xEvent) kind() int32 { return (*xAnyEvent)(unsafe.Pointer(&e[0])).Type }

func (e *xEvent) anyEvent() *xAnyEvent { return (*xAnyEvent)(unsafe.Pointer(&e[0])) }

func (e *xEvent) button() *xButtonEvent { return (*xButtonEvent)(unsafe.Pointer(&e[0])) }

func (e *xEvent) motion() *xMotionEvent { return (*xMotionEvent)(unsafe.Pointer(&e[0])) }

func (e *xEvent) key() *xKeyEvent { return (*xKeyEvent)(unsafe.Pointer(&e[0])) }

func (e *xEvent) configure() *xConfigureEvent { return (*xConfigureEvent)(unsafe.Pointer(&e[0])) }

func (e *xEvent) client() *xClientMessageEvent {
	return (*xClientMessageEvent)(unsafe.Pointer(&e[0]))
}

var (
	x11lib uintptr

	xOpenDisplay         func(*byte) uintptr
	xCloseDisplay        func(uintptr) int32
	xDefaultScreen       func(uintptr) int32
	xRootWindow          func(uintptr, int32) uintptr
	xDefaultDepth        func(uintptr, int32) int32
	xInternAtom          func(uintptr, *byte, int32) uintptr
	xCreateWindow        func(uintptr, uintptr, int32, int32, uint32, uint32, uint32, int32, uint32, uintptr, uint64, unsafe.Pointer) uintptr
	xDestroyWindow       func(uintptr, uintptr) int32
	xMapWindow           func(uintptr, uintptr) int32
	xUnmapWindow         func(uintptr, uintptr) int32
	xStoreName           func(uintptr, uintptr, *byte) int32
	xSetWMProtocols      func(uintptr, uintptr, *uintptr, int32) int32
	xMoveResizeWindow    func(uintptr, uintptr, int32, int32, uint32, uint32) int32
	xSetWindowBackground func(uintptr, uintptr, uint64) int32
	xClearWindow         func(uintptr, uintptr) int32
	xCreateGC            func(uintptr, uintptr, uint64, unsafe.Pointer) uintptr
	xFreeGC              func(uintptr, uintptr) int32
	xSetForeground       func(uintptr, uintptr, uint64) int32
	xSetFont             func(uintptr, uintptr, uintptr) int32
	xLoadQueryFont       func(uintptr, *byte) *xFontStruct
	xFreeFont            func(uintptr, *xFontStruct) int32
	xTextWidth           func(*xFontStruct, *byte, int32) int32
	xCreatePixmap        func(uintptr, uintptr, uint32, uint32, uint32) uintptr
	xFreePixmap          func(uintptr, uintptr) int32
	xFillRectangle       func(uintptr, uintptr, uintptr, int32, int32, uint32, uint32) int32
	xDrawRectangle       func(uintptr, uintptr, uintptr, int32, int32, uint32, uint32) int32
	xDrawString          func(uintptr, uintptr, uintptr, int32, int32, *byte, int32) int32
	xCopyArea            func(uintptr, uintptr, uintptr, uintptr, int32, int32, uint32, uint32, int32, int32) int32
	xFlush               func(uintptr) int32
	xSync                func(uintptr, int32) int32
	xPending             func(uintptr) int32
	xNextEvent           func(uintptr, unsafe.Pointer) int32
	xSendEvent           func(uintptr, uintptr, int32, int64, unsafe.Pointer) int32
	xLookupKeysym        func(unsafe.Pointer, int32) uint64
	xLookupString        func(unsafe.Pointer, *byte, int32, *uint64, unsafe.Pointer) int32
)

func ensureLibs() error {
	if x11lib != 0 {
		return nil
	}
	lib, err := purego.Dlopen("libX11.so.6", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return err
	}
	x11lib = lib
	registerX11()
	return nil
}

func registerX11() {
	purego.RegisterLibFunc(&xOpenDisplay, x11lib, "XOpenDisplay")
	purego.RegisterLibFunc(&xCloseDisplay, x11lib, "XCloseDisplay")
	purego.RegisterLibFunc(&xDefaultScreen, x11lib, "XDefaultScreen")
	purego.RegisterLibFunc(&xRootWindow, x11lib, "XRootWindow")
	purego.RegisterLibFunc(&xDefaultDepth, x11lib, "XDefaultDepth")
	purego.RegisterLibFunc(&xInternAtom, x11lib, "XInternAtom")
	purego.RegisterLibFunc(&xCreateWindow, x11lib, "XCreateWindow")
	purego.RegisterLibFunc(&xDestroyWindow, x11lib, "XDestroyWindow")
	purego.RegisterLibFunc(&xMapWindow, x11lib, "XMapWindow")
	purego.RegisterLibFunc(&xUnmapWindow, x11lib, "XUnmapWindow")
	purego.RegisterLibFunc(&xStoreName, x11lib, "XStoreName")
	purego.RegisterLibFunc(&xSetWMProtocols, x11lib, "XSetWMProtocols")
	purego.RegisterLibFunc(&xMoveResizeWindow, x11lib, "XMoveResizeWindow")
	purego.RegisterLibFunc(&xSetWindowBackground, x11lib, "XSetWindowBackground")
	purego.RegisterLibFunc(&xClearWindow, x11lib, "XClearWindow")
	purego.RegisterLibFunc(&xCreateGC, x11lib, "XCreateGC")
	purego.RegisterLibFunc(&xFreeGC, x11lib, "XFreeGC")
	purego.RegisterLibFunc(&xSetForeground, x11lib, "XSetForeground")
	purego.RegisterLibFunc(&xSetFont, x11lib, "XSetFont")
	purego.RegisterLibFunc(&xLoadQueryFont, x11lib, "XLoadQueryFont")
	purego.RegisterLibFunc(&xFreeFont, x11lib, "XFreeFont")
	purego.RegisterLibFunc(&xTextWidth, x11lib, "XTextWidth")
	purego.RegisterLibFunc(&xCreatePixmap, x11lib, "XCreatePixmap")
	purego.RegisterLibFunc(&xFreePixmap, x11lib, "XFreePixmap")
	purego.RegisterLibFunc(&xFillRectangle, x11lib, "XFillRectangle")
	purego.RegisterLibFunc(&xDrawRectangle, x11lib, "XDrawRectangle")
	purego.RegisterLibFunc(&xDrawString, x11lib, "XDrawString")
	purego.RegisterLibFunc(&xCopyArea, x11lib, "XCopyArea")
	purego.RegisterLibFunc(&xFlush, x11lib, "XFlush")
	purego.RegisterLibFunc(&xSync, x11lib, "XSync")
	purego.RegisterLibFunc(&xPending, x11lib, "XPending")
	purego.RegisterLibFunc(&xNextEvent, x11lib, "XNextEvent")
	purego.RegisterLibFunc(&xSendEvent, x11lib, "XSendEvent")
	purego.RegisterLibFunc(&xLookupKeysym, x11lib, "XLookupKeysym")
	purego.RegisterLibFunc(&xLookupString, x11lib, "XLookupString")
}

func cString(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}
