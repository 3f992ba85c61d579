// Package headless is a Backend with no operating-system resources. Native
// handles are counters, buffers are in-memory images and the native event
// queue is scripted with Post. Creation steps can be made to fail.
package headless

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/tinyrange/lightgui/internal/toolkit"
)

// Step names a native acquisition that can be made to fail.
type Step string

const (
	StepInitialize Step = "initialize"
	StepWindow     Step = "window"
	StepContext    Step = "context"
	StepBuffer     Step = "buffer"
	StepWidget     Step = "widget"
)

var ErrInjected = errors.New("injected failure")

type MessageKind int

const (
	MsgUnknown MessageKind = iota
	MsgClose
	MsgConfigure
	MsgMotion
	MsgButton
	MsgKey
	// MsgCommand is a control notification; Code holds the control id.
	MsgCommand
	MsgTextEdit
	MsgExpose
	MsgQuit
)

type Modifiers struct {
	Ctrl, Shift, Alt bool
}

// Message is one entry of the simulated native queue. Target is the native
// handle of a window or a widget.
type Message struct {
	Kind   MessageKind
	Target toolkit.NativeHandle

	X, Y          int
	Width, Height int
	Button        toolkit.MouseButton
	Pressed       bool
	Code          int
	Mods          Modifiers
	Text          string
}

// Counts is the number of live native resources of each kind.
type Counts struct {
	Windows  int
	Contexts int
	Buffers  int
	Widgets  int
}

func (c Counts) Zero() bool {
	return c == Counts{}
}

type Stats struct {
	Renders       int
	Blits         int
	WidgetUpdates int
	Drained       int
}

type surface struct {
	title     string
	visible   bool
	resizable bool
	context   toolkit.NativeHandle
	back      *image.RGBA
	front     *image.RGBA
}

// Control is the native-side copy of a widget, as last synchronized.
type Control struct {
	Parent  toolkit.NativeHandle
	Kind    toolkit.WidgetKind
	ID      int
	Rect    toolkit.Rect
	Text    string
	Visible bool
	Enabled bool
	Bg, Fg  toolkit.Color
}

type Option func(*Backend)

func WithBackground(c toolkit.Color) Option {
	return func(b *Backend) { b.background = c }
}

type Backend struct {
	ctx        *toolkit.Context
	background toolkit.Color
	active     bool

	next     toolkit.NativeHandle
	windows  map[toolkit.NativeHandle]*surface
	controls map[toolkit.NativeHandle]*Control
	fail     map[Step]error

	queue []Message
	live  Counts
	stats Stats
}

var _ toolkit.Backend = (*Backend)(nil)

func New(opts ...Option) *Backend {
	b := &Backend{
		background: toolkit.White,
		windows:    make(map[toolkit.NativeHandle]*surface),
		controls:   make(map[toolkit.NativeHandle]*Control),
		fail:       make(map[Step]error),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Name() string { return "headless" }

// Fail makes every following acquisition of step return err (ErrInjected
// when err is nil) until Recover is called.
func (b *Backend) Fail(step Step, err error) {
	if err == nil {
		err = ErrInjected
	}
	b.fail[step] = err
}

func (b *Backend) Recover(step Step) {
	delete(b.fail, step)
}

func (b *Backend) acquire(step Step) error {
	if err, ok := b.fail[step]; ok {
		return fmt.Errorf("%s: %w", step, err)
	}
	return nil
}

func (b *Backend) handle() toolkit.NativeHandle {
	b.next++
	return b.next
}

// Post appends messages to the native queue.
func (b *Backend) Post(msgs ...Message) {
	b.queue = append(b.queue, msgs...)
}

func (b *Backend) Pending() int { return len(b.queue) }

func (b *Backend) Live() Counts { return b.live }

func (b *Backend) Stats() Stats { return b.stats }

// Front returns the visible surface of w, or nil if w is not realized.
func (b *Backend) Front(w *toolkit.Window) *image.RGBA {
	s, ok := b.windows[w.Native()]
	if !ok {
		return nil
	}
	return s.front
}

// Back returns the off-screen buffer of w, or nil if w is not realized.
func (b *Backend) Back(w *toolkit.Window) *image.RGBA {
	s, ok := b.windows[w.Native()]
	if !ok {
		return nil
	}
	return s.back
}

// NativeTitle and NativeVisible expose what the native side was told.
func (b *Backend) NativeTitle(w *toolkit.Window) string {
	if s, ok := b.windows[w.Native()]; ok {
		return s.title
	}
	return ""
}

func (b *Backend) NativeVisible(w *toolkit.Window) bool {
	if s, ok := b.windows[w.Native()]; ok {
		return s.visible
	}
	return false
}

func (b *Backend) Control(wd *toolkit.Widget) (Control, bool) {
	c, ok := b.controls[wd.Native()]
	if !ok {
		return Control{}, false
	}
	return *c, true
}

func (b *Backend) Initialize(ctx *toolkit.Context) error {
	if err := b.acquire(StepInitialize); err != nil {
		return err
	}
	b.ctx = ctx
	b.active = true
	b.queue = nil
	return nil
}

func (b *Backend) Terminate() {
	if !b.active {
		return
	}
	b.active = false
	b.queue = nil
	b.ctx = nil
}

func (b *Backend) newBuffer(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	b.clear(img)
	return img
}

func (b *Backend) clear(img *image.RGBA) {
	bg := color.RGBA{R: b.background.R, G: b.background.G, B: b.background.B, A: 0xff}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
}

func (b *Backend) CreateWindow(w *toolkit.Window) error {
	if !b.active {
		return errors.New("backend not initialized")
	}
	if err := b.acquire(StepWindow); err != nil {
		return err
	}
	win := b.handle()
	b.live.Windows++

	if err := b.acquire(StepContext); err != nil {
		b.live.Windows--
		return err
	}
	ctx := b.handle()
	b.live.Contexts++

	if err := b.acquire(StepBuffer); err != nil {
		b.live.Contexts--
		b.live.Windows--
		return err
	}
	width, height := w.Size()
	back := b.newBuffer(width, height)
	b.live.Buffers++

	b.windows[win] = &surface{
		title:     w.Title(),
		resizable: w.Resizable(),
		context:   ctx,
		back:      back,
		front:     b.newBuffer(width, height),
	}
	w.SetNative(win)
	return nil
}

// DestroyWindow releases the buffer, the drawing context and the window, in
// that order.
func (b *Backend) DestroyWindow(w *toolkit.Window) {
	s, ok := b.windows[w.Native()]
	if !ok {
		return
	}
	s.back = nil
	b.live.Buffers--
	s.context = 0
	b.live.Contexts--
	delete(b.windows, w.Native())
	b.live.Windows--
	w.SetNative(0)
}

func (b *Backend) ShowWindow(w *toolkit.Window) {
	if s, ok := b.windows[w.Native()]; ok {
		s.visible = true
	}
}

func (b *Backend) HideWindow(w *toolkit.Window) {
	if s, ok := b.windows[w.Native()]; ok {
		s.visible = false
	}
}

func (b *Backend) SetWindowTitle(w *toolkit.Window, title string) {
	if s, ok := b.windows[w.Native()]; ok {
		s.title = title
	}
}

func (b *Backend) CreateWidget(wd *toolkit.Widget) error {
	parent := wd.Window().Native()
	if _, ok := b.windows[parent]; !ok {
		return toolkit.ErrNotRealized
	}
	switch wd.Kind() {
	case toolkit.Button, toolkit.Label, toolkit.TextField:
	default:
		return fmt.Errorf("%s: %w", wd.Kind(), toolkit.ErrUnsupportedWidget)
	}
	if err := b.acquire(StepWidget); err != nil {
		return err
	}

	h := b.handle()
	b.controls[h] = &Control{Parent: parent, Kind: wd.Kind(), ID: wd.ID()}
	b.sync(b.controls[h], wd)
	b.live.Widgets++
	wd.SetNative(h)
	return nil
}

func (b *Backend) DestroyWidget(wd *toolkit.Widget) {
	if _, ok := b.controls[wd.Native()]; !ok {
		return
	}
	delete(b.controls, wd.Native())
	b.live.Widgets--
	wd.SetNative(0)
}

func (b *Backend) UpdateWidget(wd *toolkit.Widget) {
	c, ok := b.controls[wd.Native()]
	if !ok {
		return
	}
	b.sync(c, wd)
	b.stats.WidgetUpdates++
}

func (b *Backend) sync(c *Control, wd *toolkit.Widget) {
	c.Rect = wd.Rect()
	c.Text = wd.Text()
	c.Visible = wd.Visible()
	c.Enabled = wd.Enabled()
	c.Bg = wd.Background()
	c.Fg = wd.Foreground()
}

func (b *Backend) PostQuit() {
	b.Post(Message{Kind: MsgQuit})
}

// ProcessEvents drains the queue, including messages posted while draining.
func (b *Backend) ProcessEvents() bool {
	if !b.active {
		return false
	}
	quit := false
	for len(b.queue) > 0 {
		msg := b.queue[0]
		b.queue = b.queue[1:]
		b.stats.Drained++
		if msg.Kind == MsgQuit {
			quit = true
			continue
		}
		b.handleMessage(msg)
	}
	return !quit
}

// resolve maps a target to its window and, for controls, its widget.
func (b *Backend) resolve(h toolkit.NativeHandle) (*toolkit.Window, *toolkit.Widget) {
	if w := b.ctx.WindowByNative(h); w != nil {
		return w, nil
	}
	if wd := b.ctx.WidgetByNative(h); wd != nil {
		return wd.Window(), wd
	}
	return nil, nil
}

func (b *Backend) handleMessage(msg Message) {
	if msg.Kind == MsgCommand {
		b.ctx.Activate(b.ctx.WidgetByID(msg.Code))
		return
	}

	w, wd := b.resolve(msg.Target)
	if w == nil {
		return
	}

	switch msg.Kind {
	case MsgClose:
		b.ctx.Close(w)
	case MsgConfigure:
		if wd != nil {
			return
		}
		if s, ok := b.windows[w.Native()]; ok {
			s.back = b.newBuffer(msg.Width, msg.Height)
			s.front = b.newBuffer(msg.Width, msg.Height)
		}
		b.ctx.Resize(w, msg.Width, msg.Height)
	case MsgMotion:
		b.ctx.PointerMoved(w, msg.X, msg.Y)
	case MsgButton:
		if wd != nil && msg.Pressed && msg.Button == toolkit.ButtonLeft {
			b.ctx.Activate(wd)
		}
		b.ctx.Dispatch(w, toolkit.Event{
			Kind: toolkit.PointerButton,
			Button: toolkit.ButtonEvent{
				Button:  msg.Button,
				Pressed: msg.Pressed,
				X:       msg.X,
				Y:       msg.Y,
			},
		})
	case MsgKey:
		b.ctx.Dispatch(w, toolkit.Event{
			Kind: toolkit.Key,
			Key: toolkit.KeyEvent{
				Code:    msg.Code,
				Pressed: msg.Pressed,
				Ctrl:    msg.Mods.Ctrl,
				Shift:   msg.Mods.Shift,
				Alt:     msg.Mods.Alt,
			},
		})
	case MsgTextEdit:
		if wd == nil || wd.Kind() != toolkit.TextField {
			return
		}
		b.controls[wd.Native()].Text = msg.Text
		b.ctx.NativeTextChanged(wd, msg.Text)
	case MsgExpose:
		w.Invalidate()
	}
}

// RenderWindow clears the back buffer and copies it to the front buffer.
func (b *Backend) RenderWindow(w *toolkit.Window) {
	s, ok := b.windows[w.Native()]
	if !ok {
		return
	}
	b.clear(s.back)
	b.stats.Renders++
	draw.Draw(s.front, s.front.Bounds(), s.back, image.Point{}, draw.Src)
	b.stats.Blits++
}
