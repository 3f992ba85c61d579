package toolkit_test

import (
	"testing"
	"time"

	"github.com/tinyrange/lightgui/internal/toolkit"
	"github.com/tinyrange/lightgui/internal/window/headless"
)

type recorder struct {
	events []toolkit.Event
}

func (r *recorder) HandleEvent(ev toolkit.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []toolkit.EventKind {
	var out []toolkit.EventKind
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func sinkFor(ctx *toolkit.Context, w *toolkit.Window) *recorder {
	r := &recorder{}
	ctx.SetWindowEventCallback(w, r)
	return r
}

func TestEventMapping(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "w")
	btn, _ := ctx.CreateButton(w, "OK", 10, 20, 80, 30)
	rec := sinkFor(ctx, w)

	b.Post(
		headless.Message{Kind: headless.MsgClose, Target: w.Native()},
		headless.Message{Kind: headless.MsgConfigure, Target: w.Native(), Width: 640, Height: 480},
		headless.Message{Kind: headless.MsgButton, Target: w.Native(), Button: toolkit.ButtonRight, Pressed: true, X: 5, Y: 6},
		headless.Message{Kind: headless.MsgKey, Target: w.Native(), Code: 0x41, Pressed: true, Mods: headless.Modifiers{Ctrl: true, Alt: true}},
		headless.Message{Kind: headless.MsgCommand, Code: btn.ID()},
		headless.Message{Kind: headless.MsgUnknown, Target: w.Native()},
	)
	if !ctx.ProcessEvents() {
		t.Fatalf("unexpected quit")
	}

	want := []toolkit.EventKind{
		toolkit.WindowClose,
		toolkit.WindowResize,
		toolkit.PointerButton,
		toolkit.Key,
		toolkit.WidgetActivated,
	}
	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("got events %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %v, want %v", i, got[i], want[i])
		}
	}

	for i, ev := range rec.events {
		if ev.Window != w {
			t.Fatalf("event %d (%v) has window %p, want %p", i, ev.Kind, ev.Window, w)
		}
	}

	if r := rec.events[1].Resize; r.Width != 640 || r.Height != 480 {
		t.Fatalf("resize payload %+v", r)
	}
	if width, height := w.Size(); width != 640 || height != 480 {
		t.Fatalf("window size not updated: %dx%d", width, height)
	}
	if !w.Dirty() {
		t.Fatalf("resize did not mark window dirty")
	}

	if bt := rec.events[2].Button; bt.Button != toolkit.ButtonRight || !bt.Pressed {
		t.Fatalf("button payload %+v", bt)
	}

	k := rec.events[3].Key
	if k.Code != 0x41 || !k.Pressed || !k.Ctrl || k.Shift || !k.Alt {
		t.Fatalf("key payload %+v", k)
	}

	a := rec.events[4].Activation
	if a.Widget != btn || a.X != 10 || a.Y != 20 {
		t.Fatalf("activation payload %+v", a)
	}
}

func TestActivationOnlyForButtons(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "w")
	lbl, _ := ctx.CreateLabel(w, "L", 0, 0, 10, 10)
	rec := sinkFor(ctx, w)

	b.Post(
		headless.Message{Kind: headless.MsgCommand, Code: lbl.ID()},
		headless.Message{Kind: headless.MsgButton, Target: lbl.Native(), Button: toolkit.ButtonLeft, Pressed: true},
	)
	ctx.ProcessEvents()

	for _, ev := range rec.events {
		if ev.Kind == toolkit.WidgetActivated {
			t.Fatalf("label produced an activation")
		}
	}
	if len(rec.events) != 1 || rec.events[0].Kind != toolkit.PointerButton {
		t.Fatalf("events %v", rec.kinds())
	}
}

func TestPointerDeltaSharedAcrossWindows(t *testing.T) {
	ctx, b := newContext(t)
	w1 := mustWindow(t, ctx, "one")
	w2 := mustWindow(t, ctx, "two")
	r1 := sinkFor(ctx, w1)
	r2 := sinkFor(ctx, w2)

	b.Post(
		headless.Message{Kind: headless.MsgMotion, Target: w1.Native(), X: 10, Y: 5},
		headless.Message{Kind: headless.MsgMotion, Target: w1.Native(), X: 15, Y: 7},
		headless.Message{Kind: headless.MsgMotion, Target: w2.Native(), X: 3, Y: 3},
	)
	ctx.ProcessEvents()

	if len(r1.events) != 2 || len(r2.events) != 1 {
		t.Fatalf("got %d/%d events", len(r1.events), len(r2.events))
	}
	tests := []struct {
		got    toolkit.PointerEvent
		dx, dy int
	}{
		{r1.events[0].Pointer, 10, 5},
		{r1.events[1].Pointer, 5, 2},
		{r2.events[0].Pointer, -12, -4},
	}
	for i, tt := range tests {
		if tt.got.DX != tt.dx || tt.got.DY != tt.dy {
			t.Errorf("move %d: delta (%d,%d), want (%d,%d)", i, tt.got.DX, tt.got.DY, tt.dx, tt.dy)
		}
	}
}

func TestResizeToSameSizeIgnored(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "w")
	rec := sinkFor(ctx, w)
	ctx.RenderWindow(w)

	b.Post(headless.Message{Kind: headless.MsgConfigure, Target: w.Native(), Width: 400, Height: 300})
	ctx.ProcessEvents()

	if len(rec.events) != 0 {
		t.Fatalf("unexpected events %v", rec.kinds())
	}
	if w.Dirty() {
		t.Fatalf("window dirtied by a no-op configure")
	}
}

func TestSinkReplacement(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "w")
	first := sinkFor(ctx, w)
	second := sinkFor(ctx, w)

	b.Post(headless.Message{Kind: headless.MsgClose, Target: w.Native()})
	ctx.ProcessEvents()

	if len(first.events) != 0 || len(second.events) != 1 {
		t.Fatalf("first got %d, second got %d", len(first.events), len(second.events))
	}
}

func TestDispatchOutsidePumpIsDropped(t *testing.T) {
	ctx, _ := newContext(t)
	w := mustWindow(t, ctx, "w")
	rec := sinkFor(ctx, w)

	ctx.Resize(w, 10, 10)

	if len(rec.events) != 0 {
		t.Fatalf("event delivered outside ProcessEvents")
	}
	if width, _ := w.Size(); width != 10 {
		t.Fatalf("size not applied")
	}
}

func TestTextEditSyncsWidget(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "w")
	field, _ := ctx.CreateTextField(w, "", 0, 0, 100, 20)

	b.Post(headless.Message{Kind: headless.MsgTextEdit, Target: field.Native(), Text: "typed"})
	ctx.ProcessEvents()

	if field.Text() != "typed" {
		t.Fatalf("text %q", field.Text())
	}
	if n := b.Stats().WidgetUpdates; n != 0 {
		t.Fatalf("native edit triggered %d resyncs", n)
	}
}

func TestQuitObservedOnce(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "w")
	rec := sinkFor(ctx, w)

	b.Post(headless.Message{Kind: headless.MsgClose, Target: w.Native()})
	ctx.Quit()
	b.Post(headless.Message{Kind: headless.MsgClose, Target: w.Native()})

	if ctx.ProcessEvents() {
		t.Fatalf("quit not observed")
	}
	if len(rec.events) != 2 {
		t.Fatalf("drain stopped early: %d events", len(rec.events))
	}
	if b.Pending() != 0 {
		t.Fatalf("queue not drained")
	}
	if !ctx.ProcessEvents() {
		t.Fatalf("quit reported twice")
	}
}

func TestRenderOnlyWhenDirty(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "w")

	if !w.Dirty() {
		t.Fatalf("new window should start dirty")
	}
	ctx.RenderWindow(w)
	ctx.RenderWindow(w)
	if n := b.Stats().Blits; n != 1 {
		t.Fatalf("expected 1 blit, got %d", n)
	}
	if w.Dirty() {
		t.Fatalf("dirty flag not cleared")
	}

	b.Post(headless.Message{Kind: headless.MsgExpose, Target: w.Native()})
	ctx.ProcessEvents()
	ctx.RenderWindow(w)
	if n := b.Stats().Blits; n != 2 {
		t.Fatalf("expected 2 blits after expose, got %d", n)
	}

	hidden := mustWindow(t, ctx, "hidden")
	ctx.HideWindow(hidden)
	ctx.RenderWindow(hidden)
	if n := b.Stats().Blits; n != 3 {
		t.Fatalf("hidden window not rendered")
	}

	ctx.RenderWindow(nil)
}

func TestRenderBlitsBackground(t *testing.T) {
	b := headless.New(headless.WithBackground(toolkit.CreateColor(10, 20, 30, 255)))
	ctx, err := toolkit.Initialize(b)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer ctx.Terminate()

	w, err := ctx.CreateWindow("w", 4, 4, true)
	if err != nil {
		t.Fatalf("create window: %v", err)
	}
	ctx.RenderWindow(w)

	front := b.Front(w)
	if front.Bounds().Dx() != 4 || front.Bounds().Dy() != 4 {
		t.Fatalf("front buffer bounds %v", front.Bounds())
	}
	if c := front.RGBAAt(3, 3); c.R != 10 || c.G != 20 || c.B != 30 {
		t.Fatalf("front pixel %v", c)
	}
}

func TestRunExitsOnQuitWithoutRendering(t *testing.T) {
	b := headless.New()
	ctx, err := toolkit.Initialize(b, toolkit.WithIdleInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer ctx.Terminate()

	w := mustWindow(t, ctx, "w")
	iterations := 0
	ctx.SetWindowEventCallback(w, toolkit.SinkFunc(func(ev toolkit.Event) {
		if ev.Kind != toolkit.WindowResize {
			return
		}
		iterations++
		if iterations < 3 {
			b.Post(headless.Message{Kind: headless.MsgConfigure, Target: w.Native(), Width: 400 + iterations, Height: 300})
			return
		}
		ctx.Quit()
		b.Post(headless.Message{Kind: headless.MsgExpose, Target: w.Native()})
	}))
	b.Post(headless.Message{Kind: headless.MsgConfigure, Target: w.Native(), Width: 400, Height: 301})

	ctx.Run()

	if iterations != 3 {
		t.Fatalf("expected 3 resize events, got %d", iterations)
	}
	// Every resize is posted from inside the drain that handled the previous
	// one, so the loop never reaches a render.
	if n := b.Stats().Renders; n != 0 {
		t.Fatalf("expected no renders, got %d", n)
	}
}

// quitOnIteration posts the native quit signal on the n-th drain.
type quitOnIteration struct {
	*headless.Backend
	n    int
	iter int
}

func (q *quitOnIteration) ProcessEvents() bool {
	q.iter++
	if q.iter == q.n {
		q.PostQuit()
	}
	return q.Backend.ProcessEvents()
}

func TestRunRendersBetweenDrains(t *testing.T) {
	b := &quitOnIteration{Backend: headless.New(), n: 3}
	ctx, err := toolkit.Initialize(b, toolkit.WithIdleInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer ctx.Terminate()

	dirty := mustWindow(t, ctx, "dirty")
	clean := mustWindow(t, ctx, "clean")
	ctx.RenderWindow(clean)
	ctx.SetWindowEventCallback(dirty, toolkit.SinkFunc(func(ev toolkit.Event) {
		t.Fatalf("unexpected event %v", ev.Kind)
	}))

	ctx.Run()

	if b.iter != 3 {
		t.Fatalf("expected 3 iterations, got %d", b.iter)
	}
	// one render for clean before Run, one for dirty in the first iteration
	if n := b.Stats().Renders; n != 2 {
		t.Fatalf("expected 2 renders, got %d", n)
	}
	if dirty.Dirty() {
		t.Fatalf("dirty window not rendered by Run")
	}
}

func TestDestroyFromSinkDuringDrain(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "w")
	ctx.SetWindowEventCallback(w, toolkit.SinkFunc(func(ev toolkit.Event) {
		if ev.Kind == toolkit.WindowClose {
			ctx.DestroyWindow(ev.Window)
		}
	}))
	native := w.Native()

	b.Post(
		headless.Message{Kind: headless.MsgClose, Target: native},
		headless.Message{Kind: headless.MsgMotion, Target: native, X: 1, Y: 1},
	)
	if !ctx.ProcessEvents() {
		t.Fatalf("unexpected quit")
	}
	if ctx.WindowCount() != 0 || !b.Live().Zero() {
		t.Fatalf("window not destroyed: %d windows, %+v", ctx.WindowCount(), b.Live())
	}
}
