package toolkit_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/tinyrange/lightgui/internal/toolkit"
	"github.com/tinyrange/lightgui/internal/window/headless"
)

func newContext(t *testing.T) (*toolkit.Context, *headless.Backend) {
	t.Helper()
	b := headless.New()
	ctx, err := toolkit.Initialize(b)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(ctx.Terminate)
	return ctx, b
}

func mustWindow(t *testing.T, ctx *toolkit.Context, title string) *toolkit.Window {
	t.Helper()
	w, err := ctx.CreateWindow(title, 400, 300, true)
	if err != nil {
		t.Fatalf("create window %q: %v", title, err)
	}
	return w
}

func TestInitializeFailure(t *testing.T) {
	b := headless.New()
	b.Fail(headless.StepInitialize, nil)

	ctx, err := toolkit.Initialize(b)
	if err == nil {
		t.Fatalf("expected initialize to fail")
	}
	if ctx.Initialized() {
		t.Fatalf("nil context must report uninitialized")
	}
}

func TestDestroyWindowReleasesEverything(t *testing.T) {
	ctx, b := newContext(t)

	w, err := ctx.CreateWindow("T", 400, 300, false)
	if err != nil {
		t.Fatalf("create window: %v", err)
	}
	if _, err := ctx.CreateButton(w, "OK", 10, 10, 80, 30); err != nil {
		t.Fatalf("create button: %v", err)
	}
	if _, err := ctx.CreateLabel(w, "Name", 10, 50, 80, 20); err != nil {
		t.Fatalf("create label: %v", err)
	}
	if _, err := ctx.CreateTextField(w, "", 100, 50, 120, 20); err != nil {
		t.Fatalf("create text field: %v", err)
	}

	if got := b.Live(); got.Windows != 1 || got.Buffers != 1 || got.Contexts != 1 || got.Widgets != 3 {
		t.Fatalf("unexpected live counts after create: %+v", got)
	}

	ctx.DestroyWindow(w)

	if !b.Live().Zero() {
		t.Fatalf("expected no live native resources, got %+v", b.Live())
	}
	if n := len(w.Widgets()); n != 0 {
		t.Fatalf("expected no widgets, got %d", n)
	}
	if n := ctx.WindowCount(); n != 0 {
		t.Fatalf("expected empty directory, got %d", n)
	}
	if w.Native() != 0 {
		t.Fatalf("native handle not cleared")
	}
}

func TestDestroyNilAndTwiceIsNoop(t *testing.T) {
	ctx, b := newContext(t)

	ctx.DestroyWindow(nil)
	ctx.DestroyWidget(nil)

	w := mustWindow(t, ctx, "a")
	ctx.DestroyWindow(w)
	ctx.DestroyWindow(w)
	ctx.ShowWindow(w)

	if !b.Live().Zero() {
		t.Fatalf("unexpected live resources: %+v", b.Live())
	}
}

func TestWindowCreationFailureLeavesNoTrace(t *testing.T) {
	for _, step := range []headless.Step{headless.StepWindow, headless.StepContext, headless.StepBuffer} {
		t.Run(string(step), func(t *testing.T) {
			ctx, b := newContext(t)
			keep := mustWindow(t, ctx, "keep")

			b.Fail(step, nil)
			w, err := ctx.CreateWindow("broken", 100, 100, true)
			if err == nil {
				t.Fatalf("expected failure")
			}
			if !errors.Is(err, headless.ErrInjected) {
				t.Fatalf("expected injected error, got %v", err)
			}
			if w != nil {
				t.Fatalf("expected nil window")
			}
			if n := ctx.WindowCount(); n != 1 {
				t.Fatalf("directory changed: %d windows", n)
			}
			if got := b.Live(); got.Windows != 1 || got.Contexts != 1 || got.Buffers != 1 {
				t.Fatalf("partial native resources leaked: %+v", got)
			}
			if ctx.Windows()[0] != keep {
				t.Fatalf("surviving window replaced")
			}
		})
	}
}

func TestWidgetCollectionMembership(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "w")

	var widgets []*toolkit.Widget
	for i := 0; i < 30; i++ {
		wd, err := ctx.CreateButton(w, "b", i, i, 10, 10)
		if err != nil {
			t.Fatalf("create button %d: %v", i, err)
		}
		widgets = append(widgets, wd)
		if !contains(w.Widgets(), wd) {
			t.Fatalf("widget %d missing from window after creation", i)
		}
	}

	for i, wd := range widgets {
		before := len(w.Widgets())
		ctx.DestroyWidget(wd)
		after := len(w.Widgets())
		if after != before-1 {
			t.Fatalf("destroy %d: count %d -> %d", i, before, after)
		}
		if contains(w.Widgets(), wd) {
			t.Fatalf("widget %d still present after destroy", i)
		}
	}
	if b.Live().Widgets != 0 {
		t.Fatalf("native widgets leaked: %d", b.Live().Widgets)
	}
}

func TestWidgetCreationFailure(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "w")

	b.Fail(headless.StepWidget, nil)
	if _, err := ctx.CreateButton(w, "x", 0, 0, 1, 1); err == nil {
		t.Fatalf("expected failure")
	}
	if n := len(w.Widgets()); n != 0 {
		t.Fatalf("failed widget added to window")
	}

	b.Recover(headless.StepWidget)
	if _, err := ctx.CreateWidget(w, toolkit.Slider, "", toolkit.Rect{}); !errors.Is(err, toolkit.ErrUnsupportedWidget) {
		t.Fatalf("expected ErrUnsupportedWidget, got %v", err)
	}
	if _, err := ctx.CreateButton(nil, "x", 0, 0, 1, 1); !errors.Is(err, toolkit.ErrNilWindow) {
		t.Fatalf("expected ErrNilWindow, got %v", err)
	}
}

func TestWidgetDefaultsAndIdentity(t *testing.T) {
	ctx, _ := newContext(t)
	w := mustWindow(t, ctx, "w")

	btn, _ := ctx.CreateButton(w, "OK", 0, 0, 10, 10)
	lbl, _ := ctx.CreateLabel(w, "L", 0, 0, 10, 10)
	txt, _ := ctx.CreateTextField(w, "", 0, 0, 10, 10)

	tests := []struct {
		wd     *toolkit.Widget
		bg, fg toolkit.Color
	}{
		{btn, toolkit.White, toolkit.Black},
		{lbl, toolkit.Transparent, toolkit.Black},
		{txt, toolkit.White, toolkit.Black},
	}
	for _, tt := range tests {
		if tt.wd.Background() != tt.bg || tt.wd.Foreground() != tt.fg {
			t.Errorf("%s: colors %v/%v, want %v/%v", tt.wd.Kind(), tt.wd.Background(), tt.wd.Foreground(), tt.bg, tt.fg)
		}
		if !tt.wd.Visible() || !tt.wd.Enabled() {
			t.Errorf("%s: expected visible and enabled", tt.wd.Kind())
		}
	}

	if btn.ID() != 1000 || lbl.ID() != 1001 || txt.ID() != 1002 {
		t.Fatalf("unexpected ids %d %d %d", btn.ID(), lbl.ID(), txt.ID())
	}
	if ctx.WidgetByID(lbl.ID()) != lbl {
		t.Fatalf("id lookup failed")
	}
	if ctx.WidgetByNative(txt.Native()) != txt {
		t.Fatalf("native lookup failed")
	}
}

func TestGetWidgetTextRoundTrip(t *testing.T) {
	ctx, _ := newContext(t)
	w := mustWindow(t, ctx, "w")
	wd, _ := ctx.CreateTextField(w, "", 0, 0, 10, 10)

	for _, text := range []string{"", "a", "hello world", strings.Repeat("x", 63)} {
		ctx.SetWidgetText(wd, text)
		buf := make([]byte, 64)
		n := ctx.GetWidgetText(wd, buf)
		if n != len(text) {
			t.Fatalf("%q: copied %d bytes", text, n)
		}
		if got := string(buf[:n]); got != text {
			t.Fatalf("got %q, want %q", got, text)
		}
		if buf[n] != 0 {
			t.Fatalf("%q: buffer not NUL-terminated", text)
		}
	}
}

func TestGetWidgetTextTruncation(t *testing.T) {
	ctx, _ := newContext(t)
	w := mustWindow(t, ctx, "w")
	wd, _ := ctx.CreateLabel(w, "truncate me", 0, 0, 10, 10)

	for n := 1; n <= len("truncate me"); n++ {
		buf := make([]byte, n)
		got := ctx.GetWidgetText(wd, buf)
		if got != n-1 {
			t.Fatalf("cap %d: returned %d", n, got)
		}
		if string(buf[:got]) != "truncate me"[:n-1] || buf[got] != 0 {
			t.Fatalf("cap %d: buffer %q", n, buf)
		}
	}

	if got := ctx.GetWidgetText(wd, nil); got != -1 {
		t.Fatalf("empty buffer: got %d", got)
	}
	if got := ctx.GetWidgetText(nil, make([]byte, 4)); got != -1 {
		t.Fatalf("nil widget: got %d", got)
	}
}

func TestWidgetMutatorsResyncNative(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "w")
	wd, _ := ctx.CreateButton(w, "OK", 1, 2, 3, 4)

	ctx.SetWidgetText(wd, "Cancel")
	ctx.SetWidgetPosition(wd, 10, 20)
	ctx.SetWidgetSize(wd, 30, 40)
	ctx.SetWidgetVisible(wd, false)
	ctx.SetWidgetEnabled(wd, false)
	ctx.SetWidgetBackgroundColor(wd, toolkit.Red)
	ctx.SetWidgetTextColor(wd, toolkit.Blue)

	c, ok := b.Control(wd)
	if !ok {
		t.Fatalf("no native control")
	}
	want := headless.Control{
		Parent:  w.Native(),
		Kind:    toolkit.Button,
		ID:      wd.ID(),
		Rect:    toolkit.Rect{X: 10, Y: 20, Width: 30, Height: 40},
		Text:    "Cancel",
		Visible: false,
		Enabled: false,
		Bg:      toolkit.Red,
		Fg:      toolkit.Blue,
	}
	if c != want {
		t.Fatalf("native control %+v, want %+v", c, want)
	}
	if n := b.Stats().WidgetUpdates; n != 7 {
		t.Fatalf("expected 7 native updates, got %d", n)
	}
}

func TestWindowMutators(t *testing.T) {
	ctx, b := newContext(t)
	w := mustWindow(t, ctx, "before")

	ctx.SetWindowTitle(w, "after")
	if w.Title() != "after" || b.NativeTitle(w) != "after" {
		t.Fatalf("title not applied: %q / %q", w.Title(), b.NativeTitle(w))
	}

	ctx.ShowWindow(w)
	if !w.Visible() || !b.NativeVisible(w) {
		t.Fatalf("show not applied")
	}
	ctx.HideWindow(w)
	if w.Visible() || b.NativeVisible(w) {
		t.Fatalf("hide not applied")
	}
}

func TestScenarioCreateButtonDestroyWindow(t *testing.T) {
	ctx, b := newContext(t)

	w, err := ctx.CreateWindow("T", 400, 300, true)
	if err != nil {
		t.Fatalf("create window: %v", err)
	}
	if _, err := ctx.CreateButton(w, "OK", 10, 10, 80, 30); err != nil {
		t.Fatalf("create button: %v", err)
	}
	ctx.DestroyWindow(w)

	if b.Live().Widgets != 0 {
		t.Fatalf("live widgets remain")
	}
	if ctx.WindowCount() != 0 {
		t.Fatalf("live windows remain")
	}
}

func TestScenarioSwapWithLastRemoval(t *testing.T) {
	ctx, _ := newContext(t)

	first := mustWindow(t, ctx, "first")
	second := mustWindow(t, ctx, "second")
	native := second.Native()

	ctx.DestroyWindow(first)

	windows := ctx.Windows()
	if len(windows) != 1 || windows[0] != second {
		t.Fatalf("directory %v, want only second", windows)
	}
	if second.Native() != native || ctx.WindowByNative(native) != second {
		t.Fatalf("second window handle changed")
	}
}

func TestDirectoryGrows(t *testing.T) {
	ctx, _ := newContext(t)
	for i := 0; i < 25; i++ {
		mustWindow(t, ctx, "w")
	}
	if n := ctx.WindowCount(); n != 25 {
		t.Fatalf("expected 25 windows, got %d", n)
	}
}

func TestTerminateDestroysAllWindows(t *testing.T) {
	b := headless.New()
	ctx, err := toolkit.Initialize(b)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	for i := 0; i < 3; i++ {
		w := mustWindow(t, ctx, "w")
		ctx.CreateButton(w, "b", 0, 0, 1, 1)
	}

	ctx.Terminate()

	if !b.Live().Zero() {
		t.Fatalf("live resources after terminate: %+v", b.Live())
	}
	if ctx.Initialized() {
		t.Fatalf("still initialized")
	}
	if _, err := ctx.CreateWindow("late", 1, 1, true); !errors.Is(err, toolkit.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	ctx.Terminate()
}

func contains(list []*toolkit.Widget, wd *toolkit.Widget) bool {
	for _, other := range list {
		if other == wd {
			return true
		}
	}
	return false
}
