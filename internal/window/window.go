// Package window holds the native backends: X11 on linux, Win32 on windows.
// New selects one by name; "auto" picks the one this binary was built for.
package window

import (
	"fmt"
	"runtime"

	"github.com/tinyrange/lightgui/internal/toolkit"
	"github.com/tinyrange/lightgui/internal/window/headless"
)

type Options struct {
	// Backend is "auto", "x11", "win32" or "headless".
	Backend string
	// Font is the X11 core font used for widget text.
	Font       string
	Background toolkit.Color
}

func New(opts Options) (toolkit.Backend, error) {
	if opts.Font == "" {
		opts.Font = "fixed"
	}
	if opts.Background == (toolkit.Color{}) {
		opts.Background = toolkit.White
	}

	switch opts.Backend {
	case "", "auto", nativeName:
		return newNative(opts)
	case "headless":
		return headless.New(headless.WithBackground(opts.Background)), nil
	default:
		return nil, fmt.Errorf("backend %q is not available on %s", opts.Backend, runtime.GOOS)
	}
}
