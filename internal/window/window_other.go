//go:build !linux && !windows

package window

import (
	"fmt"
	"runtime"

	"github.com/tinyrange/lightgui/internal/toolkit"
)

const nativeName = "native"

func newNative(Options) (toolkit.Backend, error) {
	return nil, fmt.Errorf("no native backend for %s, use the headless backend", runtime.GOOS)
}
