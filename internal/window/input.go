package window

import (
	"unicode/utf8"

	"github.com/tinyrange/lightgui/internal/toolkit"
)

func buttonEvent(button toolkit.MouseButton, pressed bool, x, y int) toolkit.Event {
	return toolkit.Event{
		Kind: toolkit.PointerButton,
		Button: toolkit.ButtonEvent{
			Button:  button,
			Pressed: pressed,
			X:       x,
			Y:       y,
		},
	}
}

func keyEvent(code int, pressed, ctrl, shift, alt bool) toolkit.Event {
	return toolkit.Event{
		Kind: toolkit.Key,
		Key: toolkit.KeyEvent{
			Code:    code,
			Pressed: pressed,
			Ctrl:    ctrl,
			Shift:   shift,
			Alt:     alt,
		},
	}
}

// colorRef converts to a Win32 COLORREF (0x00BBGGRR).
func colorRef(c toolkit.Color) uint32 {
	return uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
}

// extent clamps a size to what native window systems accept; X11 rejects
// zero-sized windows and pixmaps.
func extent(v int) uint32 {
	if v < 1 {
		return 1
	}
	return uint32(v)
}

// editText applies typed input to a text field's contents. Backspace removes
// the last rune; control characters are dropped.
func editText(text string, typed []byte, backspace bool) string {
	if backspace {
		if text == "" {
			return text
		}
		_, size := utf8.DecodeLastRuneInString(text)
		return text[:len(text)-size]
	}
	out := []byte(text)
	for len(typed) > 0 {
		r, size := utf8.DecodeRune(typed)
		if r >= 0x20 && r != 0x7f && r != utf8.RuneError {
			out = utf8.AppendRune(out, r)
		}
		typed = typed[size:]
	}
	return string(out)
}
