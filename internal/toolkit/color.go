package toolkit

import (
	"fmt"
	"strconv"
	"strings"
)

// Rect is a rectangle in window client coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Origin returns the top-left corner of r.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

type Point struct {
	X int
	Y int
}

// Color is an 8-bit RGBA color.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

func CreateColor(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

var (
	Black       = CreateColor(0, 0, 0, 255)
	White       = CreateColor(255, 255, 255, 255)
	Red         = CreateColor(255, 0, 0, 255)
	Green       = CreateColor(0, 255, 0, 255)
	Blue        = CreateColor(0, 0, 255, 255)
	Yellow      = CreateColor(255, 255, 0, 255)
	Cyan        = CreateColor(0, 255, 255, 255)
	Magenta     = CreateColor(255, 0, 255, 255)
	Transparent = CreateColor(0, 0, 0, 0)
)

// Opaque reports whether the color has any coverage at all. Backends skip
// background fills for colors that are not opaque.
func (c Color) Opaque() bool {
	return c.A > 0
}

// RGB packs the color channels as 0xRRGGBB, dropping alpha.
func (c Color) RGB() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". Alpha defaults to 255.
func ParseColor(s string) (Color, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return CreateColor(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
