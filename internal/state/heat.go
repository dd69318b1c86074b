package state

import (
	"errors"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color triple with channels in [0,1], matching shader uniforms.
type RGB [3]float32

// ErrInvalidColor reports a color string that is not six hex digits with an
// optional leading '#'.
var ErrInvalidColor = errors.New("invalid hex color")

// ParseHex parses "RRGGBB" or "#RRGGBB". Shorthand forms like "#abc" are
// rejected: the wire contract is exactly six digits.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return RGB{}, ErrInvalidColor
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return RGB{}, ErrInvalidColor
	}
	return RGB{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// HeatBackground maps a heat level (0..100, clamped) onto the background
// gradient: deep blue through teal up to 33, teal through yellow up to 66,
// yellow to red above. The middle and hot pieces meet exactly at 66; at 33
// the middle piece starts at {0, 0.6, 1.0} while the teal piece tops out
// at {0, 0.5, 0.8}, a small fixed step crossing upward.
func HeatBackground(level float32) RGB {
	c := clamp32(level, 0, 100)
	switch {
	case c <= 33:
		f := c / 33
		return RGB{0, f * 0.5, 0.4 + f*0.4}
	case c <= 66:
		f := (c - 33) / 33
		return RGB{f, 0.6 + f*0.4, 1 - f}
	default:
		f := (c - 66) / 34
		return RGB{1, 1 - f, 0}
	}
}
