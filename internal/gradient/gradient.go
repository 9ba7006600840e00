// Package gradient builds the head-to-tail color ramps used to style a
// column's trail.
package gradient

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGB color value for terminal output.
type Color struct{ R, G, B uint8 }

// Hex returns the color in #rrggbb form.
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// ParseHex parses a #rrggbb or #rgb string. Trailing input is rejected.
func ParseHex(s string) (Color, error) {
	if len(s) != 4 && len(s) != 7 {
		return Color{}, fmt.Errorf("invalid hex color %q: want #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{r, g, b}, nil
}

// Mode selects how trail colors are derived from the base color.
// It is chosen once at startup.
type Mode int

const (
	// Flat gives every trail position the base color.
	Flat Mode = iota
	// Shaded fades the base color toward black along the trail.
	Shaded
)

func (m Mode) String() string {
	switch m {
	case Flat:
		return "flat"
	case Shaded:
		return "shaded"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Generate returns length+1 colors ordered head first, tail last. Index 0 is
// always head. A non-positive length yields only the head entry.
func (m Mode) Generate(base, head Color, length int) []Color {
	if length <= 0 {
		return []Color{head}
	}
	colors := make([]Color, length+1)
	colors[0] = head
	if m == Shaded {
		// colors[length-i] holds the i-th interpolation step, so the
		// brightest step sits right behind the head.
		for i := 0; i < length; i++ {
			colors[length-i] = scale(base, i, length)
		}
		return colors
	}
	for i := 1; i <= length; i++ {
		colors[i] = base
	}
	return colors
}

// scale returns c with each channel multiplied by num/den, truncated.
func scale(c Color, num, den int) Color {
	return Color{
		R: uint8(int(c.R) * num / den),
		G: uint8(int(c.G) * num / den),
		B: uint8(int(c.B) * num / den),
	}
}
