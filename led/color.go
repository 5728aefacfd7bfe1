// Package led contains the color math and the pixel buffer for an addressable
// LED strip.
package led

import (
	"encoding"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// RGBColor is a color with three real-valued channels. A valid color has
// finite channels within [0, 255]. Channels stay real-valued during
// interpolation and are only rounded when encoded.
type RGBColor [3]float64

var (
	_ encoding.TextUnmarshaler = (*RGBColor)(nil)
	_ encoding.TextMarshaler   = RGBColor{}
)

// RGB returns a color from 8-bit channels.
func RGB(r, g, b uint8) RGBColor {
	return RGBColor{float64(r), float64(g), float64(b)}
}

// Validate returns ErrInvalidConfiguration if any channel is not finite or is
// outside [0, 255].
func (c RGBColor) Validate() error {
	for i, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 255 {
			return errors.Wrapf(ErrInvalidConfiguration, "channel %d of color %v is %v", i, c, v)
		}
	}
	return nil
}

// Bytes rounds each channel to the nearest integer and clamps it to [0, 255].
// NaN channels become 0.
func (c RGBColor) Bytes() (r, g, b uint8) {
	return channelByte(c[0]), channelByte(c[1]), channelByte(c[2])
}

// Scale multiplies every channel by p.
func (c RGBColor) Scale(p float64) RGBColor {
	return RGBColor{c[0] * p, c[1] * p, c[2] * p}
}

// Hex returns the color as a "#rrggbb" string.
func (c RGBColor) Hex() string {
	r, g, b := c.Bytes()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func (c RGBColor) String() string {
	return fmt.Sprintf("rgb(%g, %g, %g)", c[0], c[1], c[2])
}

// UnmarshalText parses a "#rrggbb" or "#rgb" color.
func (c *RGBColor) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText formats the color as "#rrggbb".
func (c RGBColor) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// ParseHex parses a "#rrggbb" or "#rgb" color.
func ParseHex(s string) (RGBColor, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, errors.Wrapf(err, "invalid hex color %q", s)
	}
	return RGB(col.RGB255()), nil
}

func channelByte(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}

func fromColorful(col colorful.Color) RGBColor {
	return RGBColor{col.R * 255, col.G * 255, col.B * 255}
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{R: c[0] / 255, G: c[1] / 255, B: c[2] / 255}
}

// HSLToRGB converts a hue, saturation and lightness triple, each within
// [0, 1], into a color with integer channels.
//
//	HSLToRGB(0, 1, 0.5) == RGBColor{255, 0, 0}
func HSLToRGB(h, s, l float64) RGBColor {
	if s == 0 {
		v := math.Round(l * 255)
		return RGBColor{v, v, v}
	}
	r, g, b := colorful.Hsl(h*360, s, l).RGB255()
	return RGB(r, g, b)
}
