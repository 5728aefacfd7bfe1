package pixelglow

import (
	"encoding"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"libdb.so/pixelglow/led"
	"libdb.so/pixelglow/ledanim"
)

// Config is the configuration for the pixelglow daemon.
type Config struct {
	// Device is the path to the device file of the strip controller.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// Transport selects where pixels go. It defaults to SerialTransport.
	Transport TransportKind `toml:"transport"`
	// NumLEDs is the number of LEDs on the strip.
	NumLEDs int `toml:"num_leds"`
	// FPS is the default frame rate of transitions.
	FPS float64 `toml:"fps"`
	// DefaultColor is the color shown before the first cue. It defaults to
	// black.
	DefaultColor led.RGBColor `toml:"default_color"`
	// Loop restarts the scene after its last cue.
	Loop bool `toml:"loop"`
	// Cues is the scene played by the daemon, in order.
	Cues []Cue `toml:"cue"`
}

// TransportKind is the kind of transport pixels are sent to.
type TransportKind string

const (
	// SerialTransport sends pixels to a controller speaking ledserial.
	SerialTransport TransportKind = "serial"
	// TerminalTransport previews pixels in the terminal.
	TerminalTransport TransportKind = "terminal"
)

// maxLEDs is the most LEDs an initialize packet can describe.
const maxLEDs = 1<<16 - 1

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.NumLEDs <= 0 {
		return errors.New("no LEDs configured")
	}

	switch c.Transport {
	case "", SerialTransport:
		if c.Device == "" {
			return errors.New("serial transport needs a device")
		}
		if c.Baud <= 0 {
			return fmt.Errorf("invalid baud rate %d", c.Baud)
		}
		if c.NumLEDs > maxLEDs {
			return fmt.Errorf("%d LEDs do not fit the serial protocol", c.NumLEDs)
		}
	case TerminalTransport:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}

	if c.FPS < 0 {
		return fmt.Errorf("invalid fps %v", c.FPS)
	}

	if err := c.DefaultColor.Validate(); err != nil {
		return errors.Wrap(err, "invalid default color")
	}

	if len(c.Cues) == 0 {
		return errors.New("no cues configured")
	}

	for i, cue := range c.Cues {
		if err := cue.Validate(); err != nil {
			return errors.Wrapf(err, "cue %d", i+1)
		}
	}

	return nil
}

// Cue is a single step of the scene: a transition to a color followed by a
// hold.
type Cue struct {
	// Color is the target color as a "#rrggbb" string.
	Color *led.RGBColor `toml:"color,omitempty"`
	// HSL is the target color as [hue, saturation, lightness], each within
	// [0, 1]. Only one of Color and HSL may be set.
	HSL []float64 `toml:"hsl,omitempty"`
	// Power dims the target color to a perceived brightness within [0, 1].
	Power *float64 `toml:"power,omitempty"`

	// Algorithm is the transition animation. It defaults to fade.
	Algorithm ledanim.Kind `toml:"algorithm"`
	// Duration is the transition duration. It defaults to one second.
	Duration TOMLDuration `toml:"duration"`
	// Hold is the time between the start of this cue and the next one. It
	// defaults to Duration. A hold shorter than the transition cuts it
	// short.
	Hold TOMLDuration `toml:"hold"`
	// FPS overrides the daemon frame rate for this cue.
	FPS float64 `toml:"fps"`
	// Lerp selects the interpolation. It defaults to perceptual.
	Lerp LerpMode `toml:"lerp"`
}

// Validate validates the cue.
func (c *Cue) Validate() error {
	switch {
	case c.Color != nil && c.HSL != nil:
		return errors.New("color and hsl are mutually exclusive")
	case c.Color != nil:
		if err := c.Color.Validate(); err != nil {
			return errors.Wrap(err, "invalid color")
		}
	case c.HSL != nil:
		if len(c.HSL) != 3 {
			return fmt.Errorf("hsl needs 3 values, got %d", len(c.HSL))
		}
		for _, v := range c.HSL {
			if !(v >= 0 && v <= 1) {
				return fmt.Errorf("hsl value %v not in [0, 1]", v)
			}
		}
	default:
		return errors.New("cue has no color")
	}

	if c.Power != nil && !(*c.Power >= 0 && *c.Power <= 1) {
		return fmt.Errorf("power %v not in [0, 1]", *c.Power)
	}

	if c.Duration < 0 {
		return errors.New("negative duration")
	}
	if c.Hold < 0 {
		return errors.New("negative hold")
	}
	if c.FPS < 0 {
		return fmt.Errorf("invalid fps %v", c.FPS)
	}

	if _, err := c.Lerp.Func(); err != nil {
		return err
	}

	return nil
}

// Target returns the color the cue transitions to.
func (c *Cue) Target() led.RGBColor {
	var color led.RGBColor
	switch {
	case c.Color != nil:
		color = *c.Color
	case len(c.HSL) == 3:
		color = led.HSLToRGB(c.HSL[0], c.HSL[1], c.HSL[2])
	}

	if c.Power != nil {
		color = color.Scale(led.ToExp(*c.Power, led.DefaultSkew))
	}

	return color
}

// TransitionDuration returns the duration of the cue transition.
func (c *Cue) TransitionDuration() time.Duration {
	if c.Duration == 0 {
		return ledanim.DefaultDuration
	}
	return time.Duration(c.Duration)
}

// HoldDuration returns the time the cue stays in effect.
func (c *Cue) HoldDuration() time.Duration {
	if c.Hold == 0 {
		return c.TransitionDuration()
	}
	return time.Duration(c.Hold)
}

// Options returns the transition options of the cue.
func (c *Cue) Options() *ledanim.TransitionOptions {
	lerp, _ := c.Lerp.Func()
	return &ledanim.TransitionOptions{
		Algorithm: c.Algorithm,
		Duration:  c.TransitionDuration(),
		FPS:       c.FPS,
		Lerp:      lerp,
	}
}

// LerpMode names a color interpolation.
type LerpMode string

const (
	// PerceptualLerp skews the ratio logarithmically before mixing. It is the
	// default.
	PerceptualLerp LerpMode = "perceptual"
	// LinearLerp mixes the RGB channels linearly.
	LinearLerp LerpMode = "linear"
	// LabLerp mixes in the CIE-L*a*b* color space.
	LabLerp LerpMode = "lab"
)

// Func returns the interpolation function of the mode.
func (m LerpMode) Func() (led.LerpFunc, error) {
	switch m {
	case "", PerceptualLerp:
		return led.LerpPerceptual, nil
	case LinearLerp:
		return led.LerpRGB, nil
	case LabLerp:
		return led.LerpLab, nil
	default:
		return nil, fmt.Errorf("unknown lerp %q", string(m))
	}
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ParseConfig parses a configuration from a reader.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
