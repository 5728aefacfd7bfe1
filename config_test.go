package pixelglow

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/pixelglow/led"
	"libdb.so/pixelglow/ledanim"
)

const exampleConfig = `
device = "/dev/ttyACM0"
baud = 115200
num_leds = 74
fps = 30.0
default_color = "#100800"
loop = true

[[cue]]
color = "#ff8800"
algorithm = "flood-out"
duration = "2s"
hold = "5s"

[[cue]]
hsl = [0.5, 1.0, 0.5]
power = 0.5
algorithm = "sweep-left"
lerp = "lab"
fps = 60.0

[[cue]]
color = "#000000"
duration = "500ms"
lerp = "linear"
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(exampleConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/dev/ttyACM0", cfg.Device)
	assert.Equal(t, 115200, cfg.Baud)
	assert.Equal(t, 74, cfg.NumLEDs)
	assert.Equal(t, 30.0, cfg.FPS)
	assert.Equal(t, led.RGB(0x10, 0x08, 0x00), cfg.DefaultColor)
	assert.True(t, cfg.Loop)
	require.Len(t, cfg.Cues, 3)

	first := cfg.Cues[0]
	assert.Equal(t, led.RGB(0xff, 0x88, 0x00), first.Target())
	assert.Equal(t, ledanim.FloodOut, first.Algorithm)
	assert.Equal(t, 2*time.Second, first.TransitionDuration())
	assert.Equal(t, 5*time.Second, first.HoldDuration())

	second := cfg.Cues[1]
	assert.Equal(t, ledanim.SweepLeft, second.Algorithm)
	assert.Equal(t, ledanim.DefaultDuration, second.TransitionDuration())
	assert.Equal(t, ledanim.DefaultDuration, second.HoldDuration())
	assert.Equal(t, 60.0, second.Options().FPS)
	assert.Equal(t,
		led.HSLToRGB(0.5, 1, 0.5).Scale(led.ToExp(0.5, led.DefaultSkew)),
		second.Target())

	third := cfg.Cues[2]
	assert.Equal(t, ledanim.Kind(""), third.Algorithm)
	assert.Equal(t, 500*time.Millisecond, third.Options().Duration)
	assert.Equal(t, led.RGBColor{}, third.Target())
}

func TestParseConfigRejectsUnknownAlgorithm(t *testing.T) {
	_, err := ParseConfig(strings.NewReader(`
num_leds = 4
[[cue]]
color = "#ffffff"
algorithm = "sparkle"
`))
	assert.Error(t, err)
}

func TestParseConfigRejectsBadColor(t *testing.T) {
	_, err := ParseConfig(strings.NewReader(`
num_leds = 4
default_color = "not a color"
`))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	white := led.RGBColor{255, 255, 255}
	valid := func() Config {
		return Config{
			Device:  "/dev/ttyUSB0",
			Baud:    115200,
			NumLEDs: 10,
			Cues:    []Cue{{Color: &white}},
		}
	}

	require.NoError(t, func() error { c := valid(); return c.Validate() }())

	negative := -0.5
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"no leds", func(c *Config) { c.NumLEDs = 0 }},
		{"too many leds", func(c *Config) { c.NumLEDs = 70000 }},
		{"no device", func(c *Config) { c.Device = "" }},
		{"no baud", func(c *Config) { c.Baud = 0 }},
		{"unknown transport", func(c *Config) { c.Transport = "opc" }},
		{"negative fps", func(c *Config) { c.FPS = -1 }},
		{"bad default color", func(c *Config) { c.DefaultColor = led.RGBColor{0, 0, 300} }},
		{"no cues", func(c *Config) { c.Cues = nil }},
		{"cue without color", func(c *Config) { c.Cues = []Cue{{}} }},
		{"cue with both colors", func(c *Config) { c.Cues[0].HSL = []float64{0, 0, 0} }},
		{"short hsl", func(c *Config) { c.Cues = []Cue{{HSL: []float64{0, 1}}} }},
		{"hsl out of range", func(c *Config) { c.Cues = []Cue{{HSL: []float64{0, 2, 0}}} }},
		{"negative power", func(c *Config) { c.Cues[0].Power = &negative }},
		{"negative duration", func(c *Config) { c.Cues[0].Duration = TOMLDuration(-time.Second) }},
		{"negative hold", func(c *Config) { c.Cues[0].Hold = TOMLDuration(-time.Second) }},
		{"negative cue fps", func(c *Config) { c.Cues[0].FPS = -1 }},
		{"unknown lerp", func(c *Config) { c.Cues[0].Lerp = "cubic" }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := valid()
			c.Cues = append([]Cue(nil), c.Cues...)
			test.modify(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestTerminalConfigNeedsNoDevice(t *testing.T) {
	black := led.RGBColor{}
	c := Config{
		Transport: TerminalTransport,
		NumLEDs:   100000,
		Cues:      []Cue{{Color: &black}},
	}
	assert.NoError(t, c.Validate())
}

func TestLerpMode(t *testing.T) {
	from, to := led.RGBColor{0, 0, 0}, led.RGBColor{200, 100, 50}

	for mode, want := range map[LerpMode]led.RGBColor{
		"":             led.LerpPerceptual(from, to, 0.3),
		PerceptualLerp: led.LerpPerceptual(from, to, 0.3),
		LinearLerp:     led.LerpRGB(from, to, 0.3),
		LabLerp:        led.LerpLab(from, to, 0.3),
	} {
		f, err := mode.Func()
		require.NoError(t, err, "mode %q", mode)
		assert.Equal(t, want, f(from, to, 0.3), "mode %q", mode)
	}
}

func TestTOMLDuration(t *testing.T) {
	var d TOMLDuration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, TOMLDuration(90*time.Second), d)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
