// Package ledanim animates transitions between colors on an LED strip.
//
// An Animator owns a single live transition at a time. Requesting a new
// transition cancels the live one, waits for it to stop, then starts the new
// one from the last color that was actually applied.
package ledanim

import (
	"github.com/pkg/errors"
	"libdb.so/pixelglow/led"
)

// Frame is the outcome of one animation step.
type Frame struct {
	// Fill paints every pixel with Paint when true. Indices is ignored.
	Fill bool
	// Indices lists the pixels to paint with Paint.
	Indices []int
	// Paint is the color written to the strip.
	Paint led.RGBColor
	// Color is the color representing the progress of the animation after
	// this frame. It becomes the animator's latest color.
	Color led.RGBColor
}

// Empty returns true if the frame writes no pixels.
func (f Frame) Empty() bool {
	return !f.Fill && len(f.Indices) == 0
}

// Algorithm produces the frames of one transition. Step is called with ticks
// 0, 1, ... up to the step count minus one, in order, once each.
type Algorithm interface {
	Step(tick int) (Frame, error)
}

// Params describes a transition to an Algorithm.
type Params struct {
	From  led.RGBColor
	To    led.RGBColor
	Steps int
	// NumLEDs is the length of the strip being animated.
	NumLEDs int
	Lerp    led.LerpFunc
}

// lerpAt interpolates at ratio t, returning exactly To once t reaches 1.
func (p Params) lerpAt(t float64) led.RGBColor {
	if t >= 1 {
		return p.To
	}
	return p.Lerp(p.From, p.To, t)
}

// single reports whether the transition is too short to animate, in which
// case it applies To once.
func (p Params) single() bool {
	return p.Steps <= 1
}

func (p Params) finalFrame() Frame {
	return Frame{Fill: true, Paint: p.To, Color: p.To}
}

// Kind names one of the built-in algorithms.
type Kind string

const (
	// Fade fades the whole strip from one color to another.
	Fade Kind = "fade"
	// SweepLeft paints the strip from the last pixel to the first.
	SweepLeft Kind = "sweep-left"
	// SweepRight paints the strip from the first pixel to the last.
	SweepRight Kind = "sweep-right"
	// FloodIn paints the strip from both edges towards the center.
	FloodIn Kind = "flood-in"
	// FloodOut paints the strip from the center towards both edges.
	FloodOut Kind = "flood-out"
)

// Kinds lists every built-in algorithm.
var Kinds = []Kind{Fade, SweepLeft, SweepRight, FloodIn, FloodOut}

// ParseKind parses an algorithm name. The empty string is Fade.
func ParseKind(name string) (Kind, error) {
	if name == "" {
		return Fade, nil
	}
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownAlgorithm, "%q", name)
}

// New creates the algorithm for the given parameters. An unknown kind
// creates a Fade.
func (k Kind) New(p Params) Algorithm {
	if p.Lerp == nil {
		p.Lerp = led.LerpPerceptual
	}

	switch k {
	case SweepLeft:
		return newSweep(p, true)
	case SweepRight:
		return newSweep(p, false)
	case FloodIn:
		return newFlood(p, false)
	case FloodOut:
		return newFlood(p, true)
	default:
		return fade{p}
	}
}

func (k Kind) String() string {
	if k == "" {
		return string(Fade)
	}
	return string(k)
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseKind.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
