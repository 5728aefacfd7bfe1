package ledanim

import (
	"math"

	"github.com/pkg/errors"
)

// IndexGenerator tracks a cursor moving across a strip of LEDs over a fixed
// number of steps. Each call to Generate returns only the indices the cursor
// covered since the previous call, so already painted pixels are never
// written again.
type IndexGenerator struct {
	lastStep  int
	lastIndex int

	prevTick  int
	prevIndex int
	ratio     float64
}

// NewIndexGenerator creates a generator spanning numLEDs pixels over steps
// ticks.
func NewIndexGenerator(steps, numLEDs int) *IndexGenerator {
	return &IndexGenerator{
		lastStep:  steps - 1,
		lastIndex: numLEDs - 1,
		prevTick:  -1,
		prevIndex: -1,
	}
}

// Generate advances the cursor to the given tick and returns the newly
// covered indices in increasing order. Ticks must be strictly increasing and
// within [0, steps).
func (g *IndexGenerator) Generate(tick int) ([]int, error) {
	if tick <= g.prevTick {
		return nil, errors.Wrapf(ErrTickOrder, "tick %d after tick %d", tick, g.prevTick)
	}
	if tick < 0 || tick > max(g.lastStep, 0) {
		return nil, errors.Wrapf(ErrTickRange, "tick %d not in [0, %d]", tick, max(g.lastStep, 0))
	}
	g.prevTick = tick

	if g.lastStep <= 0 {
		g.ratio = 1
	} else {
		g.ratio = float64(tick) / float64(g.lastStep)
	}

	cursor := int(math.Round(g.ratio * float64(g.lastIndex)))
	if cursor <= g.prevIndex {
		return nil, nil
	}

	indices := make([]int, 0, cursor-g.prevIndex)
	for i := g.prevIndex + 1; i <= cursor; i++ {
		indices = append(indices, i)
	}
	g.prevIndex = cursor

	return indices, nil
}

// Ratio returns the fractional progress of the last generated tick, within
// [0, 1].
func (g *IndexGenerator) Ratio() float64 {
	return g.ratio
}
