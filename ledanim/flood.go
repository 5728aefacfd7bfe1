package ledanim

// flood computes the pixels for one half of the strip and mirrors them onto
// the other half, so both halves fill symmetrically around the center.
type flood struct {
	Params
	gen *IndexGenerator
	// oddOffset is 1 for strips with an even number of LEDs, where the
	// center falls between two pixels.
	oddOffset     int
	lastHalfIndex int
	out           bool
}

func newFlood(p Params, out bool) *flood {
	oddOffset := 0
	if p.NumLEDs%2 == 0 {
		oddOffset = 1
	}

	halfCount := (p.NumLEDs + 1) / 2

	return &flood{
		Params:        p,
		gen:           NewIndexGenerator(p.Steps, halfCount),
		oddOffset:     oddOffset,
		lastHalfIndex: p.NumLEDs / 2,
		out:           out,
	}
}

// Step paints To onto the newly reached pixels of both halves. The center
// pixel of an odd strip is its own mirror and is only listed once.
func (f *flood) Step(tick int) (Frame, error) {
	if f.single() {
		return f.finalFrame(), nil
	}

	half, err := f.gen.Generate(tick)
	if err != nil {
		return Frame{}, err
	}

	if f.out {
		// Grow from the center instead of the edge.
		mirror(half, f.lastHalfIndex-f.oddOffset)
	}

	indices := make([]int, 0, 2*len(half))
	indices = append(indices, half...)
	for _, n := range half {
		m := f.lastHalfIndex - n + f.lastHalfIndex - f.oddOffset
		if m != n {
			indices = append(indices, m)
		}
	}

	return Frame{
		Indices: indices,
		Paint:   f.To,
		Color:   f.lerpAt(f.gen.Ratio()),
	}, nil
}
