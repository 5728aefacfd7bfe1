package ledanim

type sweep struct {
	Params
	gen       *IndexGenerator
	lastIndex int
	left      bool
}

func newSweep(p Params, left bool) *sweep {
	return &sweep{
		Params:    p,
		gen:       NewIndexGenerator(p.Steps, p.NumLEDs),
		lastIndex: p.NumLEDs - 1,
		left:      left,
	}
}

// Step paints To onto the pixels the cursor reached since the last step.
func (s *sweep) Step(tick int) (Frame, error) {
	if s.single() {
		return s.finalFrame(), nil
	}

	indices, err := s.gen.Generate(tick)
	if err != nil {
		return Frame{}, err
	}

	if s.left {
		mirror(indices, s.lastIndex)
	}

	return Frame{
		Indices: indices,
		Paint:   s.To,
		Color:   s.lerpAt(s.gen.Ratio()),
	}, nil
}

// mirror reflects every index in place about pivot.
func mirror(indices []int, pivot int) {
	for i, n := range indices {
		indices[i] = pivot - n
	}
}
