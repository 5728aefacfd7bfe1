package ledanim

type fade struct {
	Params
}

// Step fills the strip with the color at tick/(steps-1) between From and To.
func (f fade) Step(tick int) (Frame, error) {
	if f.single() {
		return f.finalFrame(), nil
	}

	c := f.lerpAt(float64(tick) / float64(f.Steps-1))
	return Frame{Fill: true, Paint: c, Color: c}, nil
}
