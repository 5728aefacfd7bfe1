package ledanim

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"libdb.so/pixelglow/led"
)

const (
	// DefaultFPS is the frame rate used when none is configured.
	DefaultFPS = 60
	// DefaultDuration is the duration of a transition when none is given.
	DefaultDuration = time.Second
)

// maxSteps bounds the step count of very long transitions. At 60 fps it
// amounts to over a year.
const maxSteps = math.MaxInt32

// Config configures an Animator. The zero value is valid.
type Config struct {
	// DefaultFPS is the frame rate used by transitions that don't set one.
	// Zero means DefaultFPS.
	DefaultFPS float64
	// DefaultColor is the color the strip is assumed to show before the
	// first transition. The zero value is black.
	DefaultColor led.RGBColor
	// Clock drives the step timers. Nil means the wall clock.
	Clock clock.Clock
	// Logger receives transition events. Nil means slog.Default().
	Logger *slog.Logger
}

// TransitionOptions tunes a single transition. Zero fields take their
// defaults.
type TransitionOptions struct {
	// Algorithm defaults to Fade.
	Algorithm Kind
	// Duration defaults to DefaultDuration.
	Duration time.Duration
	// FPS defaults to the animator's frame rate.
	FPS float64
	// From defaults to the latest color applied by the animator.
	From *led.RGBColor
	// Lerp defaults to led.LerpPerceptual.
	Lerp led.LerpFunc
}

// Animator runs color transitions on a strip, one at a time.
type Animator struct {
	strip  *led.Strip
	clock  clock.Clock
	logger *slog.Logger
	fps    float64

	// reqMu serializes requests. The session goroutine never takes it.
	reqMu sync.Mutex
	live  *Transition

	colorMu sync.Mutex
	latest  led.RGBColor

	// stepHook is called after every applied step.
	stepHook func(tr *Transition, tick int)
}

// New creates an animator writing to strip.
func New(strip *led.Strip, cfg Config) (*Animator, error) {
	if strip == nil {
		return nil, errors.Wrap(led.ErrInvalidConfiguration, "nil strip")
	}

	fps := cfg.DefaultFPS
	if fps == 0 {
		fps = DefaultFPS
	}
	if !(fps > 0) || math.IsInf(fps, 0) {
		return nil, errors.Wrapf(led.ErrInvalidConfiguration, "invalid fps %v", cfg.DefaultFPS)
	}

	if err := cfg.DefaultColor.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid default color")
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Animator{
		strip:  strip,
		clock:  cfg.Clock,
		logger: cfg.Logger,
		fps:    fps,
		latest: cfg.DefaultColor,
	}, nil
}

// LatestColor returns the representative color of the last applied step. A
// cancelled transition leaves behind the color it reached.
func (a *Animator) LatestColor() led.RGBColor {
	a.colorMu.Lock()
	defer a.colorMu.Unlock()
	return a.latest
}

func (a *Animator) setLatest(c led.RGBColor) {
	a.colorMu.Lock()
	a.latest = c
	a.colorMu.Unlock()
}

// State returns Running while a transition is live and Idle otherwise.
func (a *Animator) State() State {
	a.reqMu.Lock()
	live := a.live
	a.reqMu.Unlock()

	if live != nil && live.State() == Running {
		return Running
	}
	return Idle
}

// Live returns the most recently requested transition, or nil.
func (a *Animator) Live() *Transition {
	a.reqMu.Lock()
	defer a.reqMu.Unlock()
	return a.live
}

// RequestTransition cancels the live transition, waits for it to stop and
// starts a new transition towards to. It returns without waiting for the new
// transition to run; use the returned Transition to synchronize.
//
// Invalid options are rejected before anything is cancelled.
func (a *Animator) RequestTransition(to led.RGBColor, opts *TransitionOptions) (*Transition, error) {
	var o TransitionOptions
	if opts != nil {
		o = *opts
	}

	kind, err := ParseKind(string(o.Algorithm))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidOptions, err.Error())
	}

	duration := o.Duration
	switch {
	case duration < 0:
		return nil, errors.Wrapf(ErrInvalidOptions, "negative duration %v", duration)
	case duration == 0:
		duration = DefaultDuration
	}

	fps := o.FPS
	switch {
	case fps < 0 || math.IsNaN(fps) || math.IsInf(fps, 0):
		return nil, errors.Wrapf(ErrInvalidOptions, "invalid fps %v", fps)
	case fps == 0:
		fps = a.fps
	}

	interval := time.Duration(float64(time.Second) / fps)
	if interval <= 0 {
		return nil, errors.Wrapf(ErrInvalidOptions, "fps %v is too high", fps)
	}

	if o.From != nil {
		if err := o.From.Validate(); err != nil {
			return nil, errors.Wrap(ErrInvalidOptions, err.Error())
		}
	}

	lerp := o.Lerp
	if lerp == nil {
		lerp = led.LerpPerceptual
	}

	a.reqMu.Lock()
	defer a.reqMu.Unlock()

	// Nothing else may touch the strip until the old session has stopped.
	a.stopLive()

	from := a.LatestColor()
	if o.From != nil {
		from = *o.From
	}

	params := Params{
		From:    from,
		To:      to,
		Steps:   stepCount(duration, fps),
		NumLEDs: a.strip.Len(),
		Lerp:    lerp,
	}

	ctx, cancel := context.WithCancel(context.Background())
	tr := &Transition{
		id:       uuid.New(),
		kind:     kind,
		params:   params,
		algo:     kind.New(params),
		interval: interval,
		ticks:    max(params.Steps, 1),
		ctx:      ctx,
		cancel:   cancel,
		started:  make(chan struct{}),
		done:     make(chan struct{}),
		state:    Running,
	}

	// Create the ticker before returning so that the first step is due
	// exactly one interval after the request.
	ticker := a.clock.Ticker(interval)
	a.live = tr

	a.logger.Debug(
		"starting transition",
		"transition", tr.id,
		"algorithm", kind,
		"from", from,
		"to", to,
		"steps", params.Steps,
		"interval", interval)

	go a.run(tr, ticker)
	return tr, nil
}

// Stop cancels the live transition, if any, and waits for it to stop.
func (a *Animator) Stop() {
	a.reqMu.Lock()
	defer a.reqMu.Unlock()
	a.stopLive()
}

func (a *Animator) stopLive() {
	if a.live == nil {
		return
	}
	a.live.cancel()
	<-a.live.done
}

func (a *Animator) run(tr *Transition, ticker *clock.Ticker) {
	defer close(tr.done)
	defer ticker.Stop()
	defer tr.cancel()

	for tick := 0; tick < tr.ticks; tick++ {
		select {
		case <-tr.ctx.Done():
			a.cancelled(tr, tick)
			return
		case <-ticker.C:
		}

		// Both cases may have been ready; cancellation wins.
		if tr.ctx.Err() != nil {
			a.cancelled(tr, tick)
			return
		}

		if err := a.apply(tr, tick); err != nil {
			tr.finish(Failed, err)
			a.logger.Error(
				"transition failed",
				"transition", tr.id,
				"tick", tick,
				"error", err)
			return
		}
	}

	tr.finish(Completed, nil)
	a.logger.Debug(
		"transition completed",
		"transition", tr.id)
}

func (a *Animator) cancelled(tr *Transition, tick int) {
	tr.finish(Cancelled, nil)
	a.logger.Debug(
		"transition cancelled",
		"transition", tr.id,
		"tick", tick)
}

// apply writes one step. Once started, a step always completes its write and
// flush; cancellation is only observed between steps.
func (a *Animator) apply(tr *Transition, tick int) error {
	frame, err := tr.algo.Step(tick)
	if err != nil {
		return errors.Wrapf(err, "step %d", tick)
	}

	switch {
	case frame.Fill:
		a.strip.Fill(frame.Paint)
	case len(frame.Indices) > 0:
		if err := a.strip.SetIndices(frame.Indices, frame.Paint); err != nil {
			return errors.Wrapf(err, "step %d", tick)
		}
	}

	if !frame.Empty() {
		if err := a.strip.Flush(); err != nil {
			a.logger.Warn(
				"failed to flush pixels",
				"transition", tr.id,
				"tick", tick,
				"error", err)
		}
	}

	a.setLatest(frame.Color)

	if tick == 0 {
		close(tr.started)
	}
	if a.stepHook != nil {
		a.stepHook(tr, tick)
	}

	return nil
}

// stepCount returns floor(duration * fps), tolerating floating point error
// on exact multiples.
func stepCount(duration time.Duration, fps float64) int {
	n := math.Floor(duration.Seconds()*fps + 1e-9)
	if n >= maxSteps {
		return maxSteps
	}
	return int(n)
}
