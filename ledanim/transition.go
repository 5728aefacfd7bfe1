package ledanim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"libdb.so/pixelglow/led"
)

// State is the lifecycle state of a transition or an animator.
type State uint8

const (
	// Idle means no transition is running.
	Idle State = iota
	// Running means the transition is live and writing pixels.
	Running
	// Completed means the transition applied all its steps.
	Completed
	// Cancelled means a newer request superseded the transition.
	Cancelled
	// Failed means the transition stopped on an error. See Transition.Err.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Transition is a single animation session started by
// Animator.RequestTransition.
type Transition struct {
	id       uuid.UUID
	kind     Kind
	params   Params
	algo     Algorithm
	interval time.Duration
	ticks    int

	ctx     context.Context
	cancel  context.CancelFunc
	started chan struct{}
	done    chan struct{}

	mu    sync.Mutex
	state State
	err   error
}

// ID returns the unique ID of the transition. It is used to correlate log
// entries.
func (t *Transition) ID() uuid.UUID { return t.id }

// Algorithm returns the algorithm animating the transition.
func (t *Transition) Algorithm() Kind { return t.kind }

// From returns the color the transition started from.
func (t *Transition) From() led.RGBColor { return t.params.From }

// To returns the color the transition ends at.
func (t *Transition) To() led.RGBColor { return t.params.To }

// Steps returns the number of steps computed from the duration and frame
// rate. A transition with less than two steps still applies its target color
// once.
func (t *Transition) Steps() int { return t.params.Steps }

// Interval returns the time between two steps.
func (t *Transition) Interval() time.Duration { return t.interval }

// Started returns a channel that is closed once the first step has been
// applied. It is never closed if the transition is cancelled before that.
func (t *Transition) Started() <-chan struct{} { return t.started }

// Done returns a channel that is closed once the transition has stopped
// writing pixels, for whatever reason.
func (t *Transition) Done() <-chan struct{} { return t.done }

// Wait blocks until the transition stops or ctx is done. It returns the
// error that made the transition fail, if any.
func (t *Transition) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current state of the transition.
func (t *Transition) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the error that made the transition fail.
func (t *Transition) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Transition) finish(state State, err error) {
	t.mu.Lock()
	t.state = state
	t.err = err
	t.mu.Unlock()
}
