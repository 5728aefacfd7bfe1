package pixelglow

import (
	"context"
	"log/slog"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"libdb.so/pixelglow/ledanim"
)

// Player plays a list of cues on an animator.
type Player struct {
	anim   *ledanim.Animator
	cues   []Cue
	loop   bool
	clock  clock.Clock
	logger *slog.Logger
}

// NewPlayer creates a player for the cues of cfg. A nil clock means the wall
// clock.
func NewPlayer(anim *ledanim.Animator, cfg *Config, clk clock.Clock, logger *slog.Logger) *Player {
	if clk == nil {
		clk = clock.New()
	}
	return &Player{
		anim:   anim,
		cues:   cfg.Cues,
		loop:   cfg.Loop,
		clock:  clk,
		logger: logger,
	}
}

// Run plays the cues. Each cue requests a transition and then holds for its
// hold duration; the next cue supersedes whatever is still animating. Without
// looping, Run returns once the last transition has finished. The live
// transition is stopped when Run returns.
func (p *Player) Run(ctx context.Context) error {
	defer p.anim.Stop()

	if len(p.cues) == 0 {
		return nil
	}

	for {
		var last *ledanim.Transition

		for i := range p.cues {
			cue := &p.cues[i]

			tr, err := p.anim.RequestTransition(cue.Target(), cue.Options())
			if err != nil {
				return errors.Wrapf(err, "cue %d", i+1)
			}

			p.logger.Debug(
				"playing cue",
				"cue", i+1,
				"transition", tr.ID(),
				"algorithm", tr.Algorithm(),
				"to", tr.To())

			if err := p.hold(ctx, cue); err != nil {
				return err
			}

			last = tr
		}

		if !p.loop {
			if err := last.Wait(ctx); err != nil {
				return errors.Wrap(err, "last cue failed")
			}
			return nil
		}
	}
}

func (p *Player) hold(ctx context.Context, cue *Cue) error {
	timer := p.clock.Timer(cue.HoldDuration())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
