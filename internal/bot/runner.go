// File: internal/bot/runner.go

// Package bot runs scripted routines under the execution controller. A
// routine is a sequence of short, interruptible steps; the runner gates each
// step through the controller's guard so external pause/break/terminate
// requests take effect between steps, never mid-step.
package bot

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nullmantle/pixelpilot/internal/control"
)

// Routine is one scripted activity. Step performs the smallest unit of work
// that makes sense to interrupt between; it is called repeatedly until the
// routine returns Done or the run is stopped.
type Routine interface {
	Name() string
	Step(ctx context.Context) error
}

// Done is returned by a routine's Step to signal normal completion.
var Done = errors.New("bot: routine finished")

// RunnerConfig tunes the step loop.
type RunnerConfig struct {
	// TickRate is the delay between consecutive steps.
	TickRate time.Duration
	// BreakCadence is how often the runner proposes a probabilistic break.
	BreakCadence time.Duration
	// MaxStepErrs is how many consecutive step failures are tolerated
	// before the run is abandoned.
	MaxStepErrs int
}

func (c RunnerConfig) withDefaults() RunnerConfig {
	if c.TickRate <= 0 {
		c.TickRate = 600 * time.Millisecond
	}
	if c.BreakCadence <= 0 {
		c.BreakCadence = 5 * time.Minute
	}
	if c.MaxStepErrs <= 0 {
		c.MaxStepErrs = 3
	}
	return c
}

// Runner drives a Routine under a Controller.
type Runner struct {
	cfg  RunnerConfig
	ctrl *control.Controller
	log  *zap.Logger
}

// NewRunner creates a Runner. The controller is shared with the key listener
// and the control plane so all three steer the same run.
func NewRunner(cfg RunnerConfig, ctrl *control.Controller, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:  cfg.withDefaults(),
		ctrl: ctrl,
		log:  logger.Named("bot"),
	}
}

// Run executes the routine until it finishes, termination is requested, or
// too many consecutive steps fail. A stop via the terminate flag is a normal
// outcome and returns nil; only genuine faults surface as errors.
func (r *Runner) Run(ctx context.Context, routine Routine) error {
	log := r.log.With(zap.String("routine", routine.Name()))
	log.Info("routine starting",
		zap.Duration("tick_rate", r.cfg.TickRate),
		zap.Duration("break_cadence", r.cfg.BreakCadence),
	)

	consecutiveErrs := 0
	lastBreakCheck := time.Now()

	for {
		err := r.ctrl.Guard(ctx, func() error {
			return routine.Step(ctx)
		})
		switch {
		case err == nil:
			consecutiveErrs = 0
		case errors.Is(err, Done):
			log.Info("routine finished", zap.Duration("runtime", r.ctrl.Runtime()))
			return nil
		case errors.Is(err, control.ErrTerminated):
			log.Info("routine stopped by terminate request",
				zap.Duration("runtime", r.ctrl.Runtime()))
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			consecutiveErrs++
			log.Warn("step failed",
				zap.Error(err),
				zap.Int("consecutive", consecutiveErrs),
				zap.Int("max", r.cfg.MaxStepErrs),
			)
			if consecutiveErrs >= r.cfg.MaxStepErrs {
				return err
			}
			// Linear backoff so a wedged game state is not hammered.
			if serr := r.sleep(ctx, time.Duration(consecutiveErrs)*r.cfg.TickRate); serr != nil {
				return serr
			}
		}

		if time.Since(lastBreakCheck) >= r.cfg.BreakCadence {
			r.ctrl.ProposeBreak()
			lastBreakCheck = time.Now()
		}

		if err := r.sleep(ctx, r.cfg.TickRate); err != nil {
			return err
		}
	}
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
