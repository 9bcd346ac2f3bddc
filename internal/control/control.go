// File: internal/control/control.go
// Description: The cooperative execution controller. It arbitrates
// terminate/pause/break state between the routine thread, the key listener
// and the HTTP control plane, and gates every guarded unit of work.
package control

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/nullmantle/pixelpilot/internal/params"
)

// ErrTerminated is the cancellation signal returned by Guard once
// termination is requested. Routine code must propagate it to the top of the
// call stack; it marks an intentional stop, not a fault.
var ErrTerminated = errors.New("control: termination requested")

// DefaultPollInterval is the guard's wait-loop tick when none is configured.
const DefaultPollInterval = 250 * time.Millisecond

// Controller holds the authoritative control flags. It is an explicit handle
// passed to everything that needs it, so independent instances (tests,
// multiple bots) never share state.
//
// Writers only ever set whole flags and readers tolerate one poll tick of
// staleness, so the flags are plain atomics with no compound locking.
type Controller struct {
	log  *zap.Logger
	poll time.Duration

	start      time.Time
	terminated atomic.Bool
	paused     atomic.Bool
	breakUntil atomic.Int64 // unix nanos; 0 means no break scheduled

	mu       sync.Mutex
	breakCfg *params.BreakConfig
}

// Option configures a Controller.
type Option func(*Controller)

// WithPollInterval overrides the guard poll tick. Values <= 0 are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.poll = d
		}
	}
}

// WithBreaks installs the probabilistic break descriptor consulted by
// ProposeBreak.
func WithBreaks(cfg params.BreakConfig) Option {
	return func(c *Controller) {
		c.breakCfg = &cfg
	}
}

// New creates a Controller. The logger is required; pass zap.NewNop() to
// silence it.
func New(log *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		log:   log.Named("control"),
		poll:  DefaultPollInterval,
		start: time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Terminated reports whether termination has been requested.
func (c *Controller) Terminated() bool { return c.terminated.Load() }

// SetTerminate sets the terminate flag. Termination is treated as monotone
// by every consumer; nothing in the runtime path clears it.
func (c *Controller) SetTerminate(v bool) {
	if c.terminated.Swap(v) != v {
		c.log.Info("terminate flag changed", zap.Bool("terminate", v))
	}
}

// Paused reports whether the pause flag is set.
func (c *Controller) Paused() bool { return c.paused.Load() }

// SetPause sets the pause flag.
func (c *Controller) SetPause(v bool) {
	if c.paused.Swap(v) != v {
		if v {
			c.log.Info("pause enabled")
		} else {
			c.log.Info("pause disabled")
		}
	}
}

// TogglePause flips the pause flag and returns the new value.
func (c *Controller) TogglePause() bool {
	for {
		old := c.paused.Load()
		if c.paused.CompareAndSwap(old, !old) {
			if old {
				c.log.Info("pause disabled")
			} else {
				c.log.Info("pause enabled")
			}
			return !old
		}
	}
}

// OnBreak reports whether a scheduled break is still in effect.
func (c *Controller) OnBreak() bool {
	return time.Now().UnixNano() < c.breakUntil.Load()
}

// BreakUntil returns the absolute end of the current break, or the zero time
// when none is scheduled.
func (c *Controller) BreakUntil() time.Time {
	ns := c.breakUntil.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// StartBreak schedules a break ending d from now. It never sleeps the
// caller; guards observe the deadline lazily on their next evaluation.
func (c *Controller) StartBreak(d time.Duration) {
	c.breakUntil.Store(time.Now().Add(d).UnixNano())
}

// SetBreaks replaces the break descriptor at runtime.
func (c *Controller) SetBreaks(cfg params.BreakConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakCfg = &cfg
}

// ProposeBreak rolls the configured break chance once and, on success,
// schedules a break of a duration drawn from the descriptor's range. With no
// descriptor configured it is a logged no-op.
func (c *Controller) ProposeBreak() {
	c.mu.Lock()
	cfg := c.breakCfg
	c.mu.Unlock()

	if cfg == nil {
		c.log.Warn("break proposed but no break configuration set")
		return
	}
	if !cfg.ShouldBreak() {
		return
	}
	d := time.Duration(cfg.Duration.Choose() * float64(time.Second))
	c.StartBreak(d)
	c.log.Info("taking a break", zap.Duration("duration", d))
}

// Runtime returns how long this controller has existed, which the control
// plane reports as the bot's elapsed runtime.
func (c *Controller) Runtime() time.Duration {
	return time.Since(c.start)
}

// StartedAt returns when this controller was created.
func (c *Controller) StartedAt() time.Time {
	return c.start
}

// Guard gates one cancellable unit of work. It waits out any active break or
// pause at the poll interval, aborting with ErrTerminated the moment
// termination is observed. Terminate wins over pause and break: it is
// checked on every poll tick and once more after the wait clears, so a
// termination request issued during a long break is honored before op runs.
// The wrapped operation's own error handling is untouched; Guard only gates
// entry.
func (c *Controller) Guard(ctx context.Context, op func() error) error {
	for c.OnBreak() || c.Paused() {
		if c.Terminated() {
			return ErrTerminated
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.poll):
		}
	}
	if c.Terminated() {
		return ErrTerminated
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return op()
}
