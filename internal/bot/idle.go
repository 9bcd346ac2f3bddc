// File: internal/bot/idle.go
package bot

import (
	"context"

	"go.uber.org/zap"
)

// Idle is a routine that does nothing useful: each step is a no-op. It
// exists to exercise the control stack (guard, breaks, key listener, control
// plane) without driving a game client, and runs until stopped unless a step
// limit is set.
type Idle struct {
	log   *zap.Logger
	limit int
	steps int
}

// NewIdle creates an Idle routine. limit <= 0 means run until stopped.
func NewIdle(logger *zap.Logger, limit int) *Idle {
	return &Idle{log: logger.Named("idle"), limit: limit}
}

func (i *Idle) Name() string { return "idle" }

func (i *Idle) Step(ctx context.Context) error {
	i.steps++
	if i.steps%100 == 0 {
		i.log.Debug("idling", zap.Int("steps", i.steps))
	}
	if i.limit > 0 && i.steps >= i.limit {
		return Done
	}
	return nil
}
