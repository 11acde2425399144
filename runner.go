package tickfsm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/tickfsm/pkg/lifecycle"
)

// ErrTickLimit is returned by Runner.Run when MaxTicks ran out before the
// command finished.
var ErrTickLimit = errors.New("tickfsm: tick limit reached")

// Runner drives a single command the way a cooperative scheduler would.
// It is meant for tests, examples and small tools; it does not arbitrate
// between commands.
type Runner struct {
	// Period between ticks. Zero runs ticks back to back.
	Period time.Duration
	// MaxTicks bounds the number of Execute calls. Zero means no bound.
	MaxTicks int
	Logger   *slog.Logger
}

// Run calls Initialize, then Execute once per tick until IsFinished, then
// End(false). When ctx is cancelled or MaxTicks runs out first, End(true)
// is called and ctx.Err() or ErrTickLimit is returned.
func (r Runner) Run(ctx context.Context, cmd lifecycle.Command) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var tick <-chan time.Time
	if r.Period > 0 {
		ticker := time.NewTicker(r.Period)
		defer ticker.Stop()
		tick = ticker.C
	}

	cmd.Initialize()
	for ticks := 0; ; ticks++ {
		if cmd.IsFinished() {
			cmd.End(false)
			logger.Debug("Command finished", "ticks", ticks)
			return nil
		}
		if r.MaxTicks > 0 && ticks >= r.MaxTicks {
			cmd.End(true)
			logger.Warn("Command interrupted", "ticks", ticks, "reason", "tick limit")
			return ErrTickLimit
		}

		if err := wait(ctx, tick); err != nil {
			cmd.End(true)
			logger.Warn("Command interrupted", "ticks", ticks, "error", err)
			return err
		}
		cmd.Execute()
	}
}

func wait(ctx context.Context, tick <-chan time.Time) error {
	if tick == nil {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tick:
		return nil
	}
}
