package runner

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/pintape/pkg/domain"
)

// DefaultInterval is the delay between automatic steps.
const DefaultInterval = time.Second

// Stepper is anything that can apply one step unless ctx has been cancelled.
// Implementations must check ctx and step atomically, so that a cancelled
// run never applies another transition.
type Stepper interface {
	StepIfActive(ctx context.Context) domain.StepResult
}

// Runner repeatedly steps a Stepper at a fixed interval.
type Runner struct {
	// Interval is the delay between steps. Zero means DefaultInterval.
	Interval time.Duration

	// Logger is used for internal debug logging.
	Logger *slog.Logger
}

// New creates a Runner with defaults.
func New(opts ...Option) *Runner {
	r := &Runner{
		Interval: DefaultInterval,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run steps s immediately and then once per interval until a step halts the
// automaton, a step is refused, or ctx is cancelled. It returns the number of
// applied steps. The error is ctx.Err() when the run was cancelled, nil otherwise.
func (r *Runner) Run(ctx context.Context, s Stepper) (int, error) {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	timer := time.NewTimer(interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	steps := 0
	for {
		res := s.StepIfActive(ctx)
		if !res.Applied() {
			if err := ctx.Err(); err != nil {
				r.Logger.Debug("run cancelled", "steps", steps, "err", err)
				return steps, err
			}
			r.Logger.Debug("run finished", "steps", steps, "notice", res.Notice)
			return steps, nil
		}
		steps++
		if res.Event.Halted() {
			r.Logger.Debug("run halted", "steps", steps, "state", res.Event.To)
			return steps, nil
		}

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			r.Logger.Debug("run cancelled", "steps", steps, "err", ctx.Err())
			return steps, ctx.Err()
		case <-timer.C:
		}
	}
}
