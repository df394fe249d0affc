package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/pintape"
	"github.com/aretw0/pintape/internal/presentation/tui"
)

// RunOptions configures RunSession.
type RunOptions struct {
	Options
	JSON   bool
	Banner bool
}

// RunSession loads input and steps it automatically at the configured interval
// until the machine halts or the user interrupts it.
func RunSession(ctx context.Context, opts RunOptions, input string) (err error) {
	a, err := newApp(opts.Options, presentation(opts.JSON))
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.Close()) }()

	if opts.Banner && !opts.JSON {
		tui.PrintBanner(opts.stdout(), pintape.Version)
	}

	if err := a.machine.Load(input); err != nil {
		// Already reported by the handler.
		return err
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	res, runErr := a.machine.Run(sigCtx, a.cfg.Interval)
	a.logger.Info("run finished", "steps", res.Steps, "reason", res.Reason, "state", a.machine.Snapshot().State)

	if res.Reason == pintape.RunCancelled && !opts.JSON {
		logInterruption(opts.stdout(), a.machine.Snapshot().State, sigCtx.Signal())
	}
	a.reportRun(sigCtx, res)
	return handleExecutionError(runErr)
}

// reportRun closes an automatic run that reached a verdict with a summary line.
func (a *app) reportRun(ctx context.Context, res pintape.RunResult) {
	if res.Reason != pintape.RunHalted || res.Steps == 0 || a.handler == nil {
		return
	}
	snap := a.machine.Snapshot()
	msg := fmt.Sprintf("ℹ run complete | steps: %d | written: %d", res.Steps, snap.WriteCount)
	if err := a.handler.SystemOutput(ctx, msg); err != nil {
		a.logger.Warn("failed to render event", "err", err)
	}
}
