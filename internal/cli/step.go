package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/pintape"
	"github.com/aretw0/pintape/internal/presentation/tui"
	"github.com/aretw0/pintape/pkg/runner"
)

const stepHelp = "[enter] step · r run · x reset · l <input> load · q quit"

// StepOptions configures RunStepper.
type StepOptions struct {
	Options
	Banner bool
}

// RunStepper drives the machine one command line at a time:
//   - empty line: one Step
//   - r: Run the rest at the configured interval
//   - x: Reset
//   - l <input>: load another input
//   - q: quit
//
// The prompt is shown only when stdin is a terminal, so command files can be piped in.
func RunStepper(ctx context.Context, opts StepOptions, input string) (err error) {
	a, err := newApp(opts.Options, PresentText)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.Close()) }()

	out := opts.stdout()
	interactive := isTerminal(opts.stdin())
	if opts.Banner && interactive {
		tui.PrintBanner(out, pintape.Version)
	}

	if input != "" {
		// A rejected input is reported by the handler; the session goes on unloaded.
		_ = a.machine.Load(input)
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	lines := readLines(sigCtx, opts.stdin())
	for {
		if interactive {
			fmt.Fprintf(out, "%s > ", stepHelp)
		}

		var line string
		select {
		case <-sigCtx.Done():
			logInterruption(out, a.machine.Snapshot().State, sigCtx.Signal())
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}

		cmd, err := runner.SanitizeLine(line)
		if err != nil {
			printSystemMessage(out, "ignored line: %v", err)
			continue
		}

		switch {
		case cmd == "":
			a.machine.Step()
		case cmd == "r":
			res, err := a.machine.Run(sigCtx, a.cfg.Interval)
			if res.Reason == pintape.RunCancelled {
				logInterruption(out, a.machine.Snapshot().State, sigCtx.Signal())
				return handleExecutionError(err)
			}
			a.reportRun(sigCtx, res)
		case cmd == "x":
			a.machine.Reset()
		case cmd == "l" || strings.HasPrefix(cmd, "l "):
			_ = a.machine.Load(strings.TrimSpace(strings.TrimPrefix(cmd, "l")))
		case cmd == "q":
			return nil
		default:
			printSystemMessage(out, "unknown command %q (%s)", cmd, stepHelp)
		}
	}
}

// readLines feeds lines from r until EOF or ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), runner.MaxLineSize+2)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
