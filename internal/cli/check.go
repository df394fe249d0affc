package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/pintape/pkg/domain"
	"github.com/aretw0/pintape/pkg/runner"
)

// ErrRejected is returned by RunCheck in strict mode when any input was not accepted.
var ErrRejected = errors.New("one or more inputs were rejected")

// CheckOptions configures RunCheck.
type CheckOptions struct {
	Options
	JSON   bool
	Strict bool
}

// CheckResult is the outcome for one input.
type CheckResult struct {
	Input   string         `json:"input"`
	Verdict domain.Verdict `json:"verdict"`
	Digits  int            `json:"digits_read"`
	Steps   int            `json:"steps"`
	Error   string         `json:"error,omitempty"`
}

// RunCheck validates every input (or, when none is given, every stdin line) and
// prints one verdict per input.
func RunCheck(ctx context.Context, opts CheckOptions, inputs []string) (err error) {
	a, err := newApp(opts.Options, PresentNone)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.Close()) }()

	if len(inputs) == 0 {
		inputs, err = readInputs(opts.stdin())
		if err != nil {
			return err
		}
	}

	out := opts.stdout()
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	rejected := 0
	for _, input := range inputs {
		if ctx.Err() != nil {
			return handleExecutionError(ctx.Err())
		}
		res := a.check(input)
		if res.Verdict != domain.VerdictAccepted {
			rejected++
		}

		if opts.JSON {
			if err := enc.Encode(res); err != nil {
				return err
			}
			continue
		}
		if res.Error != "" {
			fmt.Fprintf(out, "✗ %q: %s\n", res.Input, res.Error)
		} else if res.Verdict == domain.VerdictAccepted {
			fmt.Fprintf(out, "✓ %q: valid PIN\n", res.Input)
		} else {
			fmt.Fprintf(out, "✗ %q: invalid PIN\n", res.Input)
		}
	}

	a.logger.Info("check finished", "inputs", len(inputs), "rejected", rejected)
	if opts.Strict && rejected > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRejected, rejected, len(inputs))
	}
	return nil
}

func (a *app) check(input string) CheckResult {
	res := CheckResult{Input: input, Verdict: domain.VerdictRejected}
	if err := a.machine.Load(input); err != nil {
		res.Error = err.Error()
		return res
	}
	for a.machine.Snapshot().Verdict == domain.VerdictPending {
		if !a.machine.Step().Applied() {
			break
		}
		res.Steps++
	}
	snap := a.machine.Snapshot()
	res.Verdict = snap.Verdict
	res.Digits = snap.DigitsRead
	return res
}

func readInputs(r io.Reader) ([]string, error) {
	var inputs []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), runner.MaxLineSize+2)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line, err := runner.SanitizeLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if line == "" {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inputs: %w", err)
	}
	return inputs, nil
}
