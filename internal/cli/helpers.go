package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/pintape/internal/logging"
	"github.com/aretw0/pintape/pkg/domain"
	"golang.org/x/term"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// Without --debug or --log-json nothing is logged. The returned closer releases the
// JSON log file, if any.
func createLogger(level slog.Level, debug bool, jsonPath string) (*slog.Logger, io.Closer, error) {
	if debug {
		level = slog.LevelDebug
	}
	if jsonPath == "" {
		if debug {
			return logging.New(level), nopCloser{}, nil
		}
		return logging.NewNop(), nopCloser{}, nil
	}

	f, err := os.OpenFile(jsonPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logging.NewFanout(level, f), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(ctx context.Context, e *domain.LoadEvent) {
			if e.Err != nil {
				logger.Debug("Load Rejected", "input", e.Input, "err", e.Err)
				return
			}
			logger.Debug("Tape Loaded", "input", e.Input, "cells", e.TapeLen)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("Transition", "seq", e.Seq, "from", e.From, "to", e.To, "symbol", e.SymbolText(), "digits", e.DigitsRead)
		},
		OnHalt: func(ctx context.Context, v domain.Verdict, e *domain.TransitionEvent) {
			logger.Debug("Halted", "verdict", v, "digits", e.DigitsRead)
		},
		OnNotice: func(ctx context.Context, n domain.Notice) {
			logger.Debug("Step Ignored", "notice", n)
		},
		OnReset: func(ctx context.Context) {
			logger.Debug("Reset")
		},
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// handleExecutionError maps interruptions to a clean exit.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

func logInterruption(w io.Writer, state domain.State, sig os.Signal) {
	switch {
	case sig == os.Interrupt:
		fmt.Fprintf(w, "> [CTRL+C]\n")
		printSystemMessage(w, "Interrupted at '%s'.", state)
	case sig != nil:
		fmt.Fprintf(w, "\n")
		printSystemMessage(w, "Terminated at '%s'.", state)
	default:
		printSystemMessage(w, "Run cancelled at '%s'.", state)
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
