package runner

import (
	"context"

	"github.com/aretw0/pintape/pkg/domain"
)

// Handler renders what the automaton does.
// This allows switching between Text (console) and JSON (structured) modes.
type Handler interface {
	// Loaded presents a successful or failed load.
	Loaded(ctx context.Context, e *domain.LoadEvent) error

	// Transition presents one applied step.
	Transition(ctx context.Context, e *domain.TransitionEvent) error

	// Halted presents the final verdict.
	Halted(ctx context.Context, v domain.Verdict, last *domain.TransitionEvent) error

	// Notice presents an ignored step.
	Notice(ctx context.Context, n domain.Notice) error

	// SystemOutput presents a meta-message (status, hints).
	SystemOutput(ctx context.Context, msg string) error
}

// Hooks adapts a Handler to lifecycle hooks. Rendering errors are passed to onErr,
// which may be nil.
func Hooks(h Handler, onErr func(error)) domain.LifecycleHooks {
	report := func(err error) {
		if err != nil && onErr != nil {
			onErr(err)
		}
	}
	return domain.LifecycleHooks{
		OnLoad: func(ctx context.Context, e *domain.LoadEvent) {
			report(h.Loaded(ctx, e))
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			report(h.Transition(ctx, e))
		},
		OnHalt: func(ctx context.Context, v domain.Verdict, e *domain.TransitionEvent) {
			report(h.Halted(ctx, v, e))
		},
		OnNotice: func(ctx context.Context, n domain.Notice) {
			report(h.Notice(ctx, n))
		},
		OnReset: func(ctx context.Context) {
			report(h.SystemOutput(ctx, "machine reset | state: q0"))
		},
	}
}
