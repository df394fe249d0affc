package domain

import "context"

// TransitionEvent records one applied step.
type TransitionEvent struct {
	// Seq is the 1-based step index since the tape was loaded.
	Seq int `json:"seq"`

	From   State       `json:"from"`
	To     State       `json:"to"`
	Symbol Symbol      `json:"-"`
	Class  SymbolClass `json:"class"`

	// Consumed is true when the cursor advanced past Symbol.
	Consumed bool `json:"consumed"`

	// Cursor, DigitsRead and Written are the values after the step.
	Cursor     int `json:"cursor"`
	DigitsRead int `json:"digits_read"`
	Written    int `json:"written"`

	// Message is the human-readable trace line for consoles and logs.
	Message string `json:"message"`
}

// SymbolText is the display form of the consumed (or inspected) symbol.
func (e TransitionEvent) SymbolText() string {
	return e.Symbol.String()
}

// Halted reports whether the step landed in a terminal state.
func (e TransitionEvent) Halted() bool {
	return e.To.IsTerminal()
}

// Notice explains why a Step did nothing.
type Notice string

const (
	NoticeNone      Notice = ""
	NoticeNotLoaded Notice = "not_loaded"
	NoticeFinished  Notice = "already_finished"
)

// StepResult is what Step returns: either an applied event or a no-op notice.
type StepResult struct {
	Event  *TransitionEvent
	Notice Notice
}

// Applied reports whether the step performed a transition.
func (r StepResult) Applied() bool {
	return r.Event != nil
}

// LoadEvent describes a load attempt. Err is nil on success.
type LoadEvent struct {
	Input   string
	TapeLen int
	Err     error
}

// LifecycleHooks defines callbacks for automaton observability.
// Nil hooks are skipped.
type LifecycleHooks struct {
	OnLoad       func(context.Context, *LoadEvent)
	OnTransition func(context.Context, *TransitionEvent)
	OnHalt       func(context.Context, Verdict, *TransitionEvent)
	OnNotice     func(context.Context, Notice)
	OnReset      func(context.Context)
}

// MergeHooks chains several hook sets. Each callback runs in argument order.
func MergeHooks(all ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnLoad: func(ctx context.Context, e *LoadEvent) {
			for _, h := range all {
				if h.OnLoad != nil {
					h.OnLoad(ctx, e)
				}
			}
		},
		OnTransition: func(ctx context.Context, e *TransitionEvent) {
			for _, h := range all {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
		OnHalt: func(ctx context.Context, v Verdict, e *TransitionEvent) {
			for _, h := range all {
				if h.OnHalt != nil {
					h.OnHalt(ctx, v, e)
				}
			}
		},
		OnNotice: func(ctx context.Context, n Notice) {
			for _, h := range all {
				if h.OnNotice != nil {
					h.OnNotice(ctx, n)
				}
			}
		},
		OnReset: func(ctx context.Context) {
			for _, h := range all {
				if h.OnReset != nil {
					h.OnReset(ctx)
				}
			}
		},
	}
}
