package runtime

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/aretw0/pintape/pkg/domain"
)

// Automaton is the PIN validator core. It is not safe for concurrent use;
// a single owner serializes every call.
type Automaton struct {
	policy   *Policy
	maxInput int
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	tape    domain.Tape
	written []domain.Symbol
	state   domain.State
	cursor  int
	digits  int
	seq     int
}

// Option defines a functional option for configuring the Automaton.
type Option func(*Automaton)

// WithPolicy selects the transition table.
func WithPolicy(p *Policy) Option {
	return func(a *Automaton) {
		if p != nil {
			a.policy = p
		}
	}
}

// WithMaxInputLength overrides the input limit. Non-positive values are ignored.
func WithMaxInputLength(n int) Option {
	return func(a *Automaton) {
		if n > 0 {
			a.maxInput = n
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Automaton) {
		a.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Automaton) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an unloaded automaton in q0.
func New(opts ...Option) *Automaton {
	a := &Automaton{
		policy:   Positional(),
		maxInput: domain.MaxInputLength,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:    domain.StartState,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Policy returns the active transition table.
func (a *Automaton) Policy() *Policy {
	return a.policy
}

// MaxInputLength returns the configured input limit.
func (a *Automaton) MaxInputLength() int {
	return a.maxInput
}

// CheckInput validates input against the load preconditions without touching the automaton.
func (a *Automaton) CheckInput(input string) error {
	if input == "" {
		return &domain.InvalidInputError{Reason: "empty input"}
	}
	if n := utf8.RuneCountInString(input); n > a.maxInput {
		return &domain.InputTooLongError{Length: n, Max: a.maxInput}
	}
	return nil
}

// Load validates input and, only if valid, rebuilds the tape and resets every counter.
func (a *Automaton) Load(ctx context.Context, input string) error {
	if err := a.CheckInput(input); err != nil {
		a.logger.Debug("load rejected", "err", err)
		if a.hooks.OnLoad != nil {
			a.hooks.OnLoad(ctx, &domain.LoadEvent{Input: input, Err: err})
		}
		return err
	}

	a.tape = domain.NewTape(input)
	a.written = nil
	a.state = domain.StartState
	a.cursor = 0
	a.digits = 0
	a.seq = 0

	a.logger.Debug("tape loaded", "input", input, "cells", a.tape.Len(), "policy", a.policy.Name)
	if a.hooks.OnLoad != nil {
		a.hooks.OnLoad(ctx, &domain.LoadEvent{Input: input, TapeLen: a.tape.Len()})
	}
	return nil
}

// Step applies exactly one transition, or reports why it could not.
func (a *Automaton) Step(ctx context.Context) domain.StepResult {
	if a.tape.Empty() {
		return a.notice(ctx, domain.NoticeNotLoaded)
	}
	if a.state.IsTerminal() {
		return a.notice(ctx, domain.NoticeFinished)
	}
	symbol, ok := a.tape.At(a.cursor)
	if !ok {
		return a.notice(ctx, domain.NoticeFinished)
	}

	class := domain.Classify(symbol)
	rule, ok := a.policy.Lookup(a.state, class)
	if !ok {
		a.logger.Warn("no rule for state and class, rejecting", "state", a.state, "class", class, "policy", a.policy.Name)
		rule = domain.Rule{From: a.state, Class: class, To: domain.StateReject}
	}

	from := a.state
	if rule.CountDigit {
		a.digits++
	}
	next := rule.To
	if rule.Decide != nil {
		next = rule.Decide(a.digits)
	}
	if rule.Consume {
		a.cursor++
		a.written = append(a.written, symbol)
	}
	a.state = next
	a.seq++

	event := &domain.TransitionEvent{
		Seq:        a.seq,
		From:       from,
		To:         next,
		Symbol:     symbol,
		Class:      class,
		Consumed:   rule.Consume,
		Cursor:     a.cursor,
		DigitsRead: a.digits,
		Written:    len(a.written),
	}
	event.Message = FormatMessage(rule, event)

	a.logger.Debug("transition", "seq", event.Seq, "from", from, "to", next, "symbol", event.SymbolText(), "class", class)
	if a.hooks.OnTransition != nil {
		a.hooks.OnTransition(ctx, event)
	}
	if next.IsTerminal() {
		a.logger.Debug("halted", "verdict", domain.VerdictOf(next), "digits_read", a.digits)
		if a.hooks.OnHalt != nil {
			a.hooks.OnHalt(ctx, domain.VerdictOf(next), event)
		}
	}

	return domain.StepResult{Event: event}
}

func (a *Automaton) notice(ctx context.Context, n domain.Notice) domain.StepResult {
	a.logger.Debug("step ignored", "notice", n)
	if a.hooks.OnNotice != nil {
		a.hooks.OnNotice(ctx, n)
	}
	return domain.StepResult{Notice: n}
}

// Reset clears the tape and returns to q0.
func (a *Automaton) Reset(ctx context.Context) {
	a.tape = domain.Tape{}
	a.written = nil
	a.state = domain.StartState
	a.cursor = 0
	a.digits = 0
	a.seq = 0

	a.logger.Debug("reset")
	if a.hooks.OnReset != nil {
		a.hooks.OnReset(ctx)
	}
}

// Done reports whether Step can no longer apply a transition.
func (a *Automaton) Done() bool {
	return a.tape.Empty() || a.state.IsTerminal() || a.cursor >= a.tape.Len()
}

// Snapshot returns the observable state.
func (a *Automaton) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		State:      a.state,
		Cursor:     a.cursor,
		DigitsRead: a.digits,
		Written:    append([]domain.Symbol(nil), a.written...),
		WriteCount: len(a.written),
		Verdict:    domain.VerdictOf(a.state),
		Loaded:     !a.tape.Empty(),
		Input:      a.tape.Input(),
		Policy:     a.policy.Name,
	}
	snap.Symbol, snap.HasSymbol = a.tape.At(a.cursor)
	return snap
}

// Tape returns the loaded tape (zero value when unloaded).
func (a *Automaton) Tape() domain.Tape {
	return a.tape
}

// RunToCompletion steps until Done and returns every event produced.
func (a *Automaton) RunToCompletion(ctx context.Context) []domain.TransitionEvent {
	var events []domain.TransitionEvent
	for !a.Done() {
		res := a.Step(ctx)
		if !res.Applied() {
			break
		}
		events = append(events, *res.Event)
	}
	return events
}
