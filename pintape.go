package pintape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/pintape/internal/runtime"
	"github.com/aretw0/pintape/pkg/domain"
	"github.com/aretw0/pintape/pkg/runner"
)

// RunReason explains why Run returned.
type RunReason string

const (
	RunHalted    RunReason = "halted"     // terminal state or end of tape
	RunCancelled RunReason = "cancelled"  // CancelRun, Reset or ctx
	RunNotLoaded RunReason = "not_loaded" // nothing to run
	RunBusy      RunReason = "busy"       // another Run is in flight
)

// RunResult summarises one Run call.
type RunResult struct {
	Steps  int
	Reason RunReason
}

// Machine is the high-level entry point. It owns one automaton and serializes every
// call into it, so Step, Reset and a concurrent Run never interleave mid-step.
type Machine struct {
	mu        sync.Mutex
	automaton *runtime.Automaton

	policy   *runtime.Policy
	maxInput int
	interval time.Duration
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	initErr  error

	running   atomic.Bool
	cancelRun context.CancelFunc

	// Hook calls are queued while mu is held and dispatched after it is released,
	// one dispatcher at a time, so observers may query the machine from a callback.
	pending     []func()
	dispatching bool

	subMu    sync.Mutex
	subs     map[int]func(domain.TransitionEvent)
	subSeq   int
	subOrder []int
}

// Option defines a functional option for configuring the Machine.
type Option func(*Machine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithPolicy sets the transition table.
func WithPolicy(p *runtime.Policy) Option {
	return func(m *Machine) {
		m.policy = p
	}
}

// WithPolicyName selects a registered transition table ("positional" or "deferred").
func WithPolicyName(name string) Option {
	return func(m *Machine) {
		p, err := runtime.PolicyByName(name)
		if err != nil {
			m.initErr = err
			return
		}
		m.policy = p
	}
}

// WithMaxInputLength overrides the 10-character input limit.
func WithMaxInputLength(n int) Option {
	return func(m *Machine) {
		m.maxInput = n
	}
}

// WithInterval sets the default delay used by Run when none is given.
func WithInterval(d time.Duration) Option {
	return func(m *Machine) {
		m.interval = d
	}
}

// New creates an unloaded machine.
func New(opts ...Option) (*Machine, error) {
	m := &Machine{
		maxInput: domain.MaxInputLength,
		interval: runner.DefaultInterval,
		subs:     make(map[int]func(domain.TransitionEvent)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.initErr != nil {
		return nil, fmt.Errorf("invalid machine configuration: %w", m.initErr)
	}
	if m.maxInput <= 0 {
		return nil, fmt.Errorf("invalid machine configuration: max input length must be positive, got %d", m.maxInput)
	}
	if m.policy == nil {
		m.policy = runtime.Positional()
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m.logger = m.logger.With("policy", m.policy.Name)

	hooks := m.queued(domain.MergeHooks(m.hooks, domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.publish(*e)
		},
	}))

	m.automaton = runtime.New(
		runtime.WithPolicy(m.policy),
		runtime.WithMaxInputLength(m.maxInput),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithLogger(m.logger),
	)
	return m, nil
}

// queued wraps hooks so that each call is deferred until mu is released.
// The automaton only invokes hooks while mu is held.
func (m *Machine) queued(h domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(ctx context.Context, e *domain.LoadEvent) {
			m.pending = append(m.pending, func() { h.OnLoad(ctx, e) })
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.pending = append(m.pending, func() { h.OnTransition(ctx, e) })
		},
		OnHalt: func(ctx context.Context, v domain.Verdict, e *domain.TransitionEvent) {
			m.pending = append(m.pending, func() { h.OnHalt(ctx, v, e) })
		},
		OnNotice: func(ctx context.Context, n domain.Notice) {
			m.pending = append(m.pending, func() { h.OnNotice(ctx, n) })
		},
		OnReset: func(ctx context.Context) {
			m.pending = append(m.pending, func() { h.OnReset(ctx) })
		},
	}
}

// flush dispatches queued hook calls in order. Reentrant calls return early and
// their calls are picked up by the active dispatcher.
func (m *Machine) flush() {
	for {
		m.mu.Lock()
		if m.dispatching || len(m.pending) == 0 {
			m.mu.Unlock()
			return
		}
		m.dispatching = true
		batch := m.pending
		m.pending = nil
		m.mu.Unlock()

		for _, fn := range batch {
			fn()
		}

		m.mu.Lock()
		m.dispatching = false
		m.mu.Unlock()
	}
}

// Load replaces the tape with input. On error the machine is left untouched.
func (m *Machine) Load(input string) error {
	m.mu.Lock()
	err := m.automaton.Load(context.Background(), input)
	m.mu.Unlock()
	m.flush()
	return err
}

// Step applies a single transition, or returns a notice explaining why it could not.
func (m *Machine) Step() domain.StepResult {
	m.mu.Lock()
	res := m.automaton.Step(context.Background())
	m.mu.Unlock()
	m.flush()
	return res
}

// StepIfActive steps unless ctx is already cancelled. The check and the step happen
// under the same lock, so a cancelled run never applies another transition.
func (m *Machine) StepIfActive(ctx context.Context) domain.StepResult {
	m.mu.Lock()
	if ctx.Err() != nil {
		m.mu.Unlock()
		return domain.StepResult{}
	}
	res := m.automaton.Step(ctx)
	m.mu.Unlock()
	m.flush()
	return res
}

// Run steps automatically every interval (the configured default when interval <= 0)
// until the machine halts, ctx is cancelled, or CancelRun or Reset is called.
// Only one Run may be in flight; a concurrent call returns RunBusy immediately.
// The error is non-nil only when ctx itself was cancelled.
func (m *Machine) Run(ctx context.Context, interval time.Duration) (RunResult, error) {
	if !m.running.CompareAndSwap(false, true) {
		m.logger.Debug("run ignored: already running")
		return RunResult{Reason: RunBusy}, nil
	}
	defer m.running.Store(false)

	m.mu.Lock()
	if !m.automaton.Snapshot().Loaded {
		m.automaton.Step(ctx) // reports the not-loaded notice to observers
		m.mu.Unlock()
		m.flush()
		return RunResult{Reason: RunNotLoaded}, nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancelRun = cancel
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.cancelRun = nil
		m.mu.Unlock()
		cancel()
	}()

	if interval <= 0 {
		interval = m.interval
	}
	r := runner.New(runner.WithInterval(interval), runner.WithLogger(m.logger))

	m.logger.Debug("run started", "interval", interval)
	steps, err := r.Run(runCtx, m)
	if err != nil {
		m.logger.Debug("run stopped", "steps", steps, "err", err)
		// Only a cancelled parent context is the caller's error; CancelRun and Reset are not.
		return RunResult{Steps: steps, Reason: RunCancelled}, ctx.Err()
	}
	return RunResult{Steps: steps, Reason: RunHalted}, nil
}

// Running reports whether a Run is in flight.
func (m *Machine) Running() bool {
	return m.running.Load()
}

// CancelRun stops an in-flight Run before its next step. Completed steps stay applied.
func (m *Machine) CancelRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
}

func (m *Machine) cancelLocked() {
	if m.cancelRun != nil {
		m.cancelRun()
	}
}

// Reset cancels any in-flight Run and clears the machine back to q0 with no tape.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.cancelLocked()
	m.automaton.Reset(context.Background())
	m.mu.Unlock()
	m.flush()
}

// Snapshot returns the observable state.
func (m *Machine) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.automaton.Snapshot()
}

// Tape returns the loaded tape.
func (m *Machine) Tape() domain.Tape {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.automaton.Tape()
}

// Policy returns the active transition table.
func (m *Machine) Policy() *runtime.Policy {
	return m.policy
}

// Transitions returns the rules of the active policy in table order.
func (m *Machine) Transitions() []domain.Rule {
	return m.policy.Rules()
}

// Subscribe registers fn for every TransitionEvent, in step order.
// The returned function removes the subscription.
func (m *Machine) Subscribe(fn func(domain.TransitionEvent)) (unsubscribe func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.subSeq++
	id := m.subSeq
	m.subs[id] = fn
	m.subOrder = append(m.subOrder, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			defer m.subMu.Unlock()
			delete(m.subs, id)
			for i, v := range m.subOrder {
				if v == id {
					m.subOrder = append(m.subOrder[:i], m.subOrder[i+1:]...)
					break
				}
			}
		})
	}
}

func (m *Machine) publish(e domain.TransitionEvent) {
	m.subMu.Lock()
	fns := make([]func(domain.TransitionEvent), 0, len(m.subOrder))
	for _, id := range m.subOrder {
		fns = append(fns, m.subs[id])
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Validate runs input to completion on a throwaway automaton with the same policy and
// limit. Hooks and subscribers of m are not notified.
func (m *Machine) Validate(input string) (domain.Verdict, []domain.TransitionEvent, error) {
	a := runtime.New(
		runtime.WithPolicy(m.policy),
		runtime.WithMaxInputLength(m.maxInput),
	)
	ctx := context.Background()
	if err := a.Load(ctx, input); err != nil {
		return domain.VerdictPending, nil, err
	}
	events := a.RunToCompletion(ctx)
	return a.Snapshot().Verdict, events, nil
}
