package pintape_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/pintape"
	"github.com/aretw0/pintape/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T, opts ...pintape.Option) *pintape.Machine {
	t.Helper()
	m, err := pintape.New(opts...)
	require.NoError(t, err)
	return m
}

func TestMachine_Scenarios(t *testing.T) {
	tests := []struct {
		input   string
		verdict domain.Verdict
		digits  int
	}{
		{"1234", domain.VerdictAccepted, 4},
		{"123456", domain.VerdictAccepted, 6},
		{"12345", domain.VerdictRejected, 5},
		{"12a4", domain.VerdictRejected, 2},
		{"0000000", domain.VerdictRejected, 7},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := newMachine(t)
			require.NoError(t, m.Load(tt.input))

			for m.Step().Applied() {
			}

			snap := m.Snapshot()
			assert.Equal(t, tt.verdict, snap.Verdict)
			assert.Equal(t, tt.digits, snap.DigitsRead)
		})
	}
}

func TestMachine_LoadErrorsKeepState(t *testing.T) {
	m := newMachine(t)
	require.NoError(t, m.Load("12"))
	m.Step()
	before := m.Snapshot()

	assert.ErrorIs(t, m.Load(""), domain.ErrInvalidInput)
	assert.ErrorIs(t, m.Load("12345678901"), domain.ErrInputTooLong)
	assert.Equal(t, before, m.Snapshot())
}

func TestMachine_New_Options(t *testing.T) {
	_, err := pintape.New(pintape.WithPolicyName("lenient"))
	assert.ErrorIs(t, err, domain.ErrUnknownPolicy)

	_, err = pintape.New(pintape.WithMaxInputLength(0))
	assert.Error(t, err)

	m := newMachine(t, pintape.WithPolicyName("deferred"), pintape.WithMaxInputLength(12))
	assert.Equal(t, "deferred", m.Policy().Name)
	assert.NoError(t, m.Load("123456789012"))
	assert.Equal(t, "deferred", m.Snapshot().Policy)
	assert.NotEmpty(t, m.Transitions())
}

func TestMachine_StepAfterFinishIsIdempotent(t *testing.T) {
	m := newMachine(t)
	assert.Equal(t, domain.NoticeNotLoaded, m.Step().Notice)

	require.NoError(t, m.Load("1"))
	for m.Step().Applied() {
	}
	before := m.Snapshot()
	assert.Equal(t, domain.NoticeFinished, m.Step().Notice)
	assert.Equal(t, before, m.Snapshot())
}

func TestMachine_RunToHalt(t *testing.T) {
	m := newMachine(t)
	require.NoError(t, m.Load("123456"))

	var seen []int
	unsubscribe := m.Subscribe(func(e domain.TransitionEvent) {
		seen = append(seen, e.Seq)
	})
	defer unsubscribe()

	res, err := m.Run(context.Background(), time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, pintape.RunHalted, res.Reason)
	assert.Equal(t, 7, res.Steps)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, seen)
	assert.Equal(t, domain.VerdictAccepted, m.Snapshot().Verdict)
	assert.False(t, m.Running())
}

func TestMachine_RunNotLoaded(t *testing.T) {
	var notices []domain.Notice
	m := newMachine(t, pintape.WithLifecycleHooks(domain.LifecycleHooks{
		OnNotice: func(_ context.Context, n domain.Notice) { notices = append(notices, n) },
	}))

	res, err := m.Run(context.Background(), time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, pintape.RunNotLoaded, res.Reason)
	assert.Equal(t, []domain.Notice{domain.NoticeNotLoaded}, notices)
}

// startRun launches Run with a long interval and waits for its first step.
func startRun(t *testing.T, m *pintape.Machine) <-chan pintape.RunResult {
	t.Helper()
	first := make(chan struct{}, 1)
	unsubscribe := m.Subscribe(func(domain.TransitionEvent) {
		select {
		case first <- struct{}{}:
		default:
		}
	})
	t.Cleanup(unsubscribe)

	done := make(chan pintape.RunResult, 1)
	go func() {
		res, _ := m.Run(context.Background(), time.Hour)
		done <- res
	}()

	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not take its first step")
	}
	return done
}

func waitRun(t *testing.T, done <-chan pintape.RunResult) pintape.RunResult {
	t.Helper()
	select {
	case res := <-done:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
		return pintape.RunResult{}
	}
}

func TestMachine_RunBusyAndCancel(t *testing.T) {
	m := newMachine(t)
	require.NoError(t, m.Load("1234"))

	done := startRun(t, m)
	assert.True(t, m.Running())

	res, err := m.Run(context.Background(), time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, pintape.RunBusy, res.Reason)

	m.CancelRun()
	res = waitRun(t, done)
	assert.Equal(t, pintape.RunCancelled, res.Reason)
	assert.Equal(t, 1, res.Steps)

	snap := m.Snapshot()
	assert.Equal(t, domain.StateQ1, snap.State, "completed steps are not rolled back")
	assert.Equal(t, 1, snap.Cursor)
}

func TestMachine_ResetCancelsRun(t *testing.T) {
	m := newMachine(t)
	require.NoError(t, m.Load("1234"))

	done := startRun(t, m)
	m.Reset()
	res := waitRun(t, done)

	assert.Equal(t, pintape.RunCancelled, res.Reason)
	snap := m.Snapshot()
	assert.False(t, snap.Loaded)
	assert.Equal(t, domain.StateQ0, snap.State)
	assert.Equal(t, 0, snap.Cursor)
}

func TestMachine_RunContextCancelled(t *testing.T) {
	m := newMachine(t)
	require.NoError(t, m.Load("1234"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := m.Run(ctx, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, pintape.RunCancelled, res.Reason)
	assert.Equal(t, 0, res.Steps)
	assert.Equal(t, 0, m.Snapshot().Cursor)
}

func TestMachine_SubscriberMayQueryAndCancel(t *testing.T) {
	m := newMachine(t)
	require.NoError(t, m.Load("123456"))

	var states []domain.State
	m.Subscribe(func(e domain.TransitionEvent) {
		states = append(states, m.Snapshot().State)
		if e.Seq == 2 {
			m.CancelRun()
		}
	})

	res, err := m.Run(context.Background(), time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, pintape.RunCancelled, res.Reason)
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, []domain.State{domain.StateQ1, domain.StateQ2}, states)
}

func TestMachine_Unsubscribe(t *testing.T) {
	m := newMachine(t)
	require.NoError(t, m.Load("12"))

	var a, b int
	unsubA := m.Subscribe(func(domain.TransitionEvent) { a++ })
	m.Subscribe(func(domain.TransitionEvent) { b++ })

	m.Step()
	unsubA()
	unsubA()
	m.Step()

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestMachine_Validate(t *testing.T) {
	m := newMachine(t)
	var calls int
	m.Subscribe(func(domain.TransitionEvent) { calls++ })

	verdict, events, err := m.Validate("4321")
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictAccepted, verdict)
	assert.Len(t, events, 5)
	assert.Zero(t, calls, "validate does not notify subscribers")

	_, _, err = m.Validate("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMachine_Determinism(t *testing.T) {
	m := newMachine(t)

	record := func() []domain.TransitionEvent {
		var events []domain.TransitionEvent
		unsubscribe := m.Subscribe(func(e domain.TransitionEvent) { events = append(events, e) })
		defer unsubscribe()

		m.Reset()
		require.NoError(t, m.Load("98x"))
		for m.Step().Applied() {
		}
		return events
	}

	first := record()
	require.NotEmpty(t, first)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, record())
	}
}
