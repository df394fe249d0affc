package runner_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/pintape/pkg/domain"
	"github.com/aretw0/pintape/pkg/runner"
	"github.com/stretchr/testify/assert"
)

// scriptStepper replays a fixed list of results, honouring cancellation.
type scriptStepper struct {
	script []domain.StepResult
	calls  int
	onStep func(n int)
}

func (s *scriptStepper) StepIfActive(ctx context.Context) domain.StepResult {
	if ctx.Err() != nil || s.calls >= len(s.script) {
		return domain.StepResult{Notice: domain.NoticeFinished}
	}
	res := s.script[s.calls]
	s.calls++
	if s.onStep != nil {
		s.onStep(s.calls)
	}
	return res
}

func applied(to domain.State) domain.StepResult {
	return domain.StepResult{Event: &domain.TransitionEvent{To: to}}
}

func TestRunner_StopsOnHalt(t *testing.T) {
	s := &scriptStepper{script: []domain.StepResult{
		applied(domain.StateQ1),
		applied(domain.StateReject),
		applied(domain.StateQ2), // never reached
	}}
	r := runner.New(runner.WithInterval(time.Millisecond))

	steps, err := r.Run(context.Background(), s)
	assert.NoError(t, err)
	assert.Equal(t, 2, steps)
	assert.Equal(t, 2, s.calls)
}

func TestRunner_StopsOnNotice(t *testing.T) {
	s := &scriptStepper{script: []domain.StepResult{{Notice: domain.NoticeNotLoaded}}}
	steps, err := runner.New().Run(context.Background(), s)
	assert.NoError(t, err)
	assert.Equal(t, 0, steps)
}

func TestRunner_CancelBetweenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &scriptStepper{
		script: []domain.StepResult{applied(domain.StateQ1), applied(domain.StateQ2)},
		onStep: func(n int) {
			if n == 1 {
				cancel()
			}
		},
	}
	r := runner.New(runner.WithInterval(time.Hour))

	done := make(chan struct{})
	var steps int
	var err error
	go func() {
		defer close(done)
		steps, err = r.Run(ctx, s)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, steps)
	assert.Equal(t, 1, s.calls)
}

func TestRunner_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &scriptStepper{script: []domain.StepResult{applied(domain.StateQ1)}}
	steps, err := runner.New().Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, steps)
	assert.Equal(t, 0, s.calls)
}

func TestRunner_ZeroIntervalUsesDefault(t *testing.T) {
	r := runner.New(runner.WithInterval(0))
	assert.Equal(t, time.Duration(0), r.Interval)

	s := &scriptStepper{script: []domain.StepResult{applied(domain.StateAccept)}}
	steps, err := r.Run(context.Background(), s)
	assert.NoError(t, err)
	assert.Equal(t, 1, steps)
}
