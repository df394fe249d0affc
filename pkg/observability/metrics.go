package observability

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/pintape/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "pintape"

// Load results.
const (
	LoadOK      = "ok"
	LoadInvalid = "invalid"
	LoadTooLong = "too_long"
	LoadFailed  = "error"
)

// Metrics counts what the automaton does.
type Metrics struct {
	Loads       *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Verdicts    *prometheus.CounterVec
	Notices     *prometheus.CounterVec
	Resets      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Total number of load attempts by result",
		}, []string{"result"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Total number of applied transitions",
		}, []string{"from", "to"}),
		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Total number of terminal verdicts",
		}, []string{"verdict"}),
		Notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ignored_steps_total",
			Help:      "Total number of steps ignored with a notice",
		}, []string{"notice"}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Total number of resets",
		}),
	}

	for _, c := range []prometheus.Collector{m.Loads, m.Transitions, m.Verdicts, m.Notices, m.Resets} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that update the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(_ context.Context, e *domain.LoadEvent) {
			m.Loads.WithLabelValues(loadResult(e.Err)).Inc()
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
		OnHalt: func(_ context.Context, v domain.Verdict, _ *domain.TransitionEvent) {
			m.Verdicts.WithLabelValues(string(v)).Inc()
		},
		OnNotice: func(_ context.Context, n domain.Notice) {
			m.Notices.WithLabelValues(string(n)).Inc()
		},
		OnReset: func(context.Context) {
			m.Resets.Inc()
		},
	}
}

func loadResult(err error) string {
	switch {
	case err == nil:
		return LoadOK
	case errors.Is(err, domain.ErrInvalidInput):
		return LoadInvalid
	case errors.Is(err, domain.ErrInputTooLong):
		return LoadTooLong
	default:
		return LoadFailed
	}
}

// WriteText writes every metric family gathered from g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
