package observability

import (
	"context"

	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "autoflow"

// Metrics holds the Prometheus collectors fed by engine events.
type Metrics struct {
	Runs         prometheus.Counter
	RunDuration  prometheus.Histogram
	Dispatches   *prometheus.CounterVec
	Failures     *prometheus.CounterVec
	LoopIterates *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of completed workflow runs",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of workflow runs",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_dispatches_total",
			Help:      "Total number of node dispatches",
		}, []string{"node_type"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_failures_total",
			Help:      "Total number of failed node dispatches",
		}, []string{"node_type"}),
		LoopIterates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loop_iterations_total",
			Help:      "Total number of loop body iterations",
		}, []string{"loop"}),
	}

	for _, c := range []prometheus.Collector{m.Runs, m.RunDuration, m.Dispatches, m.Failures, m.LoopIterates} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			m.Runs.Inc()
			if e.Report != nil {
				m.RunDuration.Observe(e.Report.Duration().Seconds())
			}
		},
		OnNodeDispatch: func(_ context.Context, e *domain.NodeEvent) {
			m.Dispatches.WithLabelValues(string(e.NodeType)).Inc()
		},
		OnActionError: func(_ context.Context, e *domain.ActionErrorEvent) {
			m.Failures.WithLabelValues(string(e.NodeType)).Inc()
		},
		OnLoopIteration: func(_ context.Context, e *domain.LoopEvent) {
			m.LoopIterates.WithLabelValues(e.Name).Inc()
		},
	}
}
