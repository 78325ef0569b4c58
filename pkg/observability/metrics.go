package observability

import (
	"context"
	"errors"

	"github.com/aretw0/femtree/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by workspace lifecycle events.
type Metrics struct {
	ProjectIO   *prometheus.HistogramVec
	ProjectSize *prometheus.GaugeVec
	Mutations   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ProjectIO: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "femtree_project_io_seconds",
				Help:    "Duration of project loads and saves.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type", "result"},
		),
		ProjectSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "femtree_project_nodes",
				Help: "Number of nodes in a project at its last save.",
			},
			[]string{"project"},
		),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "femtree_mutations_total",
				Help: "Tree mutations by operation and result.",
			},
			[]string{"op", "result"},
		),
	}
	var err error
	if m.ProjectIO, err = register(reg, m.ProjectIO); err != nil {
		return nil, err
	}
	if m.ProjectSize, err = register(reg, m.ProjectSize); err != nil {
		return nil, err
	}
	if m.Mutations, err = register(reg, m.Mutations); err != nil {
		return nil, err
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	observe := func(_ context.Context, e *domain.ProjectEvent) {
		m.ProjectIO.WithLabelValues(string(e.Type), result(e.Err)).Observe(e.Duration.Seconds())
		if e.Type == domain.EventProjectSave && e.Err == nil {
			m.ProjectSize.WithLabelValues(e.Project).Set(float64(e.Nodes))
		}
	}
	return domain.LifecycleHooks{
		OnLoad: observe,
		OnSave: observe,
		OnMutation: func(_ context.Context, e *domain.MutationEvent) {
			m.Mutations.WithLabelValues(e.Op, result(e.Err)).Inc()
		},
	}
}

// register adds c to reg, or returns the equivalent collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, err
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
