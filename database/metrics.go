package database

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ridoystarlord/bakery/query"
)

// Metrics holds the statement collectors shared by instrumented executors.
type Metrics struct {
	statements *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bakery",
			Subsystem: "db",
			Name:      "statements_total",
			Help:      "Statements sent to the store, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bakery",
			Subsystem: "db",
			Name:      "statement_duration_seconds",
			Help:      "Round trip time of store statements.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	reg.MustRegister(m.statements, m.duration)
	return m
}

func (m *Metrics) observe(kind string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.statements.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

type metricsExecutor struct {
	Executor
	m *Metrics
}

// WithMetrics records every statement in m.
func WithMetrics(exec Executor, m *Metrics) Executor {
	return &metricsExecutor{Executor: exec, m: m}
}

func (e *metricsExecutor) Exec(ctx context.Context, stmt query.Statement) (ExecResult, error) {
	start := time.Now()
	res, err := e.Executor.Exec(ctx, stmt)
	e.m.observe("exec", start, err)
	return res, err
}

func (e *metricsExecutor) Query(ctx context.Context, stmt query.Statement) ([]Row, error) {
	start := time.Now()
	rows, err := e.Executor.Query(ctx, stmt)
	e.m.observe("query", start, err)
	return rows, err
}
