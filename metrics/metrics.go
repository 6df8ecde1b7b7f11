// Package metrics provides Prometheus instrumentation for stream evaluation.
//
// A nil *Registry is valid and records nothing, so the evaluators can call its
// methods unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DefaultNamespace = "gostream"
	subsystem        = "stream"
)

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Namespace overrides the default "gostream" namespace for metrics.
	Namespace string `yaml:"namespace" mapstructure:"namespace"`

	// Registry is the Prometheus registerer to use. If nil, prometheus.DefaultRegisterer is used.
	Registry prometheus.Registerer `yaml:"-" mapstructure:"-"`
}

// Registry holds all metric instances of the stream evaluators.
type Registry struct {
	TerminalOperations   *prometheus.CounterVec
	TerminalDuration     *prometheus.HistogramVec
	TasksForked          prometheus.Counter
	TasksInline          prometheus.Counter
	LeafTasks            prometheus.Counter
	EvaluationFailures   *prometheus.CounterVec
	CloseHandlerFailures prometheus.Counter
}

// New returns a registry for cfg, or nil when metrics are disabled.
func New(cfg Config) *Registry {
	if !cfg.Enabled {
		return nil
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	return NewRegistry(reg, ns)
}

// NewRegistry creates and registers the stream metrics with reg.
func NewRegistry(reg prometheus.Registerer, namespace string) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		TerminalOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "terminal_operations_total",
				Help:      "Total number of terminal operations evaluated",
			},
			[]string{"op", "mode"},
		),

		TerminalDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "terminal_duration_seconds",
				Help:      "Time spent evaluating terminal operations",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"op", "mode"},
		),

		TasksForked: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_forked_total",
				Help:      "Total number of parallel tasks handed to the worker pool",
			},
		),

		TasksInline: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_inline_total",
				Help:      "Total number of parallel tasks run on the forking goroutine because the pool was saturated",
			},
		),

		LeafTasks: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "leaf_tasks_total",
				Help:      "Total number of leaf tasks evaluated by the parallel evaluator",
			},
		),

		EvaluationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "evaluation_failures_total",
				Help:      "Total number of terminal operations that failed",
			},
			[]string{"code"},
		),

		CloseHandlerFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "close_handler_failures_total",
				Help:      "Total number of close handlers that failed",
			},
		),
	}
}

// ObserveTerminal records one terminal operation and its duration.
func (r *Registry) ObserveTerminal(op, mode string, d time.Duration) {
	if r == nil {
		return
	}
	r.TerminalOperations.WithLabelValues(op, mode).Inc()
	r.TerminalDuration.WithLabelValues(op, mode).Observe(d.Seconds())
}

// TaskForked records a task submitted to the pool.
func (r *Registry) TaskForked() {
	if r == nil {
		return
	}
	r.TasksForked.Inc()
}

// TaskInline records a task that ran on the forking goroutine.
func (r *Registry) TaskInline() {
	if r == nil {
		return
	}
	r.TasksInline.Inc()
}

// LeafEvaluated records one evaluated leaf task.
func (r *Registry) LeafEvaluated() {
	if r == nil {
		return
	}
	r.LeafTasks.Inc()
}

// EvaluationFailed records a failed terminal operation.
func (r *Registry) EvaluationFailed(code string) {
	if r == nil {
		return
	}
	r.EvaluationFailures.WithLabelValues(code).Inc()
}

// CloseHandlerFailed records a failed close handler.
func (r *Registry) CloseHandlerFailed() {
	if r == nil {
		return
	}
	r.CloseHandlerFailures.Inc()
}
