package stream

import (
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/kabu1204/go-stream/config"
	serrors "github.com/kabu1204/go-stream/errors"
	"github.com/kabu1204/go-stream/logger"
	"github.com/kabu1204/go-stream/metrics"
)

// Executor runs the tasks of parallel evaluations on a bounded worker pool.
// A task that finds the pool saturated runs on the goroutine that forked it,
// so evaluations never wait for a free worker.
type Executor struct {
	pool        *ants.Pool
	parallelism int
	logger      zerolog.Logger
	metrics     *metrics.Registry
}

type ExecutorOption func(*Executor)

// WithLogger replaces the logger built from the configuration.
func WithLogger(l zerolog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = l }
}

// WithMetrics records evaluator metrics in r.
func WithMetrics(r *metrics.Registry) ExecutorOption {
	return func(e *Executor) { e.metrics = r }
}

// NewExecutor creates an executor from cfg. Zero fields of cfg take their
// defaults.
func NewExecutor(cfg config.Config, opts ...ExecutorOption) (*Executor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, serrors.Argument("invalid executor configuration").WithCause(err)
	}
	e := &Executor{
		parallelism: cfg.Parallelism,
		logger:      logger.New(cfg.Log, "stream"),
	}
	for _, o := range opts {
		o(e)
	}
	pool, err := ants.NewPool(cfg.PoolSize,
		ants.WithNonblocking(true),
		ants.WithLogger(&e.logger),
		ants.WithPanicHandler(func(v interface{}) {
			e.logger.Error().Interface("panic", v).Msg("worker panicked")
		}),
	)
	if err != nil {
		return nil, err
	}
	e.pool = pool
	e.logger.Debug().Int("parallelism", e.parallelism).Int("pool_size", cfg.PoolSize).Msg("executor started")
	return e, nil
}

// Parallelism returns the target number of concurrently evaluated leaves.
func (e *Executor) Parallelism() int { return e.parallelism }

// Running returns the number of busy workers.
func (e *Executor) Running() int { return e.pool.Running() }

// Release stops the workers. Tasks forked afterwards run inline.
func (e *Executor) Release() {
	e.pool.Release()
}

func (e *Executor) leafTarget() int { return e.parallelism * 4 }

// fork hands task to a worker and reports whether it did.
func (e *Executor) fork(task func()) bool {
	if err := e.pool.Submit(task); err != nil {
		e.metrics.TaskInline()
		e.logger.Trace().Err(err).Msg("running task inline")
		return false
	}
	e.metrics.TaskForked()
	return true
}

var (
	defaultOnce     sync.Once
	defaultExecutor atomic.Pointer[Executor]
)

// DefaultExecutor returns the executor of parallel streams that were not
// bound to one with ParallelOn. It is created from config.Default on first use.
func DefaultExecutor() *Executor {
	if e := defaultExecutor.Load(); e != nil {
		return e
	}
	defaultOnce.Do(func() {
		cfg := config.Default()
		e, err := NewExecutor(cfg, WithMetrics(metrics.New(cfg.Metrics)))
		if err != nil {
			panic(err)
		}
		if !defaultExecutor.CompareAndSwap(nil, e) {
			e.Release()
		}
	})
	return defaultExecutor.Load()
}

// SetDefaultExecutor replaces the default executor and returns the previous one.
func SetDefaultExecutor(e *Executor) *Executor {
	if e == nil {
		panic(serrors.Argument("SetDefaultExecutor: executor must not be nil"))
	}
	return defaultExecutor.Swap(e)
}
