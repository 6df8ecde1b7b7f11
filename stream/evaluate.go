package stream

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	serrors "github.com/kabu1204/go-stream/errors"
)

const (
	modeSequential = "sequential"
	modeParallel   = "parallel"
)

// evaluation is the state of one terminal operation.
type evaluation struct {
	ctx      context.Context
	parallel bool
	exec     *Executor

	// aborted is set by the first failure; satisfied by a short-circuiting
	// terminal that has its answer. Either one stops every leaf.
	aborted   atomic.Bool
	satisfied atomic.Bool

	mu   sync.Mutex
	errs *serrors.Aggregate
}

func newEvaluation(ctx context.Context, h *head) *evaluation {
	return &evaluation{
		ctx:      ctx,
		parallel: h.parallel.Load(),
		exec:     h.exec(),
		errs:     serrors.NewAggregate(serrors.CodeUserFunction),
	}
}

func (ev *evaluation) mode() string {
	if ev.parallel {
		return modeParallel
	}
	return modeSequential
}

func (ev *evaluation) fail(err error) {
	ev.mu.Lock()
	ev.errs.Add(err)
	ev.mu.Unlock()
	ev.aborted.Store(true)
}

func (ev *evaluation) err() error {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.errs.Err()
}

func (ev *evaluation) stopped() bool {
	return ev.aborted.Load() || ev.satisfied.Load()
}

// capture records a panic of the calling goroutine as a failure.
func (ev *evaluation) capture() {
	if v := recover(); v != nil {
		ev.fail(serrors.Recover(v))
	}
}

// stopFunc returns the check a traversal polls between elements, or nil
// when nothing can interrupt it and the bulk traversal may be used.
func (ev *evaluation) stopFunc(shortCircuit bool, node *taskNode) func() bool {
	if !shortCircuit && !ev.parallel && ev.ctx.Done() == nil {
		return nil
	}
	return func() bool { return ev.stopped() || node.isCanceled() }
}

func canceled(cause error) *serrors.Error {
	return serrors.New(serrors.CodeCanceled, "evaluation canceled").WithCause(cause)
}

// runTerminal spends p, evaluates it with body and reports the outcome.
func runTerminal[T, R any](ctx context.Context, p *pipeline[T], op string, body func(ev *evaluation, seg segment[T]) R) (R, error) {
	var zero R
	if ctx == nil {
		ctx = context.Background()
	}
	if err := p.consume(); err != nil {
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		return zero, canceled(err)
	}

	ev := newEvaluation(ctx, p.head)
	stop := context.AfterFunc(ctx, func() { ev.fail(canceled(ctx.Err())) })
	defer stop()

	log := ev.exec.logger.With().Str("op", op).Str("mode", ev.mode()).Logger()
	log.Debug().Int("stages", p.depth).Msg("terminal operation started")
	start := time.Now()

	result := func() (r R) {
		defer ev.capture()
		seg := p.build(ev)
		if ev.aborted.Load() {
			return r
		}
		return body(ev, seg)
	}()

	elapsed := time.Since(start)
	ev.exec.metrics.ObserveTerminal(op, ev.mode(), elapsed)
	if err := ev.err(); err != nil {
		ev.exec.metrics.EvaluationFailed(string(serrors.CodeOf(err)))
		log.Debug().Err(err).Dur("duration", elapsed).Msg("terminal operation failed")
		return zero, err
	}
	log.Debug().Dur("duration", elapsed).Msg("terminal operation finished")
	return result, nil
}

// runSequential traverses seg on the calling goroutine.
func runSequential[T any](ev *evaluation, seg segment[T], sink Sink[T], shortCircuit bool) {
	seg.cur.copyInto(seg.wrap(sink), ev.stopFunc(shortCircuit || seg.shortCircuit, nil))
}

// runParallel evaluates seg with one sink per leaf and merges the leaf
// results in encounter order.
func runParallel[T, R any](ev *evaluation, seg segment[T], shortCircuit bool, newLeaf func() (Sink[T], func() R), combine func(l, r R) R) R {
	return forkJoin(ev, seg.cur, func(cur cursor, _ int64, node *taskNode) R {
		sink, result := newLeaf()
		cur.copyInto(seg.wrap(sink), ev.stopFunc(shortCircuit || seg.shortCircuit, node))
		ev.exec.metrics.LeafEvaluated()
		return result()
	}, combine)
}

// terminalOp describes a terminal operation by the sink that computes the
// result of a run of elements and the function that merges two adjacent runs.
type terminalOp[T, R any] struct {
	name         string
	shortCircuit bool
	newSink      func(ev *evaluation) (Sink[T], func() R)
	combine      func(l, r R) R
}

func evaluate[T, R any](ctx context.Context, p *pipeline[T], op terminalOp[T, R]) (R, error) {
	return runTerminal(ctx, p, op.name, func(ev *evaluation, seg segment[T]) R {
		if !ev.parallel {
			sink, result := op.newSink(ev)
			runSequential(ev, seg, sink, op.shortCircuit)
			return result()
		}
		return runParallel(ev, seg, op.shortCircuit, func() (Sink[T], func() R) {
			return op.newSink(ev)
		}, op.combine)
	})
}

func appendSink[T any](out *[]T) Sink[T] {
	return newSink[T](tail{}, func(t T) { *out = append(*out, t) }, wrapSettler(func(size int64) {
		if size > 0 {
			*out = slices.Grow(*out, int(size))
		}
	}))
}

// collect buffers the output of seg in encounter order.
func collect[T any](ev *evaluation, seg segment[T]) []T {
	if !ev.parallel {
		return collectSequential(ev, seg)
	}
	if seg.sized {
		out := make([]T, seg.cur.exactSize())
		forkJoin(ev, seg.cur, func(cur cursor, offset int64, node *taskNode) struct{} {
			i := offset
			sink := newSink[T](tail{}, func(t T) {
				out[i] = t
				i++
			})
			cur.copyInto(seg.wrap(sink), ev.stopFunc(seg.shortCircuit, node))
			ev.exec.metrics.LeafEvaluated()
			return struct{}{}
		}, func(struct{}, struct{}) struct{} { return struct{}{} })
		return out
	}
	return runParallel(ev, seg, false, func() (Sink[T], func() []T) {
		var out []T
		return appendSink(&out), func() []T { return out }
	}, func(l, r []T) []T { return append(l, r...) })
}

// collectSequential buffers the output of seg on the calling goroutine,
// stopping early when a stage of seg requests cancellation.
func collectSequential[T any](ev *evaluation, seg segment[T]) []T {
	var out []T
	runSequential(ev, seg, appendSink(&out), false)
	return out
}
