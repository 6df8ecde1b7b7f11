package stream

import (
	"context"

	"github.com/emirpasic/gods/lists"

	"github.com/kabu1204/go-stream/optional"
	"github.com/kabu1204/go-stream/spliterator"
	"github.com/kabu1204/go-stream/types"
)

func (p *pipeline[T]) ForEach(ctx context.Context, f types.Consumer[T]) error {
	checkFunc(f != nil, "ForEach")
	_, err := evaluate(ctx, p, terminalOp[T, struct{}]{
		name: "ForEach",
		newSink: func(*evaluation) (Sink[T], func() struct{}) {
			return newSink[T](tail{}, f), func() struct{} { return struct{}{} }
		},
		combine: func(struct{}, struct{}) struct{} { return struct{}{} },
	})
	return err
}

// ForEachOrdered calls f for every element in encounter order, one element
// at a time. A parallel stream is evaluated in parallel up to f.
func (p *pipeline[T]) ForEachOrdered(ctx context.Context, f types.Consumer[T]) error {
	checkFunc(f != nil, "ForEachOrdered")
	if !p.flags.Has(spliterator.Ordered) {
		return p.ForEach(ctx, f)
	}
	_, err := runTerminal(ctx, p, "ForEachOrdered", func(ev *evaluation, seg segment[T]) struct{} {
		if !ev.parallel {
			runSequential(ev, seg, newSink[T](tail{}, f), false)
			return struct{}{}
		}
		for _, t := range collect(ev, seg) {
			if ev.stopped() {
				break
			}
			f(t)
		}
		return struct{}{}
	})
	return err
}

func (p *pipeline[T]) ToSlice(ctx context.Context) ([]T, error) {
	out, err := runTerminal(ctx, p, "ToSlice", collect[T])
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// ToCollection adds the elements of s, in encounter order, to the list
// supplier returns.
func ToCollection[T any](ctx context.Context, s Stream[T], supplier func() lists.List) (lists.List, error) {
	checkFunc(supplier != nil, "ToCollection")
	elems, err := runTerminal(ctx, s.pipeline(), "ToCollection", collect[T])
	if err != nil {
		return nil, err
	}
	l := supplier()
	for _, t := range elems {
		l.Add(t)
	}
	return l, nil
}

func (p *pipeline[T]) Reduce(ctx context.Context, identity T, op types.BinaryOperator[T]) (T, error) {
	checkFunc(op != nil, "Reduce")
	return ReduceWith(ctx, p, identity, func(acc T, t T) T { return op(acc, t) }, op)
}

// ReduceWith folds the elements of s into identity with accumulator.
// Parallel evaluations fold every leaf from identity and merge the partial
// results with combiner, so identity must be neutral for combiner.
func ReduceWith[T, U any](ctx context.Context, s Stream[T], identity U, accumulator types.BiFunction[U, T, U], combiner func(U, U) U) (U, error) {
	checkFunc(accumulator != nil && combiner != nil, "ReduceWith")
	return evaluate(ctx, s.pipeline(), terminalOp[T, U]{
		name: "Reduce",
		newSink: func(*evaluation) (Sink[T], func() U) {
			acc := identity
			return newSink[T](tail{}, func(t T) { acc = accumulator(acc, t) }), func() U { return acc }
		},
		combine: combiner,
	})
}

func (p *pipeline[T]) ReduceOptional(ctx context.Context, op types.BinaryOperator[T]) (optional.Optional[T], error) {
	checkFunc(op != nil, "ReduceOptional")
	return reduceOptional(ctx, p, "ReduceOptional", op)
}

type partial[T any] struct {
	value T
	ok    bool
}

func reduceOptional[T any](ctx context.Context, p *pipeline[T], name string, op func(T, T) T) (optional.Optional[T], error) {
	r, err := evaluate(ctx, p, terminalOp[T, partial[T]]{
		name: name,
		newSink: func(*evaluation) (Sink[T], func() partial[T]) {
			var acc partial[T]
			return newSink[T](tail{}, func(t T) {
				if acc.ok {
					acc.value = op(acc.value, t)
				} else {
					acc = partial[T]{value: t, ok: true}
				}
			}), func() partial[T] { return acc }
		},
		combine: func(l, r partial[T]) partial[T] {
			switch {
			case !l.ok:
				return r
			case !r.ok:
				return l
			}
			return partial[T]{value: op(l.value, r.value), ok: true}
		},
	})
	if err != nil {
		return nil, err
	}
	return optional.Of(r.value, r.ok), nil
}

// Min returns the least element according to cmp, the first one of equals.
func (p *pipeline[T]) Min(ctx context.Context, cmp types.Comparator[T]) (optional.Optional[T], error) {
	checkFunc(cmp != nil, "Min")
	return reduceOptional(ctx, p, "Min", func(a, b T) T {
		if cmp(a, b) <= 0 {
			return a
		}
		return b
	})
}

// Max returns the greatest element according to cmp, the first one of equals.
func (p *pipeline[T]) Max(ctx context.Context, cmp types.Comparator[T]) (optional.Optional[T], error) {
	checkFunc(cmp != nil, "Max")
	return reduceOptional(ctx, p, "Max", func(a, b T) T {
		if cmp(a, b) >= 0 {
			return a
		}
		return b
	})
}

// Count returns the number of elements. When the size is known without
// traversal the stages are not run.
func (p *pipeline[T]) Count(ctx context.Context) (int64, error) {
	return runTerminal(ctx, p, "Count", func(ev *evaluation, seg segment[T]) int64 {
		if seg.sized {
			return seg.cur.exactSize()
		}
		newLeaf := func() (Sink[T], func() int64) {
			var n int64
			return newSink[T](tail{}, func(T) { n++ }), func() int64 { return n }
		}
		if !ev.parallel {
			sink, result := newLeaf()
			runSequential(ev, seg, sink, false)
			return result()
		}
		return runParallel(ev, seg, false, newLeaf, func(l, r int64) int64 { return l + r })
	})
}

// match evaluates a short-circuiting predicate test. A leaf stops at the
// first element for which p(t) == stopOn and then reports stopOn.
func match[T any](ctx context.Context, p *pipeline[T], name string, pred types.Predicate[T], stopOn bool) (bool, error) {
	checkFunc(pred != nil, name)
	return evaluate(ctx, p, terminalOp[T, bool]{
		name:         name,
		shortCircuit: true,
		newSink: func(ev *evaluation) (Sink[T], func() bool) {
			hit := false
			return newSink[T](tail{}, func(t T) {
					if !hit && pred(t) == stopOn {
						hit = true
						ev.satisfied.Store(true)
					}
				}, wrapCanceller(func() bool { return hit })),
				func() bool { return hit }
		},
		combine: func(l, r bool) bool { return l || r },
	})
}

func (p *pipeline[T]) AnyMatch(ctx context.Context, pred types.Predicate[T]) (bool, error) {
	return match(ctx, p, "AnyMatch", pred, true)
}

func (p *pipeline[T]) AllMatch(ctx context.Context, pred types.Predicate[T]) (bool, error) {
	failed, err := match(ctx, p, "AllMatch", pred, false)
	return !failed && err == nil, err
}

func (p *pipeline[T]) NoneMatch(ctx context.Context, pred types.Predicate[T]) (bool, error) {
	found, err := match(ctx, p, "NoneMatch", pred, true)
	return !found && err == nil, err
}

func findSink[T any](found *partial[T]) Sink[T] {
	return newSink[T](tail{}, func(t T) {
		if !found.ok {
			*found = partial[T]{value: t, ok: true}
		}
	}, wrapCanceller(func() bool { return found.ok }))
}

func firstPresent[T any](l, r partial[T]) partial[T] {
	if l.ok {
		return l
	}
	return r
}

// FindFirst returns the first element in encounter order. On an unordered
// stream it returns any element.
func (p *pipeline[T]) FindFirst(ctx context.Context) (optional.Optional[T], error) {
	if !p.flags.Has(spliterator.Ordered) {
		return p.find(ctx, "FindFirst")
	}
	r, err := runTerminal(ctx, p, "FindFirst", func(ev *evaluation, seg segment[T]) partial[T] {
		var found partial[T]
		if !ev.parallel {
			runSequential(ev, seg, findSink(&found), true)
			return found
		}
		return forkJoin(ev, seg.cur, func(cur cursor, _ int64, node *taskNode) partial[T] {
			var found partial[T]
			cur.copyInto(seg.wrap(findSink(&found)), ev.stopFunc(true, node))
			ev.exec.metrics.LeafEvaluated()
			if found.ok {
				node.cancelLaterNodes()
			}
			return found
		}, firstPresent[T])
	})
	if err != nil {
		return nil, err
	}
	return optional.Of(r.value, r.ok), nil
}

// FindAny returns some element of the stream.
func (p *pipeline[T]) FindAny(ctx context.Context) (optional.Optional[T], error) {
	return p.find(ctx, "FindAny")
}

func (p *pipeline[T]) find(ctx context.Context, name string) (optional.Optional[T], error) {
	r, err := evaluate(ctx, p, terminalOp[T, partial[T]]{
		name:         name,
		shortCircuit: true,
		newSink: func(ev *evaluation) (Sink[T], func() partial[T]) {
			var found partial[T]
			sink := findSink(&found)
			return newSink[T](sink, func(t T) {
				sink.Accept(t)
				ev.satisfied.Store(true)
			}), func() partial[T] { return found }
		},
		combine: firstPresent[T],
	})
	if err != nil {
		return nil, err
	}
	return optional.Of(r.value, r.ok), nil
}
