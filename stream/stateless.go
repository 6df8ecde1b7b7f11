package stream

import (
	"context"
	"fmt"

	serrors "github.com/kabu1204/go-stream/errors"
	"github.com/kabu1204/go-stream/spliterator"
	"github.com/kabu1204/go-stream/types"
)

func checkFunc(ok bool, op string) {
	if !ok {
		panic(serrors.Argument("%s: function must not be nil", op))
	}
}

func (p *pipeline[T]) Filter(pred types.Predicate[T]) Stream[T] {
	checkFunc(pred != nil, "Filter")
	return stateless(p, "Filter", 0, spliterator.Sized, func(down Sink[T]) Sink[T] {
		return newSink(down, func(t T) {
			if pred(t) {
				down.Accept(t)
			}
		}, unknownSize(down))
	})
}

func (p *pipeline[T]) Map(f types.Function[T, T]) Stream[T] {
	return Map[T, T](p, f)
}

// Map returns a stream of the results of applying f to the elements of s.
func Map[T, R any](s Stream[T], f func(T) R) Stream[R] {
	checkFunc(f != nil, "Map")
	return stateless(s.pipeline(), "Map", 0, spliterator.Sorted|spliterator.Distinct, func(down Sink[R]) Sink[T] {
		return newSink(down, func(t T) { down.Accept(f(t)) })
	})
}

// MapField maps every element to the value of the exported field at
// fieldPath, a dot separated list of field names followed through pointers.
// The path is resolved once per traversal against the first element.
func MapField[T, R any](s Stream[T], fieldPath string) Stream[R] {
	if fieldPath == "" {
		panic(serrors.Argument("MapField: empty field path"))
	}
	return stateless(s.pipeline(), "MapField", 0, spliterator.Sorted|spliterator.Distinct, func(down Sink[R]) Sink[T] {
		var indices []int
		return newSink(down, func(t T) {
			var (
				v  any
				ok bool
			)
			if indices != nil {
				v, ok = types.FieldByIndexPath(t, indices)
			} else {
				v, indices, ok = types.FieldPath2Index(t, fieldPath)
			}
			if !ok {
				panic(serrors.Argument("MapField: field path %q is incorrect for %T", fieldPath, t))
			}
			r, ok := v.(R)
			if !ok {
				panic(serrors.Argument("MapField: field %q is %T, not %s", fieldPath, v, typeName[R]()))
			}
			down.Accept(r)
		})
	})
}

func typeName[T any]() string {
	var ptr *T
	return fmt.Sprintf("%T", ptr)[1:]
}

func (p *pipeline[T]) Peek(f types.Consumer[T]) Stream[T] {
	checkFunc(f != nil, "Peek")
	return stateless(p, "Peek", 0, 0, func(down Sink[T]) Sink[T] {
		return newSink(down, func(t T) {
			f(t)
			down.Accept(t)
		})
	})
}

func (p *pipeline[T]) FlatMap(f func(T) Stream[T]) Stream[T] {
	return FlatMap[T, T](p, f)
}

// FlatMap replaces every element of s with the elements of the stream f
// returns for it. Each inner stream is traversed sequentially and closed
// once its elements have been passed on. A nil inner stream counts as empty.
func FlatMap[T, R any](s Stream[T], f func(T) Stream[R]) Stream[R] {
	checkFunc(f != nil, "FlatMap")
	cleared := spliterator.Sorted | spliterator.Distinct | spliterator.Sized
	return stateless(s.pipeline(), "FlatMap", 0, cleared, func(down Sink[R]) Sink[T] {
		return newSink(down, func(t T) {
			if inner := f(t); inner != nil {
				drainInto(inner.pipeline(), down)
			}
		}, unknownSize(down))
	})
}

// drainInto pushes the elements of inner into down without calling Begin or
// End on it, then closes inner.
func drainInto[R any](inner *pipeline[R], down Sink[R]) {
	done := false
	defer func() {
		if !done {
			_ = inner.Close()
		}
	}()
	if err := inner.consume(); err != nil {
		panic(err)
	}

	ev := &evaluation{
		ctx:  context.Background(),
		exec: inner.head.exec(),
		errs: serrors.NewAggregate(serrors.CodeUserFunction),
	}
	seg := inner.build(ev)
	relay := newSink(tail{}, down.Accept, wrapCanceller(down.CancellationRequested))
	seg.cur.copyInto(seg.wrap(relay), never)

	done = true
	if err := inner.Close(); err != nil {
		panic(err)
	}
}

func never() bool { return false }

func (p *pipeline[T]) Unordered() Stream[T] {
	return link(p, "Unordered", 0, spliterator.Ordered, func(_ *evaluation, up segment[T]) segment[T] {
		return up
	})
}
