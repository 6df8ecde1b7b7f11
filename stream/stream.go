// Package stream implements lazy, composable sequences of elements that are
// evaluated sequentially or in parallel.
//
// A Stream is built from a source (see Of, FromSlice, Range, Generate, ...)
// followed by intermediate operations such as Filter or Map. Nothing runs
// until a terminal operation such as ToSlice or Reduce is invoked; the
// elements then flow through the stages one at a time. Every stage may be
// used once: linking a second stage to it, or invoking a terminal operation
// on a stage that already has one, panics (intermediate operations) or
// returns (terminal operations) an error with code STATE.
//
// Parallel streams split their source with spliterator.Spliterator.TrySplit
// and evaluate the pieces on an Executor. Results are merged in encounter
// order unless the stream is unordered.
package stream

import (
	"context"
	"iter"

	"github.com/kabu1204/go-stream/optional"
	"github.com/kabu1204/go-stream/spliterator"
	"github.com/kabu1204/go-stream/types"
)

type Stream[T any] interface {
	// stateless
	Filter(p types.Predicate[T]) Stream[T]
	Map(f types.Function[T, T]) Stream[T]
	FlatMap(f func(T) Stream[T]) Stream[T]
	Peek(f types.Consumer[T]) Stream[T]

	// stateful
	DistinctBy(key func(T) any) Stream[T]    // keeps the first element of every key
	Sorted(cmp types.Comparator[T]) Stream[T] // stable
	Limit(n int64) Stream[T]                 // first n elements
	Skip(n int64) Stream[T]                  // all but the first n elements
	TakeWhile(p types.Predicate[T]) Stream[T]
	DropWhile(p types.Predicate[T]) Stream[T]
	Unordered() Stream[T]

	// The last of Parallel, ParallelOn and Sequential before the terminal
	// operation decides how the whole pipeline is evaluated.
	Parallel() Stream[T]
	ParallelOn(exec *Executor) Stream[T]
	Sequential() Stream[T]
	IsParallel() bool
	Characteristics() spliterator.Characteristics

	// OnClose registers h to run on Close. Handlers run in registration order.
	OnClose(h func() error) Stream[T]
	Close() error

	ForEach(ctx context.Context, f types.Consumer[T]) error
	ForEachOrdered(ctx context.Context, f types.Consumer[T]) error
	ToSlice(ctx context.Context) ([]T, error)
	Reduce(ctx context.Context, identity T, op types.BinaryOperator[T]) (T, error)
	ReduceOptional(ctx context.Context, op types.BinaryOperator[T]) (optional.Optional[T], error)
	Count(ctx context.Context) (int64, error)
	Min(ctx context.Context, cmp types.Comparator[T]) (optional.Optional[T], error)
	Max(ctx context.Context, cmp types.Comparator[T]) (optional.Optional[T], error)
	AnyMatch(ctx context.Context, p types.Predicate[T]) (bool, error)
	AllMatch(ctx context.Context, p types.Predicate[T]) (bool, error)
	NoneMatch(ctx context.Context, p types.Predicate[T]) (bool, error)
	FindFirst(ctx context.Context) (optional.Optional[T], error)
	FindAny(ctx context.Context) (optional.Optional[T], error)

	// Spliterator, Iterator and All traverse the stream lazily. Failures
	// inside the pipeline panic in the caller.
	Spliterator() spliterator.Spliterator[T]
	Iterator() types.Iterator[T]
	All() iter.Seq[T]

	pipeline() *pipeline[T]
}
