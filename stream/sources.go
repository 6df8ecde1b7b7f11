package stream

import (
	"iter"

	"github.com/emirpasic/gods/lists"
	"github.com/emirpasic/gods/sets"
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/emirpasic/gods/sets/treeset"

	serrors "github.com/kabu1204/go-stream/errors"
	"github.com/kabu1204/go-stream/spliterator"
	"github.com/kabu1204/go-stream/types"
)

// Of returns a sequential stream of elems.
func Of[T any](elems ...T) Stream[T] {
	return FromSlice(elems)
}

// FromSlice returns a sequential stream of the elements of s. s must not be
// modified until the stream has been traversed.
func FromSlice[T any](s []T) Stream[T] {
	return newSource(spliterator.OfSlice(s, spliterator.Ordered|spliterator.Immutable), false)
}

// FromSpliterator returns a stream over the elements of sp.
func FromSpliterator[T any](sp spliterator.Spliterator[T], parallel bool) Stream[T] {
	if sp == nil {
		panic(serrors.Argument("FromSpliterator: spliterator must not be nil"))
	}
	return newSource(sp, parallel)
}

// FromIterator returns a sequential ordered stream of the elements of it.
// Iterators that report how many elements remain, like types.SliceIterator,
// give a sized stream.
func FromIterator[T any](it types.Iterator[T]) Stream[T] {
	if it == nil {
		panic(serrors.Argument("FromIterator: iterator must not be nil"))
	}
	if r, ok := it.(interface{ Remaining() int }); ok {
		return newSource(spliterator.OfIterator(it, int64(r.Remaining()), spliterator.Ordered), false)
	}
	return newSource(spliterator.OfIteratorUnknownSize(it, spliterator.Ordered), false)
}

// FromSeq returns a sequential ordered stream of the values of seq. The
// iteration is stopped when the stream is closed.
func FromSeq[T any](seq iter.Seq[T]) Stream[T] {
	if seq == nil {
		panic(serrors.Argument("FromSeq: sequence must not be nil"))
	}
	next, stop := iter.Pull(seq)
	s := FromIterator(types.IteratorFunc[T](next))
	return s.OnClose(func() error {
		stop()
		return nil
	})
}

// FromList returns a sequential ordered stream of the values of l. The list
// is read when the traversal starts, and a change of its size during the
// traversal fails the evaluation with CONCURRENT_MODIFICATION.
func FromList[T any](l lists.List) Stream[T] {
	return newSource(spliterator.OfContainer[T](l, spliterator.Ordered), false)
}

// FromSet returns a sequential stream of the values of set. Tree sets and
// linked hash sets are ordered.
func FromSet[T any](set sets.Set) Stream[T] {
	ch := spliterator.Distinct
	switch set.(type) {
	case *treeset.Set, *linkedhashset.Set:
		ch |= spliterator.Ordered
	}
	return newSource(spliterator.OfContainer[T](set, ch), false)
}

// Range returns the integers in [lo, hi), in ascending order.
func Range[T types.Integer](lo, hi T) Stream[T] {
	return newSource(spliterator.OfRange(lo, hi), false)
}

// RangeClosed returns the integers in [lo, hi], in ascending order.
func RangeClosed[T types.Integer](lo, hi T) Stream[T] {
	return newSource(spliterator.OfRangeClosed(lo, hi), false)
}

// Generate returns an infinite unordered stream of the values of supplier.
func Generate[T any](supplier types.Supplier[T]) Stream[T] {
	checkFunc(supplier != nil, "Generate")
	return newSource(spliterator.Generate[T](supplier), false)
}

// Iterate returns the infinite stream seed, next(seed), next(next(seed)), ...
func Iterate[T any](seed T, next types.Function[T, T]) Stream[T] {
	checkFunc(next != nil, "Iterate")
	return newSource(spliterator.Iterate[T](seed, next), false)
}

// IterateWhile is Iterate ending before the first element for which hasNext
// is false.
func IterateWhile[T any](seed T, hasNext types.Predicate[T], next types.Function[T, T]) Stream[T] {
	checkFunc(hasNext != nil && next != nil, "IterateWhile")
	return newSource(spliterator.IterateWhile[T](seed, hasNext, next), false)
}

// Empty returns a stream without elements.
func Empty[T any]() Stream[T] {
	return newSource(spliterator.Empty[T](), false)
}

// Concat returns the elements of a followed by the elements of b. The result
// is parallel when either input is, and closing it closes both inputs.
func Concat[T any](a, b Stream[T]) Stream[T] {
	pa, pb := a.pipeline(), b.pipeline()
	parallel := pa.IsParallel() || pb.IsParallel()
	s := newSource(spliterator.Concat(pa.Spliterator(), pb.Spliterator()), parallel)
	s.head.registry.handlers = append(s.head.registry.handlers, pa.Close, pb.Close)
	return s
}

// Builder accumulates the elements of a stream one at a time.
type Builder[T any] struct {
	elems []T
	built bool
}

func NewBuilder[T any]() *Builder[T] { return &Builder[T]{} }

// Add appends t. It panics once Build has been called.
func (b *Builder[T]) Add(t T) *Builder[T] {
	if b.built {
		panic(stateError(serrors.ErrBuilderClosed))
	}
	b.elems = append(b.elems, t)
	return b
}

// Accept appends t, like Add.
func (b *Builder[T]) Accept(t T) { b.Add(t) }

// Build returns a stream of the added elements. It panics when called twice.
func (b *Builder[T]) Build() Stream[T] {
	if b.built {
		panic(stateError(serrors.ErrBuilderClosed))
	}
	b.built = true
	return FromSlice(b.elems)
}
