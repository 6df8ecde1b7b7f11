package spliterator

import "github.com/kabu1204/go-stream/types"

const (
	batchUnit = 1 << 10 // batch array size increment
	maxBatch  = 1 << 25 // max batch array size
)

// OfIterator returns a cursor over the size elements produced by it.
// Sized and Subsized are reported in addition to extra.
func OfIterator[T any](it types.Iterator[T], size int64, extra Characteristics) Spliterator[T] {
	return &iteratorSpliterator[T]{
		it:              it,
		est:             size,
		characteristics: (extra | Sized | Subsized).Normalize(),
	}
}

// OfIteratorUnknownSize returns a cursor over the elements produced by it,
// reporting an Unknown size. Sized and Subsized are removed from extra.
func OfIteratorUnknownSize[T any](it types.Iterator[T], extra Characteristics) Spliterator[T] {
	return &iteratorSpliterator[T]{
		it:              it,
		est:             Unknown,
		characteristics: extra &^ (Sized | Subsized),
	}
}

// Iterate returns an infinite ordered cursor over seed, next(seed), next(next(seed)), ...
func Iterate[T any](seed T, next func(T) T) Spliterator[T] {
	return IterateWhile(seed, func(T) bool { return true }, next)
}

// IterateWhile is like Iterate but stops before the first element for which
// hasNext returns false.
func IterateWhile[T any](seed T, hasNext func(T) bool, next func(T) T) Spliterator[T] {
	var (
		prev     T
		started  bool
		finished bool
	)
	it := types.IteratorFunc[T](func() (T, bool) {
		var zero T
		if finished {
			return zero, false
		}
		t := seed
		if started {
			t = next(prev)
		}
		started = true
		if !hasNext(t) {
			finished = true
			return zero, false
		}
		prev = t
		return t, true
	})
	return OfIteratorUnknownSize[T](it, Ordered|Immutable)
}

// iteratorSpliterator splits by copying batches of arithmetically increasing
// size into array cursors. That only pays off when the per element work is
// heavier than the copy, but it bounds the overhead for cheap elements while
// still giving O(sqrt(n)) parallel pieces for unknown sizes.
type iteratorSpliterator[T any] struct {
	it              types.Iterator[T]
	est             int64 // size estimate, Unknown if not known
	batch           int   // batch size for splits
	exhausted       bool
	characteristics Characteristics
}

func (s *iteratorSpliterator[T]) next() (T, bool) {
	if s.exhausted {
		var zero T
		return zero, false
	}
	t, ok := s.it.Next()
	if !ok {
		s.exhausted = true
		if s.est != Unknown {
			s.est = 0
		}
		return t, false
	}
	if s.est != Unknown && s.est > 0 {
		s.est--
	}
	return t, true
}

func (s *iteratorSpliterator[T]) TrySplit() Spliterator[T] {
	est := s.est
	if est <= 1 || s.exhausted {
		return nil
	}
	n := s.batch + batchUnit
	if int64(n) > est {
		n = int(est)
	}
	if n > maxBatch {
		n = maxBatch
	}
	a := make([]T, 0, n)
	for len(a) < n {
		t, ok := s.next()
		if !ok {
			break
		}
		a = append(a, t)
	}
	if len(a) == 0 {
		return nil
	}
	s.batch = len(a)
	return OfSlice(a, s.characteristics)
}

func (s *iteratorSpliterator[T]) TryAdvance(action func(T)) bool {
	t, ok := s.next()
	if !ok {
		return false
	}
	action(t)
	return true
}

func (s *iteratorSpliterator[T]) ForEachRemaining(action func(T)) {
	for t, ok := s.next(); ok; t, ok = s.next() {
		action(t)
	}
}

func (s *iteratorSpliterator[T]) EstimateSize() int64 { return s.est }

func (s *iteratorSpliterator[T]) Characteristics() Characteristics { return s.characteristics }
