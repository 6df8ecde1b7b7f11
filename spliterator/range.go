package spliterator

import (
	"math"

	"github.com/kabu1204/go-stream/types"
)

const rangeCharacteristics = Ordered | Sized | Subsized | Immutable | NonNull | Distinct | Sorted

// OfRange returns a cursor over lo, lo+1, ..., hi-1. It is empty when lo >= hi.
func OfRange[T types.Integer](lo, hi T) Spliterator[T] {
	if lo >= hi {
		return &rangeSpliterator[T]{from: lo, upTo: lo}
	}
	return &rangeSpliterator[T]{from: lo, upTo: hi}
}

// OfRangeClosed returns a cursor over lo, lo+1, ..., hi. It is empty when lo > hi.
func OfRangeClosed[T types.Integer](lo, hi T) Spliterator[T] {
	if lo > hi {
		return &rangeSpliterator[T]{from: lo, upTo: lo}
	}
	return &rangeSpliterator[T]{from: lo, upTo: hi, last: true}
}

// rangeSpliterator covers [from, upTo) and, when last is set, upTo itself.
// Keeping the closing element apart lets a closed range end at the largest
// value of T without overflowing.
type rangeSpliterator[T types.Integer] struct {
	from T
	upTo T
	last bool
}

// size is computed in uint64 so that ranges spanning the sign boundary of
// narrow signed kinds do not overflow.
func (s *rangeSpliterator[T]) size() (uint64, bool) {
	n := uint64(s.upTo) - uint64(s.from)
	if s.last {
		if n == math.MaxUint64 {
			return n, false
		}
		n++
	}
	return n, n <= math.MaxInt64
}

func (s *rangeSpliterator[T]) TryAdvance(action func(T)) bool {
	if s.from < s.upTo {
		i := s.from
		s.from++
		action(i)
		return true
	}
	if s.last {
		s.last = false
		action(s.upTo)
		return true
	}
	return false
}

func (s *rangeSpliterator[T]) ForEachRemaining(action func(T)) {
	i, hi, last := s.from, s.upTo, s.last
	s.from, s.last = hi, false
	for ; i < hi; i++ {
		action(i)
	}
	if last {
		action(hi)
	}
}

func (s *rangeSpliterator[T]) TrySplit() Spliterator[T] {
	n, _ := s.size()
	if n <= 1 {
		return nil
	}
	mid := s.from + T(n>>1)
	prefix := &rangeSpliterator[T]{from: s.from, upTo: mid}
	s.from = mid
	return prefix
}

func (s *rangeSpliterator[T]) EstimateSize() int64 {
	n, exact := s.size()
	if !exact {
		return Unknown
	}
	return int64(n)
}

func (s *rangeSpliterator[T]) Characteristics() Characteristics {
	if _, exact := s.size(); !exact {
		return rangeCharacteristics &^ (Sized | Subsized)
	}
	return rangeCharacteristics
}
