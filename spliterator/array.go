package spliterator

// OfSlice returns a cursor over elems. It always reports Sized and Subsized in
// addition to extra. elems must not be modified while the cursor is in use.
func OfSlice[T any](elems []T, extra Characteristics) Spliterator[T] {
	return &arraySpliterator[T]{
		array:           elems,
		index:           0,
		fence:           len(elems),
		characteristics: (extra | Sized | Subsized).Normalize(),
	}
}

type arraySpliterator[T any] struct {
	array           []T
	index           int // current index, modified on advance and split
	fence           int // one past the last index
	characteristics Characteristics
}

func (s *arraySpliterator[T]) TrySplit() Spliterator[T] {
	lo := s.index
	mid := int(uint(lo+s.fence) >> 1)
	if lo >= mid {
		return nil
	}
	s.index = mid
	return &arraySpliterator[T]{
		array:           s.array,
		index:           lo,
		fence:           mid,
		characteristics: s.characteristics,
	}
}

func (s *arraySpliterator[T]) ForEachRemaining(action func(T)) {
	i, hi := s.index, s.fence
	s.index = hi
	for ; i < hi; i++ {
		action(s.array[i])
	}
}

func (s *arraySpliterator[T]) TryAdvance(action func(T)) bool {
	if s.index < s.fence {
		e := s.array[s.index]
		s.index++
		action(e)
		return true
	}
	return false
}

func (s *arraySpliterator[T]) EstimateSize() int64 { return int64(s.fence - s.index) }

func (s *arraySpliterator[T]) Characteristics() Characteristics { return s.characteristics }
