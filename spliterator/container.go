package spliterator

import (
	"github.com/emirpasic/gods/containers"

	serrors "github.com/kabu1204/go-stream/errors"
)

// OfContainer returns a cursor over the values of a gods container.
//
// The cursor binds late: the container is snapshotted when the cursor is first
// traversed, split or asked for its size after binding, so modifications made
// before the traversal starts are visible. Once bound, a change of the
// container's size panics with a CodeConcurrentModification error at the next
// element. Values that are not of type T panic as well.
func OfContainer[T any](c containers.Container, extra Characteristics) Spliterator[T] {
	return &containerSpliterator[T]{
		c:               c,
		fence:           -1,
		characteristics: (extra | Sized | Subsized).Normalize(),
	}
}

type containerSpliterator[T any] struct {
	c               containers.Container
	values          []any
	index           int
	fence           int // -1 until bound
	expectedSize    int
	characteristics Characteristics
}

func (s *containerSpliterator[T]) bind() {
	if s.fence >= 0 {
		return
	}
	s.values = s.c.Values()
	s.expectedSize = s.c.Size()
	s.fence = len(s.values)
}

func (s *containerSpliterator[T]) checkForComodification() {
	if size := s.c.Size(); size != s.expectedSize {
		panic(serrors.ConcurrentModification(
			"container size changed from %d to %d during traversal", s.expectedSize, size))
	}
}

func (s *containerSpliterator[T]) TrySplit() Spliterator[T] {
	s.bind()
	lo := s.index
	mid := int(uint(lo+s.fence) >> 1)
	if lo >= mid {
		return nil
	}
	s.index = mid
	return &containerSpliterator[T]{
		c:               s.c,
		values:          s.values,
		index:           lo,
		fence:           mid,
		expectedSize:    s.expectedSize,
		characteristics: s.characteristics,
	}
}

func (s *containerSpliterator[T]) TryAdvance(action func(T)) bool {
	s.bind()
	if s.index >= s.fence {
		return false
	}
	s.checkForComodification()
	v := s.values[s.index]
	s.index++
	var t T
	if v != nil {
		t = v.(T)
	}
	action(t)
	return true
}

func (s *containerSpliterator[T]) ForEachRemaining(action func(T)) {
	for s.TryAdvance(action) {
	}
	if s.fence >= 0 {
		s.checkForComodification()
	}
}

func (s *containerSpliterator[T]) EstimateSize() int64 {
	if s.fence < 0 {
		return int64(s.c.Size())
	}
	return int64(s.fence - s.index)
}

func (s *containerSpliterator[T]) Characteristics() Characteristics { return s.characteristics }
