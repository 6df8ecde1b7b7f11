package spliterator

// Concat returns a cursor over the elements of a followed by the elements of b.
//
// The result is Ordered only when both inputs are, Sized and Subsized only when
// both are and their sizes do not overflow, and it never reports Distinct or
// Sorted. The first split hands out a as a whole.
func Concat[T any](a, b Spliterator[T]) Spliterator[T] {
	return &concatSpliterator[T]{
		a:           a,
		b:           b,
		beforeSplit: true,
		unsized:     a.EstimateSize()+b.EstimateSize() < 0,
	}
}

type concatSpliterator[T any] struct {
	a, b        Spliterator[T]
	beforeSplit bool // true while a may still hold elements owned by the receiver
	unsized     bool
}

func (s *concatSpliterator[T]) TrySplit() Spliterator[T] {
	if s.beforeSplit {
		s.beforeSplit = false
		return s.a
	}
	return s.b.TrySplit()
}

func (s *concatSpliterator[T]) TryAdvance(action func(T)) bool {
	if s.beforeSplit {
		if s.a.TryAdvance(action) {
			return true
		}
		s.beforeSplit = false
	}
	return s.b.TryAdvance(action)
}

func (s *concatSpliterator[T]) ForEachRemaining(action func(T)) {
	if s.beforeSplit {
		s.a.ForEachRemaining(action)
		s.beforeSplit = false
	}
	s.b.ForEachRemaining(action)
}

func (s *concatSpliterator[T]) EstimateSize() int64 {
	if !s.beforeSplit {
		return s.b.EstimateSize()
	}
	size := s.a.EstimateSize() + s.b.EstimateSize()
	if size < 0 {
		return Unknown
	}
	return size
}

func (s *concatSpliterator[T]) Characteristics() Characteristics {
	if !s.beforeSplit {
		return s.b.Characteristics()
	}
	c := s.a.Characteristics() & s.b.Characteristics() &^ (Distinct | Sorted)
	if s.unsized {
		c &^= Sized | Subsized
	}
	return c
}
