package spliterator

// Generate returns an infinite, unordered cursor whose elements are produced
// by calling supplier. Splitting halves the nominal estimate so the evaluator
// stops splitting after a logarithmic number of levels.
func Generate[T any](supplier func() T) Spliterator[T] {
	return &generatingSpliterator[T]{supplier: supplier, est: Unknown}
}

type generatingSpliterator[T any] struct {
	supplier func() T
	est      int64
}

func (s *generatingSpliterator[T]) TryAdvance(action func(T)) bool {
	action(s.supplier())
	return true
}

// ForEachRemaining never returns on its own; callers must short-circuit
// through TryAdvance instead.
func (s *generatingSpliterator[T]) ForEachRemaining(action func(T)) {
	for {
		action(s.supplier())
	}
}

func (s *generatingSpliterator[T]) TrySplit() Spliterator[T] {
	if s.est == 0 {
		return nil
	}
	s.est >>= 1
	return &generatingSpliterator[T]{supplier: s.supplier, est: s.est}
}

func (s *generatingSpliterator[T]) EstimateSize() int64 { return s.est }

func (s *generatingSpliterator[T]) Characteristics() Characteristics { return Immutable }
