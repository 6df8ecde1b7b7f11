package spliterator

// Slice returns a cursor over the elements of s at positions [skip, skip+limit).
// A negative limit keeps every element after skip.
//
// When s is Sized and Subsized the result splits s directly and drops the
// pieces that fall entirely outside the window without traversing them, so
// elements outside the window are never produced. Otherwise the skipped
// prefix is traversed and discarded, and the result does not split.
func Slice[T any](s Spliterator[T], skip, limit int64) Spliterator[T] {
	fence := Unknown
	if limit >= 0 && skip <= Unknown-limit {
		fence = skip + limit
	}
	return &windowSpliterator[T]{
		s:      s,
		origin: skip,
		fence:  fence,
		index:  0,
		sized:  s.Characteristics().Has(Sized | Subsized),
	}
}

// windowSpliterator covers the absolute positions [origin, fence) of the
// sequence; index is the absolute position of the first element s holds.
type windowSpliterator[T any] struct {
	s      Spliterator[T]
	origin int64
	fence  int64
	index  int64
	sized  bool
}

func (w *windowSpliterator[T]) end() int64 {
	if !w.sized {
		return Unknown
	}
	return w.index + w.s.EstimateSize()
}

func (w *windowSpliterator[T]) TrySplit() Spliterator[T] {
	if !w.sized || w.origin >= w.fence || w.origin >= w.end() || w.index >= w.fence {
		return nil
	}
	for {
		left := w.s.TrySplit()
		if left == nil {
			return nil
		}
		leftFence := w.index + left.EstimateSize()
		switch {
		case leftFence <= w.origin:
			// left lies before the window
			w.index = leftFence
		case leftFence >= w.fence:
			// the receiver's remainder lies after the window
			w.s = left
		default:
			prefix := &windowSpliterator[T]{
				s:      left,
				origin: w.origin,
				fence:  w.fence,
				index:  w.index,
				sized:  true,
			}
			w.index = leftFence
			return prefix
		}
	}
}

func (w *windowSpliterator[T]) skipToOrigin() {
	for w.index < w.origin {
		if !w.s.TryAdvance(func(T) {}) {
			w.index = w.origin
			w.fence = w.origin
			return
		}
		w.index++
	}
}

func (w *windowSpliterator[T]) TryAdvance(action func(T)) bool {
	w.skipToOrigin()
	if w.index >= w.fence {
		return false
	}
	if !w.s.TryAdvance(action) {
		w.fence = w.index
		return false
	}
	w.index++
	return true
}

func (w *windowSpliterator[T]) ForEachRemaining(action func(T)) {
	for w.TryAdvance(action) {
	}
}

func (w *windowSpliterator[T]) EstimateSize() int64 {
	lo := max(w.origin, w.index)
	hi := min(w.fence, w.end())
	if !w.sized {
		if w.fence == Unknown {
			return w.s.EstimateSize()
		}
		return max(0, min(w.fence-lo, w.s.EstimateSize()))
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func (w *windowSpliterator[T]) Characteristics() Characteristics {
	c := w.s.Characteristics()
	if !w.sized {
		return c &^ (Sized | Subsized)
	}
	return c
}
