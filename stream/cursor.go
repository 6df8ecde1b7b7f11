package stream

import "github.com/kabu1204/go-stream/spliterator"

// cursor is a Spliterator whose element type has been erased, so that a
// segment can be traversed after any number of type changing stages.
type cursor interface {
	trySplit() cursor
	estimateSize() int64
	exactSize() int64
	characteristics() spliterator.Characteristics
	// copyInto pushes the remaining elements through sink, which must be a
	// Sink of the cursor's element type. With a nil stop the bulk traversal
	// is used; otherwise elements are pulled one at a time while neither stop
	// nor the sink asks for cancellation.
	copyInto(sink any, stop func() bool)
	// tryAdvance pushes at most one element through sink.
	tryAdvance(sink any) bool
	// window restricts the cursor to the positions [skip, skip+limit).
	window(skip, limit int64) cursor
}

type typedCursor[S any] struct {
	sp spliterator.Spliterator[S]
}

func cursorOf[S any](sp spliterator.Spliterator[S]) cursor {
	return &typedCursor[S]{sp: sp}
}

func (c *typedCursor[S]) trySplit() cursor {
	if left := c.sp.TrySplit(); left != nil {
		return &typedCursor[S]{sp: left}
	}
	return nil
}

func (c *typedCursor[S]) estimateSize() int64 { return c.sp.EstimateSize() }

func (c *typedCursor[S]) exactSize() int64 { return spliterator.ExactSize(c.sp) }

func (c *typedCursor[S]) characteristics() spliterator.Characteristics {
	return c.sp.Characteristics()
}

func (c *typedCursor[S]) copyInto(sink any, stop func() bool) {
	s := sink.(Sink[S])
	s.Begin(c.exactSize())
	if stop == nil {
		c.sp.ForEachRemaining(s.Accept)
	} else {
		for !stop() && !s.CancellationRequested() && c.sp.TryAdvance(s.Accept) {
		}
	}
	s.End()
}

func (c *typedCursor[S]) tryAdvance(sink any) bool {
	return c.sp.TryAdvance(sink.(Sink[S]).Accept)
}

func (c *typedCursor[S]) window(skip, limit int64) cursor {
	return &typedCursor[S]{sp: spliterator.Slice(c.sp, skip, limit)}
}

// segment is the evaluable form of a pipeline node: a cursor over the
// elements of the last source or barrier, and the function that builds the
// sink chain of the stages applied since then.
type segment[T any] struct {
	cur cursor
	// wrap returns a fresh Sink of the cursor's element type feeding down.
	wrap func(down Sink[T]) any
	// stateless means every stage since cur keeps no state between elements,
	// so the cursor may be split and its pieces evaluated independently.
	stateless bool
	// sized means the cursor is Sized and Subsized and every stage since cur
	// emits exactly one element per input element.
	sized bool
	// shortCircuit means a stage may request cancellation.
	shortCircuit bool
}

func sourceSegment[T any](sp spliterator.Spliterator[T]) segment[T] {
	return segment[T]{
		cur:       cursorOf(sp),
		wrap:      func(down Sink[T]) any { return down },
		stateless: true,
		sized:     spliterator.HasCharacteristics(sp, spliterator.Sized|spliterator.Subsized),
	}
}

// sliceSegment resumes evaluation from the buffered output of a barrier.
func sliceSegment[T any](elems []T) segment[T] {
	return sourceSegment(spliterator.OfSlice(elems, spliterator.Ordered))
}

// then appends a stage to seg.
func then[T, R any](seg segment[T], stateless, keepsSize, shortCircuit bool, stage func(down Sink[R]) Sink[T]) segment[R] {
	wrap := seg.wrap
	return segment[R]{
		cur:          seg.cur,
		wrap:         func(down Sink[R]) any { return wrap(stage(down)) },
		stateless:    seg.stateless && stateless,
		sized:        seg.sized && keepsSize,
		shortCircuit: seg.shortCircuit || shortCircuit,
	}
}
