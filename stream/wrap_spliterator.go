package stream

import (
	"context"

	"github.com/kabu1204/go-stream/spliterator"
)

// wrappingSpliterator runs the stages of a pipeline as it is advanced. Each
// step pushes one source element through the sink chain and buffers what
// comes out.
type wrappingSpliterator[T any] struct {
	p     *pipeline[T]
	flags spliterator.Characteristics

	bound bool
	seg   segment[T]

	stepping bool
	finished bool
	sink     any
	down     Sink[T]
	buffer   []T
	pos      int
}

func newWrappingSpliterator[T any](p *pipeline[T]) *wrappingSpliterator[T] {
	return &wrappingSpliterator[T]{p: p, flags: p.flags}
}

// bind evaluates the pipeline up to its last barrier.
func (w *wrappingSpliterator[T]) bind() {
	if w.bound {
		return
	}
	w.bound = true
	ev := newEvaluation(context.Background(), w.p.head)
	w.seg = func() (seg segment[T]) {
		defer ev.capture()
		return w.p.build(ev)
	}()
	if err := ev.err(); err != nil {
		panic(err)
	}
	w.p = nil
}

func (w *wrappingSpliterator[T]) startStepping() {
	w.stepping = true
	w.down = newSink[T](tail{}, func(t T) { w.buffer = append(w.buffer, t) })
	w.sink = w.seg.wrap(w.down)
	w.sink.(flow).Begin(w.seg.cur.exactSize())
}

// fill makes sure the buffer holds an element, reporting false at the end.
func (w *wrappingSpliterator[T]) fill() bool {
	for w.pos >= len(w.buffer) {
		if w.finished {
			return false
		}
		w.buffer, w.pos = w.buffer[:0], 0
		head := w.sink.(flow)
		if head.CancellationRequested() || !w.seg.cur.tryAdvance(w.sink) {
			w.finished = true
			head.End()
		}
	}
	return true
}

func (w *wrappingSpliterator[T]) TryAdvance(action func(T)) bool {
	w.bind()
	if !w.stepping {
		w.startStepping()
	}
	if !w.fill() {
		return false
	}
	t := w.buffer[w.pos]
	w.pos++
	action(t)
	return true
}

func (w *wrappingSpliterator[T]) ForEachRemaining(action func(T)) {
	w.bind()
	if w.stepping || w.finished {
		for w.TryAdvance(action) {
		}
		return
	}
	w.finished = true
	var stop func() bool
	if w.seg.shortCircuit {
		stop = never
	}
	w.seg.cur.copyInto(w.seg.wrap(newSink[T](tail{}, action)), stop)
}

func (w *wrappingSpliterator[T]) TrySplit() spliterator.Spliterator[T] {
	w.bind()
	if w.stepping || w.finished || !w.seg.stateless {
		return nil
	}
	left := w.seg.cur.trySplit()
	if left == nil {
		return nil
	}
	seg := w.seg
	seg.cur = left
	return &wrappingSpliterator[T]{flags: w.flags, bound: true, seg: seg}
}

func (w *wrappingSpliterator[T]) EstimateSize() int64 {
	w.bind()
	n := w.seg.cur.estimateSize()
	if w.seg.sized {
		n += int64(len(w.buffer) - w.pos)
	}
	return n
}

func (w *wrappingSpliterator[T]) Characteristics() spliterator.Characteristics {
	w.bind()
	if w.seg.sized {
		return w.flags | spliterator.Sized | spliterator.Subsized
	}
	return w.flags &^ (spliterator.Sized | spliterator.Subsized)
}
