package stream

import (
	"iter"
	"sync/atomic"

	serrors "github.com/kabu1204/go-stream/errors"
	"github.com/kabu1204/go-stream/spliterator"
	"github.com/kabu1204/go-stream/types"
)

// head is the state shared by every stage of a pipeline.
type head struct {
	parallel atomic.Bool
	executor atomic.Pointer[Executor]
	registry closeRegistry
}

func (h *head) exec() *Executor {
	if e := h.executor.Load(); e != nil {
		return e
	}
	return DefaultExecutor()
}

// pipeline is one stage of a stream. Stages are linked from the source
// downwards; a stage that has a downstream stage, or that was consumed by a
// terminal operation, cannot be used again.
type pipeline[T any] struct {
	head  *head
	used  atomic.Bool
	flags spliterator.Characteristics
	depth int
	name  string
	// source is set on the first stage only.
	source spliterator.Spliterator[T]
	// build evaluates the stage: barrier stages run their upstream here.
	build func(ev *evaluation) segment[T]
}

func newSource[T any](sp spliterator.Spliterator[T], parallel bool) *pipeline[T] {
	h := &head{}
	h.parallel.Store(parallel)
	return &pipeline[T]{
		head:   h,
		flags:  sp.Characteristics().Normalize(),
		name:   "Source",
		source: sp,
		build:  func(*evaluation) segment[T] { return sourceSegment(sp) },
	}
}

// link marks p as spent and returns a stage fed by it. The stage's flags are
// p's flags with clear removed and set added.
func link[T, R any](p *pipeline[T], name string, set, clear spliterator.Characteristics, build func(ev *evaluation, up segment[T]) segment[R]) *pipeline[R] {
	p.spend()
	return &pipeline[R]{
		head:  p.head,
		flags: ((p.flags &^ clear) | set).Normalize(),
		depth: p.depth + 1,
		name:  name,
		build: func(ev *evaluation) segment[R] { return build(ev, p.build(ev)) },
	}
}

// stateless links a stage that transforms each element independently.
func stateless[T, R any](p *pipeline[T], name string, set, clear spliterator.Characteristics, stage func(down Sink[R]) Sink[T]) *pipeline[R] {
	keepsSize := !clear.Has(spliterator.Sized)
	return link(p, name, set, clear, func(_ *evaluation, up segment[T]) segment[R] {
		return then(up, true, keepsSize, false, stage)
	})
}

func (p *pipeline[T]) spend() {
	if err := p.checkUsable(); err != nil {
		panic(err)
	}
}

func (p *pipeline[T]) checkUsable() error {
	if p.head.registry.closed.Load() {
		return stateError(serrors.ErrStreamClosed)
	}
	if !p.used.CompareAndSwap(false, true) {
		return stateError(serrors.ErrStreamLinked)
	}
	return nil
}

// consume spends p for a terminal operation and freezes the close handlers.
func (p *pipeline[T]) consume() error {
	if err := p.checkUsable(); err != nil {
		return err
	}
	p.head.registry.start()
	return nil
}

func (p *pipeline[T]) pipeline() *pipeline[T] { return p }

func (p *pipeline[T]) Characteristics() spliterator.Characteristics { return p.flags }

func (p *pipeline[T]) Parallel() Stream[T] {
	p.head.parallel.Store(true)
	return p
}

func (p *pipeline[T]) ParallelOn(exec *Executor) Stream[T] {
	if exec == nil {
		panic(serrors.Argument("ParallelOn: executor must not be nil"))
	}
	p.head.executor.Store(exec)
	p.head.parallel.Store(true)
	return p
}

func (p *pipeline[T]) Sequential() Stream[T] {
	p.head.parallel.Store(false)
	return p
}

func (p *pipeline[T]) IsParallel() bool { return p.head.parallel.Load() }

func (p *pipeline[T]) OnClose(h func() error) Stream[T] {
	if h == nil {
		panic(serrors.Argument("OnClose: handler must not be nil"))
	}
	if p.used.Load() {
		panic(stateError(serrors.ErrStreamLinked))
	}
	if err := p.head.registry.add(h); err != nil {
		panic(err)
	}
	return p
}

func (p *pipeline[T]) Close() error {
	return p.head.registry.close(p.head.exec())
}

// Spliterator returns a cursor over the elements of the stream. The stages
// run lazily as the cursor is advanced.
func (p *pipeline[T]) Spliterator() spliterator.Spliterator[T] {
	if err := p.consume(); err != nil {
		panic(err)
	}
	if p.source != nil {
		return p.source
	}
	return newWrappingSpliterator(p)
}

func (p *pipeline[T]) Iterator() types.Iterator[T] {
	sp := p.Spliterator()
	return types.IteratorFunc[T](func() (T, bool) {
		var (
			out T
			ok  bool
		)
		sp.TryAdvance(func(t T) { out, ok = t, true })
		return out, ok
	})
}

func (p *pipeline[T]) All() iter.Seq[T] {
	sp := p.Spliterator()
	return func(yield func(T) bool) {
		more := true
		for more && sp.TryAdvance(func(t T) { more = yield(t) }) {
		}
	}
}
