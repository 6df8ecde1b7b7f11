package stream

// Sink receives the elements of one traversal. Begin is called once before
// the first Accept with the exact number of elements that will follow, or -1
// when that number is unknown. End is called once after the last Accept.
type Sink[T any] interface {
	Begin(size int64)
	Accept(t T)
	End()
	// CancellationRequested reports that the sink does not want more elements.
	CancellationRequested() bool
}

// flow is the part of the sink protocol that does not depend on the element type.
type flow interface {
	Begin(size int64)
	End()
	CancellationRequested() bool
}

type hooks struct {
	settler   func(size int64)
	cleaner   func()
	canceller func() bool
}

type option func(*hooks)

func wrapSettler(f func(size int64)) option { return func(h *hooks) { h.settler = f } }
func wrapCleaner(f func()) option           { return func(h *hooks) { h.cleaner = f } }
func wrapCanceller(f func() bool) option    { return func(h *hooks) { h.canceller = f } }

// defaultWrapper forwards every signal to next.
func defaultWrapper(next flow) []option {
	return []option{
		wrapSettler(next.Begin),
		wrapCleaner(next.End),
		wrapCanceller(next.CancellationRequested),
	}
}

// unknownSize forwards Begin(-1) whatever the upstream size is.
func unknownSize(next flow) option {
	return wrapSettler(func(int64) { next.Begin(-1) })
}

type chainedSink[T any] struct {
	hooks
	consumer func(T)
}

func (s *chainedSink[T]) Begin(size int64)            { s.settler(size) }
func (s *chainedSink[T]) Accept(t T)                  { s.consumer(t) }
func (s *chainedSink[T]) End()                        { s.cleaner() }
func (s *chainedSink[T]) CancellationRequested() bool { return s.canceller() }

// newSink returns a sink that passes elements to consumer and forwards the
// other signals to next unless opts override them.
func newSink[T any](next flow, consumer func(T), opts ...option) Sink[T] {
	s := &chainedSink[T]{consumer: consumer}
	for _, o := range defaultWrapper(next) {
		o(&s.hooks)
	}
	for _, o := range opts {
		o(&s.hooks)
	}
	return s
}

// tail ends a sink chain.
type tail struct{}

func (tail) Begin(int64)                 {}
func (tail) End()                        {}
func (tail) CancellationRequested() bool { return false }
