package stream

import (
	"sync"
	"sync/atomic"

	serrors "github.com/kabu1204/go-stream/errors"
)

// closeRegistry holds the close handlers of a pipeline and of every stage
// derived from it.
type closeRegistry struct {
	mu       sync.Mutex
	handlers []func() error
	started  atomic.Bool
	closed   atomic.Bool
}

func (r *closeRegistry) add(h func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.closed.Load():
		return stateError(serrors.ErrStreamClosed)
	case r.started.Load():
		return serrors.State("close handlers cannot be registered once traversal has started")
	}
	r.handlers = append(r.handlers, h)
	return nil
}

// start freezes the handler list.
func (r *closeRegistry) start() {
	r.mu.Lock()
	r.started.Store(true)
	r.mu.Unlock()
}

// close runs every handler once, in registration order. The first failure
// is returned and the later ones are attached to it as suppressed errors.
func (r *closeRegistry) close(exec *Executor) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.mu.Lock()
	handlers := r.handlers
	r.handlers = nil
	r.mu.Unlock()

	agg := serrors.NewAggregate(serrors.CodeClose)
	for i, h := range handlers {
		if err := runHandler(h); err != nil {
			exec.metrics.CloseHandlerFailed()
			exec.logger.Warn().Err(err).Int("handler", i).Msg("close handler failed")
			agg.Add(err)
		}
	}
	return agg.Err()
}

func runHandler(h func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = serrors.Recover(v)
		}
	}()
	return h()
}

// stateError returns a copy of a sentinel, so that callers may attach
// suppressed errors to it.
func stateError(sentinel *serrors.Error) *serrors.Error {
	return serrors.New(sentinel.Code, sentinel.Message)
}
