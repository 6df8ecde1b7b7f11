// Package optional holds the result type of terminal operations that may not
// produce a value.
package optional

type Optional[T any] interface {
	// Get returns the value, or the zero value of T for None.
	Get() T
	IsNone() bool
}

type None[T any] struct{}

func (o None[T]) Get() T {
	var zero T
	return zero
}
func (o None[T]) IsNone() bool { return true }

type Some[T any] struct {
	Value T
}

func (o Some[T]) Get() T       { return o.Value }
func (o Some[T]) IsNone() bool { return false }
func (o Some[T]) Some(receiver *T) {
	*receiver = o.Value
}

// Of returns Some(v) when ok, None otherwise.
func Of[T any](v T, ok bool) Optional[T] {
	if ok {
		return Some[T]{Value: v}
	}
	return None[T]{}
}

// OrElse returns the value of o, or other when o is None.
func OrElse[T any](o Optional[T], other T) T {
	if o == nil || o.IsNone() {
		return other
	}
	return o.Get()
}

// Unpack returns the value and whether it is present.
func Unpack[T any](o Optional[T]) (T, bool) {
	if o == nil || o.IsNone() {
		var zero T
		return zero, false
	}
	return o.Get(), true
}
