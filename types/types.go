// Package types holds the functional shapes and numeric constraints shared by
// the spliterator and stream packages.
package types

type (
	Predicate[T any] func(T) bool

	Function[T, R any] func(T) R

	Consumer[T any] func(T)

	Supplier[T any] func() T

	Comparator[T any] func(e1, e2 T) int

	BinaryOperator[T any] func(e1, e2 T) T

	BiFunction[T, U, R any] func(T, U) R
)

// Integer is satisfied by every built-in integer kind.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is satisfied by the built-in floating point kinds.
type Float interface {
	~float32 | ~float64
}

// Number covers the element kinds numeric terminals accept.
type Number interface {
	Integer | Float
}
