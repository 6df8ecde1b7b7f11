// Package spliterator provides splittable cursors over sequences.
//
// A Spliterator traverses the elements it covers one at a time (TryAdvance) or
// in bulk (ForEachRemaining), and can hand off a prefix of its remaining
// elements to a new Spliterator (TrySplit) so that both halves can be
// traversed independently, typically by different goroutines. A Spliterator is
// not safe for concurrent use: every cursor, including the ones produced by
// TrySplit, is owned by exactly one traversing goroutine at a time.
package spliterator

import (
	"math"
	"strings"
)

// Unknown is the estimate reported when the remaining size is unknown or infinite.
const Unknown int64 = math.MaxInt64

// Characteristics is a set of structural properties of a Spliterator and of the
// elements it produces.
type Characteristics uint32

const (
	// Ordered means the elements have a defined encounter order.
	Ordered Characteristics = 1 << iota
	// Distinct means no two elements are equal.
	Distinct
	// Sorted means the encounter order follows the natural order of the elements.
	Sorted
	// Sized means EstimateSize is exact until the cursor is traversed or split.
	Sized
	// NonNull means no element is a nil value.
	NonNull
	// Immutable means the source cannot be structurally modified.
	Immutable
	// Concurrent means the source may be modified concurrently without coordination.
	Concurrent
	// Subsized means every cursor produced by TrySplit is Sized and Subsized.
	Subsized
)

var characteristicNames = []struct {
	c    Characteristics
	name string
}{
	{Ordered, "ORDERED"},
	{Distinct, "DISTINCT"},
	{Sorted, "SORTED"},
	{Sized, "SIZED"},
	{NonNull, "NONNULL"},
	{Immutable, "IMMUTABLE"},
	{Concurrent, "CONCURRENT"},
	{Subsized, "SUBSIZED"},
}

// Has reports whether every characteristic of other is set in c.
func (c Characteristics) Has(other Characteristics) bool { return c&other == other }

// Normalize enforces that Subsized implies Sized.
func (c Characteristics) Normalize() Characteristics {
	if c.Has(Subsized) && !c.Has(Sized) {
		return c &^ Subsized
	}
	return c
}

func (c Characteristics) String() string {
	var parts []string
	for _, n := range characteristicNames {
		if c.Has(n.c) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Spliterator is a splittable cursor over the elements of a source.
type Spliterator[T any] interface {
	// TryAdvance passes the next element to action and returns true, or
	// returns false without calling action when no element remains.
	TryAdvance(action func(T)) bool
	// ForEachRemaining passes every remaining element to action, in order
	// when the cursor is Ordered.
	ForEachRemaining(action func(T))
	// TrySplit returns a cursor over a prefix of the remaining elements and
	// removes that prefix from the receiver, or returns nil when the receiver
	// cannot be split.
	TrySplit() Spliterator[T]
	// EstimateSize returns an upper bound of the remaining elements, exact
	// when Sized is reported, or Unknown.
	EstimateSize() int64
	// Characteristics returns the properties of the cursor.
	Characteristics() Characteristics
}

// ExactSize returns EstimateSize when s is Sized and -1 otherwise.
func ExactSize[T any](s Spliterator[T]) int64 {
	if s.Characteristics().Has(Sized) {
		return s.EstimateSize()
	}
	return -1
}

// HasCharacteristics reports whether s reports every characteristic in c.
func HasCharacteristics[T any](s Spliterator[T], c Characteristics) bool {
	return s.Characteristics().Has(c)
}

// ForEachRemaining drains s through TryAdvance. Implementations without a
// faster bulk path use it for their ForEachRemaining.
func ForEachRemaining[T any](s Spliterator[T], action func(T)) {
	for s.TryAdvance(action) {
	}
}

// Collect drains s into a slice.
func Collect[T any](s Spliterator[T]) []T {
	var out []T
	if n := ExactSize(s); n > 0 {
		out = make([]T, 0, n)
	}
	s.ForEachRemaining(func(t T) { out = append(out, t) })
	return out
}

// Empty returns a cursor over no elements.
func Empty[T any]() Spliterator[T] { return emptySpliterator[T]{} }

type emptySpliterator[T any] struct{}

func (emptySpliterator[T]) TryAdvance(func(T)) bool          { return false }
func (emptySpliterator[T]) ForEachRemaining(func(T))         {}
func (emptySpliterator[T]) TrySplit() Spliterator[T]         { return nil }
func (emptySpliterator[T]) EstimateSize() int64              { return 0 }
func (emptySpliterator[T]) Characteristics() Characteristics { return Sized | Subsized }
