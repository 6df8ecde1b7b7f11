package stream

import (
	"context"
	"strings"

	"github.com/emirpasic/gods/sets/hashset"
)

// CollectorFlags describe properties of a Collector.
type CollectorFlags uint8

const (
	// CollectorUnordered means the result does not depend on encounter order.
	CollectorUnordered CollectorFlags = 1 << iota
	// CollectorIdentityFinish means the container is the result and
	// Finisher may be nil.
	CollectorIdentityFinish
)

// Collector is a mutable reduction. Supplier creates a container for a run
// of elements, Accumulator adds one element to it and Combiner merges the
// container of a run into the container of the run before it. Finisher turns
// the final container into the result.
type Collector[T, A, R any] struct {
	Supplier        func() A
	Accumulator     func(A, T) A
	Combiner        func(A, A) A
	Finisher        func(A) R
	Characteristics CollectorFlags
}

func (c Collector[T, A, R]) finish(a A) R {
	if c.Finisher == nil {
		return any(a).(R)
	}
	return c.Finisher(a)
}

// Collect performs the mutable reduction c on the elements of s.
func Collect[T, A, R any](ctx context.Context, s Stream[T], c Collector[T, A, R]) (R, error) {
	checkFunc(c.Supplier != nil && c.Accumulator != nil && c.Combiner != nil, "Collect")
	if c.Finisher == nil && c.Characteristics&CollectorIdentityFinish == 0 {
		checkFunc(false, "Collect finisher")
	}
	var zero R
	a, err := evaluate(ctx, s.pipeline(), terminalOp[T, A]{
		name: "Collect",
		newSink: func(*evaluation) (Sink[T], func() A) {
			acc := c.Supplier()
			return newSink[T](tail{}, func(t T) { acc = c.Accumulator(acc, t) }), func() A { return acc }
		},
		combine: c.Combiner,
	})
	if err != nil {
		return zero, err
	}
	return c.finish(a), nil
}

// ToSliceCollector collects the elements into a slice in encounter order.
func ToSliceCollector[T any]() Collector[T, []T, []T] {
	return Collector[T, []T, []T]{
		Supplier:        func() []T { return nil },
		Accumulator:     func(a []T, t T) []T { return append(a, t) },
		Combiner:        func(l, r []T) []T { return append(l, r...) },
		Characteristics: CollectorIdentityFinish,
	}
}

// CountingCollector counts the elements.
func CountingCollector[T any]() Collector[T, int64, int64] {
	return Collector[T, int64, int64]{
		Supplier:        func() int64 { return 0 },
		Accumulator:     func(n int64, _ T) int64 { return n + 1 },
		Combiner:        func(l, r int64) int64 { return l + r },
		Characteristics: CollectorUnordered | CollectorIdentityFinish,
	}
}

// JoiningCollector concatenates the elements, separated by sep, between
// prefix and suffix.
func JoiningCollector(sep, prefix, suffix string) Collector[string, []string, string] {
	return Collector[string, []string, string]{
		Supplier:    func() []string { return nil },
		Accumulator: func(a []string, s string) []string { return append(a, s) },
		Combiner:    func(l, r []string) []string { return append(l, r...) },
		Finisher: func(a []string) string {
			return prefix + strings.Join(a, sep) + suffix
		},
	}
}

// GroupingBy groups the elements by key. Every group keeps encounter order.
func GroupingBy[T any, K comparable](key func(T) K) Collector[T, map[K][]T, map[K][]T] {
	checkFunc(key != nil, "GroupingBy")
	return Collector[T, map[K][]T, map[K][]T]{
		Supplier: func() map[K][]T { return make(map[K][]T) },
		Accumulator: func(m map[K][]T, t T) map[K][]T {
			k := key(t)
			m[k] = append(m[k], t)
			return m
		},
		Combiner: func(l, r map[K][]T) map[K][]T {
			for k, ts := range r {
				l[k] = append(l[k], ts...)
			}
			return l
		},
		Characteristics: CollectorIdentityFinish,
	}
}

// ToSetCollector collects the distinct elements into a hash set.
func ToSetCollector[T comparable]() Collector[T, *hashset.Set, *hashset.Set] {
	return Collector[T, *hashset.Set, *hashset.Set]{
		Supplier: func() *hashset.Set { return hashset.New() },
		Accumulator: func(s *hashset.Set, t T) *hashset.Set {
			s.Add(t)
			return s
		},
		Combiner: func(l, r *hashset.Set) *hashset.Set {
			l.Add(r.Values()...)
			return l
		},
		Characteristics: CollectorUnordered | CollectorIdentityFinish,
	}
}
