package stream

import (
	"cmp"
	"sync"

	"github.com/cornelk/hashmap"
	"github.com/emirpasic/gods/maps/treemap"

	serrors "github.com/kabu1204/go-stream/errors"
	"github.com/kabu1204/go-stream/spliterator"
	"github.com/kabu1204/go-stream/types"
)

// Stateful stages run as sinks in sequential evaluations. In parallel
// evaluations they are barriers: the upstream is evaluated first and the
// stage resumes evaluation from the buffered result. Limit and Skip over a
// sized upstream instead narrow the source cursor, and Limit and TakeWhile
// over an unsized upstream, which may be infinite, evaluate it sequentially.

// Distinct returns a stream of the distinct elements of s. Of equal elements
// the first one encountered is kept when s is ordered.
func Distinct[T comparable](s Stream[T]) Stream[T] {
	p := s.pipeline()
	return distinct(p, func(t T) any { return t }, spliterator.Sized, p.flags.Has(spliterator.Distinct))
}

func (p *pipeline[T]) DistinctBy(key func(T) any) Stream[T] {
	checkFunc(key != nil, "DistinctBy")
	return distinct(p, key, spliterator.Sized|spliterator.Sorted, false)
}

func distinct[T any](p *pipeline[T], key func(T) any, cleared spliterator.Characteristics, noop bool) *pipeline[T] {
	ordered := p.flags.Has(spliterator.Ordered)
	return link(p, "Distinct", spliterator.Distinct, cleared, func(ev *evaluation, up segment[T]) segment[T] {
		switch {
		case noop:
			return up
		case !ev.parallel:
			return then(up, false, false, false, func(down Sink[T]) Sink[T] {
				return distinctSink(down, key)
			})
		case !ordered:
			seen := &concurrentSet{}
			return then(up, false, false, false, func(down Sink[T]) Sink[T] {
				return newSink(down, func(t T) {
					if seen.add(key(t)) {
						down.Accept(t)
					}
				}, unknownSize(down))
			})
		}
		elems := collect(ev, up)
		seen := make(map[any]struct{}, len(elems))
		out := elems[:0]
		for _, t := range elems {
			k := key(t)
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				out = append(out, t)
			}
		}
		return sliceSegment(out)
	})
}

func distinctSink[T any](down Sink[T], key func(T) any) Sink[T] {
	var seen map[any]struct{}
	return newSink(down, func(t T) {
		k := key(t)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			down.Accept(t)
		}
	}, wrapSettler(func(int64) {
		seen = make(map[any]struct{})
		down.Begin(-1)
	}), wrapCleaner(func() {
		seen = nil
		down.End()
	}))
}

// concurrentSet is the seen-set shared by the leaves of an unordered
// parallel Distinct. Integer and string keys go to a lock-free hash map.
type concurrentSet struct {
	hashed hashmap.HashMap
	other  sync.Map
}

// add reports whether k was absent.
func (s *concurrentSet) add(k any) bool {
	switch k.(type) {
	case string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, uintptr:
		_, loaded := s.hashed.GetOrInsert(k, struct{}{})
		return !loaded
	}
	_, loaded := s.other.LoadOrStore(k, struct{}{})
	return !loaded
}

func (p *pipeline[T]) Sorted(cmp types.Comparator[T]) Stream[T] {
	checkFunc(cmp != nil, "Sorted")
	return sorted(p, cmp, spliterator.Ordered, spliterator.Sorted, false)
}

// Sorted returns a stream of the elements of s in natural order. Equal
// elements keep their encounter order.
func Sorted[T cmp.Ordered](s Stream[T]) Stream[T] {
	p := s.pipeline()
	return sorted(p, cmp.Compare[T], spliterator.Ordered|spliterator.Sorted, 0, p.flags.Has(spliterator.Sorted))
}

func sorted[T any](p *pipeline[T], cmp types.Comparator[T], set, cleared spliterator.Characteristics, noop bool) *pipeline[T] {
	return link(p, "Sorted", set, cleared, func(ev *evaluation, up segment[T]) segment[T] {
		switch {
		case noop:
			return up
		case !ev.parallel:
			return then(up, false, false, false, func(down Sink[T]) Sink[T] {
				return sortedSink(down, cmp)
			})
		}
		elems := collect(ev, up)
		types.Sort(elems, cmp)
		return sliceSegment(elems)
	})
}

// sortedSink buffers the elements in a tree keyed by cmp. Elements comparing
// equal share a bucket that keeps them in arrival order.
func sortedSink[T any](down Sink[T], cmp types.Comparator[T]) Sink[T] {
	var (
		tree *treemap.Map
		n    int64
	)
	return newSink(down, func(t T) {
		n++
		if bucket, ok := tree.Get(t); ok {
			tree.Put(t, append(bucket.([]T), t))
		} else {
			tree.Put(t, []T{t})
		}
	}, wrapSettler(func(int64) {
		tree = treemap.NewWith(func(a, b interface{}) int { return cmp(a.(T), b.(T)) })
		n = 0
	}), wrapCanceller(func() bool {
		return false
	}), wrapCleaner(func() {
		down.Begin(n)
		it := tree.Iterator()
	emit:
		for it.Next() {
			for _, t := range it.Value().([]T) {
				if down.CancellationRequested() {
					break emit
				}
				down.Accept(t)
			}
		}
		tree = nil
		down.End()
	}))
}

func (p *pipeline[T]) Limit(n int64) Stream[T] {
	if n < 0 {
		panic(serrors.Argument("Limit: negative count %d", n))
	}
	return slice(p, "Limit", 0, n)
}

func (p *pipeline[T]) Skip(n int64) Stream[T] {
	if n < 0 {
		panic(serrors.Argument("Skip: negative count %d", n))
	}
	return slice(p, "Skip", n, -1)
}

// slice keeps the elements at positions [skip, skip+limit); a negative limit
// keeps everything after skip.
func slice[T any](p *pipeline[T], name string, skip, limit int64) *pipeline[T] {
	return link(p, name, 0, spliterator.Subsized, func(ev *evaluation, up segment[T]) segment[T] {
		stage := func(down Sink[T]) Sink[T] { return sliceSink(down, skip, limit) }
		switch {
		case !ev.parallel:
			return then(up, false, false, limit >= 0, stage)
		case up.sized:
			return segment[T]{
				cur:          up.cur.window(skip, limit),
				wrap:         up.wrap,
				stateless:    true,
				sized:        true,
				shortCircuit: up.shortCircuit,
			}
		case limit >= 0:
			return sliceSegment(collectSequential(ev, then(up, false, false, true, stage)))
		}
		elems := collect(ev, up)
		return sliceSegment(elems[min(skip, int64(len(elems))):])
	})
}

func sliceSink[T any](down Sink[T], skip, limit int64) Sink[T] {
	n, m := skip, limit
	return newSink(down, func(t T) {
		if n > 0 {
			n--
			return
		}
		if m != 0 {
			if m > 0 {
				m--
			}
			down.Accept(t)
		}
	}, wrapSettler(func(size int64) {
		down.Begin(sliceSize(size, skip, limit))
	}), wrapCanceller(func() bool {
		return m == 0 || down.CancellationRequested()
	}))
}

func sliceSize(size, skip, limit int64) int64 {
	if size < 0 {
		return -1
	}
	n := max(size-skip, 0)
	if limit >= 0 {
		n = min(n, limit)
	}
	return n
}

func (p *pipeline[T]) TakeWhile(pred types.Predicate[T]) Stream[T] {
	checkFunc(pred != nil, "TakeWhile")
	return link(p, "TakeWhile", 0, spliterator.Sized, func(ev *evaluation, up segment[T]) segment[T] {
		stage := func(down Sink[T]) Sink[T] {
			take := true
			return newSink(down, func(t T) {
				if take && pred(t) {
					down.Accept(t)
					return
				}
				take = false
			}, unknownSize(down), wrapCanceller(func() bool {
				return !take || down.CancellationRequested()
			}))
		}
		if !ev.parallel {
			return then(up, false, false, true, stage)
		}
		return sliceSegment(collectSequential(ev, then(up, false, false, true, stage)))
	})
}

func (p *pipeline[T]) DropWhile(pred types.Predicate[T]) Stream[T] {
	checkFunc(pred != nil, "DropWhile")
	return link(p, "DropWhile", 0, spliterator.Sized, func(ev *evaluation, up segment[T]) segment[T] {
		if !ev.parallel {
			return then(up, false, false, false, func(down Sink[T]) Sink[T] {
				dropping := true
				return newSink(down, func(t T) {
					if dropping && pred(t) {
						return
					}
					dropping = false
					down.Accept(t)
				}, unknownSize(down))
			})
		}
		elems := collect(ev, up)
		i := 0
		for i < len(elems) && pred(elems[i]) {
			i++
		}
		return sliceSegment(elems[i:])
	})
}
