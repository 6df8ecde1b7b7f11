package spliterator_test

import (
	"testing"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/stretchr/testify/require"

	serrors "github.com/kabu1204/go-stream/errors"
	"github.com/kabu1204/go-stream/spliterator"
	"github.com/kabu1204/go-stream/types"
)

// splitAll splits s recursively and returns the leaves in encounter order.
func splitAll[T any](s spliterator.Spliterator[T]) []spliterator.Spliterator[T] {
	prefix := s.TrySplit()
	if prefix == nil {
		return []spliterator.Spliterator[T]{s}
	}
	return append(splitAll(prefix), splitAll(s)...)
}

func collectLeaves[T any](leaves []spliterator.Spliterator[T]) []T {
	var out []T
	for _, l := range leaves {
		out = append(out, spliterator.Collect(l)...)
	}
	return out
}

func seq(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}

func TestOfSlice(t *testing.T) {
	t.Run("traversal", func(t *testing.T) {
		s := spliterator.OfSlice([]string{"a", "b", "c"}, spliterator.Ordered)
		require.True(t, s.Characteristics().Has(spliterator.Ordered|spliterator.Sized|spliterator.Subsized))
		require.Equal(t, int64(3), s.EstimateSize())

		var got []string
		require.True(t, s.TryAdvance(func(v string) { got = append(got, v) }))
		require.Equal(t, int64(2), s.EstimateSize())
		s.ForEachRemaining(func(v string) { got = append(got, v) })
		require.Equal(t, []string{"a", "b", "c"}, got)
		require.False(t, s.TryAdvance(func(string) { t.Fatal("no element expected") }))
	})

	t.Run("split keeps order and sizes", func(t *testing.T) {
		s := spliterator.OfSlice(seq(0, 101), spliterator.Ordered)
		prefix := s.TrySplit()
		require.NotNil(t, prefix)
		require.Equal(t, int64(101), prefix.EstimateSize()+s.EstimateSize())
		require.Equal(t, seq(0, 101), append(spliterator.Collect(prefix), spliterator.Collect(s)...))
	})

	t.Run("recursive split", func(t *testing.T) {
		leaves := splitAll(spliterator.OfSlice(seq(0, 1000), spliterator.Ordered))
		require.Len(t, leaves, 1000)
		require.Equal(t, seq(0, 1000), collectLeaves(leaves))
	})

	t.Run("single element does not split", func(t *testing.T) {
		require.Nil(t, spliterator.OfSlice([]int{1}, 0).TrySplit())
	})
}

func TestOfRangeClosed(t *testing.T) {
	s := spliterator.OfRangeClosed(1, 10)
	require.Equal(t, int64(10), s.EstimateSize())
	require.True(t, s.Characteristics().Has(
		spliterator.Sorted|spliterator.Distinct|spliterator.Sized|spliterator.Subsized|spliterator.Ordered))

	prefix := s.TrySplit()
	require.NotNil(t, prefix)
	require.Equal(t, int64(10), prefix.EstimateSize()+s.EstimateSize())
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		append(spliterator.Collect(prefix), spliterator.Collect(s)...))
}

func TestOfRange(t *testing.T) {
	t.Run("empty when lo >= hi", func(t *testing.T) {
		require.Equal(t, int64(0), spliterator.OfRange(5, 5).EstimateSize())
		require.Equal(t, int64(0), spliterator.OfRange(6, 5).EstimateSize())
		require.Empty(t, spliterator.Collect(spliterator.OfRangeClosed(6, 5)))
	})

	t.Run("closed range reaching the largest value", func(t *testing.T) {
		s := spliterator.OfRangeClosed[int8](-128, 127)
		require.Equal(t, int64(256), s.EstimateSize())
		leaves := splitAll(s)
		got := collectLeaves(leaves)
		require.Len(t, got, 256)
		require.Equal(t, int8(-128), got[0])
		require.Equal(t, int8(127), got[255])
	})

	t.Run("uint64 full range is not sized", func(t *testing.T) {
		s := spliterator.OfRangeClosed[uint64](0, ^uint64(0))
		require.Equal(t, spliterator.Unknown, s.EstimateSize())
		require.False(t, s.Characteristics().Has(spliterator.Sized))
	})
}

func TestOfIterator(t *testing.T) {
	t.Run("unknown size splits in growing batches", func(t *testing.T) {
		s := spliterator.OfIteratorUnknownSize[int](types.NewSliceIterator(seq(0, 4000)), spliterator.Ordered)
		require.Equal(t, spliterator.Unknown, s.EstimateSize())
		require.False(t, s.Characteristics().Has(spliterator.Sized))

		first := s.TrySplit()
		require.Equal(t, int64(1024), first.EstimateSize())
		second := s.TrySplit()
		require.Equal(t, int64(2048), second.EstimateSize())

		got := append(spliterator.Collect(first), spliterator.Collect(second)...)
		got = append(got, spliterator.Collect(s)...)
		require.Equal(t, seq(0, 4000), got)
		require.Nil(t, s.TrySplit())
	})

	t.Run("sized iterator counts down", func(t *testing.T) {
		s := spliterator.OfIterator[int](types.NewSliceIterator(seq(0, 5)), 5, spliterator.Ordered)
		require.True(t, s.Characteristics().Has(spliterator.Sized))
		require.True(t, s.TryAdvance(func(int) {}))
		require.Equal(t, int64(4), s.EstimateSize())
		prefix := s.TrySplit()
		require.Equal(t, int64(4), prefix.EstimateSize()+s.EstimateSize())
		require.Equal(t, []int{1, 2, 3, 4}, spliterator.Collect(prefix))
	})
}

func TestIterate(t *testing.T) {
	t.Run("IterateWhile stops at the predicate", func(t *testing.T) {
		s := spliterator.IterateWhile(1, func(i int) bool { return i < 100 }, func(i int) int { return i * 2 })
		require.Equal(t, []int{1, 2, 4, 8, 16, 32, 64}, spliterator.Collect(s))
	})

	t.Run("Iterate is infinite", func(t *testing.T) {
		s := spliterator.Iterate(0, func(i int) int { return i + 1 })
		var got []int
		for i := 0; i < 5; i++ {
			require.True(t, s.TryAdvance(func(v int) { got = append(got, v) }))
		}
		require.Equal(t, []int{0, 1, 2, 3, 4}, got)
		require.True(t, s.Characteristics().Has(spliterator.Ordered))
	})
}

func TestGenerate(t *testing.T) {
	s := spliterator.Generate(func() string { return "x" })
	require.Equal(t, spliterator.Unknown, s.EstimateSize())
	require.False(t, s.Characteristics().Has(spliterator.Ordered))

	prefix := s.TrySplit()
	require.NotNil(t, prefix)
	require.Equal(t, spliterator.Unknown>>1, s.EstimateSize())
	require.True(t, prefix.TryAdvance(func(v string) { require.Equal(t, "x", v) }))
}

func TestConcat(t *testing.T) {
	a := func() spliterator.Spliterator[int] { return spliterator.OfSlice([]int{1, 2}, spliterator.Ordered|spliterator.Sorted) }
	b := func() spliterator.Spliterator[int] { return spliterator.OfSlice([]int{3}, spliterator.Ordered|spliterator.Distinct) }
	c := func() spliterator.Spliterator[int] { return spliterator.OfSlice([]int{4, 5}, spliterator.Ordered) }

	t.Run("order and associativity", func(t *testing.T) {
		left := spliterator.Collect(spliterator.Concat(spliterator.Concat(a(), b()), c()))
		right := spliterator.Collect(spliterator.Concat(a(), spliterator.Concat(b(), c())))
		require.Equal(t, []int{1, 2, 3, 4, 5}, left)
		require.Equal(t, left, right)
	})

	t.Run("characteristics", func(t *testing.T) {
		s := spliterator.Concat(a(), b())
		require.True(t, s.Characteristics().Has(spliterator.Ordered|spliterator.Sized))
		require.False(t, s.Characteristics().Has(spliterator.Sorted))
		require.False(t, s.Characteristics().Has(spliterator.Distinct))
		require.Equal(t, int64(3), s.EstimateSize())

		unordered := spliterator.Concat(a(), spliterator.OfSlice([]int{9}, 0))
		require.False(t, unordered.Characteristics().Has(spliterator.Ordered))

		infinite := spliterator.Concat(a(), spliterator.Generate(func() int { return 0 }))
		require.Equal(t, spliterator.Unknown, infinite.EstimateSize())
		require.False(t, infinite.Characteristics().Has(spliterator.Sized))
	})

	t.Run("first split hands out the left side", func(t *testing.T) {
		s := spliterator.Concat(a(), c())
		prefix := s.TrySplit()
		require.Equal(t, []int{1, 2}, spliterator.Collect(prefix))
		require.Equal(t, []int{4, 5}, spliterator.Collect(s))
	})
}

func TestSlice(t *testing.T) {
	t.Run("sized window", func(t *testing.T) {
		s := spliterator.Slice(spliterator.OfRange(0, 100), 10, 20)
		require.Equal(t, int64(20), s.EstimateSize())
		require.True(t, s.Characteristics().Has(spliterator.Sized))
		require.Equal(t, seq(10, 30), collectLeaves(splitAll(s)))
	})

	t.Run("split pieces outside the window are never traversed", func(t *testing.T) {
		var visited int
		base := spliterator.OfSlice(seq(0, 64), spliterator.Ordered)
		s := spliterator.Slice(base, 40, 8)
		leaves := splitAll(s)
		for _, l := range leaves {
			l.ForEachRemaining(func(int) { visited++ })
		}
		require.Equal(t, 8, visited)
	})

	t.Run("skip past the end", func(t *testing.T) {
		s := spliterator.Slice(spliterator.OfRange(0, 5), 10, -1)
		require.Equal(t, int64(0), s.EstimateSize())
		require.Empty(t, spliterator.Collect(s))
	})

	t.Run("unsized window", func(t *testing.T) {
		s := spliterator.Slice(spliterator.Iterate(0, func(i int) int { return i + 1 }), 3, 4)
		require.Nil(t, s.TrySplit())
		require.Equal(t, []int{3, 4, 5, 6}, spliterator.Collect(s))
	})

	t.Run("zero limit", func(t *testing.T) {
		s := spliterator.Slice(spliterator.OfRange(0, 5), 1, 0)
		require.Nil(t, s.TrySplit())
		require.Empty(t, spliterator.Collect(s))
	})
}

func TestOfContainer(t *testing.T) {
	t.Run("binds late", func(t *testing.T) {
		list := arraylist.New(1, 2, 3)
		s := spliterator.OfContainer[int](list, spliterator.Ordered)
		list.Add(4)
		require.Equal(t, []int{1, 2, 3, 4}, spliterator.Collect(s))
	})

	t.Run("fails fast on modification during traversal", func(t *testing.T) {
		list := arraylist.New(1, 2, 3)
		s := spliterator.OfContainer[int](list, spliterator.Ordered)
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			require.Equal(t, serrors.CodeConcurrentModification, serrors.CodeOf(err))
		}()
		s.ForEachRemaining(func(v int) {
			if v == 1 {
				list.Add(99)
			}
		})
		t.Fatal("expected a concurrent modification panic")
	})

	t.Run("sorted set", func(t *testing.T) {
		set := treeset.NewWithIntComparator(5, 3, 9, 1)
		s := spliterator.OfContainer[int](set, spliterator.Ordered|spliterator.Sorted|spliterator.Distinct)
		require.Equal(t, int64(4), s.EstimateSize())
		require.Equal(t, []int{1, 3, 5, 9}, collectLeaves(splitAll(s)))
	})
}

func TestCharacteristicsString(t *testing.T) {
	require.Equal(t, "ORDERED|SIZED", (spliterator.Ordered | spliterator.Sized).String())
	require.Equal(t, "NONE", spliterator.Characteristics(0).String())
	require.Equal(t, spliterator.Ordered, (spliterator.Ordered | spliterator.Subsized).Normalize())
}
