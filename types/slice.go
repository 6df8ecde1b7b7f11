package types

import "sort"

// Array sorts Data with Cmp. Use it through Sort, which keeps ties in their
// original order.
type Array[T any] struct {
	Data []T
	Cmp  Comparator[T]
}

func (s *Array[T]) Len() int           { return len(s.Data) }
func (s *Array[T]) Swap(i, j int)      { s.Data[i], s.Data[j] = s.Data[j], s.Data[i] }
func (s *Array[T]) Less(i, j int) bool { return s.Cmp(s.Data[i], s.Data[j]) < 0 }

// Sort stable-sorts data in place.
func Sort[T any](data []T, cmp Comparator[T]) {
	sort.Stable(&Array[T]{Data: data, Cmp: cmp})
}
