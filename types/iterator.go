package types

// Iterator is a pull cursor over a sequence.
type Iterator[T any] interface {
	// Next returns the next element and true, or the zero value and false once
	// the sequence is exhausted.
	Next() (T, bool)
}

// IteratorFunc adapts a function to Iterator.
type IteratorFunc[T any] func() (T, bool)

func (f IteratorFunc[T]) Next() (T, bool) { return f() }

type SliceIterator[T any] struct {
	index int
	slice []T
}

// NewSliceIterator returns an Iterator over s.
func NewSliceIterator[T any](s []T) *SliceIterator[T] {
	return &SliceIterator[T]{
		index: -1,
		slice: s,
	}
}

func (it *SliceIterator[T]) hasNext() bool {
	return it.index < len(it.slice)-1
}

func (it *SliceIterator[T]) Next() (T, bool) {
	if it.hasNext() {
		it.index++
		return it.slice[it.index], true
	}
	var zero T
	return zero, false
}

// Len is the total number of elements, consumed or not.
func (it *SliceIterator[T]) Len() int {
	return len(it.slice)
}

// Remaining is the number of elements Next has not returned yet.
func (it *SliceIterator[T]) Remaining() int {
	return len(it.slice) - 1 - it.index
}

func (it *SliceIterator[T]) At(i int) T {
	return it.slice[i]
}

// Seek positions the iterator so that the following Next returns element i.
func (it *SliceIterator[T]) Seek(i int) bool {
	if i < 0 || i >= len(it.slice) {
		return false
	}
	it.index = i - 1
	return true
}
