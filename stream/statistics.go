package stream

import (
	"context"
	"fmt"

	serrors "github.com/kabu1204/go-stream/errors"
	"github.com/kabu1204/go-stream/optional"
	"github.com/kabu1204/go-stream/types"
)

// Statistics summarizes numeric elements: count, sum, minimum and maximum.
type Statistics[T types.Number] struct {
	count    int64
	sum      T
	min, max T
}

// NewStatistics returns statistics with the given state. A negative count is
// rejected, and so is min > max when count is positive. With a zero count the
// other values are ignored.
func NewStatistics[T types.Number](count int64, min, max, sum T) (Statistics[T], error) {
	switch {
	case count < 0:
		return Statistics[T]{}, serrors.Argument("negative count %d", count)
	case count == 0:
		return Statistics[T]{}, nil
	case min > max:
		return Statistics[T]{}, serrors.Argument("minimum %v is greater than maximum %v", min, max)
	}
	return Statistics[T]{count: count, sum: sum, min: min, max: max}, nil
}

// Accept records t.
func (s *Statistics[T]) Accept(t T) {
	if s.count == 0 {
		s.min, s.max = t, t
	} else {
		s.min = min(s.min, t)
		s.max = max(s.max, t)
	}
	s.count++
	s.sum += t
}

// Combine records the state of other.
func (s *Statistics[T]) Combine(other Statistics[T]) {
	switch {
	case other.count == 0:
		return
	case s.count == 0:
		*s = other
		return
	}
	s.count += other.count
	s.sum += other.sum
	s.min = min(s.min, other.min)
	s.max = max(s.max, other.max)
}

func (s Statistics[T]) Count() int64 { return s.count }
func (s Statistics[T]) Sum() T       { return s.sum }

// Min returns the minimum, or the zero value when nothing was recorded.
func (s Statistics[T]) Min() T { return s.min }

// Max returns the maximum, or the zero value when nothing was recorded.
func (s Statistics[T]) Max() T { return s.max }

// Average returns the arithmetic mean, or 0 when nothing was recorded.
func (s Statistics[T]) Average() float64 {
	if s.count == 0 {
		return 0
	}
	return float64(s.sum) / float64(s.count)
}

func (s Statistics[T]) String() string {
	return fmt.Sprintf("Statistics{count=%d, sum=%v, min=%v, average=%f, max=%v}",
		s.count, s.sum, s.min, s.Average(), s.max)
}

// Summarize computes the statistics of the elements of s.
func Summarize[T types.Number](ctx context.Context, s Stream[T]) (Statistics[T], error) {
	return evaluate(ctx, s.pipeline(), terminalOp[T, Statistics[T]]{
		name: "Summarize",
		newSink: func(*evaluation) (Sink[T], func() Statistics[T]) {
			var st Statistics[T]
			return newSink[T](tail{}, st.Accept), func() Statistics[T] { return st }
		},
		combine: func(l, r Statistics[T]) Statistics[T] {
			l.Combine(r)
			return l
		},
	})
}

// Sum returns the sum of the elements of s.
func Sum[T types.Number](ctx context.Context, s Stream[T]) (T, error) {
	return ReduceWith(ctx, s, T(0), func(acc, t T) T { return acc + t }, func(l, r T) T { return l + r })
}

// Average returns the arithmetic mean of the elements of s, or None when s
// is empty.
func Average[T types.Number](ctx context.Context, s Stream[T]) (optional.Optional[float64], error) {
	st, err := Summarize(ctx, s)
	if err != nil {
		return nil, err
	}
	return optional.Of(st.Average(), st.count > 0), nil
}
