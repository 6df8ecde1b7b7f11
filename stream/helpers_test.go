package stream_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kabu1204/go-stream/config"
	"github.com/kabu1204/go-stream/stream"
)

var ctx = context.Background()

func newExecutor(t testing.TB) *stream.Executor {
	t.Helper()
	exec, err := stream.NewExecutor(config.Config{Parallelism: 4, PoolSize: 8})
	require.NoError(t, err)
	t.Cleanup(exec.Release)
	return exec
}

type mode struct {
	name string
	exec *stream.Executor
}

// modes returns a sequential and a parallel evaluation mode.
func modes(t testing.TB) []mode {
	return []mode{{name: "sequential"}, {name: "parallel", exec: newExecutor(t)}}
}

func in[T any](m mode, s stream.Stream[T]) stream.Stream[T] {
	if m.exec == nil {
		return s.Sequential()
	}
	return s.ParallelOn(m.exec)
}

func seq(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}

func isEven(i int) bool { return i%2 == 0 }
func double(i int) int  { return i * 2 }
func add(a, b int) int  { return a + b }
