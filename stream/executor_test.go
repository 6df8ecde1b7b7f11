package stream_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabu1204/go-stream/config"
	serrors "github.com/kabu1204/go-stream/errors"
	"github.com/kabu1204/go-stream/logger"
	"github.com/kabu1204/go-stream/metrics"
	"github.com/kabu1204/go-stream/stream"
)

func TestNewExecutor(t *testing.T) {
	exec := newExecutor(t)
	assert.Equal(t, 4, exec.Parallelism())
	assert.Zero(t, exec.Running())

	_, err := stream.NewExecutor(config.Config{Log: logger.Config{Format: "xml"}})
	require.Error(t, err)
	assert.Equal(t, serrors.CodeArgument, serrors.CodeOf(err))
}

func TestReleasedExecutorRunsInline(t *testing.T) {
	exec, err := stream.NewExecutor(config.Config{Parallelism: 2, PoolSize: 2})
	require.NoError(t, err)
	exec.Release()

	sum, err := stream.Sum(ctx, stream.Range(0, 10000).ParallelOn(exec))
	require.NoError(t, err)
	assert.Equal(t, 49995000, sum)
}

func TestDefaultExecutor(t *testing.T) {
	exec := newExecutor(t)
	prev := stream.SetDefaultExecutor(exec)
	t.Cleanup(func() {
		if prev != nil {
			stream.SetDefaultExecutor(prev)
		}
	})
	assert.Same(t, exec, stream.DefaultExecutor())

	got, err := stream.Range(0, 100).Parallel().Map(double).ToSlice(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 100)
	assert.Equal(t, 198, got[99])

	assert.PanicsWithError(t, "SetDefaultExecutor: executor must not be nil", func() { stream.SetDefaultExecutor(nil) })
}

func TestExecutorMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewRegistry(reg, "test")
	exec, err := stream.NewExecutor(config.Config{Parallelism: 4, PoolSize: 8}, stream.WithMetrics(m))
	require.NoError(t, err)
	t.Cleanup(exec.Release)

	n, err := stream.Range(0, 100000).ParallelOn(exec).Filter(isEven).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), n)

	_, err = stream.Of(1, 2).ParallelOn(exec).Map(func(int) int { panic("boom") }).ToSlice(ctx)
	require.Error(t, err)

	err = stream.Of(1).ParallelOn(exec).OnClose(func() error { return errors.New("close") }).Close()
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TerminalOperations.WithLabelValues("Count", "parallel")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TerminalOperations.WithLabelValues("ToSlice", "parallel")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvaluationFailures.WithLabelValues("USER_FUNCTION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CloseHandlerFailures))
	assert.Greater(t, testutil.ToFloat64(m.LeafTasks), 1.0)
	assert.Positive(t, testutil.ToFloat64(m.TasksForked)+testutil.ToFloat64(m.TasksInline))
}

func TestExecutorLogger(t *testing.T) {
	var buf bytes.Buffer
	exec, err := stream.NewExecutor(config.Config{Parallelism: 2, PoolSize: 2},
		stream.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	require.NoError(t, err)
	t.Cleanup(exec.Release)

	_, err = stream.Range(0, 10).ParallelOn(exec).Count(ctx)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"op":"Count"`)
	assert.Contains(t, buf.String(), "terminal operation finished")
}

func Example() {
	words := stream.Of("stream", "pipeline", "sink", "spliterator", "sink")
	lengths := stream.Map(stream.Distinct(words), func(s string) int { return len(s) })
	total, err := lengths.Filter(func(n int) bool { return n > 4 }).Reduce(ctx, 0, func(a, b int) int { return a + b })
	if err != nil {
		panic(err)
	}
	fmt.Println(total)
	// Output: 25
}
