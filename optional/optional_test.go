package optional_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kabu1204/go-stream/optional"
)

func TestOptional(t *testing.T) {
	t.Run("Some", func(t *testing.T) {
		o := optional.Of(42, true)
		require.False(t, o.IsNone())
		require.Equal(t, 42, o.Get())
		require.Equal(t, 42, optional.OrElse(o, 7))

		var got int
		o.(optional.Some[int]).Some(&got)
		require.Equal(t, 42, got)
	})

	t.Run("None", func(t *testing.T) {
		o := optional.Of("ignored", false)
		require.True(t, o.IsNone())
		require.Equal(t, "", o.Get())
		require.Equal(t, "fallback", optional.OrElse(o, "fallback"))

		v, ok := optional.Unpack(o)
		require.False(t, ok)
		require.Empty(t, v)
	})

	t.Run("nil optional behaves like None", func(t *testing.T) {
		var o optional.Optional[int]
		require.Equal(t, 3, optional.OrElse(o, 3))
	})
}
