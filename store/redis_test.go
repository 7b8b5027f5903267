package store

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(t.Context(), mr.Addr(), "", "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	t.Run("should report nothing stored yet", func(t *testing.T) {
		_, ok, err := s.LoadCount(t.Context())

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should save under the namespaced key", func(t *testing.T) {
		require.NoError(t, s.SaveCount(t.Context(), 7))

		mr.CheckGet(t, "krypt:transactionCount", "7")
		count, ok, err := s.LoadCount(t.Context())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, uint64(7), count)
	})

	t.Run("should reject a non-numeric value", func(t *testing.T) {
		require.NoError(t, mr.Set("krypt:transactionCount", "seven"))

		_, _, err := s.LoadCount(t.Context())

		assert.Error(t, err)
	})
}

func TestNewRedisStore(t *testing.T) {
	t.Run("should fail when redis is unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := NewRedisStore(t.Context(), addr, "", "", 0)

		assert.Error(t, err)
	})
}
