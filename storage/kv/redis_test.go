package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStore(t *testing.T) {
	t.Run("rejects malformed urls", func(t *testing.T) {
		_, err := NewRedisStore("not-a-url")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing redis url")
	})

	t.Run("accepts a redis url", func(t *testing.T) {
		store, err := NewRedisStore("redis://localhost:6379/0")
		require.NoError(t, err)
		require.NotNil(t, store)
		require.NoError(t, store.Close())
	})
}
