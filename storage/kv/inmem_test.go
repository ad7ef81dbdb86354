package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule/core"
)

func TestInMemStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemStore()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, core.ErrKeyNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", []byte("v1")))
		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)
	})

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", []byte("v2")))
		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", []byte("abc")))
		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		got[0] = 'z'

		again, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "k"))
		_, err := store.Get(ctx, "k")
		assert.ErrorIs(t, err, core.ErrKeyNotFound)

		require.NoError(t, store.Delete(ctx, "k")) // deleting a missing key is fine
	})
}
