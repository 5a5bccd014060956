package statestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, ok, err := store.Load(ctx, "orders-storage")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save(ctx, "orders-storage", []byte(`{"orders":[]}`)))

	data, ok, err := store.Load(ctx, "orders-storage")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"orders":[]}`, string(data))

	// Mutating the returned slice must not corrupt the stored blob.
	data[0] = 'X'
	again, _, err := store.Load(ctx, "orders-storage")
	require.NoError(t, err)
	require.JSONEq(t, `{"orders":[]}`, string(again))
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Load(ctx, "products-storage")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save(ctx, "products-storage", []byte(`[1,2,3]`)))
	require.NoError(t, store.Save(ctx, "products-storage", []byte(`[4]`)))

	data, ok, err := store.Load(ctx, "products-storage")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[4]`, string(data))
}

func TestFileRequiresDirectory(t *testing.T) {
	_, err := NewFile("")
	require.Error(t, err)
}
