package regstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, found, err := store.Get(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Put(context.Background(), "user@example.com", "$2a$10$stub"))

	hash, found, err := store.Get(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "$2a$10$stub", hash)
}
