package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CountsWithinWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		count, err := store.Incr(ctx, "auth:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Incr(ctx, "auth:1.2.3.4", time.Minute)
	require.NoError(t, err)
	_, err = store.Incr(ctx, "auth:1.2.3.4", time.Minute)
	require.NoError(t, err)

	count, err := store.Incr(ctx, "auth:5.6.7.8", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStore_WindowExpiryResetsCount(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Incr(ctx, "auth:1.2.3.4", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	count, err := store.Incr(ctx, "auth:1.2.3.4", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
