package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonceStore_CheckAndSet_NewNonce(t *testing.T) {
	_, client := newTestClient(t)
	store := NewNonceStore(client)

	ok, err := store.CheckAndSet(context.Background(), "marketplace", "nonce-abc", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "new nonce should be accepted")
}

func TestNonceStore_CheckAndSet_ReplayNonce(t *testing.T) {
	_, client := newTestClient(t)
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "marketplace", "nonce-xyz", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.CheckAndSet(ctx, "marketplace", "nonce-xyz", 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "replayed nonce should be rejected")
}

func TestNonceStore_CheckAndSet_ScopedByClient(t *testing.T) {
	_, client := newTestClient(t)
	store := NewNonceStore(client)
	ctx := context.Background()

	ok1, err := store.CheckAndSet(ctx, "marketplace", "nonce-123", 5*time.Minute)
	require.NoError(t, err)
	ok2, err := store.CheckAndSet(ctx, "reporting", "nonce-123", 5*time.Minute)
	require.NoError(t, err)

	assert.True(t, ok1)
	assert.True(t, ok2, "same nonce from another client is independent")
}

func TestNonceStore_CheckAndSet_ExpiredNonce(t *testing.T) {
	s, client := newTestClient(t)
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "marketplace", "nonce-expire", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	s.FastForward(2 * time.Second)

	ok, err = store.CheckAndSet(ctx, "marketplace", "nonce-expire", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "expired nonce should be accepted again")
}
