package redis

import (
	"context"
	"testing"
	"time"

	"zapshift-server/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ReconcileCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewReconcileCache(client), mr
}

func TestReconcileCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	stored := &ports.ReconcileResult{
		Outcome:       ports.OutcomeReconciled,
		TrackingID:    "ZAP-ABC-123456",
		TransactionID: "pi_test_456",
		ParcelUpdated: true,
	}

	require.NoError(t, cache.Set(ctx, "pi_test_456", stored, time.Hour))

	got, err := cache.Get(ctx, "pi_test_456")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, stored.TrackingID, got.TrackingID)
	assert.Equal(t, stored.TransactionID, got.TransactionID)
	assert.True(t, got.ParcelUpdated)
}

func TestReconcileCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background(), "pi_unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReconcileCache_TTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "pi_test_456", &ports.ReconcileResult{
		Outcome:       ports.OutcomeReconciled,
		TransactionID: "pi_test_456",
	}, time.Minute))

	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, "pi_test_456")
	require.NoError(t, err)
	assert.Nil(t, got, "entry should expire with its TTL")
}

func TestReconcileCache_KeysAreNamespaced(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "pi_test_456", &ports.ReconcileResult{TransactionID: "pi_test_456"}, time.Hour))

	assert.True(t, mr.Exists("reconcile:pi_test_456"))
}
