package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"zapshift-server/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// ReconcileCache implements ports.ReconcileCache using Redis. It shortcuts
// repeat confirmations of the same transaction; the payment ledger remains
// the authority when the cache is cold or down.
type ReconcileCache struct {
	client *goredis.Client
	prefix string
}

// NewReconcileCache creates a new Redis-backed reconcile-outcome cache.
func NewReconcileCache(client *goredis.Client) *ReconcileCache {
	return &ReconcileCache{
		client: client,
		prefix: "reconcile:",
	}
}

// Get retrieves a cached reconcile outcome by transaction reference.
// Returns nil, nil if the key does not exist.
func (c *ReconcileCache) Get(ctx context.Context, transactionID string) (*ports.ReconcileResult, error) {
	val, err := c.client.Get(ctx, c.prefix+transactionID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis reconcile get: %w", err)
	}

	result := &ports.ReconcileResult{}
	if err := json.Unmarshal(val, result); err != nil {
		return nil, fmt.Errorf("unmarshal cached outcome: %w", err)
	}
	return result, nil
}

// Set stores a reconcile outcome with TTL.
func (c *ReconcileCache) Set(ctx context.Context, transactionID string, result *ports.ReconcileResult, ttl time.Duration) error {
	val, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+transactionID, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis reconcile set: %w", err)
	}
	return nil
}
