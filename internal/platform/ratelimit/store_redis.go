// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lequangminh/taskora/internal/platform/constants"
)

// RedisStore shares fixed-window counters across API instances.
//
// # Layout
//
// One counter key per (policy, client): "ratelimit:auth:203.0.113.9".
// INCR is atomic on the Redis side, so the exactly-N admission guarantee
// holds across replicas without any coordination in the application.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a [RedisStore] on an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Take implements [Store] using INCR + PEXPIRE.
func (store *RedisStore) Take(ctx context.Context, key string, policy Policy) (bool, time.Duration, error) {
	fullKey := constants.RedisPrefixRateLimit + policy.Name + ":" + key

	// 1. Atomically count this request
	count, err := store.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit: incr failed: %w", err)
	}

	// 2. The first request of the window anchors its expiry
	if count == 1 {
		if err := store.client.PExpire(ctx, fullKey, policy.Window).Err(); err != nil {
			return false, 0, fmt.Errorf("ratelimit: pexpire failed: %w", err)
		}
	}

	// 3. Compare against the budget
	if count <= int64(policy.Limit) {
		return true, 0, nil
	}

	// 4. Rejected: the key's remaining TTL is the time to window reset
	remaining, err := store.client.PTTL(ctx, fullKey).Result()
	if err != nil || remaining < 0 {
		// TTL lost (e.g. key created without expiry after a failover):
		// report a full window rather than locking the client out forever.
		remaining = policy.Window
	}

	return false, remaining, nil
}
