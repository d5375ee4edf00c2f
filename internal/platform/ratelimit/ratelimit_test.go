// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package ratelimit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lequangminh/taskora/internal/platform/ratelimit"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestMemoryStore_AdmitsExactlyLimit verifies the N-admitted, N+1-rejected
boundary of one window.
*/
func TestMemoryStore_AdmitsExactlyLimit(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	policy := ratelimit.Policy{Name: "auth", Limit: 5, Window: time.Minute}

	// 1. The first 5 requests pass
	for i := 0; i < 5; i++ {
		allowed, retryAfter, err := store.Take(context.Background(), "203.0.113.9", policy)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be admitted", i+1)
		assert.Zero(t, retryAfter)
	}

	// 2. The 6th is rejected with a reset hint inside the window
	allowed, retryAfter, err := store.Take(context.Background(), "203.0.113.9", policy)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

/*
TestMemoryStore_WindowElapseReadmits verifies that a fresh window restores
the full budget.
*/
func TestMemoryStore_WindowElapseReadmits(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	policy := ratelimit.Policy{Name: "auth", Limit: 2, Window: 50 * time.Millisecond}

	for i := 0; i < 2; i++ {
		allowed, _, err := store.Take(context.Background(), "client", policy)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, _, err := store.Take(context.Background(), "client", policy)
	require.NoError(t, err)
	require.False(t, allowed)

	// Let the window pass
	time.Sleep(60 * time.Millisecond)

	allowed, _, err = store.Take(context.Background(), "client", policy)
	require.NoError(t, err)
	assert.True(t, allowed)
}

/*
TestMemoryStore_ConcurrentAdmission hammers one key from many goroutines and
verifies exactly Limit requests win.
*/
func TestMemoryStore_ConcurrentAdmission(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	policy := ratelimit.Policy{Name: "auth", Limit: 10, Window: time.Minute}

	const attackers = 20
	var admitted atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < attackers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _, err := store.Take(context.Background(), "shared", policy)
			require.NoError(t, err)
			if allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), admitted.Load())
}

/*
TestMemoryStore_Isolation verifies that neither different keys nor different
policies share a budget.
*/
func TestMemoryStore_Isolation(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	authPolicy := ratelimit.Policy{Name: "auth", Limit: 1, Window: time.Minute}
	defaultPolicy := ratelimit.Policy{Name: "default", Limit: 1, Window: time.Minute}

	// Exhaust the auth budget for client A
	allowed, _, err := store.Take(context.Background(), "client-a", authPolicy)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, err = store.Take(context.Background(), "client-a", authPolicy)
	require.NoError(t, err)
	require.False(t, allowed)

	// 1. A different key under the same policy is unaffected
	allowed, _, err = store.Take(context.Background(), "client-b", authPolicy)
	require.NoError(t, err)
	assert.True(t, allowed)

	// 2. The same key under a different policy is unaffected
	allowed, _, err = store.Take(context.Background(), "client-a", defaultPolicy)
	require.NoError(t, err)
	assert.True(t, allowed)
}

// failingStore simulates a counter-store outage.
type failingStore struct{}

func (failingStore) Take(context.Context, string, ratelimit.Policy) (bool, time.Duration, error) {
	return false, 0, errors.New("store unreachable")
}

/*
TestLimiter_FailsOpen verifies that a store outage admits traffic instead of
turning the limiter into the outage.
*/
func TestLimiter_FailsOpen(t *testing.T) {
	limiter := ratelimit.NewLimiter(failingStore{}, testLogger())
	policy := ratelimit.Policy{Name: "auth", Limit: 1, Window: time.Minute}

	allowed, retryAfter := limiter.Allow(context.Background(), "anyone", policy)
	assert.True(t, allowed)
	assert.Zero(t, retryAfter)
}

/*
TestLimiter_PassesThroughRejection verifies the limiter preserves the
store's verdict and reset hint.
*/
func TestLimiter_PassesThroughRejection(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), testLogger())
	policy := ratelimit.Policy{Name: "auth", Limit: 1, Window: time.Minute}

	allowed, _ := limiter.Allow(context.Background(), "client", policy)
	require.True(t, allowed)

	allowed, retryAfter := limiter.Allow(context.Background(), "client", policy)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}
