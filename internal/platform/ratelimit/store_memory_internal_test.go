// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestMemoryStore_SweepKeepsLiveLongWindow verifies that the lazy sweep never
evicts a counter whose window is still open, even when the window is longer
than the sweep interval. An evicted live counter would silently restore the
budget mid-window.
*/
func TestMemoryStore_SweepKeepsLiveLongWindow(t *testing.T) {
	store := NewMemoryStore()
	policy := Policy{Name: "auth", Limit: 2, Window: 5 * time.Minute}

	// 1. Exhaust the budget for one client
	for i := 0; i < 2; i++ {
		allowed, _, err := store.Take(context.Background(), "client", policy)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	// 2. Age the counter past the sweep interval but well inside its window,
	// and make the next Take eligible to run the sweep
	store.mu.Lock()
	store.counters["auth:client"].windowStart = time.Now().Add(-90 * time.Second)
	store.lastSweep = time.Now().Add(-2 * sweepInterval)
	store.mu.Unlock()

	// 3. Traffic on another key triggers the sweep pass
	allowed, _, err := store.Take(context.Background(), "other", policy)
	require.NoError(t, err)
	require.True(t, allowed)

	// 4. The original client's budget must still be exhausted mid-window
	allowed, retryAfter, err := store.Take(context.Background(), "client", policy)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, 5*time.Minute)
}

/*
TestMemoryStore_SweepEvictsElapsedWindow verifies that counters whose own
window has fully passed are removed by the sweep.
*/
func TestMemoryStore_SweepEvictsElapsedWindow(t *testing.T) {
	store := NewMemoryStore()
	policy := Policy{Name: "auth", Limit: 2, Window: time.Minute}

	allowed, _, err := store.Take(context.Background(), "stale", policy)
	require.NoError(t, err)
	require.True(t, allowed)

	store.mu.Lock()
	store.counters["auth:stale"].windowStart = time.Now().Add(-2 * time.Minute)
	store.lastSweep = time.Now().Add(-2 * sweepInterval)
	store.mu.Unlock()

	allowed, _, err = store.Take(context.Background(), "other", policy)
	require.NoError(t, err)
	require.True(t, allowed)

	store.mu.Lock()
	_, stillThere := store.counters["auth:stale"]
	store.mu.Unlock()

	assert.False(t, stillThere)
}
