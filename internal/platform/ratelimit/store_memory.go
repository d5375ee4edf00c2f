// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often the lazy eviction pass may run.
const sweepInterval = time.Minute

// windowCounter is one fixed window for one (policy, key) pair. It records
// its own window length so the sweep can tell a live counter from an
// abandoned one regardless of the policy that created it.
type windowCounter struct {
	windowStart time.Time
	window      time.Duration
	count       int
}

// MemoryStore is a mutex-guarded in-process counter store.
//
// # Eviction
//
// The store owns no goroutine or timer. Stale entries are dropped lazily:
// a counter whose window has passed is reset on its next Take, and a
// time-gated sweep inside Take clears abandoned keys in bulk. This keeps
// the store safe to create in tests and short-lived tools.
type MemoryStore struct {
	mu        sync.Mutex
	counters  map[string]*windowCounter
	lastSweep time.Time
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters:  make(map[string]*windowCounter),
		lastSweep: time.Now(),
	}
}

// Take implements [Store] with increment-and-compare under one lock.
func (store *MemoryStore) Take(_ context.Context, key string, policy Policy) (bool, time.Duration, error) {
	fullKey := policy.Name + ":" + key
	now := time.Now()

	store.mu.Lock()
	defer store.mu.Unlock()

	store.maybeSweep(now)

	counter, exists := store.counters[fullKey]
	if !exists || now.Sub(counter.windowStart) >= policy.Window {
		// First request of a fresh window anchors it.
		store.counters[fullKey] = &windowCounter{windowStart: now, window: policy.Window, count: 1}
		return true, 0, nil
	}

	counter.count++
	if counter.count <= policy.Limit {
		return true, 0, nil
	}

	retryAfter := counter.windowStart.Add(policy.Window).Sub(now)
	return false, retryAfter, nil
}

// maybeSweep drops abandoned counters. Caller must hold the lock.
//
// A counter is abandoned only once its own window has fully elapsed. Policy
// windows are env-configurable and may exceed the sweep interval, so the
// sweep must never use the interval itself as the eviction age.
func (store *MemoryStore) maybeSweep(now time.Time) {
	if now.Sub(store.lastSweep) < sweepInterval {
		return
	}
	store.lastSweep = now

	for key, counter := range store.counters {
		if now.Sub(counter.windowStart) >= counter.window {
			delete(store.counters, key)
		}
	}
}
