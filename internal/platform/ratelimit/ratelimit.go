// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

/*
Package ratelimit implements fixed-window request throttling.

# Architecture

The package splits policy from mechanism. A [Policy] names a budget
("auth": 5 per minute); a [Store] owns the counters. Two stores are
provided: an in-process map for single-instance deployments and a Redis
store whose atomic INCR makes the budget global across API replicas.

# Semantics

Admission is increment-and-compare within a fixed window anchored at the
first request. Exactly Limit requests are admitted per window regardless of
concurrency; a rejected request changes nothing except the counter already
incremented, and learns how long until the window resets.
*/
package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Policy describes one throttling budget.
type Policy struct {
	// Name isolates this policy's counters from every other policy,
	// even for the same client key.
	Name string
	// Limit is the number of requests admitted per window.
	Limit int
	// Window is the fixed-window length.
	Window time.Duration
}

// Store owns the window counters behind a [Limiter].
//
// Implementations must make Take atomic: under concurrent hammering of one
// key, exactly Limit calls per window may return allowed=true.
type Store interface {
	// Take records one request against key under the policy and reports
	// whether it is admitted. When rejected, retryAfter is the time until
	// the current window resets.
	Take(ctx context.Context, key string, policy Policy) (allowed bool, retryAfter time.Duration, err error)
}

// Limiter is the throttling facade handed to middleware and services.
type Limiter struct {
	store  Store
	logger *slog.Logger
}

// NewLimiter creates a [Limiter] on top of the given counter store.
func NewLimiter(store Store, logger *slog.Logger) *Limiter {
	return &Limiter{
		store:  store,
		logger: logger,
	}
}

/*
Allow reports whether one request from key is admitted under the policy.

# Failure Mode

A store failure (e.g. Redis outage) fails OPEN: the request is admitted and
the failure is logged. Throttling protects capacity; it must never become
the outage itself.

Returns:
  - allowed: true if the request may proceed
  - retryAfter: time until the window resets, non-zero only when rejected
*/
func (limiter *Limiter) Allow(ctx context.Context, key string, policy Policy) (allowed bool, retryAfter time.Duration) {
	allowed, retryAfter, err := limiter.store.Take(ctx, key, policy)
	if err != nil {
		limiter.logger.WarnContext(ctx, "rate_limit_store_failed",
			slog.String("policy", policy.Name),
			slog.Any("error", err),
		)
		return true, 0
	}
	return allowed, retryAfter
}
