// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/lequangminh/taskora/internal/platform/ctxkey"
	"github.com/lequangminh/taskora/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// authHolder is a mutable cell for the request's resolved identity.
//
// The logging middleware seeds it (with nil claims) before authentication
// runs further down the chain. Context values only flow downstream, so
// without the shared cell the logger could never see who the request
// authenticated as.
type authHolder struct {
	claims *sec.AuthClaims
}

// WithAuthUser attaches the auth claims to the context.
//
// If an identity cell was already seeded upstream, the claims are stored in
// place and the same context is returned.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	if holder, ok := ctx.Value(ctxkey.KeyUser).(*authHolder); ok {
		holder.claims = user
		return ctx
	}
	return context.WithValue(ctx, ctxkey.KeyUser, &authHolder{claims: user})
}

// GetAuthUser retrieves the [*sec.AuthClaims] from the [context.Context].
// Returns nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	if holder, ok := ctx.Value(ctxkey.KeyUser).(*authHolder); ok {
		return holder.claims
	}
	return nil
}
