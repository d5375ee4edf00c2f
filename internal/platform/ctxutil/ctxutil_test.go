// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lequangminh/taskora/internal/platform/ctxutil"
	"github.com/lequangminh/taskora/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_AuthUser verifies that AuthClaims can be stored in context.
*/
func TestContext_AuthUser(t *testing.T) {
	ctx := context.Background()
	claims := &sec.AuthClaims{
		SubjectID: "user-123",
		SessionID: "session-456",
		TokenType: string(sec.TokenKindAccess),
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetAuthUser(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithAuthUser(ctx, claims)
	retrieved := ctxutil.GetAuthUser(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "user-123", retrieved.SubjectID)
	assert.Equal(t, "session-456", retrieved.SessionID)
	assert.Equal(t, sec.TokenKindAccess, retrieved.Kind())
}

/*
TestContext_AuthUser_SeededCell verifies that claims stored on a derived
context are visible through a context seeded earlier in the chain, which is
how the request logger sees the identity resolved by the auth middleware.
*/
func TestContext_AuthUser_SeededCell(t *testing.T) {
	seeded := ctxutil.WithAuthUser(context.Background(), nil)
	assert.Nil(t, ctxutil.GetAuthUser(seeded))

	claims := &sec.AuthClaims{SubjectID: "user-123"}
	derived := ctxutil.WithAuthUser(seeded, claims)

	// Both the derived context and the original seeded one resolve the claims
	assert.Equal(t, claims, ctxutil.GetAuthUser(derived))
	assert.Equal(t, claims, ctxutil.GetAuthUser(seeded))
}
