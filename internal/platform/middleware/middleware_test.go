// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lequangminh/taskora/internal/platform/middleware"
	"github.com/lequangminh/taskora/internal/platform/ratelimit"
	"github.com/lequangminh/taskora/internal/platform/sec"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

func newCodec() *sec.TokenCodec {
	return sec.NewTokenCodec("middleware-test-secret", "taskora.test")
}

func mintToken(t *testing.T, codec *sec.TokenCodec, kind sec.TokenKind, ttl time.Duration) string {
	t.Helper()
	signed, err := codec.Encode(codec.NewClaims("alice", "user-1", "session-1", kind, ttl))
	require.NoError(t, err)
	return signed
}

/*
TestAuthenticate_CookieCredential verifies the happy path: a valid access
cookie authenticates the request.
*/
func TestAuthenticate_CookieCredential(t *testing.T) {
	codec := newCodec()

	var gotClaims *sec.AuthClaims
	handler := middleware.Authenticate(codec, middleware.AuthOptions{})(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			gotClaims = middleware.GetUser(request.Context())
			writer.WriteHeader(http.StatusOK)
		}),
	)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	request.AddCookie(&http.Cookie{
		Name:  "access_token",
		Value: mintToken(t, codec, sec.TokenKindAccess, time.Minute),
	})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "alice", gotClaims.Subject)
	assert.Equal(t, "session-1", gotClaims.SessionID)
}

/*
TestAuthenticate_ExpiredToken verifies that an expired access cookie yields
the TOKEN_EXPIRED code, telling the client to refresh.
*/
func TestAuthenticate_ExpiredToken(t *testing.T) {
	codec := newCodec()

	handler := middleware.Authenticate(codec, middleware.AuthOptions{})(okHandler())

	request := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	request.AddCookie(&http.Cookie{
		Name:  "access_token",
		Value: mintToken(t, codec, sec.TokenKindAccess, -time.Minute),
	})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "TOKEN_EXPIRED")
	assert.Contains(t, recorder.Body.String(), "Token has expired")
}

/*
TestAuthenticate_RefreshTokenRejected verifies that a refresh token cannot be
replayed as an access credential even though its signature is valid.
*/
func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	codec := newCodec()

	handler := middleware.Authenticate(codec, middleware.AuthOptions{})(
		middleware.RequireAuth(okHandler()),
	)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	request.AddCookie(&http.Cookie{
		Name:  "access_token",
		Value: mintToken(t, codec, sec.TokenKindRefresh, time.Minute),
	})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestAuthenticate_LegacyHeaderFallback verifies the bearer-header shim is
honored only when explicitly enabled.
*/
func TestAuthenticate_LegacyHeaderFallback(t *testing.T) {
	codec := newCodec()
	token := mintToken(t, codec, sec.TokenKindAccess, time.Minute)

	testCases := []struct {
		name       string
		fallback   bool
		wantStatus int
	}{
		{name: "enabled accepts bearer header", fallback: true, wantStatus: http.StatusOK},
		{name: "disabled ignores bearer header", fallback: false, wantStatus: http.StatusUnauthorized},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			handler := middleware.Authenticate(codec, middleware.AuthOptions{LegacyHeaderFallback: testCase.fallback})(
				middleware.RequireAuth(okHandler()),
			)

			request := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			request.Header.Set("Authorization", "Bearer "+token)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, testCase.wantStatus, recorder.Code)
		})
	}
}

/*
TestRequireAuth_Anonymous verifies that unauthenticated requests are blocked.
*/
func TestRequireAuth_Anonymous(t *testing.T) {
	handler := middleware.RequireAuth(okHandler())

	request := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestRateLimit_Middleware verifies the 429 envelope and Retry-After header on
the request past the budget.
*/
func TestRateLimit_Middleware(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	policy := ratelimit.Policy{Name: "auth", Limit: 5, Window: time.Minute}

	handler := middleware.RateLimit(limiter, policy)(okHandler())

	for i := 0; i < 5; i++ {
		request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		request.RemoteAddr = "203.0.113.9:44444"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusOK, recorder.Code, "request %d should pass", i+1)
	}

	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	request.RemoteAddr = "203.0.113.9:44444"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("Retry-After"))
	assert.Contains(t, recorder.Body.String(), "RATE_LIMITED")
}

/*
TestOriginGuard_Middleware verifies the 403 CSRF response for an untrusted
cookie-authenticated mutation.
*/
func TestOriginGuard_Middleware(t *testing.T) {
	handler := middleware.OriginGuard([]string{"https://app.taskora.dev"})(okHandler())

	request := httptest.NewRequest(http.MethodPost, "/api/v1/todos", nil)
	request.Header.Set("Origin", "https://evil.example")
	request.AddCookie(&http.Cookie{Name: "access_token", Value: "opaque"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "CSRF validation failed")
}

/*
TestSecurityHeaders verifies the hardening headers are present on responses.
*/
func TestSecurityHeaders(t *testing.T) {
	handler := middleware.SecurityHeaders()(okHandler())

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "DENY", recorder.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, recorder.Header().Get("Content-Security-Policy"))
	assert.Empty(t, recorder.Header().Get("Strict-Transport-Security"))
}
