// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lequangminh/taskora/internal/platform/apperr"
	"github.com/lequangminh/taskora/internal/platform/constants"
	"github.com/lequangminh/taskora/internal/platform/ctxutil"
	"github.com/lequangminh/taskora/internal/platform/respond"
	"github.com/lequangminh/taskora/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// codec implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Decode(signedToken string) (*sec.AuthClaims, error)
}

// AuthOptions tunes the [Authenticate] middleware.
type AuthOptions struct {
	// LegacyHeaderFallback additionally accepts 'Authorization: Bearer' when
	// the access cookie is absent. Migration shim for pre-cookie clients.
	LegacyHeaderFallback bool
}

// Authenticate extracts and verifies the access token from the request.
//
// # Scope
//
// Mount on protected route groups only, never on the session lifecycle
// endpoints (login, refresh, logout): those verify credentials or the
// refresh cookie themselves and must stay reachable for a client whose
// access cookie no longer decodes.
//
// # Flow
//  1. Read the access_token cookie; with LegacyHeaderFallback enabled, fall
//     back to 'Authorization: Bearer <token>' when the cookie is absent.
//  2. If no credential is present, the request proceeds as anonymous.
//  3. Verify the token via [TokenVerifier] and require token_type=access.
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// # Error Mapping
//
// Expired access tokens return a distinct TOKEN_EXPIRED code so clients know
// to hit the refresh endpoint. Every other failure is a generic 401.
func Authenticate(verifier TokenVerifier, options AuthOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Credential Extraction ──────────────────────────────────────
			tokenStr := readAccessCredential(request, options)

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Decode(tokenStr)
			if err != nil {
				if errors.Is(err, sec.ErrExpiredToken) {
					respond.Error(writer, request, apperr.TokenExpired())
					return
				}
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// A refresh token is never a valid API credential, even when its
			// signature checks out.
			if claims.Kind() != sec.TokenKindAccess {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// readAccessCredential returns the raw access token string, or "" if absent.
func readAccessCredential(request *http.Request, options AuthOptions) string {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if options.LegacyHeaderFallback {
		authHeader := request.Header.Get(constants.HeaderAuthorization)
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	return ""
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}
