// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package sec

import (
	"net/http"
	"strings"

	"github.com/lequangminh/taskora/internal/platform/constants"
)

/*
CheckOrigin reports whether a request passes cross-site request forgery
screening against the trusted-origin allow-list.

# Rules

 1. Safe methods (GET, HEAD, OPTIONS) always pass: they must not mutate state.
 2. Requests carrying 'Authorization: Bearer' pass: header credentials are
    never attached automatically by a browser, so CSRF does not apply.
 3. Requests without any auth cookie pass: there is no ambient credential to
    ride on (this is what lets the login request itself through).
 4. Everything else is a cookie-authenticated mutation and must present an
    Origin header exactly matching an entry in trustedOrigins.

Returns:
  - bool: true if the request may proceed
*/
func CheckOrigin(request *http.Request, trustedOrigins []string) bool {

	// 1. Safe methods never mutate
	switch request.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}

	// 2. Explicit bearer credentials are not browser-ambient
	if strings.HasPrefix(request.Header.Get(constants.HeaderAuthorization), "Bearer ") {
		return true
	}

	// 3. No auth cookies means no credential to forge
	if !hasAuthCookie(request) {
		return true
	}

	// 4. Cookie-authenticated mutation: require an exact allow-list match
	origin := request.Header.Get(constants.HeaderOrigin)
	if origin == "" {
		return false
	}
	for _, trusted := range trustedOrigins {
		if origin == trusted {
			return true
		}
	}
	return false
}

// hasAuthCookie reports whether the request carries either auth cookie.
func hasAuthCookie(request *http.Request) bool {
	if _, err := request.Cookie(constants.AccessTokenCookieName); err == nil {
		return true
	}
	if _, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		return true
	}
	return false
}
