// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/lequangminh/taskora/internal/platform/config"
	"github.com/lequangminh/taskora/internal/platform/constants"
)

// TokenPair carries the two freshly minted session tokens from the service
// to the transport.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// CookieTransport writes and reads the auth cookies.
//
// # Policy
//
// Both cookies are always HttpOnly. When SameSite=None (cross-origin
// frontend), Secure is forced because browsers reject None without it.
// SameSite=Lax is the same-origin deployment mode.
//
// The access cookie always lives exactly as long as the access token. The
// refresh cookie's lifetime depends on the user's remember-me choice:
// session-scoped (dropped when the browser closes) without it, pinned to the
// refresh TTL with it.
type CookieTransport struct {
	sameSite   http.SameSite
	secure     bool
	domain     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCookieTransport creates a [CookieTransport] for the given deployment mode.
func NewCookieTransport(sameSiteMode, domain string, accessTTL, refreshTTL time.Duration) *CookieTransport {
	transport := &CookieTransport{
		domain:     domain,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}

	switch sameSiteMode {
	case config.SameSiteModeLax:
		transport.sameSite = http.SameSiteLaxMode
		transport.secure = false
	default:
		transport.sameSite = http.SameSiteNoneMode
		transport.secure = true
	}

	return transport
}

// SetAuthCookies writes both session cookies after a successful login.
func (transport *CookieTransport) SetAuthCookies(writer http.ResponseWriter, pair TokenPair, rememberMe bool) {
	transport.SetAccessCookie(writer, pair.AccessToken)

	refreshCookie := transport.newCookie(constants.RefreshTokenCookieName, pair.RefreshToken)
	if rememberMe {
		refreshCookie.MaxAge = int(transport.refreshTTL.Seconds())
	}
	// Without remember-me the refresh cookie carries no Max-Age or Expires,
	// so the browser drops it when the session ends.
	http.SetCookie(writer, refreshCookie)
}

// SetAccessCookie replaces only the access cookie. Used by the refresh
// endpoint, which must not touch the refresh cookie's remaining lifetime.
func (transport *CookieTransport) SetAccessCookie(writer http.ResponseWriter, accessToken string) {
	accessCookie := transport.newCookie(constants.AccessTokenCookieName, accessToken)
	accessCookie.MaxAge = int(transport.accessTTL.Seconds())
	http.SetCookie(writer, accessCookie)
}

// ReadAccessToken returns the raw access token, or "" if the cookie is absent.
func (transport *CookieTransport) ReadAccessToken(request *http.Request) string {
	return readCookieValue(request, constants.AccessTokenCookieName)
}

// ReadRefreshToken returns the raw refresh token, or "" if the cookie is absent.
func (transport *CookieTransport) ReadRefreshToken(request *http.Request) string {
	return readCookieValue(request, constants.RefreshTokenCookieName)
}

// ClearAuthCookies expires both session cookies. Idempotent.
func (transport *CookieTransport) ClearAuthCookies(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		expired := transport.newCookie(name, "")
		expired.MaxAge = -1
		http.SetCookie(writer, expired)
	}
}

// newCookie builds a cookie with the transport's shared security attributes.
func (transport *CookieTransport) newCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.AuthCookiePath,
		Domain:   transport.domain,
		Secure:   transport.secure,
		HttpOnly: true,
		SameSite: transport.sameSite,
	}
}

// readCookieValue returns a cookie's value, or "" if absent.
func readCookieValue(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
