// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lequangminh/taskora/internal/auth"
)

func findCookie(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

/*
TestCookieTransport_SetAuthCookies verifies the attributes of both cookies
in cross-origin mode, including the remember-me split.
*/
func TestCookieTransport_SetAuthCookies(t *testing.T) {
	transport := auth.NewCookieTransport("none", "", 30*time.Minute, 720*time.Hour)
	pair := auth.TokenPair{AccessToken: "access-jwt", RefreshToken: "refresh-jwt"}

	t.Run("without remember me the refresh cookie is session scoped", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		transport.SetAuthCookies(recorder, pair, false)
		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 2)

		access := findCookie(t, cookies, "access_token")
		assert.Equal(t, "access-jwt", access.Value)
		assert.Equal(t, int((30 * time.Minute).Seconds()), access.MaxAge)
		assert.True(t, access.HttpOnly)
		assert.True(t, access.Secure)
		assert.Equal(t, http.SameSiteNoneMode, access.SameSite)

		refresh := findCookie(t, cookies, "refresh_token")
		assert.Equal(t, "refresh-jwt", refresh.Value)
		assert.Zero(t, refresh.MaxAge)
		assert.True(t, refresh.Expires.IsZero())
		assert.True(t, refresh.HttpOnly)
		assert.True(t, refresh.Secure)
	})

	t.Run("with remember me the refresh cookie is pinned to the TTL", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		transport.SetAuthCookies(recorder, pair, true)

		refresh := findCookie(t, recorder.Result().Cookies(), "refresh_token")
		assert.Equal(t, int((720 * time.Hour).Seconds()), refresh.MaxAge)
	})
}

/*
TestCookieTransport_SetAccessCookie verifies that refresh responses replace
only the access cookie.
*/
func TestCookieTransport_SetAccessCookie(t *testing.T) {
	transport := auth.NewCookieTransport("none", "", 30*time.Minute, 720*time.Hour)

	recorder := httptest.NewRecorder()
	transport.SetAccessCookie(recorder, "fresh-access-jwt")

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "access_token", cookies[0].Name)
	assert.Equal(t, "fresh-access-jwt", cookies[0].Value)
}

/*
TestCookieTransport_ClearAuthCookies verifies that logout expires both cookies.
*/
func TestCookieTransport_ClearAuthCookies(t *testing.T) {
	transport := auth.NewCookieTransport("none", "", 30*time.Minute, 720*time.Hour)

	recorder := httptest.NewRecorder()
	transport.ClearAuthCookies(recorder)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, cookie := range cookies {
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

/*
TestCookieTransport_RoundTrip verifies that tokens written by the transport
can be read back from a request carrying its cookies.
*/
func TestCookieTransport_RoundTrip(t *testing.T) {
	transport := auth.NewCookieTransport("none", "", 30*time.Minute, 720*time.Hour)
	pair := auth.TokenPair{AccessToken: "access-jwt", RefreshToken: "refresh-jwt"}

	recorder := httptest.NewRecorder()
	transport.SetAuthCookies(recorder, pair, true)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range recorder.Result().Cookies() {
		request.AddCookie(cookie)
	}

	assert.Equal(t, "access-jwt", transport.ReadAccessToken(request))
	assert.Equal(t, "refresh-jwt", transport.ReadRefreshToken(request))
}

/*
TestCookieTransport_LaxMode verifies the same-origin deployment switch.
*/
func TestCookieTransport_LaxMode(t *testing.T) {
	transport := auth.NewCookieTransport("lax", "taskora.dev", 30*time.Minute, 720*time.Hour)

	recorder := httptest.NewRecorder()
	transport.SetAccessCookie(recorder, "access-jwt")

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, "taskora.dev", cookies[0].Domain)
}
