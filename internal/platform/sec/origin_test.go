// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package sec_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lequangminh/taskora/internal/platform/sec"
)

/*
TestCheckOrigin exercises the CSRF screening rules across methods,
credential transports, and origin values.
*/
func TestCheckOrigin(t *testing.T) {
	trusted := []string{"https://app.taskora.dev", "http://localhost:3000"}

	testCases := []struct {
		name       string
		method     string
		origin     string
		withCookie bool
		withBearer bool
		wantPass   bool
	}{
		{
			name:       "safe method passes even with evil origin",
			method:     http.MethodGet,
			origin:     "https://evil.example",
			withCookie: true,
			wantPass:   true,
		},
		{
			name:       "cookie mutation with trusted origin passes",
			method:     http.MethodPost,
			origin:     "https://app.taskora.dev",
			withCookie: true,
			wantPass:   true,
		},
		{
			name:       "cookie mutation with evil origin rejected",
			method:     http.MethodPost,
			origin:     "https://evil.example",
			withCookie: true,
			wantPass:   false,
		},
		{
			name:       "cookie mutation without origin rejected",
			method:     http.MethodDelete,
			withCookie: true,
			wantPass:   false,
		},
		{
			name:       "subdomain of trusted origin is not trusted",
			method:     http.MethodPost,
			origin:     "https://evil.app.taskora.dev",
			withCookie: true,
			wantPass:   false,
		},
		{
			name:       "bearer credentials bypass the guard",
			method:     http.MethodPost,
			origin:     "https://evil.example",
			withBearer: true,
			wantPass:   true,
		},
		{
			name:     "no credentials means nothing to forge",
			method:   http.MethodPost,
			wantPass: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest(testCase.method, "/api/v1/todos", nil)
			if testCase.origin != "" {
				request.Header.Set("Origin", testCase.origin)
			}
			if testCase.withCookie {
				request.AddCookie(&http.Cookie{Name: "access_token", Value: "opaque"})
			}
			if testCase.withBearer {
				request.Header.Set("Authorization", "Bearer opaque")
			}

			assert.Equal(t, testCase.wantPass, sec.CheckOrigin(request, trusted))
		})
	}
}
