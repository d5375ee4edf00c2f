// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package sec

import "github.com/google/uuid"

// NewSessionID mints a fresh opaque session identifier.
//
// # Semantics
//
// The ID is 128 bits of randomness (UUIDv4), generated once per login and
// copied forward on every token refresh. It is never persisted server-side:
// its only job is to correlate the log lines and tokens of one browsing
// session. Unlike the time-ordered UUIDv7 used for entity keys, a session ID
// must not reveal when the login happened, so v4 is used here.
func NewSessionID() string {
	return uuid.NewString()
}
