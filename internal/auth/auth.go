// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

/*
Package auth implements the user identity and session lifecycle layer.

It defines the core domain entity (User) and the logic for registration,
login, stateless cookie sessions, and transparent password-hash migration.

# Architecture

This layer is the "Truth" of the system. Sessions are deliberately
stateless: both tokens are self-contained JWTs carried in HttpOnly cookies,
correlated by an opaque session ID that is never stored server-side.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Taskora platform.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	IsVerified   bool      `json:"is_verified"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRememberMe   = "remember_me"
	FieldAccessToken  = "access_token"
	FieldRefreshToken = "refresh_token"
	FieldTokenType    = "token_type"
	FieldUser         = "user"
	FieldMessage      = "message"
)

// # Authentication Constraints

const (
	// TokenTypeBearer is the OAuth2-compatible token type reported in login
	// and refresh responses. The tokens themselves travel in cookies.
	TokenTypeBearer = "bearer"

	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength = 8
)
