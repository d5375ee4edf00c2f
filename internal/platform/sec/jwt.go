// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures, ordered from least to most specific. Callers
// branch on these to decide between a generic 401 and a "please refresh" 401.
var (
	// ErrMalformedToken is returned when the token is not a structurally valid JWT.
	ErrMalformedToken = errors.New("sec: malformed token")

	// ErrSignatureInvalid is returned when the signature does not verify,
	// including alg-confusion attempts.
	ErrSignatureInvalid = errors.New("sec: token signature invalid")

	// ErrExpiredToken is returned when the token verified but its 'exp' has passed.
	ErrExpiredToken = errors.New("sec: token has expired")
)

// TokenKind discriminates the two token roles minted by the platform.
type TokenKind string

const (
	// TokenKindAccess is the short-lived credential attached to every API call.
	TokenKindAccess TokenKind = "access"

	// TokenKindRefresh is the long-lived credential accepted only by the refresh endpoint.
	TokenKindRefresh TokenKind = "refresh"
)

// AuthClaims is the payload embedded inside every Taskora token.
//
// # Why custom claims?
//
// By embedding the user identity and the session ID directly inside the JWT,
// [middleware.Authenticate] can reconstruct the active user context WITHOUT
// querying the database on every single API request. The session ID also ties
// every log line of a browsing session together.
type AuthClaims struct {
	jwt.RegisteredClaims

	// SubjectID is the user's UUID primary key. The registered 'sub' claim
	// carries the username for log readability.
	SubjectID string `json:"sub_id"`

	// SessionID is an opaque per-login identifier. It is minted once at login
	// and copied forward verbatim on every refresh.
	SessionID string `json:"sid"`

	// TokenType is "access" or "refresh". Endpoints must check it so a
	// refresh token can never be replayed as an access credential.
	TokenType string `json:"token_type"`
}

// Kind returns the [TokenKind] recorded in the claims.
func (c *AuthClaims) Kind() TokenKind {
	return TokenKind(c.TokenType)
}

// TokenCodec signs and verifies JWTs using HS256 with a server-held secret.
type TokenCodec struct {
	secret []byte
	issuer string
}

// NewTokenCodec creates a [TokenCodec] from the shared signing secret.
func NewTokenCodec(secret, issuer string) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		issuer: issuer,
	}
}

/*
NewClaims builds the claim set for a freshly minted token.

Parameters:
  - username: stored in the registered 'sub' claim
  - subjectID: the user's UUID
  - sessionID: the opaque session identifier (reused across refreshes)
  - kind: access or refresh
  - timeToLive: offset from now for the 'exp' claim
*/
func (codec *TokenCodec) NewClaims(username, subjectID, sessionID string, kind TokenKind, timeToLive time.Duration) *AuthClaims {
	currentTime := time.Now()
	return &AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		SubjectID: subjectID,
		SessionID: sessionID,
		TokenType: string(kind),
	}
}

// Encode signs the claims into a compact JWT string.
func (codec *TokenCodec) Encode(claims *AuthClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signedToken, nil
}

/*
Decode verifies the signature and registered claims of a compact JWT string.

Verification is strict: the signing method is pinned to HMAC, and no clock
leeway is applied, so a token is rejected the moment 'exp' passes.

Returns:
  - *AuthClaims: the verified payload
  - error: [ErrExpiredToken], [ErrSignatureInvalid], or [ErrMalformedToken]
*/
func (codec *TokenCodec) Decode(signedToken string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(signedToken, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return codec.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			// Unverifiable tokens (unknown keyfunc failures, alg tricks) are
			// treated as malformed rather than leaking parser detail.
			return nil, ErrMalformedToken
		}
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}

	return claims, nil
}
