// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lequangminh/taskora/internal/platform/apperr"
	"github.com/lequangminh/taskora/internal/platform/ctxutil"
	"github.com/lequangminh/taskora/internal/platform/sec"
	"github.com/lequangminh/taskora/pkg/uuid"
)

// # Contracts & Types

// PasswordHasher defines the contract for credential hashing and verification.
type PasswordHasher interface {
	// Hash derives a storage-ready hash of the plain-text password.
	Hash(plainTextPassword string) (string, error)

	// Verify compares a candidate password against the stored hash. A
	// non-empty upgradedHash means the stored hash verified but uses a legacy
	// algorithm; the caller should persist the replacement.
	Verify(plainTextPassword, storedHash string) (ok bool, upgradedHash string, err error)
}

// TokenCodec defines the contract for minting and verifying session tokens.
type TokenCodec interface {
	// NewClaims builds the claim set for a freshly minted token.
	NewClaims(username, subjectID, sessionID string, kind sec.TokenKind, timeToLive time.Duration) *sec.AuthClaims

	// Encode signs the claims into a compact token string.
	Encode(claims *sec.AuthClaims) (string, error)

	// Decode verifies a compact token string and returns its claims.
	Decode(signedToken string) (*sec.AuthClaims, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login,
// or refresh logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	hasher         PasswordHasher
	codec          TokenCodec
	accessTTL      time.Duration
	refreshTTL     time.Duration
}

// NewService constructs an auth [Service] with the necessary dependencies.
func NewService(
	userRepo UserRepository,
	hasher PasswordHasher,
	codec TokenCodec,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		userRepository: userRepo,
		hasher:         hasher,
		codec:          codec,
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new member with an argon2id password hash. Identity
conflicts surface as client-safe 409s.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict error.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		IsVerified:   false,
		Disabled:     false,
	}

	// Persist the user to the database. The unique indexes are the final
	// arbiter against registration races.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username   string
	Password   string
	RememberMe bool
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Tokens     TokenPair
	SessionID  string
	RememberMe bool
	User       *User
}

/*
Login validates user credentials and issues the session token pair.

Description: Verifies identity with constant-time password comparison, mints
a fresh session ID, and encodes the access and refresh tokens around it.
Legacy bcrypt hashes are transparently upgraded to argon2id on success.

# Enumeration Resistance

Unknown username, wrong password, disabled account, and corrupt stored hash
all return the identical INVALID_CREDENTIALS 401. The corrupt-hash case is
additionally logged at Error level because it indicates data damage, not a
user mistake.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session credentials
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	logger := ctxutil.GetLogger(context)

	// 1. Look up the account. Generic message to prevent enumeration.
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return nil, apperr.InvalidCredentials()
	}

	// 2. Verify the password against the stored hash
	ok, upgradedHash, err := service.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, sec.ErrHashIntegrity) {
			logger.ErrorContext(context, "stored_password_hash_corrupt",
				slog.String("username", user.Username),
			)
		}
		return nil, apperr.InvalidCredentials()
	}
	if !ok {
		return nil, apperr.InvalidCredentials()
	}

	// 3. Disabled accounts are rejected identically to bad credentials
	if user.Disabled {
		return nil, apperr.InvalidCredentials()
	}

	// 4. Transparent hash migration. Best-effort: a persistence failure is
	// logged and retried on the next login, never blocks this one.
	if upgradedHash != "" {
		if err := service.userRepository.UpdatePasswordHash(context, user.ID, upgradedHash); err != nil {
			logger.WarnContext(context, "password_hash_upgrade_failed",
				slog.String("username", user.Username),
				slog.Any("error", err),
			)
		} else {
			logger.InfoContext(context, "password_hash_upgraded",
				slog.String("username", user.Username),
			)
		}
	}

	// 5. Mint the session: one fresh ID shared by both tokens
	sessionID := sec.NewSessionID()

	accessToken, err := service.codec.Encode(
		service.codec.NewClaims(user.Username, user.ID, sessionID, sec.TokenKindAccess, service.accessTTL))
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.codec.Encode(
		service.codec.NewClaims(user.Username, user.ID, sessionID, sec.TokenKindRefresh, service.refreshTTL))
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	logger.InfoContext(context, "user_logged_in",
		slog.String("user_id", user.ID),
		slog.String("sid", sessionID),
		slog.Bool("remember_me", input.RememberMe),
	)

	return &LoginSession{
		Tokens:     TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
		SessionID:  sessionID,
		RememberMe: input.RememberMe,
		User:       user,
	}, nil
}

// # Session Management

/*
Refresh issues a new access token from a valid refresh token.

Description: Verifies the refresh token, re-checks the account's standing,
and mints a fresh access token carrying the SAME session ID. The refresh
token itself is not rotated; the session keeps its identity until it expires
or the user logs out.

Parameters:
  - context: context.Context
  - refreshToken: string (raw token from the refresh cookie)

Returns:
  - string: New signed access token
  - error: Unauthorized for any invalid, expired, or revoked-account token
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (string, error) {
	logger := ctxutil.GetLogger(context)

	// 1. Verify the token. Expiry gets its own code so clients can
	// distinguish "log in again" from "this token was never valid".
	claims, err := service.codec.Decode(refreshToken)
	if err != nil {
		if errors.Is(err, sec.ErrExpiredToken) {
			return "", apperr.TokenExpired()
		}
		return "", apperr.Unauthorized("Invalid refresh token")
	}

	// 2. Only refresh tokens may mint new access tokens
	if claims.Kind() != sec.TokenKindRefresh {
		return "", apperr.Unauthorized("Invalid refresh token")
	}

	// 3. Re-check account standing: a user disabled mid-session must not be
	// able to keep minting access tokens.
	user, err := service.userRepository.FindByID(context, claims.SubjectID)
	if err != nil || user.Disabled {
		return "", apperr.Unauthorized("Invalid refresh token")
	}

	// 4. Mint the replacement access token, carrying the session ID forward
	accessToken, err := service.codec.Encode(
		service.codec.NewClaims(user.Username, user.ID, claims.SessionID, sec.TokenKindAccess, service.accessTTL))
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	logger.InfoContext(context, "session_refreshed",
		slog.String("user_id", user.ID),
		slog.String("sid", claims.SessionID),
	)

	return accessToken, nil
}

/*
Logout records the end of a session.

Description: Sessions are stateless, so there is nothing to revoke
server-side; the transport clears the cookies. The refresh token, when
present and decodable, is used purely to tag the log line with the session
ID. Always succeeds (idempotent operation).

Parameters:
  - context: context.Context
  - refreshToken: string (may be empty or invalid)
*/
func (service *Service) Logout(context context.Context, refreshToken string) {
	logger := ctxutil.GetLogger(context)

	if refreshToken != "" {
		if claims, err := service.codec.Decode(refreshToken); err == nil {
			logger.InfoContext(context, "user_logged_out",
				slog.String("user_id", claims.SubjectID),
				slog.String("sid", claims.SessionID),
			)
			return
		}
	}

	logger.InfoContext(context, "user_logged_out")
}

// # Profile

/*
GetProfile returns the account behind an authenticated request.

Parameters:
  - context: context.Context
  - userID: string (SubjectID from the verified access token)

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound if the account was deleted since the token was minted
*/
func (service *Service) GetProfile(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}
