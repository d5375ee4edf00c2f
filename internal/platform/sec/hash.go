// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

/*
Package sec provides the security primitives of the platform: password
hashing, token encoding, session identifiers, and origin validation.

# Architecture

This package isolates security-sensitive code from the domain logic. It acts
as an Infrastructure service injected into the Application layer via small
interfaces ([auth.TokenCodec], [auth.PasswordHasher]), so that domain code
never touches raw cryptography.
*/
package sec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrHashIntegrity is returned when a stored password hash is corrupt or in
// an unrecognized format. It indicates data corruption or a bad migration,
// never a wrong password, and should page an operator rather than the user.
var ErrHashIntegrity = errors.New("sec: stored password hash is corrupt or unrecognized")

// # Argon2id Parameters
//
// Tuned for interactive logins: ~64 MiB memory, 3 passes, 2 lanes.
const (
	argonMemory  = 64 * 1024
	argonTime    = 3
	argonThreads = 2
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Hasher hashes and verifies passwords.
//
// New hashes are always argon2id in PHC string format. Verification also
// accepts legacy bcrypt hashes and reports an upgraded argon2id replacement
// so callers can migrate accounts transparently at login time.
type Hasher struct{}

// NewHasher creates a password [Hasher].
func NewHasher() *Hasher {
	return &Hasher{}
}

/*
Hash derives an argon2id hash of the plain-text password.

Returns:
  - string: PHC-formatted hash, e.g. "$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>"
  - error: only on entropy-source failure
*/
func (h *Hasher) Hash(plainTextPassword string) (string, error) {

	// 1. Generate a unique random salt per password
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	// 2. Derive the key
	key := argon2.IDKey([]byte(plainTextPassword), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	// 3. Encode in PHC string format so the hash is self-describing
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

/*
Verify compares a plain-text password against a stored hash.

The algorithm is selected by the hash's self-describing prefix: argon2id is
the primary format, bcrypt is accepted for accounts created before the
migration. When a legacy hash verifies successfully, upgradedHash carries a
fresh argon2id replacement for the caller to persist.

Parameters:
  - plainTextPassword: the candidate password
  - storedHash: the hash currently persisted for the account

Returns:
  - ok: true only if the password matches
  - upgradedHash: non-empty only when the stored hash verified but is legacy
  - err: [ErrHashIntegrity] when the stored hash is corrupt or unrecognized
*/
func (h *Hasher) Verify(plainTextPassword, storedHash string) (ok bool, upgradedHash string, err error) {
	switch {
	case strings.HasPrefix(storedHash, "$argon2id$"):
		return h.verifyArgon2id(plainTextPassword, storedHash)

	case strings.HasPrefix(storedHash, "$2a$"),
		strings.HasPrefix(storedHash, "$2b$"),
		strings.HasPrefix(storedHash, "$2y$"):
		return h.verifyLegacyBcrypt(plainTextPassword, storedHash)

	default:
		return false, "", ErrHashIntegrity
	}
}

// verifyArgon2id parses a PHC argon2id string and compares in constant time.
func (h *Hasher) verifyArgon2id(plainTextPassword, storedHash string) (bool, string, error) {

	// Expected layout: ["", "argon2id", "v=19", "m=..,t=..,p=..", salt, key]
	parts := strings.Split(storedHash, "$")
	if len(parts) != 6 {
		return false, "", ErrHashIntegrity
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, "", ErrHashIntegrity
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return false, "", ErrHashIntegrity
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, "", ErrHashIntegrity
	}

	expectedKey, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, "", ErrHashIntegrity
	}

	// Re-derive with the parameters recorded in the stored hash, not the
	// current defaults, so parameter upgrades do not break old hashes.
	candidateKey := argon2.IDKey([]byte(plainTextPassword), salt, timeCost, memory, threads, uint32(len(expectedKey)))

	if subtle.ConstantTimeCompare(candidateKey, expectedKey) != 1 {
		return false, "", nil
	}

	return true, "", nil
}

// verifyLegacyBcrypt checks a bcrypt hash and prepares the argon2id upgrade.
func (h *Hasher) verifyLegacyBcrypt(plainTextPassword, storedHash string) (bool, string, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plainTextPassword))

	switch {
	case err == nil:
		// Match. Produce the argon2id replacement; if the upgrade hash cannot
		// be derived, the migration is simply retried on the next login.
		upgraded, hashErr := h.Hash(plainTextPassword)
		if hashErr != nil {
			return true, "", nil
		}
		return true, upgraded, nil

	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, "", nil

	default:
		// Truncated or otherwise invalid bcrypt payload.
		return false, "", ErrHashIntegrity
	}
}
