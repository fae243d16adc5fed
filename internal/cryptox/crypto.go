// Package cryptox hashes and verifies account passwords with Argon2id.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16

	hashPrefix = "argon2id"
)

var ErrMalformedHash = errors.New("malformed password hash")

// generateSalt is replaced in tests to make hashes deterministic.
var generateSalt = func() []byte { return common.GenerateRandByteArray(saltLen) }

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashPassword derives an Argon2id key from password and a fresh random salt.
//
// The result has the form "argon2id$<salt>$<key>" with both parts encoded in
// unpadded base64, and can be stored as is.
func HashPassword(password string) string {
	salt := generateSalt()
	key := deriveKey([]byte(password), salt)

	enc := base64.RawStdEncoding
	return strings.Join([]string{hashPrefix, enc.EncodeToString(salt), enc.EncodeToString(key)}, "$")
}

// VerifyPassword reports whether password matches an encoded hash produced by
// HashPassword. The comparison runs in constant time.
func VerifyPassword(encoded, password string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != hashPrefix {
		return false, ErrMalformedHash
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	want, err := enc.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}

	got := deriveKey([]byte(password), salt)
	defer common.WipeByteArray(got)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
