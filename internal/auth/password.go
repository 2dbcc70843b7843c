// Package auth derives the stored password hash for user accounts.
package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 2
	argonKeyLen  = 32
)

// ErrEmptyPassword is returned for blank passwords.
var ErrEmptyPassword = errors.New("auth: password is required")

// Hasher produces deterministic argon2id hashes so a login can be checked
// with an exact-match lookup. The salt is derived from the pepper and the
// normalized email, which keeps equal passwords distinct across accounts.
type Hasher struct {
	pepper string
}

func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

// Hash returns the encoded hash of password for email.
func (h *Hasher) Hash(email, password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt := sha256.Sum256([]byte(h.pepper + "\x00" + NormalizeEmail(email)))
	key := argon2.IDKey([]byte(password), salt[:16], argonTime, argonMemory, argonThreads, argonKeyLen)
	return "argon2id$" + base64.RawStdEncoding.EncodeToString(key), nil
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
