// Package password implements the bcrypt-backed credential hasher.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for stored credentials.
const DefaultCost = 10

// MaxInputBytes is the longest input bcrypt uses; longer passwords are cut
// to this many bytes before hashing and verifying.
const MaxInputBytes = 72

var ErrEmptyPassword = errors.New("password must not be empty")

type Hasher struct {
	cost int
}

// NewHasher returns a bcrypt hasher; out-of-range costs fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash will generate a salted password hash.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		// the bcrypt error never contains the plaintext
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. A malformed hash never matches.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > MaxInputBytes {
		b = b[:MaxInputBytes]
	}
	return b
}
