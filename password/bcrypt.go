package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	minCost = 10
	maxCost = 16

	// bcrypt rejects inputs longer than 72 bytes; the pepper counts against
	// the same budget.
	maxInputBytes = 72
)

// Config holds hashing parameters.
type Config struct {
	Pepper string
	Cost   int
}

// Hasher produces and verifies peppered bcrypt hashes. Safe for concurrent
// use; it holds no mutable state.
type Hasher struct {
	config Config
}

// NewHasher validates cfg and returns a Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	if cfg.Cost < minCost || cfg.Cost > maxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	if len(cfg.Pepper) >= maxInputBytes {
		return nil, errors.New("pepper too long")
	}

	return &Hasher{config: cfg}, nil
}

// MaxPlaintextBytes reports the longest plaintext this Hasher accepts. The
// pepper is appended before hashing and counts against bcrypt's 72-byte
// input cap, so the usable length shrinks with the pepper.
func (h *Hasher) MaxPlaintextBytes() int {
	return maxInputBytes - len(h.config.Pepper)
}

// Hash returns the bcrypt hash of plaintext+pepper. The random salt is
// generated by bcrypt and embedded in the output, so repeated calls with the
// same plaintext produce different hashes.
func (h *Hasher) Hash(plaintext string) (string, error) {
	input := []byte(plaintext + h.config.Pepper)
	if len(input) > maxInputBytes {
		return "", errors.New("password too long")
	}
	if len(plaintext) == 0 {
		return "", errors.New("empty password")
	}

	hash, err := bcrypt.GenerateFromPassword(input, h.config.Cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Verify reports whether plaintext+pepper matches storedHash. A mismatch is
// a boolean false, not an error; errors indicate a malformed stored hash.
// The underlying compare runs in constant relative time regardless of
// outcome.
func (h *Hasher) Verify(plaintext, storedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext+h.config.Pepper))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, err
}

// Cost reports the work factor of the stored hash, for upgrade checks.
func Cost(storedHash string) (int, error) {
	return bcrypt.Cost([]byte(storedHash))
}
