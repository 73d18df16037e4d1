package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// HashPassword hashes a plaintext password using bcrypt at the default cost.
func HashPassword(password string) ([]byte, error) {
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrNotValid, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpected, err)
	}

	return hash, nil
}

// VerifyPassword compares a plaintext password with the stored hash.
// A mismatch returns ErrBadCreds.
func VerifyPassword(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return fmt.Errorf("%w: %s", ErrBadCreds, err)
	}

	return nil
}
