// Package cryptox wraps the password hashing primitive used for stored
// credentials. Hashes are bcrypt, which embeds its own random salt and cost.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost keeps a single hash in the tens of milliseconds on server
// hardware.
const DefaultCost = 10

// MaxPasswordLength is the longest password bcrypt accepts, in bytes.
const MaxPasswordLength = 72

// ErrMismatch is returned by ComparePassword when the password does not
// produce the stored hash.
var ErrMismatch = errors.New("password mismatch")

// ErrPasswordTooLong is returned by HashPassword for passwords over
// MaxPasswordLength bytes.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// HashPassword derives a salted bcrypt hash of password. Costs outside
// bcrypt's accepted range fall back to DefaultCost.
func HashPassword(password []byte, cost int) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword(password, cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword checks password against a hash produced by HashPassword.
// The comparison is constant-time with respect to the password contents.
// A password over MaxPasswordLength can never match; it still costs one
// comparison and yields ErrMismatch.
func ComparePassword(hash string, password []byte) error {
	if len(password) > MaxPasswordLength {
		_ = bcrypt.CompareHashAndPassword([]byte(hash), password[:MaxPasswordLength])
		return ErrMismatch
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), password)
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
