// Package apikey hashes and verifies the shared key internal services present in X-API-Key.
package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = bcrypt.DefaultCost

	keyBytes = 24
)

var (
	ErrInvalidKey = errors.New("invalid api key")
	ErrEmptyKey   = errors.New("api key cannot be empty")
)

// Generate returns a new random key in hex encoding.
func Generate() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// Hash generates a bcrypt hash suitable for APP_API_KEY_HASH.
func Hash(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(key), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}

	return string(bytes), nil
}

func Verify(key, hash string) error {
	if key == "" || hash == "" {
		return ErrInvalidKey
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidKey
		}

		return fmt.Errorf("failed to verify api key: %w", err)
	}

	return nil
}
