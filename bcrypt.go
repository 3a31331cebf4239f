package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// OAuthPasswordSentinel marks accounts created through an OAuth provider.
// The marker is not a bcrypt hash, so ComparePasswordAndHash always fails
// against it and password login on such accounts reports invalid credentials.
const OAuthPasswordSentinel = "oauth:google"

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		// malformed hash, including the OAuth sentinel
		return ErrInvalidCredentials
	}
	return nil
}

// IsOAuthOnly reports whether the stored hash is the provider sentinel.
func IsOAuthOnly(hash string) bool {
	return strings.HasPrefix(hash, "oauth:")
}
