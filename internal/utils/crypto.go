package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength applies to staff and store passwords.
const MinPasswordLength = 8

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var dummyPasswordHash = sync.OnceValue(func() string {
	hash, _ := bcrypt.GenerateFromPassword([]byte("unused-login-placeholder"), bcrypt.DefaultCost)
	return string(hash)
})

// CheckDummyPassword does the bcrypt work of a real check for a login with no matching account.
// It always reports false.
func CheckDummyPassword(password string) bool {
	CheckPasswordHash(password, dummyPasswordHash())
	return false
}

// HashToken returns the hex SHA-256 digest stored in place of an opaque token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CompareTokenHash compares a raw token with its stored digest.
func CompareTokenHash(token, storedHash string) bool {
	return storedHash != "" && HashToken(token) == storedHash
}

// GenerateSecureRandomString returns lengthInBytes random bytes, hex encoded.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
