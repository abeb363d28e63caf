package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewRefreshToken returns an opaque hex token; nBytes <= 0 means 32 bytes.
func NewRefreshToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashRefreshToken is what the users table stores; the plain token only
// goes to the client.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
