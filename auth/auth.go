// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// TokenBytes is the entropy of a download token (128 bits).
const TokenBytes = 16

var ErrInvalidToken = errors.New("invalid token format")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateDownloadToken creates the single-use credential embedded in a
// download link. Lowercase hex keeps it path-safe without escaping.
func GenerateDownloadToken() (string, error) {
	token, err := GenerateID(TokenBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate download token: %w", err)
	}
	return token, nil
}

// ValidateDownloadToken rejects anything that GenerateDownloadToken could
// not have produced, so garbage paths never reach the database.
func ValidateDownloadToken(token string) error {
	if len(token) != TokenBytes*2 {
		return ErrInvalidToken
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return ErrInvalidToken
		}
	}
	return nil
}
