// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// # Opaque Tokens

// GenerateSecureToken returns a hex-encoded random token of byteLength bytes.
//
// Used for refresh tokens and flow staging tokens. The hex encoding doubles
// the character count (32 bytes → 64 chars).
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the SHA-256 hex digest of a token.
//
// Only the digest is persisted, so a database dump never exposes live
// refresh tokens.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// # Numeric Codes

// GenerateNumericCode returns a uniformly random zero-padded numeric string
// of the given number of digits.
//
// # Example
//
//	GenerateNumericCode(4) // "0042", "9831", ...
//
// The full 0000–9999 range is used, with leading zeros preserved.
func GenerateNumericCode(digits int) (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < digits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate numeric code: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}
