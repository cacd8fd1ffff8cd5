// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package sec_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollenlabs/pollen/internal/platform/sec"
)

/*
TestGenerateNumericCode checks length, charset, and zero padding.
*/
func TestGenerateNumericCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{4}$`)

	// Codes are random; sample repeatedly to catch padding bugs
	// (a raw integer format would drop leading zeros).
	for i := 0; i < 200; i++ {
		code, err := sec.GenerateNumericCode(4)
		require.NoError(t, err)
		assert.True(t, pattern.MatchString(code), "code %q must be exactly 4 digits", code)
	}
}

/*
TestHashToken verifies the digest is stable and never the raw token.
*/
func TestHashToken(t *testing.T) {
	digest := sec.HashToken("some-refresh-token")

	assert.Len(t, digest, 64) // SHA-256 hex
	assert.Equal(t, digest, sec.HashToken("some-refresh-token"))
	assert.NotEqual(t, digest, sec.HashToken("other-token"))
}

/*
TestCheckPasswordHash_EmptyHash ensures unusable-password accounts cannot
authenticate with any password.
*/
func TestCheckPasswordHash_EmptyHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", ""))
	assert.False(t, sec.CheckPasswordHash("", ""))
}

/*
TestHashPassword_RoundTrip verifies bcrypt hashing and comparison.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
}
