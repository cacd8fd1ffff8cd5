// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a session/refresh token remains valid.
	// Long-lived (30 days) to provide a good user experience.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random secure token.
	RefreshTokenLength = 32

	// CodeDigits is the width of a verification code.
	CodeDigits = 4

	// CodeTTL is the validity window of a verification code, measured from
	// creation. Expiry is evaluated at validation time.
	CodeTTL = 10 * time.Minute

	// StagingTokenLength is the byte length of the random token identifying
	// an in-flight registration or Google verification.
	StagingTokenLength = 32

	// StagingTTL is how long staged flow data survives in Redis. Slightly
	// longer than CodeTTL so an expired-code response can still tell the
	// user which flow died.
	StagingTTL = 15 * time.Minute
)
