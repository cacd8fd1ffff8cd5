// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

/*
Package auth implements the user identity and account lifecycle layer.

It defines the core domain entities (User, Session, VerificationCode,
AuthEvent) and the two account-creation paths: email signup gated by a
4-digit confirmation code, and Google sign-in gated by an optional domain
restriction and an optional secondary code.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"strings"
	"time"

	"github.com/pollenlabs/pollen/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Pollen platform.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string       `json:"first_name,omitempty"`
	LastName     string       `json:"last_name,omitempty"`
	Role         sec.UserRole `json:"role"`
	IsActive     bool         `json:"is_active"`
	GoogleUserID string       `json:"-"` // Provider subject, never exposed.
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// HasUsablePassword reports whether the account can authenticate with a
// password at all. Bootstrap operator accounts are created with an empty
// hash, forcing Google sign-in or a password reset.
func (user *User) HasUsablePassword() bool {
	return user.PasswordHash != ""
}

// SplitFullName splits a display name on the first whitespace into first and
// last name. Best-effort: a single token becomes the first name, an empty
// string yields two empty parts.
func SplitFullName(fullName string) (firstName, lastName string) {
	trimmed := strings.TrimSpace(fullName)
	if trimmed == "" {
		return "", ""
	}
	parts := strings.SplitN(trimmed, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

// Session represents an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// # Verification Codes

// Purpose scopes a verification code to the flow that issued it.
type Purpose string

const (
	PurposeSignup             Purpose = "signup"
	PurposePasswordReset      Purpose = "password_reset"
	PurposeGoogleVerification Purpose = "google_verification"
)

// VerificationCode is a short-lived one-time code bound to an email and a
// purpose. Codes are 4-digit zero-padded strings and are not unique across
// rows; (email, purpose) holds at most one live code at a time.
type VerificationCode struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"-"` // Never serialized; delivered by email only.
	Purpose   Purpose   `json:"purpose"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpiresAt returns the moment the code stops validating. Expiry is checked
// at validation time; stale rows are simply garbage, never swept.
func (code *VerificationCode) ExpiresAt() time.Time {
	return code.CreatedAt.Add(CodeTTL)
}

// IsExpired reports whether the code is stale at the given instant.
func (code *VerificationCode) IsExpired(now time.Time) bool {
	return !now.Before(code.ExpiresAt())
}

// # Audit Trail

// EventType tags an authentication-relevant occurrence.
type EventType string

const (
	EventRegisterEmail         EventType = "register_email"
	EventVerifyEmail           EventType = "verify_email"
	EventLoginEmail            EventType = "login_email"
	EventLogout                EventType = "logout"
	EventPasswordResetRequest  EventType = "password_reset_request"
	EventPasswordResetComplete EventType = "password_reset_complete"
	EventGoogleLogin           EventType = "google_login"
	EventGoogleBreach          EventType = "google_breach"
	EventGoogleVerify          EventType = "google_verify"
)

// AuthEvent is an append-only audit record. Deleting a user nulls the weak
// UserID reference; the event itself is never mutated or deleted by the
// normal flow.
type AuthEvent struct {
	ID        string            `json:"id"`
	UserID    *string           `json:"user_id,omitempty"`
	Email     string            `json:"email"`
	EventType EventType         `json:"event_type"`
	IPAddress string            `json:"ip_address"`
	UserAgent string            `json:"user_agent"`
	Extra     map[string]string `json:"extra,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// # Flow Staging

// StagedRegistration is the transient record bridging register → verify.
// Only the bcrypt hash is staged; the plaintext password never leaves the
// register call.
type StagedRegistration struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
}

// StagedGoogle is the transient record bridging a Google sign-in that is
// waiting on its secondary verification code.
type StagedGoogle struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldFullName        = "full_name"
	FieldLogin           = "login"
	FieldCode            = "code"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
	FieldState           = "state"
)
