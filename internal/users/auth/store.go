// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		CreateConsumingCode persists a new account AND deletes the verification
		code that authorized it, in a single all-or-nothing unit. A failure in
		either half leaves no partial state behind.

		Parameters:
		  - context: context.Context
		  - user: *User
		  - codeID: string

		Returns:
		  - error: Persistence failures
	*/
	CreateConsumingCode(context context.Context, user *User, codeID string) error

	/*
		Update persists changes to mutable account fields (role, active flag,
		provider binding, last login).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {

	/*
		Create persists a new tracking session for an authenticated login.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the active session matching the given token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		Revoke marks a specific session as permanently invalidated.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, sessionID string) error

	/*
		RevokeAll revokes every active session belonging to the userID.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	RevokeAll(context context.Context, userID string) error

	/*
		DeleteExpired physically removes sessions whose ExpiresAt is in the past.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	DeleteExpired(context context.Context) error
}

// # Verification Code Data Access

// CodeRepository defines the data access contract for one-time codes.
type CodeRepository interface {

	/*
		Replace deletes any existing code for (email, purpose) and inserts the
		new one, as a single all-or-nothing unit. This enforces the
		at-most-one-active-code policy.

		Parameters:
		  - context: context.Context
		  - code: *VerificationCode

		Returns:
		  - error: Persistence failures
	*/
	Replace(context context.Context, code *VerificationCode) error

	/*
		FindLatest returns the most recently created code for (email, purpose).

		Parameters:
		  - context: context.Context
		  - email: string
		  - purpose: Purpose

		Returns:
		  - *VerificationCode: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindLatest(context context.Context, email string, purpose Purpose) (*VerificationCode, error)

	/*
		Delete removes a code row after it has been consumed.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error
}

// # Audit Trail Data Access

// EventRepository defines the data access contract for the append-only
// authentication audit trail.
type EventRepository interface {

	/*
		Create appends a new audit record. Callers treat failures as
		best-effort: a logging failure never aborts the primary operation.

		Parameters:
		  - context: context.Context
		  - event: *AuthEvent

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, event *AuthEvent) error

	/*
		ListRecent returns the newest audit records, newest first.

		Parameters:
		  - context: context.Context
		  - limit: int

		Returns:
		  - []AuthEvent: Hydrated records
		  - error: Database retrieval failures
	*/
	ListRecent(context context.Context, limit int) ([]AuthEvent, error)
}

// # Volatile Flow Staging

// StagingRepository defines the contract for the transient per-flow staging
// area backed by Redis. Entries are keyed by an opaque token held by the
// client and expire on their own.
type StagingRepository interface {

	/*
		StageRegistration stores in-flight registration data under token.

		Parameters:
		  - context: context.Context
		  - token: string
		  - data: *StagedRegistration
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	StageRegistration(context context.Context, token string, data *StagedRegistration, ttl time.Duration) error

	/*
		GetRegistration retrieves staged registration data by token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *StagedRegistration: Staged data
		  - error: apperr.NotFound when absent or expired
	*/
	GetRegistration(context context.Context, token string) (*StagedRegistration, error)

	/*
		DeleteRegistration discards staged registration data.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Deletion failures
	*/
	DeleteRegistration(context context.Context, token string) error

	/*
		StageGoogle stores a pending Google verification under token.

		Parameters:
		  - context: context.Context
		  - token: string
		  - data: *StagedGoogle
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	StageGoogle(context context.Context, token string, data *StagedGoogle, ttl time.Duration) error

	/*
		GetGoogle retrieves a pending Google verification by token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *StagedGoogle: Staged data
		  - error: apperr.NotFound when absent or expired
	*/
	GetGoogle(context context.Context, token string) (*StagedGoogle, error)

	/*
		DeleteGoogle discards a pending Google verification.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Deletion failures
	*/
	DeleteGoogle(context context.Context, token string) error
}
