// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package auth

import (
	"context"
	"time"

	"github.com/pollenlabs/pollen/internal/platform/apperr"
	"github.com/pollenlabs/pollen/internal/platform/sec"
	"github.com/pollenlabs/pollen/pkg/uuid"
)

// # Code Outcomes

var (
	// ErrInvalidCode means no live code matches the submission. The caller
	// may let the user retry.
	ErrInvalidCode = apperr.Unprocessable("Invalid verification code")

	// ErrExpiredCode means the matching code aged past its validity window.
	// The caller must restart the flow; retrying the same code can never
	// succeed.
	ErrExpiredCode = apperr.Gone("Verification code has expired")
)

// Codes issues, validates, and retires one-time verification codes.
//
// # Caller Contract
//
// Validate does NOT consume the code. Every successful validation must be
// followed by an explicit Consume (or an atomic consuming write such as
// [UserRepository.CreateConsumingCode]) by the caller.
type Codes struct {
	repository CodeRepository
	now        func() time.Time
}

// NewCodes constructs the code primitive. The clock parameter exists for
// boundary tests; pass nil for wall-clock time.
func NewCodes(repository CodeRepository, clock func() time.Time) *Codes {
	if clock == nil {
		clock = time.Now
	}
	return &Codes{repository: repository, now: clock}
}

/*
Issue replaces any live code for (email, purpose) with a fresh random one.

Description: Generates a uniformly random zero-padded 4-digit code and
persists it, atomically invalidating any prior code for the same pair. The
code is returned for dispatch by the notification collaborator; dispatch
failures must not roll this step back.

Parameters:
  - context: context.Context
  - email: string
  - purpose: Purpose

Returns:
  - *VerificationCode: The persisted code, including its plaintext digits
  - error: Generation or persistence failures
*/
func (codes *Codes) Issue(context context.Context, email string, purpose Purpose) (*VerificationCode, error) {
	digits, err := sec.GenerateNumericCode(CodeDigits)
	if err != nil {
		return nil, err
	}

	code := &VerificationCode{
		ID:        uuid.New(),
		Email:     email,
		Code:      digits,
		Purpose:   purpose,
		CreatedAt: codes.now(),
	}

	if err := codes.repository.Replace(context, code); err != nil {
		return nil, err
	}
	return code, nil
}

/*
Validate checks a submitted code against the latest one for (email, purpose).

Description: Looks up the most recent code row. A missing row or a digit
mismatch yields [ErrInvalidCode]; a matching row at or past created_at + 10
minutes yields [ErrExpiredCode]. Earlier codes superseded by a reissue can
never validate because only the latest row is consulted.

The code is NOT consumed on success — see the [Codes] caller contract.

Parameters:
  - context: context.Context
  - email: string
  - purpose: Purpose
  - submitted: string

Returns:
  - *VerificationCode: The validated row, for subsequent consumption
  - error: ErrInvalidCode, ErrExpiredCode, or retrieval failures
*/
func (codes *Codes) Validate(context context.Context, email string, purpose Purpose, submitted string) (*VerificationCode, error) {
	code, err := codes.repository.FindLatest(context, email, purpose)
	if err != nil {
		return nil, ErrInvalidCode
	}

	if code.Code != submitted {
		return nil, ErrInvalidCode
	}

	if code.IsExpired(codes.now()) {
		return nil, ErrExpiredCode
	}

	return code, nil
}

// Consume deletes a validated code so it can never validate again.
func (codes *Codes) Consume(context context.Context, codeID string) error {
	return codes.repository.Delete(context, codeID)
}
