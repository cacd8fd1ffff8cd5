// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package auth_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollenlabs/pollen/internal/users/auth"
)

/*
TestCodes_Issue checks code shape and the at-most-one-active-code policy.
*/
func TestCodes_Issue(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCodeRepo()
	codes := auth.NewCodes(repo, nil)

	first, err := codes.Issue(ctx, "a@x.org", auth.PurposeSignup)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{4}$`), first.Code)

	// Second issue for the same (email, purpose) replaces the first.
	second, err := codes.Issue(ctx, "a@x.org", auth.PurposeSignup)
	require.NoError(t, err)

	_, err = codes.Validate(ctx, "a@x.org", auth.PurposeSignup, first.Code)
	if first.Code != second.Code {
		assert.ErrorIs(t, err, auth.ErrInvalidCode)
	}

	validated, err := codes.Validate(ctx, "a@x.org", auth.PurposeSignup, second.Code)
	require.NoError(t, err)
	assert.Equal(t, second.ID, validated.ID)

	// A different purpose for the same email is untouched by the replace.
	reset, err := codes.Issue(ctx, "a@x.org", auth.PurposePasswordReset)
	require.NoError(t, err)
	_, err = codes.Validate(ctx, "a@x.org", auth.PurposeSignup, second.Code)
	require.NoError(t, err)
	_, err = codes.Validate(ctx, "a@x.org", auth.PurposePasswordReset, reset.Code)
	require.NoError(t, err)
}

/*
TestCodes_ValidateOutcomes covers the invalid / expired / fresh decision tree,
including the exact 10-minute boundary.
*/
func TestCodes_ValidateOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("no_code_is_invalid", func(t *testing.T) {
		codes := auth.NewCodes(newFakeCodeRepo(), nil)
		_, err := codes.Validate(ctx, "nobody@x.org", auth.PurposeSignup, "1234")
		assert.ErrorIs(t, err, auth.ErrInvalidCode)
	})

	t.Run("wrong_digits_is_invalid", func(t *testing.T) {
		repo := newFakeCodeRepo()
		codes := auth.NewCodes(repo, nil)
		issued, err := codes.Issue(ctx, "a@x.org", auth.PurposeSignup)
		require.NoError(t, err)

		wrong := "0000"
		if issued.Code == wrong {
			wrong = "9999"
		}
		_, err = codes.Validate(ctx, "a@x.org", auth.PurposeSignup, wrong)
		assert.ErrorIs(t, err, auth.ErrInvalidCode)
	})

	t.Run("ten_minute_boundary", func(t *testing.T) {
		repo := newFakeCodeRepo()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		codes := auth.NewCodes(repo, clock)

		issued, err := codes.Issue(ctx, "a@x.org", auth.PurposeSignup)
		require.NoError(t, err)

		// 9:59:59 after creation: still fresh.
		now = issued.CreatedAt.Add(10*time.Minute - time.Second)
		_, err = codes.Validate(ctx, "a@x.org", auth.PurposeSignup, issued.Code)
		require.NoError(t, err)

		// Exactly 10:00 after creation: expired (now >= created + TTL).
		now = issued.CreatedAt.Add(10 * time.Minute)
		_, err = codes.Validate(ctx, "a@x.org", auth.PurposeSignup, issued.Code)
		assert.ErrorIs(t, err, auth.ErrExpiredCode)
	})

	t.Run("validate_does_not_consume", func(t *testing.T) {
		repo := newFakeCodeRepo()
		codes := auth.NewCodes(repo, nil)
		issued, err := codes.Issue(ctx, "a@x.org", auth.PurposeSignup)
		require.NoError(t, err)

		// Two validations in a row both succeed; consumption is explicit.
		_, err = codes.Validate(ctx, "a@x.org", auth.PurposeSignup, issued.Code)
		require.NoError(t, err)
		_, err = codes.Validate(ctx, "a@x.org", auth.PurposeSignup, issued.Code)
		require.NoError(t, err)

		require.NoError(t, codes.Consume(ctx, issued.ID))
		_, err = codes.Validate(ctx, "a@x.org", auth.PurposeSignup, issued.Code)
		assert.ErrorIs(t, err, auth.ErrInvalidCode)
	})
}
