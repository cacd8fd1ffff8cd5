// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package auth_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollenlabs/pollen/internal/platform/apperr"
	"github.com/pollenlabs/pollen/internal/platform/sec"
	"github.com/pollenlabs/pollen/internal/settings"
	"github.com/pollenlabs/pollen/internal/users/auth"
)

// # In-Memory Fakes

type fakeUserRepo struct {
	byID map[string]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*auth.User{}}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if u, ok := f.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.byID[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) CreateConsumingCode(ctx context.Context, user *auth.User, codeID string) error {
	return f.Create(ctx, user)
}

func (f *fakeUserRepo) Update(_ context.Context, user *auth.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	copied := *user
	f.byID[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	u, ok := f.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	u.PasswordHash = newHash
	return nil
}

type fakeSessionRepo struct {
	byHash map[string]*auth.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byHash: map[string]*auth.Session{}}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *auth.Session) error {
	copied := *session
	f.byHash[session.TokenHash] = &copied
	return nil
}

func (f *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	s, ok := f.byHash[tokenHash]
	if !ok || s.IsRevoked || time.Now().After(s.ExpiresAt) {
		return nil, apperr.NotFound("Session")
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, sessionID string) error {
	for _, s := range f.byHash {
		if s.ID == sessionID {
			s.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAll(_ context.Context, userID string) error {
	for _, s := range f.byHash {
		if s.UserID == userID {
			s.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(_ context.Context) error { return nil }

type fakeCodeRepo struct {
	rows []*auth.VerificationCode
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{}
}

func (f *fakeCodeRepo) Replace(_ context.Context, code *auth.VerificationCode) error {
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.Email != code.Email || row.Purpose != code.Purpose {
			kept = append(kept, row)
		}
	}
	copied := *code
	f.rows = append(kept, &copied)
	return nil
}

func (f *fakeCodeRepo) FindLatest(_ context.Context, email string, purpose auth.Purpose) (*auth.VerificationCode, error) {
	matches := make([]*auth.VerificationCode, 0)
	for _, row := range f.rows {
		if row.Email == email && row.Purpose == purpose {
			matches = append(matches, row)
		}
	}
	if len(matches) == 0 {
		return nil, apperr.NotFound("Verification code")
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	copied := *matches[0]
	return &copied, nil
}

func (f *fakeCodeRepo) Delete(_ context.Context, id string) error {
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return nil
}

type fakeEventRepo struct {
	events []auth.AuthEvent
}

func (f *fakeEventRepo) Create(_ context.Context, event *auth.AuthEvent) error {
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeEventRepo) ListRecent(_ context.Context, limit int) ([]auth.AuthEvent, error) {
	if len(f.events) < limit {
		limit = len(f.events)
	}
	out := make([]auth.AuthEvent, limit)
	copy(out, f.events[len(f.events)-limit:])
	return out, nil
}

func (f *fakeEventRepo) ofType(eventType auth.EventType) []auth.AuthEvent {
	out := []auth.AuthEvent{}
	for _, e := range f.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeStagingRepo struct {
	registrations map[string]*auth.StagedRegistration
	google        map[string]*auth.StagedGoogle
}

func newFakeStagingRepo() *fakeStagingRepo {
	return &fakeStagingRepo{
		registrations: map[string]*auth.StagedRegistration{},
		google:        map[string]*auth.StagedGoogle{},
	}
}

func (f *fakeStagingRepo) StageRegistration(_ context.Context, token string, data *auth.StagedRegistration, _ time.Duration) error {
	copied := *data
	f.registrations[token] = &copied
	return nil
}

func (f *fakeStagingRepo) GetRegistration(_ context.Context, token string) (*auth.StagedRegistration, error) {
	if data, ok := f.registrations[token]; ok {
		copied := *data
		return &copied, nil
	}
	return nil, apperr.NotFound("Staged flow")
}

func (f *fakeStagingRepo) DeleteRegistration(_ context.Context, token string) error {
	delete(f.registrations, token)
	return nil
}

func (f *fakeStagingRepo) StageGoogle(_ context.Context, token string, data *auth.StagedGoogle, _ time.Duration) error {
	copied := *data
	f.google[token] = &copied
	return nil
}

func (f *fakeStagingRepo) GetGoogle(_ context.Context, token string) (*auth.StagedGoogle, error) {
	if data, ok := f.google[token]; ok {
		copied := *data
		return &copied, nil
	}
	return nil, apperr.NotFound("Staged flow")
}

func (f *fakeStagingRepo) DeleteGoogle(_ context.Context, token string) error {
	delete(f.google, token)
	return nil
}

// fakeSettings satisfies auth.SettingsReader from a plain map.
type fakeSettings struct {
	bools   map[string]bool
	strings map[string]string
	lists   map[string][]string
}

func (f *fakeSettings) BoolOr(_ context.Context, key string, fallback bool) (bool, error) {
	if v, ok := f.bools[key]; ok {
		return v, nil
	}
	return fallback, nil
}

func (f *fakeSettings) StringOr(_ context.Context, key, fallback string) (string, error) {
	if v, ok := f.strings[key]; ok {
		return v, nil
	}
	return fallback, nil
}

func (f *fakeSettings) ListOr(_ context.Context, key string, fallback []string) ([]string, error) {
	if v, ok := f.lists[key]; ok {
		return v, nil
	}
	return fallback, nil
}

type fakeNotifier struct {
	codesSent  []string // recipients
	lastCode   string
	adminNotes []string
}

func (f *fakeNotifier) SendVerificationCode(_ context.Context, recipient, code string) error {
	f.codesSent = append(f.codesSent, recipient)
	f.lastCode = code
	return nil
}

func (f *fakeNotifier) SendPasswordResetCode(_ context.Context, recipient, code string) error {
	f.codesSent = append(f.codesSent, recipient)
	f.lastCode = code
	return nil
}

func (f *fakeNotifier) NotifyAdminsOfSignup(_ context.Context, email string) error {
	f.adminNotes = append(f.adminNotes, email)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return fmt.Sprintf("access-%s", userID), nil
}

// # Harness

type harness struct {
	service  *auth.Service
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	codeRepo *fakeCodeRepo
	events   *fakeEventRepo
	staging  *fakeStagingRepo
	settings *fakeSettings
	notifier *fakeNotifier
}

func newHarness() *harness {
	h := &harness{
		users:    newFakeUserRepo(),
		sessions: newFakeSessionRepo(),
		codeRepo: newFakeCodeRepo(),
		events:   &fakeEventRepo{},
		staging:  newFakeStagingRepo(),
		settings: &fakeSettings{bools: map[string]bool{}, strings: map[string]string{}, lists: map[string][]string{}},
		notifier: &fakeNotifier{},
	}
	h.service = auth.NewService(
		h.users, h.sessions, h.events, h.staging,
		auth.NewCodes(h.codeRepo, nil),
		h.settings, h.notifier, fakeTokens{},
	)
	return h
}

var meta = auth.RequestMeta{UserAgent: "test-agent", IPAddress: "203.0.113.7"}

// # Email Signup Flow

/*
TestRegisterAndVerify_CreatesActiveAccount walks the full email path: an
anonymous registration, the emailed code, and the verified account with
username derived from the email local part.
*/
func TestRegisterAndVerify_CreatesActiveAccount(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	token, err := h.service.Register(ctx, auth.RegisterInput{
		Email:           "new@x.org",
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
		FullName:        "Nora Winter",
		Meta:            meta,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// No account yet: only staging plus a dispatched code exist.
	_, err = h.users.FindByEmail(ctx, "new@x.org")
	require.Error(t, err)
	require.Equal(t, []string{"new@x.org"}, h.notifier.codesSent)

	session, err := h.service.VerifyRegistration(ctx, token, h.notifier.lastCode, meta)
	require.NoError(t, err)

	user := session.User
	assert.Equal(t, "new@x.org", user.Email)
	assert.Equal(t, "new", user.Username)
	assert.Equal(t, "Nora", user.FirstName)
	assert.Equal(t, "Winter", user.LastName)
	assert.True(t, user.IsActive)
	assert.Equal(t, sec.RoleMember, user.Role)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	// Operators were told, the audit trail recorded both steps, and the
	// staging entry is gone.
	assert.Equal(t, []string{"new@x.org"}, h.notifier.adminNotes)
	assert.Len(t, h.events.ofType(auth.EventRegisterEmail), 1)
	assert.Len(t, h.events.ofType(auth.EventVerifyEmail), 1)
	assert.Empty(t, h.staging.registrations)
}

/*
TestRegister_Rejections covers the validation gates ahead of staging.
*/
func TestRegister_Rejections(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	_, err := h.service.Register(ctx, auth.RegisterInput{
		Email:           "a@x.org",
		Password:        "password-one",
		ConfirmPassword: "password-two",
		Meta:            meta,
	})
	assert.ErrorIs(t, err, auth.ErrPasswordMismatch)

	// Seed an existing account, then collide with it.
	require.NoError(t, h.users.Create(ctx, &auth.User{ID: "u1", Email: "taken@x.org", Username: "taken"}))
	_, err = h.service.Register(ctx, auth.RegisterInput{
		Email:           "taken@x.org",
		Password:        "longenoughpw",
		ConfirmPassword: "longenoughpw",
		Meta:            meta,
	})
	assert.ErrorIs(t, err, auth.ErrDuplicateAccount)
}

/*
TestVerifyRegistration_CodeOutcomes checks the retry-vs-restart split: an
invalid code keeps the staged flow alive, an expired one discards it.
*/
func TestVerifyRegistration_CodeOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid_code_allows_retry", func(t *testing.T) {
		h := newHarness()
		token, err := h.service.Register(ctx, auth.RegisterInput{
			Email:           "retry@x.org",
			Password:        "longenoughpw",
			ConfirmPassword: "longenoughpw",
			Meta:            meta,
		})
		require.NoError(t, err)

		wrong := "0000"
		if h.notifier.lastCode == wrong {
			wrong = "9999"
		}
		_, err = h.service.VerifyRegistration(ctx, token, wrong, meta)
		assert.ErrorIs(t, err, auth.ErrInvalidCode)

		// The staged flow survived; the right code still works.
		session, err := h.service.VerifyRegistration(ctx, token, h.notifier.lastCode, meta)
		require.NoError(t, err)
		assert.Equal(t, "retry@x.org", session.User.Email)
	})

	t.Run("expired_code_discards_staging", func(t *testing.T) {
		h := newHarness()
		token, err := h.service.Register(ctx, auth.RegisterInput{
			Email:           "slow@x.org",
			Password:        "longenoughpw",
			ConfirmPassword: "longenoughpw",
			Meta:            meta,
		})
		require.NoError(t, err)

		// Age the stored code past its window.
		require.Len(t, h.codeRepo.rows, 1)
		h.codeRepo.rows[0].CreatedAt = time.Now().Add(-11 * time.Minute)

		_, err = h.service.VerifyRegistration(ctx, token, h.notifier.lastCode, meta)
		assert.ErrorIs(t, err, auth.ErrExpiredCode)

		// Back to Anonymous: the same token is now an expired flow.
		_, err = h.service.VerifyRegistration(ctx, token, h.notifier.lastCode, meta)
		assert.ErrorIs(t, err, auth.ErrFlowExpired)
	})

	t.Run("reissue_invalidates_prior_code", func(t *testing.T) {
		h := newHarness()
		_, err := h.service.Register(ctx, auth.RegisterInput{
			Email:           "twice@x.org",
			Password:        "longenoughpw",
			ConfirmPassword: "longenoughpw",
			Meta:            meta,
		})
		require.NoError(t, err)
		firstCode := h.notifier.lastCode

		token2, err := h.service.Register(ctx, auth.RegisterInput{
			Email:           "twice@x.org",
			Password:        "longenoughpw",
			ConfirmPassword: "longenoughpw",
			Meta:            meta,
		})
		require.NoError(t, err)

		if firstCode != h.notifier.lastCode {
			_, err = h.service.VerifyRegistration(ctx, token2, firstCode, meta)
			assert.ErrorIs(t, err, auth.ErrInvalidCode)
		}
	})
}

/*
TestVerifyRegistration_UsernameTakenMidFlow: two staged signups sharing an
email local part both derive username "a". The slower flow must still
complete, picking up a suffixed username at verify time instead of tripping
the unique constraint.
*/
func TestVerifyRegistration_UsernameTakenMidFlow(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	tokenFirst, err := h.service.Register(ctx, auth.RegisterInput{
		Email:           "a@x.org",
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
		Meta:            meta,
	})
	require.NoError(t, err)
	codeFirst := h.notifier.lastCode

	tokenSecond, err := h.service.Register(ctx, auth.RegisterInput{
		Email:           "a@y.org",
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
		Meta:            meta,
	})
	require.NoError(t, err)
	codeSecond := h.notifier.lastCode

	sessionFirst, err := h.service.VerifyRegistration(ctx, tokenFirst, codeFirst, meta)
	require.NoError(t, err)
	assert.Equal(t, "a", sessionFirst.User.Username)

	sessionSecond, err := h.service.VerifyRegistration(ctx, tokenSecond, codeSecond, meta)
	require.NoError(t, err)
	assert.NotEqual(t, "a", sessionSecond.User.Username)
	assert.True(t, strings.HasPrefix(sessionSecond.User.Username, "a-"))
	assert.Equal(t, "a@y.org", sessionSecond.User.Email)
}

// # Credential Login

/*
TestLogin covers identifier flexibility and the generic failure contract:
wrong credentials leave no login event behind.
*/
func TestLogin(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	hash, err := sec.HashPassword("correct-horse")
	require.NoError(t, err)
	require.NoError(t, h.users.Create(ctx, &auth.User{
		ID: "u1", Email: "user@x.org", Username: "user", PasswordHash: hash, IsActive: true,
		Role: sec.RoleMember,
	}))

	t.Run("by_email", func(t *testing.T) {
		session, err := h.service.Login(ctx, auth.LoginInput{Login: "user@x.org", Password: "correct-horse", Meta: meta})
		require.NoError(t, err)
		assert.Equal(t, "u1", session.User.ID)
	})

	t.Run("by_username", func(t *testing.T) {
		_, err := h.service.Login(ctx, auth.LoginInput{Login: "user", Password: "correct-horse", Meta: meta})
		require.NoError(t, err)
	})

	t.Run("wrong_password_is_generic_and_unlogged", func(t *testing.T) {
		before := len(h.events.ofType(auth.EventLoginEmail))
		_, err := h.service.Login(ctx, auth.LoginInput{Login: "user@x.org", Password: "wrong", Meta: meta})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Len(t, h.events.ofType(auth.EventLoginEmail), before)
	})

	t.Run("unknown_user_reads_the_same", func(t *testing.T) {
		_, err := h.service.Login(ctx, auth.LoginInput{Login: "ghost@x.org", Password: "whatever", Meta: meta})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unusable_password_never_authenticates", func(t *testing.T) {
		require.NoError(t, h.users.Create(ctx, &auth.User{
			ID: "op1", Email: "maya@pollenlabs.io", Username: "maya", PasswordHash: "", IsActive: true,
			Role: sec.RoleAdmin,
		}))
		_, err := h.service.Login(ctx, auth.LoginInput{Login: "maya@pollenlabs.io", Password: "", Meta: meta})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

/*
TestLogoutAndRefresh exercises session rotation and idempotent logout.
*/
func TestLogoutAndRefresh(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	hash, _ := sec.HashPassword("correct-horse")
	require.NoError(t, h.users.Create(ctx, &auth.User{
		ID: "u1", Email: "user@x.org", Username: "user", PasswordHash: hash, IsActive: true,
	}))

	session, err := h.service.Login(ctx, auth.LoginInput{Login: "user@x.org", Password: "correct-horse", Meta: meta})
	require.NoError(t, err)

	rotated, err := h.service.RefreshSession(ctx, session.RefreshToken, meta)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// The rotated-out token is dead.
	_, err = h.service.RefreshSession(ctx, session.RefreshToken, meta)
	require.Error(t, err)

	require.NoError(t, h.service.Logout(ctx, rotated.RefreshToken, meta))
	assert.Len(t, h.events.ofType(auth.EventLogout), 1)

	// Logout of an unknown token is a no-op success.
	require.NoError(t, h.service.Logout(ctx, "not-a-token", meta))
}

// # Google-Identity Path

/*
TestGoogle_DomainRestriction is the breach scenario: restriction enabled, a
stranger from the wrong domain ends up with a disabled account, a breach
event, and a terminal rejection.
*/
func TestGoogle_DomainRestriction(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.settings.bools[settings.KeyDomainRestrictionEnabled] = true
	h.settings.strings[settings.KeyAllowedDomain] = "x.org"

	outcome, err := h.service.HandleGoogleIdentity(ctx, auth.GoogleIdentity{
		Email:          "outsider@evil.com",
		DisplayName:    "Out Sider",
		ProviderUserID: "google-123",
	}, meta)
	require.NoError(t, err)

	assert.Equal(t, auth.GoogleStateDomainRejected, outcome.State)
	require.NotNil(t, outcome.Breach)
	assert.Equal(t, "evil.com", outcome.Breach.Domain)
	assert.Equal(t, "x.org", outcome.Breach.AllowedDomain)
	assert.Nil(t, outcome.Session)

	created, err := h.users.FindByEmail(ctx, "outsider@evil.com")
	require.NoError(t, err)
	assert.False(t, created.IsActive)

	breaches := h.events.ofType(auth.EventGoogleBreach)
	require.Len(t, breaches, 1)
	assert.Equal(t, "evil.com", breaches[0].Extra["domain"])
}

/*
TestGoogle_ExistingAccountBypassesRestriction pins the deliberate tie-break:
a known account from a now-restricted domain still signs straight in.
*/
func TestGoogle_ExistingAccountBypassesRestriction(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.settings.bools[settings.KeyDomainRestrictionEnabled] = true
	h.settings.strings[settings.KeyAllowedDomain] = "x.org"

	require.NoError(t, h.users.Create(ctx, &auth.User{
		ID: "u1", Email: "veteran@evil.com", Username: "veteran", IsActive: false,
	}))

	outcome, err := h.service.HandleGoogleIdentity(ctx, auth.GoogleIdentity{
		Email:          "veteran@evil.com",
		ProviderUserID: "google-777",
	}, meta)
	require.NoError(t, err)

	assert.Equal(t, auth.GoogleStateActive, outcome.State)
	require.NotNil(t, outcome.Session)
	assert.Equal(t, "u1", outcome.Session.User.ID)

	// Binding reactivates and attaches the provider identity. No breach.
	rebound, err := h.users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, rebound.IsActive)
	assert.Equal(t, "google-777", rebound.GoogleUserID)
	assert.Empty(t, h.events.ofType(auth.EventGoogleBreach))
}

/*
TestGoogle_SecondaryVerification walks the PendingGoogleVerification state:
account created active, session withheld until the code round-trips.
*/
func TestGoogle_SecondaryVerification(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.settings.bools[settings.KeyGoogleVerification] = true

	outcome, err := h.service.HandleGoogleIdentity(ctx, auth.GoogleIdentity{
		Email:          "careful@x.org",
		DisplayName:    "Care Ful",
		ProviderUserID: "google-555",
	}, meta)
	require.NoError(t, err)

	assert.Equal(t, auth.GoogleStatePendingVerification, outcome.State)
	require.NotEmpty(t, outcome.StagingToken)
	assert.Nil(t, outcome.Session)

	// Account exists and is active, but no session was issued yet.
	created, err := h.users.FindByEmail(ctx, "careful@x.org")
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	// Wrong code: retry allowed, staging intact.
	wrong := "0000"
	if h.notifier.lastCode == wrong {
		wrong = "9999"
	}
	_, err = h.service.VerifyGoogle(ctx, outcome.StagingToken, wrong, meta)
	assert.ErrorIs(t, err, auth.ErrInvalidCode)

	session, err := h.service.VerifyGoogle(ctx, outcome.StagingToken, h.notifier.lastCode, meta)
	require.NoError(t, err)
	assert.Equal(t, created.ID, session.User.ID)
	assert.Len(t, h.events.ofType(auth.EventGoogleVerify), 1)

	// The code was consumed with the session release.
	_, err = h.service.VerifyGoogle(ctx, outcome.StagingToken, h.notifier.lastCode, meta)
	assert.ErrorIs(t, err, auth.ErrFlowExpired)
}

/*
TestGoogle_UnrestrictedSignIn is the plain path: no restriction, no secondary
code, immediate session.
*/
func TestGoogle_UnrestrictedSignIn(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	outcome, err := h.service.HandleGoogleIdentity(ctx, auth.GoogleIdentity{
		Email:          "simple@x.org",
		DisplayName:    "Sim Ple",
		ProviderUserID: "google-1",
	}, meta)
	require.NoError(t, err)

	assert.Equal(t, auth.GoogleStateActive, outcome.State)
	require.NotNil(t, outcome.Session)
	assert.True(t, outcome.Session.User.IsActive)
	assert.False(t, outcome.Session.User.HasUsablePassword())
	assert.Len(t, h.events.ofType(auth.EventGoogleLogin), 1)
}

// # Password Recovery

/*
TestPasswordReset walks request → code → complete, including session revocation.
*/
func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	hash, _ := sec.HashPassword("old-password")
	require.NoError(t, h.users.Create(ctx, &auth.User{
		ID: "u1", Email: "user@x.org", Username: "user", PasswordHash: hash, IsActive: true,
	}))
	live, err := h.service.Login(ctx, auth.LoginInput{Login: "user@x.org", Password: "old-password", Meta: meta})
	require.NoError(t, err)

	// Unknown email is silently accepted (no enumeration) and sends nothing.
	require.NoError(t, h.service.RequestPasswordReset(ctx, "ghost@x.org", meta))
	assert.Empty(t, h.notifier.codesSent)

	require.NoError(t, h.service.RequestPasswordReset(ctx, "user@x.org", meta))
	require.Equal(t, []string{"user@x.org"}, h.notifier.codesSent)

	err = h.service.CompletePasswordReset(ctx, "user@x.org", h.notifier.lastCode, "new-password-1", "different", meta)
	assert.ErrorIs(t, err, auth.ErrPasswordMismatch)

	require.NoError(t, h.service.CompletePasswordReset(ctx, "user@x.org", h.notifier.lastCode, "new-password-1", "new-password-1", meta))

	// Old password dead, new one works, old session revoked.
	_, err = h.service.Login(ctx, auth.LoginInput{Login: "user@x.org", Password: "old-password", Meta: meta})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = h.service.Login(ctx, auth.LoginInput{Login: "user@x.org", Password: "new-password-1", Meta: meta})
	require.NoError(t, err)
	_, err = h.service.RefreshSession(ctx, live.RefreshToken, meta)
	require.Error(t, err)

	// The reset code was consumed.
	err = h.service.CompletePasswordReset(ctx, "user@x.org", h.notifier.lastCode, "another-pass-2", "another-pass-2", meta)
	assert.ErrorIs(t, err, auth.ErrInvalidCode)
}

// # Operator Bootstrap

/*
TestEnsureSuperAdmins verifies the idempotent deploy-time bootstrap.
*/
func TestEnsureSuperAdmins(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.settings.lists[settings.KeySuperAdminEmails] = []string{"maya@pollenlabs.io", "jonas@pollenlabs.io"}

	// jonas already exists as a plain member.
	require.NoError(t, h.users.Create(ctx, &auth.User{
		ID: "u1", Email: "jonas@pollenlabs.io", Username: "jonas", Role: sec.RoleMember, IsActive: false,
	}))

	require.NoError(t, h.service.EnsureSuperAdmins(ctx))

	maya, err := h.users.FindByEmail(ctx, "maya@pollenlabs.io")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, maya.Role)
	assert.True(t, maya.IsActive)
	assert.False(t, maya.HasUsablePassword())

	jonas, err := h.users.FindByEmail(ctx, "jonas@pollenlabs.io")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, jonas.Role)
	assert.True(t, jonas.IsActive)

	// Re-running changes nothing.
	before := len(h.users.byID)
	require.NoError(t, h.service.EnsureSuperAdmins(ctx))
	assert.Equal(t, before, len(h.users.byID))
}

// # Entity Helpers

/*
TestSplitFullName covers the best-effort first/last split.
*/
func TestSplitFullName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		first string
		last  string
	}{
		{"two_parts", "Nora Winter", "Nora", "Winter"},
		{"three_parts", "Ana Maria Silva", "Ana", "Maria Silva"},
		{"single_token", "Cher", "Cher", ""},
		{"empty", "", "", ""},
		{"padded", "  Lee   Chan  ", "Lee", "Chan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := auth.SplitFullName(tt.input)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}
