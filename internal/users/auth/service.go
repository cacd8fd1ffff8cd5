// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pollenlabs/pollen/internal/platform/apperr"
	"github.com/pollenlabs/pollen/internal/platform/ctxutil"
	"github.com/pollenlabs/pollen/internal/platform/sec"
	"github.com/pollenlabs/pollen/internal/settings"
	"github.com/pollenlabs/pollen/pkg/slug"
	"github.com/pollenlabs/pollen/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// SettingsReader is the slice of the settings resolver the auth flow needs.
type SettingsReader interface {
	BoolOr(context context.Context, key string, fallback bool) (bool, error)
	StringOr(context context.Context, key, fallback string) (string, error)
	ListOr(context context.Context, key string, fallback []string) ([]string, error)
}

// Notifier dispatches flow emails. All sends from this service are
// best-effort: failures are logged, never propagated, and never roll back
// the operation that triggered them.
type Notifier interface {
	SendVerificationCode(context context.Context, recipient, code string) error
	SendPasswordResetCode(context context.Context, recipient, code string) error
	NotifyAdminsOfSignup(context context.Context, email string) error
}

// # Flow Errors

var (
	// ErrPasswordMismatch means password and confirmation differ.
	ErrPasswordMismatch = apperr.ValidationError("Passwords do not match")

	// ErrDuplicateAccount means the email is already registered.
	ErrDuplicateAccount = apperr.Conflict("Email is already registered")

	// ErrInvalidCredentials is the generic login failure. The wording never
	// distinguishes an unknown user from a wrong password.
	ErrInvalidCredentials = apperr.Unauthorized("Invalid login credentials")

	// ErrFlowExpired means the staging entry backing a two-step flow is gone.
	ErrFlowExpired = apperr.Gone("This flow has expired. Please start over.")
)

// Service implements the account creation and login state machine.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or the Google gating logic must be reviewed by the security team.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	eventRepository   EventRepository
	stagingRepository StagingRepository
	codes             *Codes
	settings          SettingsReader
	notifier          Notifier
	tokenProvider     TokenProvider
}

// NewService constructs the auth [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	eventRepo EventRepository,
	stagingRepo StagingRepository,
	codes *Codes,
	settingsReader SettingsReader,
	notifier Notifier,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		eventRepository:   eventRepo,
		stagingRepository: stagingRepo,
		codes:             codes,
		settings:          settingsReader,
		notifier:          notifier,
		tokenProvider:     tokenProv,
	}
}

// RequestMeta carries transport metadata attached to audit events and sessions.
type RequestMeta struct {
	UserAgent string
	IPAddress string
}

// # Registration Flow (Email Path)

// RegisterInput holds the data required to start an email signup.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	Meta            RequestMeta
}

/*
Register starts the email signup flow: Anonymous → PendingVerification.

Description: Validates the password pair and email availability, issues a
SIGNUP code, emails it, and stages the registration data (with the password
already hashed) under an opaque token. No Account row exists until verify.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - string: Staging token identifying the pending registration
  - error: ErrPasswordMismatch, ErrDuplicateAccount, or storage failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (string, error) {

	// Equal-strings check only. Strength policy lives in the HTTP validator.
	if input.Password != input.ConfirmPassword {
		return "", ErrPasswordMismatch
	}

	// Email uniqueness. Registration is explicit about duplicates (unlike
	// login, there is nothing to enumerate that the user doesn't know).
	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return "", ErrDuplicateAccount
	}

	// Hash before staging so the plaintext never reaches Redis.
	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return "", fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	firstName, lastName := SplitFullName(input.FullName)
	staged := &StagedRegistration{
		Email:        input.Email,
		PasswordHash: passwordHash,
		Username:     service.deriveUsername(context, input.Email),
		FirstName:    firstName,
		LastName:     lastName,
	}

	// Issue the SIGNUP code. This atomically invalidates any prior code for
	// the same email.
	code, err := service.codes.Issue(context, input.Email, PurposeSignup)
	if err != nil {
		return "", fmt.Errorf("auth_service_issue_code_failed: %w", err)
	}

	// Dispatch is best-effort: a mail outage must not roll back issuance.
	if err := service.notifier.SendVerificationCode(context, input.Email, code.Code); err != nil {
		ctxutil.GetLogger(context).Error("failed to send verification code",
			slog.String("email", input.Email),
			slog.String("error", err.Error()))
	}

	token, err := sec.GenerateSecureToken(StagingTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_staging_token_failed: %w", err)
	}
	if err := service.stagingRepository.StageRegistration(context, token, staged, StagingTTL); err != nil {
		return "", fmt.Errorf("auth_service_staging_failed: %w", err)
	}

	service.recordEvent(context, nil, input.Email, EventRegisterEmail, input.Meta, nil)
	return token, nil
}

/*
VerifyRegistration completes the email signup flow.

Description: Reads the staged registration, validates the SIGNUP code, and on
success creates the active Account while consuming the code in one atomic
unit, clears staging, notifies the operators, and logs the user in.

On [ErrExpiredCode] the staging entry is discarded: the flow returns to
Anonymous and the user must register again. On [ErrInvalidCode] staging is
kept so the user can retry.

Parameters:
  - context: context.Context
  - stagingToken: string
  - submittedCode: string
  - meta: RequestMeta

Returns:
  - *LoginSession: Established session for the new account
  - error: ErrFlowExpired, ErrInvalidCode, ErrExpiredCode, or storage failures
*/
func (service *Service) VerifyRegistration(context context.Context, stagingToken, submittedCode string, meta RequestMeta) (*LoginSession, error) {
	staged, err := service.stagingRepository.GetRegistration(context, stagingToken)
	if err != nil {
		return nil, ErrFlowExpired
	}

	code, err := service.codes.Validate(context, staged.Email, PurposeSignup, submittedCode)
	if err != nil {
		if err == ErrExpiredCode {
			// Expired means start over: drop the staged data too.
			_ = service.stagingRepository.DeleteRegistration(context, stagingToken)
		}
		return nil, err
	}

	// The staged username was free at registration time but another flow
	// may have claimed it since. Re-derive so this flow still completes.
	username := staged.Username
	if _, err := service.userRepository.FindByUsername(context, username); err == nil {
		username = service.deriveUsername(context, staged.Email)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        staged.Email,
		PasswordHash: staged.PasswordHash,
		FirstName:    staged.FirstName,
		LastName:     staged.LastName,
		Role:         sec.RoleMember,
		IsActive:     true,
	}

	// Account creation and code consumption are one all-or-nothing unit.
	if err := service.userRepository.CreateConsumingCode(context, user, code.ID); err != nil {
		return nil, fmt.Errorf("auth_service_create_account_failed: %w", err)
	}

	_ = service.stagingRepository.DeleteRegistration(context, stagingToken)
	service.recordEvent(context, &user.ID, user.Email, EventVerifyEmail, meta, nil)

	if err := service.notifier.NotifyAdminsOfSignup(context, user.Email); err != nil {
		ctxutil.GetLogger(context).Error("failed to notify admins of signup",
			slog.String("email", user.Email),
			slog.String("error", err.Error()))
	}

	return service.establishSession(context, user, meta)
}

// deriveUsername builds a username from the email local part, suffixing a
// short random tag when the plain form is taken.
func (service *Service) deriveUsername(context context.Context, email string) string {
	username := slug.Username(email)
	if _, err := service.userRepository.FindByUsername(context, username); err != nil {
		return username
	}

	suffix, err := sec.GenerateSecureToken(3)
	if err != nil {
		return username
	}
	return username + "-" + suffix
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
	Meta     RequestMeta
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues security tokens.

Description: Accepts a username or an email as the identifier, performs a
constant-time password comparison, and establishes a rotated-token session.
Accounts without a usable password (bootstrap operators, disabled breach
accounts) always fail the comparison.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - error: ErrInvalidCredentials or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	// Flexible login: look up by Email or Username
	user, err := service.userRepository.FindByEmail(context, input.Login)
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, input.Login)
	}

	// Generic message to prevent enumeration. No audit event on failure:
	// failed attempts are transport-log territory, not the audit trail's.
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	// Empty stored hashes (unusable password) fail here unconditionally.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	service.touchLastLogin(context, user)
	service.recordEvent(context, &user.ID, user.Email, EventLoginEmail, input.Meta, nil)

	return service.establishSession(context, user, input.Meta)
}

/*
Logout permanently revokes the user's active session.

Description: Idempotent — an unknown or already-revoked token is treated as a
successful logout.

Parameters:
  - context: context.Context
  - refreshToken: string
  - meta: RequestMeta

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string, meta RequestMeta) error {
	tokenHash := sec.HashToken(refreshToken)

	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err != nil {
		return nil
	}

	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	if user, err := service.userRepository.FindByID(context, session.UserID); err == nil {
		service.recordEvent(context, &user.ID, user.Email, EventLogout, meta, nil)
	}
	return nil
}

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens.

Parameters:
  - context: context.Context
  - refreshToken: string
  - meta: RequestMeta

Returns:
  - *LoginSession: New session credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken string, meta RequestMeta) (*LoginSession, error) {
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: Revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil || !user.IsActive {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	return service.establishSession(context, user, meta)
}

// # Google-Identity Path

// GoogleIdentity is the assertion delivered by the identity-provider bridge
// after the external OAuth handshake. This service never talks to the
// provider directly.
type GoogleIdentity struct {
	Email          string
	DisplayName    string
	ProviderUserID string
}

// GoogleState names the terminal state of a Google sign-in attempt.
type GoogleState string

const (
	GoogleStateActive              GoogleState = "active"
	GoogleStateDomainRejected      GoogleState = "domain_rejected"
	GoogleStatePendingVerification GoogleState = "pending_verification"
)

// BreachInfo describes a rejected sign-in for the breach page.
type BreachInfo struct {
	Email         string `json:"email"`
	Domain        string `json:"domain"`
	AllowedDomain string `json:"allowed_domain"`
}

// GoogleOutcome is the result of processing a Google identity assertion.
// Exactly one of Session, StagingToken, or Breach is populated, matching
// State.
type GoogleOutcome struct {
	State        GoogleState
	Session      *LoginSession
	StagingToken string
	Breach       *BreachInfo
}

/*
HandleGoogleIdentity processes an external identity assertion.

Description: Implements the gating order, which is deliberate and must hold:

 1. An existing account with this email ALWAYS binds and activates, bypassing
    every restriction — a returning user is never re-blocked by a policy
    change.
 2. Domain restriction: a mismatched domain creates the account DISABLED,
    records a breach event, and terminates in DomainRejected.
 3. Secondary verification: when enabled, the account is created active but
    the session is withheld until the emailed code is confirmed.
 4. Otherwise the account is created active and logged in immediately.

Parameters:
  - context: context.Context
  - identity: GoogleIdentity
  - meta: RequestMeta

Returns:
  - *GoogleOutcome: State plus its state-specific payload
  - error: Settings resolution or storage failures
*/
func (service *Service) HandleGoogleIdentity(context context.Context, identity GoogleIdentity, meta RequestMeta) (*GoogleOutcome, error) {

	// ── 1. Existing account binds unconditionally ─────────────────────────
	if existing, err := service.userRepository.FindByEmail(context, identity.Email); err == nil {
		if existing.GoogleUserID == "" {
			existing.GoogleUserID = identity.ProviderUserID
		}
		existing.IsActive = true
		if err := service.userRepository.Update(context, existing); err != nil {
			return nil, fmt.Errorf("auth_service_google_bind_failed: %w", err)
		}

		service.touchLastLogin(context, existing)
		service.recordEvent(context, &existing.ID, existing.Email, EventGoogleLogin, meta, nil)

		session, err := service.establishSession(context, existing, meta)
		if err != nil {
			return nil, err
		}
		return &GoogleOutcome{State: GoogleStateActive, Session: session}, nil
	}

	// ── 2. Domain restriction ─────────────────────────────────────────────
	restricted, err := service.settings.BoolOr(context, settings.KeyDomainRestrictionEnabled, false)
	if err != nil {
		return nil, err
	}
	allowedDomain, err := service.settings.StringOr(context, settings.KeyAllowedDomain, "")
	if err != nil {
		return nil, err
	}

	domain := emailDomain(identity.Email)
	if restricted && allowedDomain != "" && !strings.EqualFold(domain, allowedDomain) {
		user, err := service.createGoogleAccount(context, identity, false)
		if err != nil {
			return nil, err
		}

		service.recordEvent(context, &user.ID, user.Email, EventGoogleBreach, meta, map[string]string{
			"domain":         domain,
			"allowed_domain": allowedDomain,
		})

		return &GoogleOutcome{
			State: GoogleStateDomainRejected,
			Breach: &BreachInfo{
				Email:         identity.Email,
				Domain:        domain,
				AllowedDomain: allowedDomain,
			},
		}, nil
	}

	// ── 3. Secondary verification gate ────────────────────────────────────
	verifyEnabled, err := service.settings.BoolOr(context, settings.KeyGoogleVerification, false)
	if err != nil {
		return nil, err
	}

	if verifyEnabled {
		user, err := service.createGoogleAccount(context, identity, true)
		if err != nil {
			return nil, err
		}

		code, err := service.codes.Issue(context, user.Email, PurposeGoogleVerification)
		if err != nil {
			return nil, fmt.Errorf("auth_service_google_code_failed: %w", err)
		}
		if err := service.notifier.SendVerificationCode(context, user.Email, code.Code); err != nil {
			ctxutil.GetLogger(context).Error("failed to send google verification code",
				slog.String("email", user.Email),
				slog.String("error", err.Error()))
		}

		token, err := sec.GenerateSecureToken(StagingTokenLength)
		if err != nil {
			return nil, fmt.Errorf("auth_service_staging_token_failed: %w", err)
		}
		staged := &StagedGoogle{UserID: user.ID, Email: user.Email}
		if err := service.stagingRepository.StageGoogle(context, token, staged, StagingTTL); err != nil {
			return nil, fmt.Errorf("auth_service_google_staging_failed: %w", err)
		}

		return &GoogleOutcome{State: GoogleStatePendingVerification, StagingToken: token}, nil
	}

	// ── 4. Unrestricted sign-up ───────────────────────────────────────────
	user, err := service.createGoogleAccount(context, identity, true)
	if err != nil {
		return nil, err
	}

	service.touchLastLogin(context, user)
	service.recordEvent(context, &user.ID, user.Email, EventGoogleLogin, meta, nil)

	session, err := service.establishSession(context, user, meta)
	if err != nil {
		return nil, err
	}
	return &GoogleOutcome{State: GoogleStateActive, Session: session}, nil
}

/*
VerifyGoogle completes the secondary verification of a Google sign-in.

Description: Validates the GOOGLE_VERIFICATION code for the staged account,
consumes it, clears staging, and establishes the withheld session. Invalid
codes leave the staging entry intact for a retry; expired codes end the flow.

Parameters:
  - context: context.Context
  - stagingToken: string
  - submittedCode: string
  - meta: RequestMeta

Returns:
  - *LoginSession: Established session
  - error: ErrFlowExpired, ErrInvalidCode, ErrExpiredCode, or storage failures
*/
func (service *Service) VerifyGoogle(context context.Context, stagingToken, submittedCode string, meta RequestMeta) (*LoginSession, error) {
	staged, err := service.stagingRepository.GetGoogle(context, stagingToken)
	if err != nil {
		return nil, ErrFlowExpired
	}

	code, err := service.codes.Validate(context, staged.Email, PurposeGoogleVerification, submittedCode)
	if err != nil {
		if err == ErrExpiredCode {
			_ = service.stagingRepository.DeleteGoogle(context, stagingToken)
		}
		return nil, err
	}

	if err := service.codes.Consume(context, code.ID); err != nil {
		return nil, fmt.Errorf("auth_service_google_consume_failed: %w", err)
	}
	_ = service.stagingRepository.DeleteGoogle(context, stagingToken)

	user, err := service.userRepository.FindByID(context, staged.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Account no longer exists")
	}

	service.touchLastLogin(context, user)
	service.recordEvent(context, &user.ID, user.Email, EventGoogleVerify, meta, nil)

	return service.establishSession(context, user, meta)
}

// createGoogleAccount persists a provider-backed account with no usable
// password.
func (service *Service) createGoogleAccount(context context.Context, identity GoogleIdentity, active bool) (*User, error) {
	firstName, lastName := SplitFullName(identity.DisplayName)

	user := &User{
		ID:           uuid.New(),
		Username:     service.deriveUsername(context, identity.Email),
		Email:        identity.Email,
		PasswordHash: "", // unusable: provider login or password reset only
		FirstName:    firstName,
		LastName:     lastName,
		Role:         sec.RoleMember,
		IsActive:     active,
		GoogleUserID: identity.ProviderUserID,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_google_create_failed: %w", err)
	}
	return user, nil
}

// # Password Recovery

/*
RequestPasswordReset starts the forgot-password flow.

Description: Issues a PASSWORD_RESET code and emails it. An unknown email is
silently accepted to prevent account enumeration.

Parameters:
  - context: context.Context
  - email: string
  - meta: RequestMeta

Returns:
  - error: Issuance failures (never "account not found")
*/
func (service *Service) RequestPasswordReset(context context.Context, email string, meta RequestMeta) error {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return nil
	}

	code, err := service.codes.Issue(context, email, PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("auth_service_reset_code_failed: %w", err)
	}

	if err := service.notifier.SendPasswordResetCode(context, email, code.Code); err != nil {
		ctxutil.GetLogger(context).Error("failed to send password reset code",
			slog.String("email", email),
			slog.String("error", err.Error()))
	}

	service.recordEvent(context, &user.ID, email, EventPasswordResetRequest, meta, nil)
	return nil
}

/*
CompletePasswordReset finishes the forgot-password flow.

Description: Validates the reset code, replaces the password hash, consumes
the code, and revokes every active session for the account.

Parameters:
  - context: context.Context
  - email: string
  - submittedCode: string
  - newPassword: string
  - confirmPassword: string
  - meta: RequestMeta

Returns:
  - error: ErrPasswordMismatch, code errors, or storage failures
*/
func (service *Service) CompletePasswordReset(context context.Context, email, submittedCode, newPassword, confirmPassword string, meta RequestMeta) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	code, err := service.codes.Validate(context, email, PurposePasswordReset, submittedCode)
	if err != nil {
		return err
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		// The code validated but the account vanished. Treat as invalid.
		return ErrInvalidCode
	}

	passwordHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}
	if err := service.userRepository.UpdatePassword(context, user.ID, passwordHash); err != nil {
		return fmt.Errorf("auth_service_reset_update_failed: %w", err)
	}

	if err := service.codes.Consume(context, code.ID); err != nil {
		ctxutil.GetLogger(context).Error("failed to consume reset code",
			slog.String("email", email),
			slog.String("error", err.Error()))
	}

	// Security Cleanup: Revoke EVERY active session for this user
	_ = service.sessionRepository.RevokeAll(context, user.ID)

	service.recordEvent(context, &user.ID, email, EventPasswordResetComplete, meta, nil)
	return nil
}

// # Operator Bootstrap

/*
EnsureSuperAdmins guarantees the allow-listed operator accounts exist.

Description: Idempotent deploy-time bootstrap. Each configured operator email
gets an active admin account with no usable password (forcing Google sign-in
or a reset). Re-running only flips flags that are not already set.

Parameters:
  - context: context.Context

Returns:
  - error: Settings resolution or storage failures
*/
func (service *Service) EnsureSuperAdmins(context context.Context) error {
	emails, err := service.settings.ListOr(context, settings.KeySuperAdminEmails, nil)
	if err != nil {
		return err
	}

	logger := ctxutil.GetLogger(context)
	for _, email := range emails {
		existing, err := service.userRepository.FindByEmail(context, email)
		if err == nil {
			if existing.Role == sec.RoleAdmin && existing.IsActive {
				continue
			}
			existing.Role = sec.RoleAdmin
			existing.IsActive = true
			if err := service.userRepository.Update(context, existing); err != nil {
				return fmt.Errorf("auth_service_promote_operator_failed: %w", err)
			}
			logger.Info("promoted existing account to operator", slog.String("email", email))
			continue
		}

		user := &User{
			ID:           uuid.New(),
			Username:     service.deriveUsername(context, email),
			Email:        email,
			PasswordHash: "", // unusable by construction
			Role:         sec.RoleAdmin,
			IsActive:     true,
		}
		if err := service.userRepository.Create(context, user); err != nil {
			return fmt.Errorf("auth_service_create_operator_failed: %w", err)
		}
		logger.Info("created operator account", slog.String("email", email))
	}
	return nil
}

// # Audit Trail

// RecentEvents exposes the audit trail to the admin surface.
func (service *Service) RecentEvents(context context.Context, limit int) ([]AuthEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return service.eventRepository.ListRecent(context, limit)
}

// recordEvent appends an audit record. Best-effort: failures are logged and
// swallowed so they can never abort the primary operation.
func (service *Service) recordEvent(context context.Context, userID *string, email string, eventType EventType, meta RequestMeta, extra map[string]string) {
	event := &AuthEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     email,
		EventType: eventType,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Extra:     extra,
		Timestamp: time.Now(),
	}

	if err := service.eventRepository.Create(context, event); err != nil {
		ctxutil.GetLogger(context).Error("failed to record auth event",
			slog.String("event_type", string(eventType)),
			slog.String("email", email),
			slog.String("error", err.Error()))
	}
}

// # Internals

// establishSession issues the access/refresh token pair and persists the
// tracking session.
func (service *Service) establishSession(context context.Context, user *User, meta RequestMeta) (*LoginSession, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// touchLastLogin stamps the login time. Best-effort.
func (service *Service) touchLastLogin(context context.Context, user *User) {
	now := time.Now()
	user.LastLoginAt = &now
	if err := service.userRepository.Update(context, user); err != nil {
		ctxutil.GetLogger(context).Warn("failed to update last login",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()))
	}
}

// emailDomain returns the lowercase domain part of an address, or "" when the
// address has no '@'.
func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
