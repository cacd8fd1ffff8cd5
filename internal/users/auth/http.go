// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

/*
HTTP delivery layer for the authentication lifecycle.

The handler acts as a thin mediation layer between the web and the domain
service:
  - Protocol: Standard RESTful JSON interface.
  - Security: JWT orchestration plus refresh-token and staging-token cookies.
  - Verification: Strict input validation before anything reaches [Service].

The two-step flows (register→verify, google→google/verify) carry their state
in an HttpOnly staging cookie so the browser never handles the token in
script.
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pollenlabs/pollen/internal/platform/apperr"
	"github.com/pollenlabs/pollen/internal/platform/constants"
	"github.com/pollenlabs/pollen/internal/platform/middleware"
	requestutil "github.com/pollenlabs/pollen/internal/platform/request"
	"github.com/pollenlabs/pollen/internal/platform/respond"
	"github.com/pollenlabs/pollen/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register        : Starts email signup, emails a 4-digit code.
//   - POST /verify          : Confirms the code and creates the account.
//   - POST /login           : Authenticates and returns a JWT.
//   - POST /google          : Accepts an identity assertion from the OAuth bridge.
//   - POST /google/verify   : Confirms the secondary Google code.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/verify", handler.verify)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/google", handler.google)
	router.Post("/google/verify", handler.verifyGoogle)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})

	return router
}

// RegisterAdminRoutes mounts the audit-trail endpoint. The caller wraps this
// router in admin-role middleware.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/events", handler.listEvents)
}

// # Request Payloads

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type googleRequest struct {
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	ProviderUserID string `json:"provider_user_id"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	Code            string `json:"code"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// # Email Signup

/*
Register starts the email signup flow.

POST /api/v1/auth/register

Description: Validates input, issues the SIGNUP code, and sets the staging
cookie that links the follow-up verify call to this registration.

Request:
  - Body: registerRequest (Email, Password, ConfirmPassword, FullName)

Response:
  - 202: Accepted: Code dispatched, verification pending
  - 400: ErrInvalidJSON: Bad input, weak password, or password mismatch
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		Required(FieldConfirmPassword, input.ConfirmPassword).
		MaxLen(FieldFullName, input.FullName, 150)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stagingToken, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
		FullName:        input.FullName,
		Meta:            requestMeta(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setStagingCookie(writer, stagingToken)
	respond.Accepted(writer, map[string]string{
		FieldMessage: "Verification code sent. Check your inbox.",
	})
}

/*
Verify completes the email signup flow.

POST /api/v1/auth/verify

Description: Confirms the 4-digit code against the staged registration, then
creates the account and logs the user in.

Request:
  - Body: verifyRequest (Code)
  - Cookie: staging_token

Response:
  - 200: Session: Access token and new user profile
  - 410: ErrGone: Code or flow expired, register again
  - 422: ErrUnprocessable: Wrong code, retry allowed
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	stagingToken, err := stagingTokenFromCookie(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input verifyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Required(FieldCode, input.Code).Code(FieldCode, input.Code).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.VerifyRegistration(request.Context(), stagingToken, input.Code, requestMeta(request))
	if err != nil {
		// An expired code ends the flow: the cookie is dead weight now.
		if ae := apperr.As(err); ae != nil && ae.HTTPStatus == http.StatusGone {
			clearStagingCookie(writer)
		}
		respond.Error(writer, request, err)
		return
	}

	clearStagingCookie(writer)
	setRefreshCookie(writer, session)
	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

// # Credential Login

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Accepts a username or email identifier, verifies credentials,
and injects a secure refresh token cookie into the response.

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: Session: Access token and User profile
  - 401: ErrUnauthorized: Invalid credentials or inactive account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    input.Login,
		Password: input.Password,
		Meta:     requestMeta(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session)
	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Invalidates the refresh token (if present) and clears the
security cookies from the client.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)

	if err == nil && cookie != nil && cookie.Value != "" {
		_ = handler.authService.Logout(request.Context(), cookie.Value, requestMeta(request))
	}

	clearRefreshCookie(writer)
	respond.NoContent(writer)
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Description: Rotates the session by validating the refresh token cookie
and issuing a fresh access token and an updated refresh token.

Response:
  - 200: RefreshResponse: New access token credentials
  - 401: ErrUnauthorized: Missing or invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token in cookies"))
		return
	}

	session, err := handler.authService.RefreshSession(request.Context(), cookie.Value, requestMeta(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session)
	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   AccessTokenTTL / time.Second,
	})
}

// # Google Sign-In

/*
Google accepts an identity assertion from the OAuth bridge.

POST /api/v1/auth/google

Description: The upstream OAuth handshake terminates at the bridge, which
posts the verified (email, display name, subject) here. The response shape
depends on the resulting state: an established session, a pending secondary
verification, or a domain rejection.

Request:
  - Body: googleRequest (Email, DisplayName, ProviderUserID)

Response:
  - 200: Session: Account active, tokens issued
  - 202: Pending: Secondary code dispatched, verification required
  - 403: Breach: Domain restriction rejected the sign-in
*/
func (handler *Handler) google(writer http.ResponseWriter, request *http.Request) {
	var input googleRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required("provider_user_id", input.ProviderUserID)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	outcome, err := handler.authService.HandleGoogleIdentity(request.Context(), GoogleIdentity{
		Email:          input.Email,
		DisplayName:    input.DisplayName,
		ProviderUserID: input.ProviderUserID,
	}, requestMeta(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	switch outcome.State {
	case GoogleStateActive:
		setRefreshCookie(writer, outcome.Session)
		respond.OK(writer, map[string]any{
			FieldState:       outcome.State,
			FieldAccessToken: outcome.Session.AccessToken,
			FieldUser:        outcome.Session.User,
		})

	case GoogleStatePendingVerification:
		setStagingCookie(writer, outcome.StagingToken)
		respond.Accepted(writer, map[string]any{
			FieldState:   outcome.State,
			FieldMessage: "Verification code sent. Check your inbox.",
		})

	case GoogleStateDomainRejected:
		respond.JSON(writer, http.StatusForbidden, map[string]any{
			FieldState: outcome.State,
			"breach":   outcome.Breach,
		})
	}
}

/*
VerifyGoogle completes the secondary Google verification.

POST /api/v1/auth/google/verify

Description: Confirms the 4-digit code for the staged Google account and
releases the withheld session.

Request:
  - Body: verifyRequest (Code)
  - Cookie: staging_token

Response:
  - 200: Session: Tokens issued
  - 410: ErrGone: Code or flow expired, sign in again
  - 422: ErrUnprocessable: Wrong code, retry allowed
*/
func (handler *Handler) verifyGoogle(writer http.ResponseWriter, request *http.Request) {
	stagingToken, err := stagingTokenFromCookie(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input verifyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Required(FieldCode, input.Code).Code(FieldCode, input.Code).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.VerifyGoogle(request.Context(), stagingToken, input.Code, requestMeta(request))
	if err != nil {
		if ae := apperr.As(err); ae != nil && ae.HTTPStatus == http.StatusGone {
			clearStagingCookie(writer)
		}
		respond.Error(writer, request, err)
		return
	}

	clearStagingCookie(writer)
	setRefreshCookie(writer, session)
	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

// # Password Recovery

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Description: Emails a reset code to the address if an account exists. The
response is identical either way to prevent enumeration.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Generic acknowledgement
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email, requestMeta(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "If this email is registered, a reset code has been sent.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password

Description: Validates the emailed reset code and replaces the password. All
active sessions for the account are revoked.

Request:
  - Body: resetPasswordRequest (Email, Code, Password, ConfirmPassword)

Response:
  - 200: Success: Password updated
  - 410: ErrGone: Reset code expired
  - 422: ErrUnprocessable: Wrong code
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldCode, input.Code).
		Code(FieldCode, input.Code).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.authService.CompletePasswordReset(
		request.Context(),
		input.Email,
		input.Code,
		input.Password,
		input.ConfirmPassword,
		requestMeta(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}

// # Audit Trail

func (handler *Handler) listEvents(writer http.ResponseWriter, request *http.Request) {
	events, err := handler.authService.RecentEvents(request.Context(), 100)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, events)
}

// # Cookie & Metadata Helpers

func setRefreshCookie(writer http.ResponseWriter, session *LoginSession) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func setStagingCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.StagingTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   int(StagingTTL / time.Second),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearStagingCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.StagingTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func stagingTokenFromCookie(request *http.Request) (string, error) {
	cookie, err := request.Cookie(constants.StagingTokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", apperr.Gone("No flow in progress. Please start over.")
	}
	return cookie.Value, nil
}

// requestMeta extracts transport metadata for audit events. The
// middleware-level RealIP already normalized RemoteAddr behind proxies.
func requestMeta(request *http.Request) RequestMeta {
	return RequestMeta{
		UserAgent: request.UserAgent(),
		IPAddress: request.RemoteAddr,
	}
}
