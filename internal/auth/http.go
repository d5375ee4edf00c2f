// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lequangminh/taskora/internal/platform/apperr"
	"github.com/lequangminh/taskora/internal/platform/middleware"
	"github.com/lequangminh/taskora/internal/platform/ratelimit"
	requestutil "github.com/lequangminh/taskora/internal/platform/request"
	"github.com/lequangminh/taskora/internal/platform/respond"
	"github.com/lequangminh/taskora/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (Registration,
// Login, Refresh, Logout) plus the authenticated profile endpoint. It is
// strictly responsible for transport concerns: cookies, status codes, JSON.
type Handler struct {
	authService *Service
	transport   *CookieTransport
	authLimiter *ratelimit.Limiter
	authPolicy  ratelimit.Policy
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, transport *CookieTransport, limiter *ratelimit.Limiter, policy ratelimit.Policy) *Handler {
	return &Handler{
		authService: service,
		transport:   transport,
		authLimiter: limiter,
		authPolicy:  policy,
	}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and sets the session cookies.
//   - POST /refresh  : Mints a fresh access token from the refresh cookie.
//   - POST /logout   : Clears the session cookies.
//
// The whole group runs under the strict auth rate-limit policy: these are
// the endpoints worth brute-forcing.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RateLimit(handler.authLimiter, handler.authPolicy))

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new user profile to the database.

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a cookie session.

POST /api/v1/auth/login

Description: Verifies credentials and sets both session cookies. The tokens
travel ONLY in HttpOnly cookies; the JSON body reports them as null so that
script-side code never sees a credential.

Request:
  - Body: loginRequest (Username, Password, RememberMe)

Response:
  - 200: Session envelope with null tokens and the user profile
  - 401: INVALID_CREDENTIALS: Unknown user, wrong password, or disabled account
  - 429: RATE_LIMITED: Too many attempts from this client
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Username:   input.Username,
		Password:   input.Password,
		RememberMe: input.RememberMe,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.transport.SetAuthCookies(writer, session.Tokens, session.RememberMe)

	respond.OK(writer, map[string]any{
		FieldAccessToken:  nil,
		FieldRefreshToken: nil,
		FieldTokenType:    TokenTypeBearer,
		FieldUser:         session.User,
	})
}

/*
Refresh issues a new access token using a valid refresh token cookie.

POST /api/v1/auth/refresh

Description: Verifies the refresh cookie and replaces ONLY the access
cookie. The refresh cookie and its remaining lifetime are untouched, so the
session's maximum length is fixed at login time.

Response:
  - 200: Envelope with null tokens (new access token is in the cookie)
  - 401: Missing, invalid, or expired refresh token, or disabled account
  - 403: UNTRUSTED_ORIGIN: CSRF screening rejected the request
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	refreshToken := handler.transport.ReadRefreshToken(request)
	if refreshToken == "" {
		respond.Error(writer, request, apperr.Unauthorized("Invalid refresh token"))
		return
	}

	accessToken, err := handler.authService.Refresh(request.Context(), refreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.transport.SetAccessCookie(writer, accessToken)

	respond.OK(writer, map[string]any{
		FieldAccessToken: nil,
		FieldTokenType:   TokenTypeBearer,
	})
}

/*
Logout terminates the current cookie session.

POST /api/v1/auth/logout

Description: Clears both session cookies. Idempotent: logging out without a
session is still a success.

Response:
  - 200: Success message
  - 403: UNTRUSTED_ORIGIN: CSRF screening rejected the request
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.authService.Logout(request.Context(), handler.transport.ReadRefreshToken(request))

	handler.transport.ClearAuthCookies(writer)

	respond.OK(writer, map[string]string{
		FieldMessage: "Logged out successfully",
	})
}

/*
Me returns the authenticated user's profile.

GET /api/v1/users/me

Description: Resolves the account behind the verified access token. Mounted
behind RequireAuth by the server composition.

Response:
  - 200: User profile
  - 401: Authentication required
  - 404: Account deleted since the token was minted
*/
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
