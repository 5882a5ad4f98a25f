package http

import (
	"net/http"

	"github.com/aussiebroadwan/cookieauth/internal/auth/service"
	"github.com/aussiebroadwan/cookieauth/pkg/authsdk"
	"github.com/aussiebroadwan/cookieauth/pkg/httpx"
	"github.com/aussiebroadwan/cookieauth/pkg/slogx"
)

// AuthHandler serves the cookie-session endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
	Cookies     httpx.CookieOptions
}

func decodeOrReject(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		slogx.FromContext(r.Context()).Info("rejected request body", "err", err)
		authsdk.ErrInvalidRequest.WithDetails("body is malformed").WriteError(w)
		return false
	}
	return true
}

// HandleSignup registers a new user.
//
//	@Summary		Register a user
//	@Description	Creates an account. Does not log the user in.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SignupRequest	true	"New account"
//	@Success		201		{object}	authsdk.MessageResponse	"User created"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Validation failed; details lists each field"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Email or username already registered"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in service.SignupInput
	if !decodeOrReject(w, r, &in) {
		return
	}

	if err := h.AuthService.Signup(r.Context(), in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.MessageResponse{Message: "User created"})
}

// HandleLogin checks credentials and sets the session cookies.
//
//	@Summary		Log in
//	@Description	Verifies the password and sets the accessToken (1h) and refreshToken (7d) cookies.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.MessageResponse	"Logged in"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Validation failed"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid password"
//	@Failure		404		{object}	authsdk.ErrorResponse	"User not found"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if !decodeOrReject(w, r, &in) {
		return
	}

	pair, err := h.AuthService.Login(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.SetSessionCookie(w, httpx.AccessTokenCookie, pair.AccessToken, pair.AccessTTL)
	h.Cookies.SetSessionCookie(w, httpx.RefreshTokenCookie, pair.RefreshToken, pair.RefreshTTL)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Logged in"})
}

// HandleAuth reports who the session belongs to.
//
//	@Summary		Current session
//	@Description	Returns the id and email of the user behind the accessToken cookie.
//	@Tags			Session
//	@Security		CookieAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.IdentityResponse	"Session identity"
//	@Failure		401	{object}	authsdk.ErrorResponse		"No accessToken cookie"
//	@Failure		403	{object}	authsdk.ErrorResponse		"accessToken invalid or expired"
//	@Failure		404	{object}	authsdk.ErrorResponse		"User no longer exists"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/auth [get].
func (h *AuthHandler) HandleAuth(w http.ResponseWriter, r *http.Request, s httpx.Subject) {
	id, err := h.AuthService.WhoAmI(r.Context(), s.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.IdentityResponse{ID: id.ID, Email: id.Email})
}

// HandleRefresh swaps the refreshToken cookie for a new accessToken cookie.
//
//	@Summary		Refresh the access token
//	@Description	Issues a new 1h accessToken from a valid refreshToken cookie. The refresh token is not rotated.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse	"Token refreshed"
//	@Failure		401	{object}	authsdk.ErrorResponse	"No refreshToken cookie"
//	@Failure		403	{object}	authsdk.ErrorResponse	"refreshToken invalid or expired"
//	@Router			/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	tok, err := h.AuthService.Refresh(r.Context(), httpx.CookieValue(r, httpx.RefreshTokenCookie))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.SetSessionCookie(w, httpx.AccessTokenCookie, tok.Token, tok.TTL)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Token refreshed"})
}

// HandleLogout clears both session cookies. It always succeeds.
//
//	@Summary		Log out
//	@Description	Clears both session cookies. Tokens are not revoked and stay valid until they expire.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse	"Logged out"
//	@Router			/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.ClearSessionCookie(w, httpx.AccessTokenCookie)
	h.Cookies.ClearSessionCookie(w, httpx.RefreshTokenCookie)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Logged out"})
}

// HandleListUsers lists every registered user.
//
//	@Summary		List users
//	@Description	Returns id, username and email of every user. Requires a session.
//	@Tags			Users
//	@Security		CookieAuth
//	@Produce		json
//	@Success		200	{array}		authsdk.UserResponse	"Users"
//	@Failure		401	{object}	authsdk.ErrorResponse	"No accessToken cookie"
//	@Failure		403	{object}	authsdk.ErrorResponse	"accessToken invalid or expired"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/users [get].
func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request, _ httpx.Subject) {
	users, err := h.AuthService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.UserResponse, len(users))
	for i, u := range users {
		out[i] = authsdk.UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
