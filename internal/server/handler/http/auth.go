// Package http provides HTTP handlers for user authentication, including
// credential signup/login, the Google OAuth flow and logout.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/MitchellAV/mern-logging-app/internal/oauth"
	"github.com/MitchellAV/mern-logging-app/internal/service"
	"github.com/MitchellAV/mern-logging-app/internal/validation"
)

// AuthService defines the interface for authentication operations required
// by the HTTP handlers.
type AuthService interface {
	// SignUp registers a user and issues a session token.
	SignUp(ctx context.Context, in validation.SignupInput) (*service.Session, error)
	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, in validation.LoginInput) (*service.Session, error)
	// LoginWithProfile establishes a session for a provider-asserted email.
	LoginWithProfile(ctx context.Context, email string) (*service.Session, error)
}

// OAuthClient drives the handshake with the external identity provider.
type OAuthClient interface {
	AuthCodeURL() (string, error)
	Exchange(ctx context.Context, code, state string) (oauth.Profile, error)
}

// CookieConfig describes the session cookie the handlers set.
type CookieConfig struct {
	// Name of the cookie carrying the token.
	Name string
	// Secure marks the cookie Secure.
	Secure bool
	// TTL is the cookie (and token) lifetime.
	TTL time.Duration
}

// AuthHandler handles HTTP requests for signup, login, OAuth and logout.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// OAuth performs the provider handshake. Nil disables the routes.
	OAuth OAuthClient
	// Cookie configures the session cookie.
	Cookie CookieConfig
	// FrontendURL is the redirect target for logout and OAuth failures.
	FrontendURL string
	// DashboardURL is the redirect target after a successful OAuth login.
	DashboardURL string
	// Logger records unexpected failures with full detail; callers only
	// ever see a generic message.
	Logger *zap.Logger
}

// SignupRequest represents the JSON payload for signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

// setSessionCookie attaches the token as an HTTP-only cookie whose expiry
// matches the token's own validity window.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cookie.Secure,
		Expires:  time.Now().Add(h.Cookie.TTL),
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cookie.Secure,
		MaxAge:   -1,
	})
}

// respondSession sets the cookie and writes the success body. The token
// travels only in the cookie, never in the response body.
func (h *AuthHandler) respondSession(w http.ResponseWriter, session *service.Session) {
	h.setSessionCookie(w, session.Token)
	writeMsg(w, http.StatusOK, "JWT success")
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.AuthService.SignUp(r.Context(), validation.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	h.respondSession(w, session)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.AuthService.Login(r.Context(), validation.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	h.respondSession(w, session)
}

// writeAuthError maps the service failure taxonomy to transport codes. The
// underlying cause of an unexpected failure is logged, never exposed.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verr.Violations})
	case errors.Is(err, service.ErrDuplicateUser):
		writeMsg(w, http.StatusBadRequest, "User Already Exists")
	case errors.Is(err, service.ErrUserNotFound):
		writeMsg(w, http.StatusNotFound, "User does not exist")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMsg(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		h.Logger.Error("auth flow failed", zap.Error(err))
		http.Error(w, "Error in Saving", http.StatusInternalServerError)
	}
}

// Google handles GET /auth/google by redirecting the browser to the
// provider's consent page.
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.OAuth.AuthCodeURL()
	if err != nil {
		h.Logger.Error("failed to start oauth flow", zap.Error(err))
		http.Error(w, "Error in OAuth", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// GoogleCallback handles GET /auth/google/callback. A successful handshake
// issues the same session cookie as credential login and redirects to the
// dashboard; any failure redirects back to the login page.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	loginURL := h.FrontendURL + "/login"

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Logger.Info("oauth flow denied by provider", zap.String("error", errParam))
		http.Redirect(w, r, loginURL, http.StatusFound)
		return
	}
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		http.Redirect(w, r, loginURL, http.StatusFound)
		return
	}

	profile, err := h.OAuth.Exchange(r.Context(), code, state)
	if err != nil {
		h.Logger.Error("oauth exchange failed", zap.Error(err))
		http.Redirect(w, r, loginURL, http.StatusFound)
		return
	}

	session, err := h.AuthService.LoginWithProfile(r.Context(), profile.Email)
	if err != nil {
		h.Logger.Error("oauth login failed", zap.Error(err))
		http.Redirect(w, r, loginURL, http.StatusFound)
		return
	}

	h.setSessionCookie(w, session.Token)
	http.Redirect(w, r, h.DashboardURL, http.StatusFound)
}

// Logout handles GET /auth/logout: clear the session cookie and send the
// browser back to the frontend.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	http.Redirect(w, r, h.FrontendURL, http.StatusFound)
}
