package handler

import (
	"net/http"
	"time"

	"github.com/roomstack/roombook/internal/api/middleware"
	"github.com/roomstack/roombook/internal/api/response"
	"github.com/roomstack/roombook/internal/domain"
	"github.com/roomstack/roombook/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService  *service.AuthService
	tokenTTL     time.Duration
	cookieSecure bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, tokenTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenTTL:     tokenTTL,
		cookieSecure: cookieSecure,
	}
}

// Signup handles account registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input domain.UserSignup
	if !bindJSON(w, r, &input) {
		return
	}

	user, err := h.authService.Signup(r.Context(), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]any{"user": user})
}

// Login authenticates a user and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
	if !bindJSON(w, r, &input) {
		return
	}

	token, user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, h.tokenTTL))

	response.OK(w, map[string]any{
		"user":  user,
		"token": token,
	})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -time.Hour))
	response.OK(w, map[string]any{"message": "logged out"})
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), principal.UserID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]any{"user": user})
}

func (h *AuthHandler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
