// Package http provides the HTTP handlers and routing of the shipping
// dashboard backend.
package http

import (
	"context"
	"net"
	"net/http"

	"github.com/atinyakov/shipdash/internal/middleware"
	"github.com/atinyakov/shipdash/internal/models"
)

// AuthService defines the authentication operations required by the HTTP
// handlers.
type AuthService interface {
	// Login checks the credentials and returns a signed token.
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	// Me returns the current state of the account behind a verified token.
	Me(ctx context.Context, id models.Identity) (*models.Identity, error)
}

// AuthHandler handles login and token verification.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// Login expects {"username", "password"} and answers with the token,
// the canonical username, the role and the token expiry.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	resp, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		resp.IP = host
	}
	writeJSON(w, http.StatusOK, resp)
}

// Me returns the username and role of the caller. The token must still
// belong to an active account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	if id == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	cur, err := h.AuthService.Me(r.Context(), *id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cur)
}
