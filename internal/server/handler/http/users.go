package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/shipdash/internal/models"
)

// UserService defines the account management operations.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, req models.UserRequest) (models.User, error)
	Update(ctx context.Context, id string, req models.UserRequest) (models.User, error)
	Delete(ctx context.Context, id string) error
}

// UsersHandler serves the admin account endpoints.
type UsersHandler struct {
	UserService UserService
}

// List returns all active accounts.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Create adds an account and answers 201 with the stored user.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	u, err := h.UserService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.UserResponse{OK: true, User: u})
}

// Update changes the account named by the {id} URL parameter. An empty
// password keeps the current one.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	u, err := h.UserService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.UserResponse{OK: true, User: u})
}

// Delete soft-deletes the account named by {id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
