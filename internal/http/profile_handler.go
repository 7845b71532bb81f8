package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/users"
)

type ProfileHandler struct {
	users    users.Repository
	identity IdentityService
	timeout  time.Duration
}

func NewProfileHandler(usersRepo users.Repository, identitySvc IdentityService, timeout time.Duration) *ProfileHandler {
	return &ProfileHandler{
		users:    usersRepo,
		identity: identitySvc,
		timeout:  timeout,
	}
}

type UpdateProfileRequestDTO struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.identity.CurrentUser(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to resolve session")
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to view profile")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.identity.CurrentUser(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to resolve session")
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to update profile")
		return
	}

	var req UpdateProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.users.UpdateProfile(ctx, user.ID, req.Name, req.Address); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.identity.CurrentUser(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to resolve session")
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to delete profile")
		return
	}

	if err := h.users.DeleteUser(ctx, user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
