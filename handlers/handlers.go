package handlers

import (
	"context"
	"errors"
	"net/http"

	"auth-service/auth"
	"auth-service/models"
	"auth-service/ratelimit"
	"auth-service/store"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AuthHandler orchestrates the authentication endpoints. Every protected
// operation passes the same gates in order: rate limit (middleware.go),
// authenticate, authorize, then the user store.
type AuthHandler struct {
	users   *store.UserStore
	hasher  *auth.Hasher
	tokens  *auth.TokenService
	limiter *ratelimit.Limiter
}

// NewAuthHandler creates a new auth handler with its collaborators.
func NewAuthHandler(users *store.UserStore, hasher *auth.Hasher, tokens *auth.TokenService, limiter *ratelimit.Limiter) *AuthHandler {
	return &AuthHandler{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
	}
}

// Profile handles GET /auth/profile - return the authenticated user
func (h *AuthHandler) Profile(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.authenticate(ctx, w, r)
	if user == nil {
		return
	}

	logRequest(ctx, "info", "Profile retrieved", zap.String("user_id", user.ID))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// AdminOnly handles GET /auth/admin-only - admin-gated echo of the caller
func (h *AuthHandler) AdminOnly(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.authenticate(ctx, w, r)
	if user == nil {
		return
	}
	if !h.authorizeAdmin(ctx, w, user) {
		return
	}

	logRequest(ctx, "info", "Admin access granted", zap.String("user_id", user.ID))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// UpdateProfile handles PUT /auth/users/{id}/profile - partial self update
func (h *AuthHandler) UpdateProfile(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.authenticate(ctx, w, r)
	if user == nil {
		return
	}
	if !h.authorizeSelf(ctx, w, r, user) {
		return
	}

	var req models.UpdateProfileRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	if !req.HasFields() {
		logRequest(ctx, "info", "No fields to update", zap.String("user_id", user.ID))
		respondError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respondValidationErrors(w, errs)
		return
	}

	logRequest(ctx, "info", "Updating profile", zap.String("user_id", user.ID))

	updated, err := h.users.UpdateFields(user.ID, &req)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if errors.Is(err, store.ErrDuplicateEmail) {
		respondError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to update profile", zap.Error(err), zap.String("user_id", user.ID))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logRequest(ctx, "info", "Profile updated successfully", zap.String("user_id", user.ID))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

// ChangePassword handles POST /auth/users/{id}/change-password - self only,
// requires proof of the current password
func (h *AuthHandler) ChangePassword(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.authenticate(ctx, w, r)
	if user == nil {
		return
	}
	if !h.authorizeSelf(ctx, w, r, user) {
		return
	}

	var req models.ChangePasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respondValidationErrors(w, errs)
		return
	}

	// Re-read the record; the authenticated copy may predate a concurrent change.
	stored, err := h.users.FindByID(user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to load user", zap.Error(err), zap.String("user_id", user.ID))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stored == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	if !h.hasher.Verify(req.CurrentPassword, stored.Password) {
		logRequest(ctx, "info", "Current password incorrect", zap.String("user_id", user.ID))
		respondError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	newHash, err := h.hasher.Hash(req.NewPassword)
	if err != nil {
		logRequest(ctx, "error", "Password hashing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.users.UpdatePasswordHash(user.ID, newHash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		logRequest(ctx, "error", "Failed to update password", zap.Error(err), zap.String("user_id", user.ID))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logRequest(ctx, "info", "Password changed successfully", zap.String("user_id", user.ID))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password changed successfully",
	})
}

// ListUsers handles GET /auth/users - admin-gated list of every user
func (h *AuthHandler) ListUsers(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.authenticate(ctx, w, r)
	if user == nil {
		return
	}
	if !h.authorizeAdmin(ctx, w, user) {
		return
	}

	users, err := h.users.ListAll()
	if err != nil {
		logRequest(ctx, "error", "Failed to list users", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logRequest(ctx, "info", "Users listed", zap.Int("count", len(users)))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}

// authorizeSelf allows the operation only on the caller's own record.
func (h *AuthHandler) authorizeSelf(ctx context.Context, w http.ResponseWriter, r *http.Request, user *models.User) bool {
	resourceID := mux.Vars(r)["id"]
	if resourceID != user.ID {
		logRequest(ctx, "info", "Ownership mismatch", zap.String("user_id", user.ID), zap.String("resource_id", resourceID))
		respondError(w, http.StatusForbidden, "Access denied. You can only manage your own account")
		return false
	}
	return true
}

// authorizeAdmin allows the operation only for admins. The switch is
// exhaustive over the Role enum; unknown values are denied.
func (h *AuthHandler) authorizeAdmin(ctx context.Context, w http.ResponseWriter, user *models.User) bool {
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
	default:
	}
	logRequest(ctx, "info", "Admin access denied", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	respondError(w, http.StatusForbidden, "Access denied. Admins only")
	return false
}
