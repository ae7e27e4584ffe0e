package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"auth-service/auth"
	"auth-service/models"
	"auth-service/store"

	"go.uber.org/zap"
)

// Signup handles POST /auth/signup - creates a user with a hashed password.
// The duplicate-email pre-check here is advisory UX; the UNIQUE index in
// the database is what actually guarantees uniqueness under concurrency.
func (h *AuthHandler) Signup(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		logRequest(ctx, "info", "Signup validation failed", zap.Int("errors", len(errs)))
		respondValidationErrors(w, errs)
		return
	}

	logRequest(ctx, "info", "Signup request", zap.String("email", req.Email))

	existing, err := h.users.FindByEmail(req.Email)
	if err != nil {
		logRequest(ctx, "error", "Failed to query user", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil {
		logRequest(ctx, "info", "Duplicate email on signup", zap.String("email", req.Email))
		respondError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		logRequest(ctx, "error", "Password hashing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	user, err := h.users.Create(req.FullName, req.Email, hashed, req.Role)
	if errors.Is(err, store.ErrDuplicateEmail) {
		// Lost the race against a concurrent signup with the same email.
		respondError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to create user", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logRequest(ctx, "info", "User created successfully", zap.String("user_id", user.ID))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User created successfully",
		"user":    user,
	})
}

// Login handles POST /auth/login - verifies credentials and issues a bearer
// token. Unknown email and wrong password produce the identical response so
// the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		respondValidationErrors(w, errs)
		return
	}

	logRequest(ctx, "info", "Login request", zap.String("email", req.Email))

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		logRequest(ctx, "error", "Failed to query user", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil || !h.hasher.Verify(req.Password, user.Password) {
		logRequest(ctx, "info", "Invalid credentials", zap.String("email", req.Email))
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to issue token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logRequest(ctx, "info", "Login successful", zap.String("user_id", user.ID))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"access_token": token,
		"token_type":   "bearer",
	})
}

// authenticate is the precondition for every protected endpoint: extract
// the bearer token, validate it, and load its subject. On failure it writes
// the 401 response and returns nil.
func (h *AuthHandler) authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request) *models.User {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		logRequest(ctx, "info", "Authorization token missing")
		respondError(w, http.StatusUnauthorized, "Authorization token missing")
		return nil
	}

	subject, err := h.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			logRequest(ctx, "info", "Token has expired")
			respondError(w, http.StatusUnauthorized, "Token has expired")
			return nil
		}
		logRequest(ctx, "info", "Invalid token")
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return nil
	}

	user, err := h.users.FindByID(subject)
	if err != nil {
		logRequest(ctx, "error", "Failed to load token subject", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if user == nil {
		// Token is valid but its subject no longer exists.
		logRequest(ctx, "info", "Token subject not found", zap.String("subject", subject))
		respondError(w, http.StatusUnauthorized, "User not found")
		return nil
	}

	return user
}
