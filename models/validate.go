package models

import (
	"net/mail"
	"strings"
	"unicode"
)

// FieldError is a single validation failure, reported back to the client
// in the 422 response body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	maxFullNameLen = 50
	minPasswordLen = 6
	maxPasswordLen = 100
)

func validFullName(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	return trimmed, trimmed != "" && len(trimmed) <= maxFullNameLen
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	// Reject display-name forms like "Name <a@b.c>"; the address must stand alone.
	return err == nil && addr.Address == email
}

func validPassword(password string) bool {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return false
	}
	for _, r := range password {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Validate checks the signup body and normalizes it: full_name is trimmed
// and an empty role defaults to "user".
func (r *SignupRequest) Validate() []FieldError {
	var errs []FieldError

	trimmed, ok := validFullName(r.FullName)
	if !ok {
		errs = append(errs, FieldError{Field: "full_name", Message: "Full name must be non-empty and at most 50 characters"})
	} else {
		r.FullName = trimmed
	}

	if !validEmail(r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email address"})
	}

	if !validPassword(r.Password) {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be 6-100 characters with no whitespace"})
	}

	if r.Role == "" {
		r.Role = RoleUser
	} else if !r.Role.Valid() {
		errs = append(errs, FieldError{Field: "role", Message: "Role must be either 'user' or 'admin'"})
	}

	return errs
}

// Validate checks the login body.
func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError
	if !validEmail(r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email address"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}

// HasFields reports whether at least one updatable field was provided.
func (r *UpdateProfileRequest) HasFields() bool {
	return r.FullName != nil || r.Email != nil
}

// Validate checks only the fields that were provided, trimming full_name
// in place when present.
func (r *UpdateProfileRequest) Validate() []FieldError {
	var errs []FieldError
	if r.FullName != nil {
		trimmed, ok := validFullName(*r.FullName)
		if !ok {
			errs = append(errs, FieldError{Field: "full_name", Message: "Full name must be non-empty and at most 50 characters"})
		} else {
			*r.FullName = trimmed
		}
	}
	if r.Email != nil && !validEmail(*r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email address"})
	}
	return errs
}

// Validate checks the change-password body.
func (r *ChangePasswordRequest) Validate() []FieldError {
	var errs []FieldError
	if r.CurrentPassword == "" {
		errs = append(errs, FieldError{Field: "current_password", Message: "Current password is required"})
	}
	if !validPassword(r.NewPassword) {
		errs = append(errs, FieldError{Field: "new_password", Message: "Password must be 6-100 characters with no whitespace"})
	}
	return errs
}
