package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignup() SignupRequest {
	return SignupRequest{
		FullName: "Test User",
		Email:    "test@example.com",
		Password: "testpassword",
		Role:     RoleUser,
	}
}

func TestSignupRequestValid(t *testing.T) {
	req := validSignup()
	require.Empty(t, req.Validate())
}

func TestSignupRequestDefaultsRole(t *testing.T) {
	req := validSignup()
	req.Role = ""
	require.Empty(t, req.Validate())
	assert.Equal(t, RoleUser, req.Role)
}

func TestSignupRequestTrimsFullName(t *testing.T) {
	req := validSignup()
	req.FullName = "  Test User  "
	require.Empty(t, req.Validate())
	assert.Equal(t, "Test User", req.FullName)
}

func TestSignupRequestInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignupRequest)
		field  string
	}{
		{"empty full name", func(r *SignupRequest) { r.FullName = "   " }, "full_name"},
		{"full name too long", func(r *SignupRequest) { r.FullName = strings.Repeat("a", 51) }, "full_name"},
		{"invalid email", func(r *SignupRequest) { r.Email = "not-an-email" }, "email"},
		{"email with display name", func(r *SignupRequest) { r.Email = "Test <test@example.com>" }, "email"},
		{"password too short", func(r *SignupRequest) { r.Password = "pw1" }, "password"},
		{"password too long", func(r *SignupRequest) { r.Password = strings.Repeat("a", 101) }, "password"},
		{"password with whitespace", func(r *SignupRequest) { r.Password = "pass word" }, "password"},
		{"unknown role", func(r *SignupRequest) { r.Role = "superuser" }, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)
			errs := req.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestLoginRequestValidate(t *testing.T) {
	req := LoginRequest{Email: "test@example.com", Password: "testpassword"}
	require.Empty(t, req.Validate())

	req = LoginRequest{Email: "bad", Password: ""}
	errs := req.Validate()
	require.Len(t, errs, 2)
}

func TestUpdateProfileRequest(t *testing.T) {
	empty := UpdateProfileRequest{}
	assert.False(t, empty.HasFields())
	require.Empty(t, empty.Validate())

	name := "New Name"
	req := UpdateProfileRequest{FullName: &name}
	assert.True(t, req.HasFields())
	require.Empty(t, req.Validate())

	bad := "not-an-email"
	req = UpdateProfileRequest{Email: &bad}
	errs := req.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
}

func TestChangePasswordRequestValidate(t *testing.T) {
	req := ChangePasswordRequest{CurrentPassword: "oldpassword", NewPassword: "newpassword"}
	require.Empty(t, req.Validate())

	req = ChangePasswordRequest{CurrentPassword: "", NewPassword: "short"}
	errs := req.Validate()
	require.Len(t, errs, 2)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("superuser").Valid())
}
