package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	s := NewTokenService([]byte("test-secret"), time.Hour)

	token, err := s.Issue("user-123")
	require.NoError(t, err)

	subject, err := s.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", subject)
}

func TestValidateExpired(t *testing.T) {
	s := NewTokenService([]byte("test-secret"), time.Hour)

	token, err := s.Issue("user-123")
	require.NoError(t, err)

	// Move the clock past the TTL instead of sleeping.
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = s.Validate(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewTokenService([]byte("right-secret"), time.Hour)
	verifier := NewTokenService([]byte("wrong-secret"), time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateMalformed(t *testing.T) {
	s := NewTokenService([]byte("test-secret"), time.Hour)

	_, err := s.Validate("not.a.jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = s.Validate("")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateMissingSubject(t *testing.T) {
	s := NewTokenService([]byte("test-secret"), time.Hour)

	// A token signed with the right secret but carrying no sub claim.
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = s.Validate(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateRejectsUnexpectedAlgorithm(t *testing.T) {
	s := NewTokenService([]byte("test-secret"), time.Hour)

	// alg=none must never validate.
	claims := jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Validate(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
