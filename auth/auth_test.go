package auth_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/middlemark/middlemark/auth"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	// Arrange + Act
	s, err := auth.NewService("", "client", "secret", "https://example.com/oauth/google/callback")

	// Assert
	require.Nil(t, s)
	require.ErrorIs(t, err, auth.ErrNotValid)

	// Arrange + Act
	s, err = auth.NewService("key", "client", "secret", "https://example.com/oauth/google/callback")

	// Assert
	require.Nil(t, err)
	require.NotNil(t, s)
	require.Contains(t, s.AuthCodeURL("state-val"), "state=state-val")
}

func TestAuthenticateJWT(t *testing.T) {
	// Arrange
	key := "signing-key"
	s, err := auth.NewService(key, "client", "secret", "https://example.com/oauth/google/callback")
	require.Nil(t, err)

	claims := &jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.Nil(t, err)

	// Act
	actual, err := s.AuthenticateJWT(url.Values{"jwt": []string{signed}}, &jwt.RegisteredClaims{})

	// Assert
	require.Nil(t, err)
	require.Equal(t, "42", actual.(*jwt.RegisteredClaims).Subject)

	// Arrange + Act - missing token
	_, err = s.AuthenticateJWT(url.Values{}, &jwt.RegisteredClaims{})

	// Assert
	require.ErrorIs(t, err, auth.ErrNotValid)

	// Arrange - wrong key
	signed, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-key"))
	require.Nil(t, err)

	// Act
	_, err = s.AuthenticateJWT(url.Values{"jwt": []string{signed}}, &jwt.RegisteredClaims{})

	// Assert
	require.ErrorIs(t, err, auth.ErrUnexpected)
}

func TestPassword(t *testing.T) {
	// Arrange + Act - too short
	_, err := auth.HashPassword("short")

	// Assert
	require.ErrorIs(t, err, auth.ErrNotValid)

	// Arrange
	hash, err := auth.HashPassword("correct horse battery staple")
	require.Nil(t, err)

	// Act + Assert
	require.Nil(t, auth.VerifyPassword(hash, "correct horse battery staple"))
	require.ErrorIs(t, auth.VerifyPassword(hash, "wrong password"), auth.ErrBadCreds)
}
