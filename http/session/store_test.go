package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/http/session"
	"github.com/stretchr/testify/require"
)

func TestNewStoreService(t *testing.T) {
	// Arrange
	notHex := "😅"
	cfg := session.Config{
		Env:         middlemark.Testing,
		SessionName: "test-session",
		AuthKey:     notHex,
	}

	// Act
	svc, err := session.NewStoreService(cfg)

	// Assert
	require.NotNil(t, err)
	require.Zero(t, svc)

	// Arrange
	cfg.AuthKey = "ABCD"
	cfg.EncryptKey = notHex

	// Act
	svc, err = session.NewStoreService(cfg)

	// Assert
	require.NotNil(t, err)
	require.Zero(t, svc)

	// Arrange
	cfg.SessionName = ""
	cfg.EncryptKey = "ABCD"

	// Act
	svc, err = session.NewStoreService(cfg)

	// Assert
	require.ErrorIs(t, err, middlemark.ErrBadConfig)
	require.Zero(t, svc)

	// Arrange
	cfg.SessionName = "test-session"
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	svc, err = session.NewStoreService(cfg)

	// Assert
	require.Nil(t, err)
	require.NotZero(t, svc)
	require.NotPanics(t, func() { svc.GetSession(r) })
}
