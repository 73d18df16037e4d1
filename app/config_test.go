package app

import (
	"testing"
	"time"

	"github.com/middlemark/middlemark"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	// Arrange + Act - defaults
	cfg := NewConfig()

	// Assert
	require.Equal(t, middlemark.Development, cfg.Env)
	require.Equal(t, ":3000", cfg.Port)
	require.Equal(t, defaultBaseURL, cfg.BaseURL.String())
	require.Equal(t, defaultSessionMaxAge, cfg.SessionMaxAge)

	// Arrange
	t.Setenv("ENVIRONMENT", "TESTING")
	t.Setenv("PORT", "8080")
	t.Setenv("BASE_URL", "https://middlemark.example.com")
	t.Setenv("SESSION_MAX_AGE", "3600")
	t.Setenv("SERVER_READ_TIMEOUT", "10s")

	// Act
	cfg = NewConfig()

	// Assert - a bare port gets a colon prefix
	require.Equal(t, middlemark.Testing, cfg.Env)
	require.Equal(t, ":8080", cfg.Port)
	require.Equal(t, "https://middlemark.example.com", cfg.BaseURL.String())
	require.Equal(t, 3600, cfg.SessionMaxAge)
	require.Equal(t, 10*time.Second, cfg.ServerReadTimeout)
}
