package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHome(t *testing.T) {
	// Arrange
	h := newTestHandler(&stubStorer{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, r = reqCtx(t, r, nil)

	// Act - anonymous request renders the login view
	h.Home(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Middlemark")
	require.Contains(t, w.Body.String(), `action="https://example.com/login"`)

	// Arrange - authenticated request is sent to the dashboard
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	_, r = reqCtx(t, r, grantedUser(1))

	// Act
	h.Home(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))
}
