package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotFound(t *testing.T) {
	// Arrange
	h := newTestHandler(&stubStorer{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	_, r = reqCtx(t, r, nil)

	// Act
	h.NotFound(w, r)

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Page not found")

	// Arrange - works without any session in the context
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/no-such-page", nil)

	// Act
	h.NotFound(w, r)

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Page not found")
}
