package middleware_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/middlemark/middlemark/http/middleware"
	"github.com/stretchr/testify/require"
)

func TestIdempotent(t *testing.T) {
	// Arrange - non-POST requests are not guarded
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	w := httptest.NewRecorder()

	cache := middleware.NewIdemResMap()

	// Act
	middleware.Idempotent(nil, nil)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)

	// Arrange - a POST must carry the key header
	r = httptest.NewRequest(http.MethodPost, "https://example.com", nil)
	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(cache, sha256.New())(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Arrange - first use of a key runs the handler and caches the response
	testKey := "test-idempotency"
	h := sha256.New()
	b := h.Sum(nil)
	h.Reset()

	r = httptest.NewRequest(http.MethodPost, "https://example.com", nil)
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)

	v, ok := cache.Get(context.Background(), testKey)
	require.True(t, ok)
	require.Equal(t, http.StatusTeapot, v.Status)
	require.Equal(t, b, v.Req)
	require.Equal(t, "/", v.URI)

	// Arrange - same key, same request: the saved response replays
	r = httptest.NewRequest(http.MethodPost, "https://example.com", nil)
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)

	// Arrange - same key, different URI
	r = httptest.NewRequest(http.MethodPost, "https://example.com/other", nil)
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Arrange - same key, different body
	r = httptest.NewRequest(http.MethodPost, "https://example.com/", strings.NewReader("escrow_id=1"))
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Arrange - a key whose first request is still in flight
	otherKey := "other"

	r = httptest.NewRequest(http.MethodPost, "https://example.com/", nil)
	r.Header.Set(middleware.IdempotencyHeader, otherKey)

	w = httptest.NewRecorder()

	cache.Set(r.Context(), otherKey, middleware.NewIdemRes("/", nil))

	// Act
	middleware.Idempotent(cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusConflict, w.Code)

	// Arrange - replays never re-run the handler
	var funded int
	fundKey := "fund-escrow"
	fundHandler := http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		funded++
		wx.Write([]byte(strconv.Itoa(funded)))
	})

	for i := 0; i < 3; i++ {
		r = httptest.NewRequest(http.MethodPost, "https://example.com/", nil)
		r.Header.Set(middleware.IdempotencyHeader, fundKey)

		w = httptest.NewRecorder()

		// Act
		middleware.Idempotent(cache, h)(fundHandler).ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 1, funded)
		require.Equal(t, "1", w.Body.String())
	}
}

func TestNewIdemRes(t *testing.T) {
	// Arrange
	uri := "/payments?draft=true"
	b := []byte("escrow_id=1")

	// Act
	ir := middleware.NewIdemRes(uri, b)

	// Assert
	require.Equal(t, uri, ir.URI)
	require.Equal(t, b, ir.Req)
	require.Zero(t, ir.Status)
	require.Equal(t, new(bytes.Buffer), ir.Body)
}
