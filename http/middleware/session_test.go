package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/http/middleware"
	"github.com/middlemark/middlemark/http/session"
	"github.com/middlemark/middlemark/logger"
	"github.com/stretchr/testify/require"
)

// failingStore implements session.SessionStorer, always erroring.
type failingStore struct{ err error }

func (f failingStore) GetSession(r *http.Request) (session.Session, error) {
	return session.Session{}, f.err
}

// captureLogger records Info messages.
type captureLogger struct {
	logger.Logger
	infos []string
}

func (c *captureLogger) Info(msg string, _ *logger.LogContext) { c.infos = append(c.infos, msg) }

func TestInjectSession(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	var got interface{}
	grab := http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		got = rx.Context().Value(middlemark.SessionKey)
		wx.WriteHeader(http.StatusTeapot)
	})

	// Act
	middleware.InjectSession(session.NewStub(false), nil)(grab).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)
	require.IsType(t, session.Session{}, got)

	// Arrange - nil store does nothing
	w = httptest.NewRecorder()
	got = nil

	// Act
	middleware.InjectSession(nil, nil)(grab).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)
	require.Nil(t, got)
}

func TestInjectSessionStoreFails(t *testing.T) {
	// Arrange - a failing store logs and the request continues anonymously
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	ls := &captureLogger{}

	var got interface{}
	grab := http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		got = rx.Context().Value(middlemark.SessionKey)
		wx.WriteHeader(http.StatusTeapot)
	})

	// Act
	middleware.InjectSession(failingStore{err: errors.New("cookie mangled")}, ls)(grab).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)
	require.IsType(t, session.Session{}, got)
	require.Len(t, ls.infos, 1)
	require.Contains(t, ls.infos[0], "cookie mangled")
}
