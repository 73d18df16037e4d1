package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/auth"
	"github.com/middlemark/middlemark/http/session"
	"github.com/stretchr/testify/require"
)

func loginReq(t *testing.T, form url.Values) *http.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return r
}

func TestLogin(t *testing.T) {
	// Arrange
	password := "correct horse battery staple"
	hash, err := auth.HashPassword(password)
	require.Nil(t, err)

	u := grantedUser(7)
	u.Password = hash

	db := &stubStorer{user: *u}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := loginReq(t, url.Values{"email": {u.Email}, "password": {password}})
	s, r := reqCtx(t, r, nil)

	// Act
	h.Login(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))

	id, err := s.UserID()
	require.Nil(t, err)
	require.Equal(t, uint(7), id)
}

func TestLoginBadCreds(t *testing.T) {
	// Arrange
	password := "correct horse battery staple"
	hash, err := auth.HashPassword(password)
	require.Nil(t, err)

	u := grantedUser(7)
	u.Password = hash

	db := &stubStorer{user: *u}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := loginReq(t, url.Values{"email": {u.Email}, "password": {"not even close"}})
	s, r := reqCtx(t, r, nil)

	// Act
	h.Login(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://example.com", w.Header().Get("Location"))

	flashes := s.Flashes(w, r)
	require.Equal(t, []session.Flash{{Class: session.FlashError, Msg: session.BadCredsMsg}}, flashes)

	_, err = s.UserID()
	require.ErrorIs(t, err, session.ErrNoUser)
}

func TestLoginUnknownEmail(t *testing.T) {
	// Arrange
	// lookup failures and password failures answer identically.
	db := &stubStorer{userErr: errors.New("user not found")}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := loginReq(t, url.Values{"email": {"nobody@example.com"}, "password": {"whatever"}})
	s, r := reqCtx(t, r, nil)

	// Act
	h.Login(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://example.com", w.Header().Get("Location"))

	flashes := s.Flashes(w, r)
	require.Equal(t, []session.Flash{{Class: session.FlashError, Msg: session.BadCredsMsg}}, flashes)
}

func TestLoginRevokedAccess(t *testing.T) {
	// Arrange
	password := "correct horse battery staple"
	hash, err := auth.HashPassword(password)
	require.Nil(t, err)

	u := grantedUser(7)
	u.AccessState = middlemark.AccessRevoked
	u.Password = hash

	db := &stubStorer{user: *u}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := loginReq(t, url.Values{"email": {u.Email}, "password": {password}})
	s, r := reqCtx(t, r, nil)

	// Act
	h.Login(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://example.com", w.Header().Get("Location"))

	flashes := s.Flashes(w, r)
	require.Equal(t, []session.Flash{{Class: session.FlashError, Msg: session.NoAccessMsg}}, flashes)

	_, err = s.UserID()
	require.ErrorIs(t, err, session.ErrNoUser)
}

func TestInvite(t *testing.T) {
	// Arrange
	key := "test-signing-key"
	svc, err := auth.NewService(key, "client-id", "client-secret", "https://example.com/oauth/google/callback")
	require.Nil(t, err)

	u := grantedUser(7)
	db := &stubStorer{user: *u}
	h := newTestHandlerWithAuth(db, svc)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{Subject: u.Email}).
		SignedString([]byte(key))
	require.Nil(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/invite?jwt="+token, nil)
	s, r := reqCtx(t, r, nil)

	// Act
	h.Invite(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/users/me", w.Header().Get("Location"))

	id, err := s.UserID()
	require.Nil(t, err)
	require.Equal(t, uint(7), id)

	// Arrange - a tampered token signs nobody in
	w = httptest.NewRecorder()
	bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{Subject: u.Email}).
		SignedString([]byte("some-other-key"))
	require.Nil(t, err)

	r = httptest.NewRequest(http.MethodGet, "/invite?jwt="+bad, nil)
	s, r = reqCtx(t, r, nil)

	// Act
	h.Invite(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://example.com", w.Header().Get("Location"))
	require.Equal(t, []session.Flash{{Class: session.FlashError, Msg: session.BadCredsMsg}}, s.Flashes(w, r))
}

func TestLogout(t *testing.T) {
	// Arrange
	h := newTestHandler(&stubStorer{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	_, r = reqCtx(t, r, grantedUser(7))

	// Act
	h.Logout(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://example.com", w.Header().Get("Location"))
}
