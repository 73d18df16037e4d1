package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/middlemark/middlemark/http/session"
	"github.com/stretchr/testify/require"
)

func TestSessionFlashesDrainExactlyOnce(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	s, err := session.NewStub(false).GetSession(r)
	require.Nil(t, err)

	first := session.Flash{Class: session.FlashError, Msg: session.LoginFirstMsg}
	second := session.Flash{Class: session.FlashSuccess, Msg: "all good"}
	require.Nil(t, s.SetFlash(w, r, first))
	require.Nil(t, s.SetFlash(w, r, second))

	// Act
	drained := s.Flashes(w, r)

	// Assert
	require.Equal(t, []session.Flash{first, second}, drained)

	// Act - a second drain observes nothing
	drained = s.Flashes(w, r)

	// Assert
	require.Empty(t, drained)
}

func TestSessionUserID(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	anon, err := session.NewStub(false).GetSession(r)
	require.Nil(t, err)

	// Act
	_, err = anon.UserID()

	// Assert
	require.ErrorIs(t, err, session.ErrNoUser)

	// Arrange
	authed, err := session.NewStub(true).GetSession(r)
	require.Nil(t, err)

	// Act
	id, err := authed.UserID()

	// Assert
	require.Nil(t, err)
	require.Equal(t, uint(1), id)
}

func TestSessionRegisterUser(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	s, err := session.NewStub(false).GetSession(r)
	require.Nil(t, err)

	// Act
	err = s.RegisterUser(w, r, 42)

	// Assert
	require.Nil(t, err)
	id, err := s.UserID()
	require.Nil(t, err)
	require.Equal(t, uint(42), id)

	// Act
	err = s.DeregisterUser(w, r)

	// Assert
	require.Nil(t, err)
	_, err = s.UserID()
	require.ErrorIs(t, err, session.ErrNoUser)
}
