package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/http/session"
	"github.com/stretchr/testify/require"
)

func testEscrow(state middlemark.EscrowState) middlemark.Escrow {
	e := middlemark.Escrow{
		AmountCents: 5000,
		BuyerID:     7,
		Description: "Vintage synth",
		SellerID:    8,
		State:       state,
	}
	e.ID = 1

	return e
}

func TestEscrowCreate(t *testing.T) {
	// Arrange
	seller := middlemark.User{Email: "seller@example.com"}
	seller.ID = 8

	db := &stubStorer{user: seller}
	h := newTestHandler(db)

	form := url.Values{
		"amount_cents": {"5000"},
		"description":  {"Vintage synth"},
		"seller_email": {"seller@example.com"},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/escrow", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	s, r := reqCtx(t, r, grantedUser(7))

	// Act
	h.EscrowCreate(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/escrow/1", w.Header().Get("Location"))
	require.Equal(t, []session.Flash{{Class: session.FlashSuccess, Msg: "Escrow opened."}}, s.Flashes(w, r))
}

func TestEscrowCreateBadInput(t *testing.T) {
	// Arrange
	seller := middlemark.User{Email: "buyer@example.com"}
	seller.ID = 7

	tcs := []struct {
		name string
		form url.Values
	}{
		{"ZeroAmount", url.Values{"amount_cents": {"0"}, "seller_email": {"seller@example.com"}}},
		{"NotANumber", url.Values{"amount_cents": {"lots"}, "seller_email": {"seller@example.com"}}},
		{"SelfDealing", url.Values{"amount_cents": {"5000"}, "seller_email": {"buyer@example.com"}}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			db := &stubStorer{user: seller}
			h := newTestHandler(db)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/escrow", strings.NewReader(tc.form.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			s, r := reqCtx(t, r, grantedUser(7))

			// Act
			h.EscrowCreate(w, r)

			// Assert
			require.Equal(t, http.StatusFound, w.Code)
			require.Equal(t, "/escrow", w.Header().Get("Location"))
			require.Equal(t, []session.Flash{{Class: session.FlashError, Msg: session.BadInputMsg}}, s.Flashes(w, r))
		})
	}
}

func TestEscrowShow(t *testing.T) {
	// Arrange
	db := &stubStorer{escrow: testEscrow(middlemark.EscrowOpen)}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/escrow/1", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "1"})
	_, r = reqCtx(t, r, grantedUser(7))

	// Act
	h.EscrowShow(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Vintage synth")

	// Arrange - a stranger gets the same answer as a missing escrow
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/escrow/1", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "1"})
	s, r := reqCtx(t, r, grantedUser(99))

	// Act
	h.EscrowShow(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/escrow", w.Header().Get("Location"))
	require.Equal(t, []session.Flash{{Class: session.FlashError, Msg: session.NoAccessMsg}}, s.Flashes(w, r))
}

func TestEscrowRelease(t *testing.T) {
	// Arrange
	db := &stubStorer{escrow: testEscrow(middlemark.EscrowFunded)}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/escrow/1/release", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "1"})
	s, r := reqCtx(t, r, grantedUser(7))

	// Act
	h.EscrowRelease(w, r)

	// Assert
	require.True(t, db.released)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/escrow/1", w.Header().Get("Location"))
	require.Equal(t, []session.Flash{{Class: session.FlashSuccess, Msg: "Funds released to the seller."}}, s.Flashes(w, r))
}

func TestEscrowReleaseWrongState(t *testing.T) {
	// Arrange
	db := &stubStorer{escrow: testEscrow(middlemark.EscrowOpen)}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/escrow/1/release", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "1"})
	s, r := reqCtx(t, r, grantedUser(7))

	// Act
	h.EscrowRelease(w, r)

	// Assert
	require.False(t, db.released)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/escrow/1", w.Header().Get("Location"))
	require.Equal(t, []session.Flash{{Class: session.FlashError, Msg: "Cannot release an escrow that is open."}}, s.Flashes(w, r))
}

func TestEscrowReleaseSellerForbidden(t *testing.T) {
	// Arrange
	db := &stubStorer{escrow: testEscrow(middlemark.EscrowFunded)}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/escrow/1/release", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "1"})
	s, r := reqCtx(t, r, grantedUser(8))

	// Act
	h.EscrowRelease(w, r)

	// Assert
	require.False(t, db.released)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/escrow", w.Header().Get("Location"))
	require.Equal(t, []session.Flash{{Class: session.FlashError, Msg: session.NoAccessMsg}}, s.Flashes(w, r))
}
