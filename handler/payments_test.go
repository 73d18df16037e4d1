package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/http/middleware"
	"github.com/middlemark/middlemark/http/session"
	"github.com/stretchr/testify/require"
)

func fundReq(t *testing.T, escrowID string) *http.Request {
	t.Helper()

	form := url.Values{"escrow_id": {escrowID}}
	r := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set(middleware.IdempotencyHeader, "idem-123")

	return r
}

func TestPaymentCreate(t *testing.T) {
	// Arrange
	db := &stubStorer{escrow: testEscrow(middlemark.EscrowOpen)}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := fundReq(t, "1")
	s, r := reqCtx(t, r, grantedUser(7))

	// Act
	h.PaymentCreate(w, r)

	// Assert
	require.True(t, db.funded)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/escrow/1", w.Header().Get("Location"))
	require.Equal(t, []session.Flash{{Class: session.FlashSuccess, Msg: "Escrow funded."}}, s.Flashes(w, r))
}

func TestPaymentCreateWrongState(t *testing.T) {
	// Arrange
	db := &stubStorer{escrow: testEscrow(middlemark.EscrowReleased)}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := fundReq(t, "1")
	s, r := reqCtx(t, r, grantedUser(7))

	// Act
	h.PaymentCreate(w, r)

	// Assert
	require.False(t, db.funded)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/escrow/1", w.Header().Get("Location"))
	require.Equal(t, []session.Flash{{Class: session.FlashError, Msg: "Cannot fund a released escrow."}}, s.Flashes(w, r))
}

func TestPaymentCreateNotBuyer(t *testing.T) {
	// Arrange
	db := &stubStorer{escrow: testEscrow(middlemark.EscrowOpen)}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := fundReq(t, "1")
	s, r := reqCtx(t, r, grantedUser(8))

	// Act
	h.PaymentCreate(w, r)

	// Assert
	require.False(t, db.funded)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/payments", w.Header().Get("Location"))
	require.Equal(t, []session.Flash{{Class: session.FlashError, Msg: session.BadInputMsg}}, s.Flashes(w, r))
}

func TestPaymentsIndex(t *testing.T) {
	// Arrange
	p := middlemark.Payment{AmountCents: 5000, EscrowID: 1, PayerID: 7, State: middlemark.PaymentSettled}
	p.ID = 3

	db := &stubStorer{payments: []middlemark.Payment{p}}
	h := newTestHandler(db)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/payments", nil)
	_, r = reqCtx(t, r, grantedUser(7))

	// Act
	h.PaymentsIndex(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "5000")
}
