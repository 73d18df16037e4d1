package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/http/middleware"
	"github.com/middlemark/middlemark/http/resp"
	"github.com/middlemark/middlemark/http/session"
	"github.com/middlemark/middlemark/logger"
)

// PaymentsIndex handles GET /payments, listing the user's payments.
func (h *Handler) PaymentsIndex(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(r)
	if !ok {
		h.Redirect(w, r, resp.ToRoot())
		return
	}

	payments, err := h.DB.PaymentsFor(u.ID)
	if err != nil {
		h.Logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r, User: u})
		h.Redirect(w, r, resp.GenericErr(err), resp.Url("/dashboard"))
		return
	}

	h.Html(w, r, resp.Authed(), resp.Tmpls(paymentIndexTmpl), resp.Data(payments))
}

// PaymentCreate handles POST /payments, funding an open escrow.
//
// The route sits behind the idempotency middleware:
// replaying a request with the same Idempotency-Key header replays the
// first response instead of moving funds twice. The key is also stored
// on the payment record under a unique index as the backstop.
func (h *Handler) PaymentCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(r)
	if !ok {
		h.Redirect(w, r, resp.ToRoot())
		return
	}

	if err := r.ParseForm(); err != nil {
		h.badPaymentInput(w, r)
		return
	}

	escrowID, err := strconv.ParseUint(r.PostForm.Get("escrow_id"), 10, 64)
	if err != nil {
		h.badPaymentInput(w, r)
		return
	}

	e, err := h.DB.EscrowByID(uint(escrowID))
	if err != nil || e.BuyerID != u.ID {
		h.badPaymentInput(w, r)
		return
	}

	if !e.CanTransition(middlemark.EscrowFunded) {
		h.Redirect(w, r,
			resp.Flash(session.Flash{Class: session.FlashError, Msg: fmt.Sprintf("Cannot fund a %s escrow.", e.State)}),
			resp.Url(fmt.Sprintf("/escrow/%d", e.ID)),
		)
		return
	}

	p := middlemark.Payment{
		AmountCents:    e.AmountCents,
		EscrowID:       e.ID,
		IdempotencyKey: r.Header.Get(middleware.IdempotencyHeader),
		PayerID:        u.ID,
		State:          middlemark.PaymentSettled,
	}

	if err := h.DB.FundEscrow(&e, &p); err != nil {
		h.Logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r, User: u})
		h.Redirect(w, r, resp.GenericErr(err), resp.Url(fmt.Sprintf("/escrow/%d", e.ID)))
		return
	}

	h.Redirect(w, r,
		resp.Flash(session.Flash{Class: session.FlashSuccess, Msg: "Escrow funded."}),
		resp.Url(fmt.Sprintf("/escrow/%d", e.ID)),
	)
}

func (h *Handler) badPaymentInput(w http.ResponseWriter, r *http.Request) {
	h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadInputMsg}), resp.Url("/payments"))
}
