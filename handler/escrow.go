package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/http/resp"
	"github.com/middlemark/middlemark/http/session"
	"github.com/middlemark/middlemark/logger"
)

// EscrowsIndex handles GET /escrow,
// listing every escrow the user is a party to.
func (h *Handler) EscrowsIndex(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(r)
	if !ok {
		h.Redirect(w, r, resp.ToRoot())
		return
	}

	escrows, err := h.DB.EscrowsFor(u.ID)
	if err != nil {
		h.Logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r, User: u})
		h.Redirect(w, r, resp.GenericErr(err), resp.Url("/dashboard"))
		return
	}

	h.Html(w, r, resp.Authed(), resp.Tmpls(escrowIndexTmpl), resp.Data(escrows))
}

// EscrowCreate handles POST /escrow,
// opening a new escrow with the current user as buyer.
func (h *Handler) EscrowCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(r)
	if !ok {
		h.Redirect(w, r, resp.ToRoot())
		return
	}

	if err := r.ParseForm(); err != nil {
		h.badEscrowInput(w, r)
		return
	}

	amount, err := strconv.ParseInt(r.PostForm.Get("amount_cents"), 10, 64)
	if err != nil || amount <= 0 {
		h.badEscrowInput(w, r)
		return
	}

	sellerEmail := strings.TrimSpace(r.PostForm.Get("seller_email"))
	seller, err := h.DB.UserByEmail(sellerEmail)
	if err != nil || seller.ID == u.ID {
		h.badEscrowInput(w, r)
		return
	}

	e := middlemark.Escrow{
		AmountCents: amount,
		BuyerID:     u.ID,
		Description: strings.TrimSpace(r.PostForm.Get("description")),
		SellerID:    seller.ID,
		State:       middlemark.EscrowOpen,
	}

	if err := h.DB.CreateEscrow(&e); err != nil {
		h.Logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r, User: u})
		h.Redirect(w, r, resp.GenericErr(err), resp.Url("/escrow"))
		return
	}

	h.Redirect(w, r,
		resp.Flash(session.Flash{Class: session.FlashSuccess, Msg: "Escrow opened."}),
		resp.Url(fmt.Sprintf("/escrow/%d", e.ID)),
	)
}

// EscrowShow handles GET /escrow/{id}.
//
// Only the buyer or seller on an escrow may view it;
// anyone else gets the same response as an escrow that does not exist.
func (h *Handler) EscrowShow(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(r)
	if !ok {
		h.Redirect(w, r, resp.ToRoot())
		return
	}

	e, err := h.fetchInvolvedEscrow(r, u)
	if err != nil {
		h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.NoAccessMsg}), resp.Url("/escrow"))
		return
	}

	h.Html(w, r, resp.Authed(), resp.Tmpls(escrowShowTmpl), resp.Data(e))
}

// EscrowRelease handles POST /escrow/{id}/release.
//
// Only the buyer on a funded escrow may release it.
func (h *Handler) EscrowRelease(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(r)
	if !ok {
		h.Redirect(w, r, resp.ToRoot())
		return
	}

	e, err := h.fetchInvolvedEscrow(r, u)
	if err != nil {
		h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.NoAccessMsg}), resp.Url("/escrow"))
		return
	}

	if e.BuyerID != u.ID {
		h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.NoAccessMsg}), resp.Url("/escrow"))
		return
	}

	if err := e.Transition(middlemark.EscrowReleased); err != nil {
		h.Redirect(w, r,
			resp.Flash(session.Flash{Class: session.FlashError, Msg: fmt.Sprintf("Cannot release an escrow that is %s.", e.State)}),
			resp.Url(fmt.Sprintf("/escrow/%d", e.ID)),
		)
		return
	}

	if err := h.DB.ReleaseEscrow(&e); err != nil {
		h.Logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r, User: u})
		h.Redirect(w, r, resp.GenericErr(err), resp.Url(fmt.Sprintf("/escrow/%d", e.ID)))
		return
	}

	h.Redirect(w, r,
		resp.Flash(session.Flash{Class: session.FlashSuccess, Msg: "Funds released to the seller."}),
		resp.Url(fmt.Sprintf("/escrow/%d", e.ID)),
	)
}

// fetchInvolvedEscrow resolves {id} from the route and loads the escrow,
// requiring the user be a party to it.
func (h *Handler) fetchInvolvedEscrow(r *http.Request, u middlemark.User) (middlemark.Escrow, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return middlemark.Escrow{}, fmt.Errorf("%w: %s", middlemark.ErrNotValid, err)
	}

	e, err := h.DB.EscrowByID(uint(id))
	if err != nil {
		return middlemark.Escrow{}, err
	}

	if !e.Involves(u.ID) {
		return middlemark.Escrow{}, errors.New("user is not a party to the escrow")
	}

	return e, nil
}

func (h *Handler) badEscrowInput(w http.ResponseWriter, r *http.Request) {
	h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadInputMsg}), resp.Url("/escrow"))
}
