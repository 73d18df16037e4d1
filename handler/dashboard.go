package handler

import (
	"net/http"

	"github.com/middlemark/middlemark/http/resp"
	"github.com/middlemark/middlemark/logger"
)

const recentPayments = 5

// Dashboard handles GET /dashboard, behind RequireAuthed.
//
// It renders the user's open escrows and most recent payments.
// A failed fetch queues a generic error flash and sends the user back to the root.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(r)
	if !ok {
		h.Redirect(w, r, resp.ToRoot())
		return
	}

	escrows, err := h.DB.OpenEscrowsFor(u.ID)
	if err != nil {
		h.Logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r, User: u})
		h.Redirect(w, r, resp.GenericErr(err), resp.ToRoot())
		return
	}

	payments, err := h.DB.RecentPaymentsFor(u.ID, recentPayments)
	if err != nil {
		h.Logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r, User: u})
		h.Redirect(w, r, resp.GenericErr(err), resp.ToRoot())
		return
	}

	h.Html(w, r, resp.Authed(), resp.Tmpls(dashboardTmpl), resp.Data(map[string]interface{}{
		"Escrows":  escrows,
		"Payments": payments,
	}))
}
