package handler

import (
	"net/http"

	"github.com/middlemark/middlemark/http/resp"
)

// landingData is the static copy on the anonymous landing view.
var landingData = map[string]string{
	"Title":       "Middlemark",
	"Description": "Escrow-mediated payments between buyers and sellers.",
}

// Home handles GET /.
//
// Authenticated users land on their dashboard;
// anonymous users get the login view.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if u, ok := h.currentUser(r); ok {
		h.Redirect(w, r, resp.Url(u.HomePath()))
		return
	}

	h.Html(w, r, resp.Unauthed(), resp.Tmpls(loginTmpl), resp.Data(landingData))
}
