package handler

import (
	"net/http"

	"github.com/middlemark/middlemark/http/resp"
)

// NotFound handles requests matching no registered route.
//
// It renders a fixed "page not found" view with a 404 status code.
// The router registers it outside the session middlewares,
// so a stray URL cannot touch session state.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Html(w, r, resp.Unauthed(), resp.Tmpls(notFoundTmpl), resp.Code(http.StatusNotFound))
}
