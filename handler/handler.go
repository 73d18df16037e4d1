package handler

import (
	"net/http"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/auth"
	"github.com/middlemark/middlemark/http/middleware"
	"github.com/middlemark/middlemark/http/resp"
	"github.com/middlemark/middlemark/logger"
)

// Template files the handlers render inside the base layouts.
const (
	dashboardTmpl     = "tmpl/dashboard.tmpl"
	escrowIndexTmpl   = "tmpl/escrow/index.tmpl"
	escrowShowTmpl    = "tmpl/escrow/show.tmpl"
	loginTmpl         = "tmpl/login.tmpl"
	notFoundTmpl      = "tmpl/not_found.tmpl"
	paymentIndexTmpl  = "tmpl/payments/index.tmpl"
	userIndexTmpl     = "tmpl/users/index.tmpl"
	userProfileTmpl   = "tmpl/users/profile.tmpl"
)

// A Handler holds the collaborators every route handler responds with.
type Handler struct {
	*resp.Responder

	Auth   auth.AuthService
	DB     Storer
	Logger logger.Logger
}

// New constructs a *Handler.
func New(d *resp.Responder, db Storer, l logger.Logger, a auth.AuthService) *Handler {
	return &Handler{Responder: d, Auth: a, DB: db, Logger: l}
}

// UserStorer adapts the Storer for middleware.CurrentUser.
func (h *Handler) UserStorer(id uint) (middleware.User, error) {
	u, err := h.DB.UserByID(id)
	if err != nil {
		return nil, err
	}

	return u, nil
}

// currentUser pulls the middlemark.User out of the request context.
//
// Handlers behind RequireAuthed can rely on ok being true.
func (h *Handler) currentUser(r *http.Request) (middlemark.User, bool) {
	u, ok := r.Context().Value(middlemark.CurrentUserKey).(middlemark.User)
	return u, ok
}
