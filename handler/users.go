package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/middlemark/middlemark/auth"
	"github.com/middlemark/middlemark/http/resp"
	"github.com/middlemark/middlemark/http/session"
	"github.com/middlemark/middlemark/logger"
	"github.com/middlemark/middlemark/postgres"
)

// UsersIndex handles GET /users, an admin-only listing.
func (h *Handler) UsersIndex(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(r)
	if !ok || !u.Admin {
		h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.NoAccessMsg}), resp.Url("/dashboard"))
		return
	}

	page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil {
		page = 1
	}

	pd, err := h.DB.Users(page)
	if err != nil {
		h.Logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r, User: u})
		h.Redirect(w, r, resp.GenericErr(err), resp.Url("/dashboard"))
		return
	}

	h.Html(w, r, resp.Authed(), resp.Tmpls(userIndexTmpl), resp.Data(pd))
}

// UserProfile handles GET /users/me.
func (h *Handler) UserProfile(w http.ResponseWriter, r *http.Request) {
	h.Html(w, r, resp.Authed(), resp.Tmpls(userProfileTmpl))
}

// UserProfileUpdate handles POST /users/me,
// updating the user's display name and, when supplied, their password.
func (h *Handler) UserProfileUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(r)
	if !ok {
		h.Redirect(w, r, resp.ToRoot())
		return
	}

	if err := r.ParseForm(); err != nil {
		h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadInputMsg}), resp.Url("/users/me"))
		return
	}

	ups := postgres.Updates{}
	if name := strings.TrimSpace(r.PostForm.Get("name")); name != "" {
		ups["name"] = name
	}

	if password := r.PostForm.Get("password"); password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadInputMsg}), resp.Url("/users/me"))
			return
		}
		ups["password"] = hash
	}

	if len(ups) == 0 {
		h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadInputMsg}), resp.Url("/users/me"))
		return
	}

	if err := h.DB.UpdateUser(u.ID, ups); err != nil {
		h.Logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r, User: u})
		h.Redirect(w, r, resp.GenericErr(err), resp.Url("/users/me"))
		return
	}

	h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashSuccess, Msg: "Profile updated."}), resp.Url("/users/me"))
}
