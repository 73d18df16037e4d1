package handler

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/auth"
	"github.com/middlemark/middlemark/http/resp"
	"github.com/middlemark/middlemark/http/session"
	"github.com/middlemark/middlemark/logger"
)

// oauthStateKey stores the anti-forgery state for the Google sign-in flow.
const oauthStateKey = "oauth-state"

// Login handles POST /login: email and password sign-in.
//
// A failed lookup and a failed password compare are indistinguishable to the
// client; both queue the same flash and land back on the login view.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadInputMsg}), resp.ToRoot())
		return
	}

	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")

	u, err := h.DB.UserByEmail(email)
	if err != nil {
		h.badCreds(w, r, err)
		return
	}

	if err := auth.VerifyPassword(u.Password, password); err != nil {
		h.badCreds(w, r, err)
		return
	}

	h.registerAndRedirect(w, r, u)
}

// Logout handles POST /logout, deleting the session outright.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s, err := h.Session(r.Context())
	if err == nil {
		if err := s.Delete(w, r); err != nil {
			h.Logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
		}
	}

	h.Redirect(w, r, resp.ToRoot())
}

// GoogleLogin handles GET /oauth/google,
// sending the user to the Google consent page with a state nonce
// saved on the session for the callback to check.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Auth == nil {
		h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.DefaultErrMsg}), resp.ToRoot())
		return
	}

	state := uuid.NewString()
	if s, err := h.Session(r.Context()); err == nil {
		s.Set(w, r, oauthStateKey, state)
	}

	http.Redirect(w, r, h.Auth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /oauth/google/callback.
//
// It verifies the state nonce, swaps the code for a token,
// fetches the Google profile and signs in the matching user.
// A Google account with no matching user record is rejected;
// sign-up stays an explicit, invited step.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.Auth == nil {
		h.Redirect(w, r, resp.ToRoot())
		return
	}

	s, err := h.Session(r.Context())
	if err != nil {
		h.Redirect(w, r, resp.GenericErr(err), resp.ToRoot())
		return
	}

	want, _ := s.Get(oauthStateKey).(string)
	if got := r.URL.Query().Get("state"); want == "" || got != want {
		err := errors.New("oauth state mismatch")
		h.badCreds(w, r, err)
		return
	}

	token, err := h.Auth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.badCreds(w, r, err)
		return
	}

	info, err := h.Auth.FetchUser(r.Context(), token)
	if err != nil {
		h.Redirect(w, r, resp.GenericErr(err), resp.ToRoot())
		return
	}

	u, err := h.DB.UserByEmail(info.Email)
	if err != nil {
		h.badCreds(w, r, err)
		return
	}

	h.registerAndRedirect(w, r, u)
}

// Invite handles GET /invite, signing in a user from a signed invite link.
//
// The link carries an HS256 token in the jwt query param whose subject is the
// invited user's email; the user record must already exist. A valid link
// lands the user on their profile so they can finish setting up.
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	if h.Auth == nil {
		h.Redirect(w, r, resp.ToRoot())
		return
	}

	claims, err := h.Auth.AuthenticateJWT(r.URL.Query(), &jwt.RegisteredClaims{})
	if err != nil {
		h.badCreds(w, r, err)
		return
	}

	rc, ok := claims.(*jwt.RegisteredClaims)
	if !ok || rc.Subject == "" {
		h.badCreds(w, r, errors.New("invite token has no subject"))
		return
	}

	u, err := h.DB.UserByEmail(rc.Subject)
	if err != nil {
		h.badCreds(w, r, err)
		return
	}

	if !u.HasAccess() {
		h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.NoAccessMsg}), resp.ToRoot())
		return
	}

	s, err := h.Session(r.Context())
	if err != nil {
		h.Redirect(w, r, resp.GenericErr(err), resp.ToRoot())
		return
	}

	if err := s.RegisterUser(w, r, u.ID); err != nil {
		h.Redirect(w, r, resp.GenericErr(err), resp.ToRoot())
		return
	}

	h.Redirect(w, r,
		resp.Flash(session.Flash{Class: session.FlashSuccess, Msg: "Welcome! Finish setting up your profile."}),
		resp.Url("/users/me"),
	)
}

// registerAndRedirect stores the user's ID on the session and sends them home.
func (h *Handler) registerAndRedirect(w http.ResponseWriter, r *http.Request, u middlemark.User) {
	if !u.HasAccess() {
		h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.NoAccessMsg}), resp.ToRoot())
		return
	}

	s, err := h.Session(r.Context())
	if err != nil {
		h.Redirect(w, r, resp.GenericErr(err), resp.ToRoot())
		return
	}

	if err := s.RegisterUser(w, r, u.ID); err != nil {
		h.Redirect(w, r, resp.GenericErr(err), resp.ToRoot())
		return
	}

	h.Redirect(w, r, resp.Url(u.HomePath()))
}

// badCreds logs the underlying cause and answers with the uniform bad-credentials flash.
func (h *Handler) badCreds(w http.ResponseWriter, r *http.Request, err error) {
	h.Logger.Info(err.Error(), &logger.LogContext{Error: err, Request: r})
	h.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadCredsMsg}), resp.ToRoot())
}
