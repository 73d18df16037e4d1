package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/http/resp"
	"github.com/middlemark/middlemark/http/session"
)

// The User defines attributes about a user in the context of middleware.
type User interface {
	HasAccess() bool
	HomePath() string
}

// UserStorer defines how to retrieve a User by an ID in the context of middleware.
type UserStorer func(id uint) (User, error)

// CurrentUser pulls the user ID out of the session stored in the *http.Request.Context,
// resolves it through the UserStorer
// and stashes the resulting User under middlemark.CurrentUserKey.
//
// CurrentUser runs on every request, after InjectSession.
// An anonymous session passes through without a User in the context;
// access control middlewares decide what that means for a given route.
//
// A *resp.Responder is needed to handle cases a User cannot be retrieved
// or does not have access.
// CurrentUser checks whether the *http.Request "Accept" header MIME type
// is "application/json" and writes a status code if so.
// If it isn't, CurrentUser redirects to the Responder's root URL.
func CurrentUser(d *resp.Responder, storer UserStorer) Adapter {
	if d == nil || storer == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := r.Context().Value(middlemark.SessionKey).(session.Session)
			if !ok {
				handleErr(w, r, http.StatusUnauthorized, d, nil)
				return
			}

			uid, err := s.UserID()
			if err != nil {
				// NOTE: there is no user in the session,
				// request may be accessing an unauthenticated endpoint,
				// maybe not, something for access control middlewares to determine
				handler.ServeHTTP(w, r)
				return
			}

			user, err := storer(uid)
			if err != nil {
				if err := s.Delete(w, r); err != nil {
					handleErr(w, r, http.StatusInternalServerError, d, err)
					return
				}

				handleErr(w, r, http.StatusUnauthorized, d, err)
				return
			}

			if !user.HasAccess() {
				s.ClearFlashes(w, r)
				if err := s.DeregisterUser(w, r); err != nil {
					handleErr(w, r, http.StatusInternalServerError, d, err)
					return
				}

				handleErr(w, r, http.StatusUnauthorized, d, err)
				return
			}

			if err := s.ResetExpiry(w, r); err != nil {
				s.Delete(w, r) // NOTE: ignore delete error
				handleErr(w, r, http.StatusInternalServerError, d, err)
				return
			}

			w.Header().Add("Cache-control", "no-store")
			w.Header().Add("Pragma", "no-cache")

			ctx := context.WithValue(r.Context(), middlemark.CurrentUserKey, user)
			handler.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

// RequireAuthed returns a middleware.Adapter that checks whether a User is authenticated,
// and requires they be authenticated.
// When the User is authenticated, RequireAuthed hands the request to the next part
// of the middleware chain untouched.
//
// Authenticated means a User is set in the request context under middlemark.CurrentUserKey.
//
// When the User is not authenticated, and the request's "Accept" header has
// "application/json" in it, RequireAuthed writes 401 to the client.
// Otherwise, RequireAuthed queues an error-class flash telling the user to log in
// and redirects to the provided login URL.
//
// The URL originally requested is appended as a "next" query param
// when the request method is GET and the endpoint is not the logoff URL.
func RequireAuthed(d *resp.Responder, loginUrl, logoffUrl string) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(middlemark.CurrentUserKey).(User); ok {
				handler.ServeHTTP(w, r)
				return
			}

			for _, v := range r.Header.Values("Accept") {
				if strings.Contains(v, "application/json") {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
			}

			if s, ok := r.Context().Value(middlemark.SessionKey).(session.Session); ok {
				s.SetFlash(w, r, session.Flash{Class: session.FlashError, Msg: session.LoginFirstMsg})
			}

			u := loginUrl
			if r.Method == http.MethodGet && r.URL.Path != logoffUrl {
				u += "?next=" + url.QueryEscape(r.URL.String())
			}

			http.Redirect(w, r, u, http.StatusTemporaryRedirect)
		})
	}
}

// RequireUnauthed returns a middleware.Adapter that checks whether a user is authenticated
// and requires they not be authenticated.
// When they are not authenticated, RequireUnauthed hands off to the next part of the middleware chain.
//
// When the User is authenticated, and the request's "Accept" header has "application/json" in it,
// RequireUnauthed writes 400 to the client.
// If the request does not have that value in its header,
// RequireUnauthed redirects to the User's HomePath.
func RequireUnauthed() Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cu, ok := r.Context().Value(middlemark.CurrentUserKey).(User)
			if !ok {
				handler.ServeHTTP(w, r)
				return
			}

			for _, v := range r.Header.Values("Accept") {
				if strings.Contains(v, "application/json") {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
			}

			http.Redirect(w, r, cu.HomePath(), http.StatusTemporaryRedirect)
		})
	}
}

// handleErr helps CurrentUser error paths by writing responses reflecting the
// "Accept" type of the *http.Request.
func handleErr(w http.ResponseWriter, r *http.Request, code int, d *resp.Responder, err error) {
	for _, v := range r.Header.Values("Accept") {
		if strings.Contains(v, "application/json") {
			d.Json(w, r, resp.Err(err), resp.Code(code))
			return
		}
	}

	d.Redirect(w, r, resp.Err(err))
}
