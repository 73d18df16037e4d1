package middleware

import (
	"context"
	"net/http"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/http/session"
	"github.com/middlemark/middlemark/logger"
)

// InjectSession stores the session associated with the *http.Request in *http.Request.Context
// under middlemark.SessionKey.
//
// InjectSession runs on every request, before any handler:
// downstream stages rely on the session being present.
// If session resolution fails, the failure is logged,
// an empty session is stored
// and the request proceeds as anonymous.
//
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer, ls logger.Logger) Adapter {
	if store == nil {
		return NoopAdapter
	}

	if ls == nil {
		ls = logger.New()
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := store.GetSession(r)
			if err != nil {
				ls.Info("cannot get session, continuing anonymously: "+err.Error(), &logger.LogContext{Error: err, Request: r})
			}

			ctx := context.WithValue(r.Context(), middlemark.SessionKey, s)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
