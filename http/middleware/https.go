package middleware

import (
	"net/http"
	"net/url"

	"github.com/middlemark/middlemark"
)

// ForceHTTPS redirects HTTP requests to HTTPS if the environment is not development or testing.
//
// The "X-Forwarded-Proto" header is used to check whether HTTP was requested due to
// the application running behind a proxy.
func ForceHTTPS(env middlemark.Environment) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Forwarded-Proto") == "https" || env.IsDevelopment() || env.IsTesting() {
				handler.ServeHTTP(w, r)
				return
			}

			u := new(url.URL)
			*u = *r.URL
			u.Scheme = "https"
			u.Host = r.Host

			http.Redirect(w, r, u.String(), http.StatusPermanentRedirect)
		})
	}
}
