package middleware

import (
	"fmt"
	"net/http"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/http/resp"
	"github.com/middlemark/middlemark/logger"
)

// ReportPanic recovers any panic escaping the wrapped handler,
// logs it and renders the Responder's error template.
//
// ReportPanic sits at the bottom of every middleware chain:
// an unrecovered failure reaches exactly one responder, this one,
// and the client always receives an HTML response rather than a dropped connection.
//
// http.ErrAbortHandler passes through untouched,
// per the net/http contract for deliberately aborted responses.
func ReportPanic(d *resp.Responder, ls logger.Logger) Adapter {
	if d == nil || ls == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := fmt.Errorf("%w: recovered from panic: %v", middlemark.ErrUnexpected, rec)
				ls.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
				d.HtmlErr(w, r, err)
			}()

			handler.ServeHTTP(w, r)
		})
	}
}
