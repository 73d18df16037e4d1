package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/http/middleware"
	"github.com/middlemark/middlemark/http/resp"
	"github.com/middlemark/middlemark/http/router"
	"github.com/middlemark/middlemark/logger"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *router.Router {
	d := resp.NewResponder(resp.WithRootUrl("https://example.com"))
	return router.New(middlemark.Testing, d, logger.New(), middleware.NoopAdapter)
}

func TestRouterHandle(t *testing.T) {
	// Arrange
	r := newTestRouter()
	r.Handle(router.Route{
		Path:   "/teapot",
		Method: http.MethodGet,
		Handler: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teapot", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)

	// Arrange - wrong method does not match
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/teapot", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouterHandleRoutesOrder(t *testing.T) {
	// Arrange
	var calls []string
	record := func(name string) middleware.Adapter {
		return func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, rx *http.Request) {
				calls = append(calls, name)
				handler.ServeHTTP(w, rx)
			})
		}
	}

	r := newTestRouter()
	r.OnEveryRequest(record("every"))
	r.HandleRoutes([]router.Route{{
		Path:   "/",
		Method: http.MethodGet,
		Handler: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		},
		Middlewares: []middleware.Adapter{record("route")},
	}}, record("group"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)
	require.Equal(t, []string{"every", "group", "route"}, calls)
}

func TestRouterSubrouter(t *testing.T) {
	// Arrange
	r := newTestRouter()
	sub := r.Subrouter("/payments")
	sub.Handle(router.Route{
		Path:   "/{id}",
		Method: http.MethodGet,
		Handler: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payments/1", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)
}

func TestRouterHandleNotFound(t *testing.T) {
	// Arrange
	r := newTestRouter()
	r.HandleNotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nothing here"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "nothing here", w.Body.String())
}
