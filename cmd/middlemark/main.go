package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/app"
	"github.com/middlemark/middlemark/handler"
	"github.com/middlemark/middlemark/http/middleware"
	"github.com/middlemark/middlemark/http/router"
	"github.com/middlemark/middlemark/postgres"
	"gorm.io/gorm"
)

var migrations = []postgres.Migration{
	{
		Key: "202609010001_create_users",
		Executor: func(db *gorm.DB) error {
			return db.AutoMigrate(&middlemark.User{})
		},
	},
	{
		Key: "202609010002_create_escrows",
		Executor: func(db *gorm.DB) error {
			return db.AutoMigrate(&middlemark.Escrow{})
		},
	},
	{
		Key: "202609010003_create_payments",
		Executor: func(db *gorm.DB) error {
			return db.AutoMigrate(&middlemark.Payment{})
		},
	},
}

func main() {
	a, err := app.New(app.NewConfig(), migrations, middlemark.Templates)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	h := handler.New(a.Responder, handler.NewDBStorer(a.DB), a.Logger, a.Auth)
	a.Router.OnEveryRequest(middleware.CurrentUser(a.Responder, h.UserStorer))

	registerRoutes(a, h)

	if err := a.Serve(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func registerRoutes(a *app.App, h *handler.Handler) {
	var idemCache middleware.IdempotencyCacher
	if cfg := a.Cfg; cfg.SessionStoreURI != "" {
		idemCache = middleware.NewRedisCache(&redis.Options{
			Addr:     cfg.SessionStoreURI,
			Password: cfg.SessionStorePass,
		})
	} else {
		idemCache = middleware.NewIdemResMap()
	}

	a.Router.Handle(router.Route{Path: "/", Method: http.MethodGet, Handler: h.Home})
	a.Router.HandleNotFound(h.NotFound)

	a.Router.UnauthedRoutes([]router.Route{
		{Path: "/invite", Method: http.MethodGet, Handler: h.Invite},
		{Path: "/login", Method: http.MethodPost, Handler: h.Login},
		{Path: "/oauth/google", Method: http.MethodGet, Handler: h.GoogleLogin},
		{Path: "/oauth/google/callback", Method: http.MethodGet, Handler: h.GoogleCallback},
	})

	a.Router.AuthedRoutes("/", "/logout", []router.Route{
		{Path: "/dashboard", Method: http.MethodGet, Handler: h.Dashboard},
		{Path: "/logout", Method: http.MethodPost, Handler: h.Logout},
	})

	users := a.Router.Subrouter("/users")
	users.AuthedRoutes("/", "/logout", []router.Route{
		{Path: "", Method: http.MethodGet, Handler: h.UsersIndex},
		{Path: "/me", Method: http.MethodGet, Handler: h.UserProfile},
		{Path: "/me", Method: http.MethodPost, Handler: h.UserProfileUpdate},
	})

	escrow := a.Router.Subrouter("/escrow")
	escrow.AuthedRoutes("/", "/logout", []router.Route{
		{Path: "", Method: http.MethodGet, Handler: h.EscrowsIndex},
		{Path: "", Method: http.MethodPost, Handler: h.EscrowCreate},
		{Path: "/{id:[0-9]+}", Method: http.MethodGet, Handler: h.EscrowShow},
		{Path: "/{id:[0-9]+}/release", Method: http.MethodPost, Handler: h.EscrowRelease},
	})

	payments := a.Router.Subrouter("/payments")
	payments.AuthedRoutes("/", "/logout", []router.Route{
		{Path: "", Method: http.MethodGet, Handler: h.PaymentsIndex},
		{
			Path:        "",
			Method:      http.MethodPost,
			Handler:     h.PaymentCreate,
			Middlewares: []middleware.Adapter{middleware.Idempotent(idemCache, nil)},
		},
	})
}
