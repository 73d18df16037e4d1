package app

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/auth"
	"github.com/middlemark/middlemark/http/middleware"
	"github.com/middlemark/middlemark/http/resp"
	"github.com/middlemark/middlemark/http/router"
	"github.com/middlemark/middlemark/http/session"
	"github.com/middlemark/middlemark/http/template"
	"github.com/middlemark/middlemark/logger"
	"github.com/middlemark/middlemark/postgres"
)

const (
	sessionName = "middlemark"

	tmplDir       = "tmpl"
	errTmpl       = tmplDir + "/error.tmpl"
	layoutDir     = tmplDir + "/layout"
	authedTmpl    = layoutDir + "/authenticated_base.tmpl"
	unauthedTmpl  = layoutDir + "/unauthenticated_base.tmpl"
	oauthCallback = "/oauth/google/callback"
)

// An App manages and exposes all components of the application to one another.
type App struct {
	*resp.Responder
	Router *router.Router

	Auth     auth.AuthService
	Cfg      Config
	DB       *postgres.DB
	Env      middlemark.Environment
	Logger   logger.Logger
	Parser   template.Parser
	Sessions session.SessionStorer

	srv *http.Server
}

// New constructs an *App from the Config,
// connecting the database and running migrations,
// then wiring the session store, parser, responder, router
// and the middleware stack every request passes through.
//
// files holds the HTML templates; almost always middlemark.Templates.
func New(cfg Config, migrations []postgres.Migration, files fs.FS) (*App, error) {
	l := logger.New(logger.WithEnv(cfg.Env.String()))

	gdb, err := postgres.Connect(&postgres.CxnConfig{
		IsTestDB: cfg.Env.IsTesting(),
		URL:      cfg.DatabaseURL,
	}, migrations, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting database: %s", middlemark.ErrBadConfig, err)
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	p := template.NewParser(template.WithFS(files), template.WithFn(template.Env(cfg.Env)))

	d := resp.NewResponder(
		resp.WithAuthTemplate(authedTmpl),
		resp.WithContactErrMsg(fmt.Sprintf(session.ContactUsErr, cfg.ContactUs)),
		resp.WithErrTemplate(errTmpl),
		resp.WithLogger(l),
		resp.WithParser(p),
		resp.WithRootUrl(cfg.BaseURL.String()),
		resp.WithUnauthTemplate(unauthedTmpl),
	)

	a := &App{
		Responder: d,
		Cfg:       cfg,
		DB:        postgres.NewDB(gdb),
		Env:       cfg.Env,
		Logger:    l,
		Parser:    p,
		Sessions:  store,
	}

	if cfg.GoogleClient != "" && cfg.GoogleSecret != "" && cfg.JWTSigningKey != "" {
		a.Auth, err = auth.NewService(
			cfg.JWTSigningKey,
			cfg.GoogleClient,
			cfg.GoogleSecret,
			cfg.BaseURL.String()+oauthCallback,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", middlemark.ErrBadConfig, err)
		}
	} else {
		l.Info("Google OAuth not configured, sign-in with Google disabled", nil)
	}

	a.Router = router.New(cfg.Env, d, l, middleware.LogRequest(l))
	a.Router.OnEveryRequest(
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(l),
		middleware.ForceHTTPS(cfg.Env),
		middleware.CORS(cfg.BaseURL.String()),
		middleware.RateLimit(middleware.NewVisitors()),
		middleware.InjectSession(store, l),
	)

	a.srv = &http.Server{
		Addr:         cfg.Port,
		IdleTimeout:  cfg.ServerIdleTimeout,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
	}

	return a, nil
}

// Serve begins the web server.
//
// These, and (*App).Shutdown, stop Serve:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (a *App) Serve() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)

	go func() {
		s := <-ch
		a.Logger.Info(fmt.Sprint("received shutdown signal: ", s), nil)
		cancel()
	}()

	go func() {
		a.Logger.Info(fmt.Sprintf("running web server at %s in %s", a.srv.Addr, a.Env), nil)
		a.srv.Handler = a.Router
		if err := a.srv.ListenAndServe(); err != http.ErrServerClosed {
			a.Logger.Error(fmt.Errorf("could not listen: %w", err).Error(), nil)
		}
	}()

	<-ctx.Done()
	return a.Shutdown()
}

// Shutdown gracefully stops the web server.
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.Logger.Info("shutting down web server", nil)
	err := a.srv.Shutdown(shutdownCtx)
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	a.Logger.Info("web server shutdown successfully", nil)
	return nil
}

func newSessionStore(cfg Config) (session.SessionStorer, error) {
	sc := session.Config{
		AuthKey:     cfg.SessionAuthKey,
		EncryptKey:  cfg.SessionEncryptKey,
		Env:         cfg.Env,
		SessionName: sessionName,
	}

	opts := []session.ServiceOpt{session.WithMaxAge(cfg.SessionMaxAge)}
	if cfg.SessionStoreURI != "" {
		opts = append(opts, session.WithRedis(cfg.SessionStoreURI, cfg.SessionStorePass))
	} else {
		opts = append(opts, session.WithCookie())
	}

	store, err := session.NewStoreService(sc, opts...)
	if err != nil {
		return nil, err
	}

	return store, nil
}
