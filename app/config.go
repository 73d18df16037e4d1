package app

import (
	"net/url"
	"os"
	"time"

	// NOTE: loads a .env file into the environment before config is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/middlemark/middlemark"
)

const (
	baseURLEnvVar     = "BASE_URL"
	contactUsEnvVar   = "CONTACT_US_EMAIL"
	databaseURLEnvVar = "DATABASE_URL"
	environmentEnvVar = "ENVIRONMENT"
	portEnvVar        = "PORT"
	sentryDsnEnvVar   = "SENTRY_DSN"

	googleClientEnvVar = "GOOGLE_OAUTH_CLIENT"
	googleSecretEnvVar = "GOOGLE_OAUTH_SECRET"
	jwtKeyEnvVar       = "JWT_SIGNING_KEY"

	sessionAuthKeyEnvVar    = "SESSION_AUTH_KEY"
	sessionEncryptKeyEnvVar = "SESSION_ENCRYPTION_KEY"
	sessionMaxAgeEnvVar     = "SESSION_MAX_AGE"
	sessionStorePassEnvVar  = "SESSION_STORE_PASSWORD"
	sessionStoreURIEnvVar   = "SESSION_STORE_URI"

	serverIdleTimeoutEnvVar  = "SERVER_IDLE_TIMEOUT"
	serverReadTimeoutEnvVar  = "SERVER_READ_TIMEOUT"
	serverWriteTimeoutEnvVar = "SERVER_WRITE_TIMEOUT"

	defaultBaseURL            = "http://localhost:3000"
	defaultContactUs          = "support@middlemark.com"
	defaultPort               = ":3000"
	defaultServerIdleTimeout  = 120 * time.Second
	defaultServerReadTimeout  = 5 * time.Second
	defaultServerWriteTimeout = 5 * time.Second

	// a week, in seconds
	defaultSessionMaxAge = 3600 * 24 * 7
)

// A Config collects the environment configuration the application boots with.
type Config struct {
	BaseURL   *url.URL
	ContactUs string
	Env       middlemark.Environment
	Port      string

	DatabaseURL string
	SentryDSN   string

	GoogleClient  string
	GoogleSecret  string
	JWTSigningKey string

	SessionAuthKey     string
	SessionEncryptKey  string
	SessionMaxAge      int
	SessionStorePass   string
	SessionStoreURI    string
	ServerIdleTimeout  time.Duration
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
}

// NewConfig reads the environment into a Config, applying defaults where unset.
func NewConfig() Config {
	port := middlemark.EnvVarOrString(portEnvVar, defaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	return Config{
		BaseURL:   middlemark.EnvVarOrURL(baseURLEnvVar, defaultBaseURL),
		ContactUs: middlemark.EnvVarOrString(contactUsEnvVar, defaultContactUs),
		Env:       middlemark.EnvVarOrEnv(environmentEnvVar, middlemark.Development),
		Port:      port,

		DatabaseURL: os.Getenv(databaseURLEnvVar),
		SentryDSN:   os.Getenv(sentryDsnEnvVar),

		GoogleClient:  os.Getenv(googleClientEnvVar),
		GoogleSecret:  os.Getenv(googleSecretEnvVar),
		JWTSigningKey: os.Getenv(jwtKeyEnvVar),

		SessionAuthKey:     os.Getenv(sessionAuthKeyEnvVar),
		SessionEncryptKey:  os.Getenv(sessionEncryptKeyEnvVar),
		SessionMaxAge:      middlemark.EnvVarOrInt(sessionMaxAgeEnvVar, defaultSessionMaxAge),
		SessionStorePass:   os.Getenv(sessionStorePassEnvVar),
		SessionStoreURI:    os.Getenv(sessionStoreURIEnvVar),
		ServerIdleTimeout:  middlemark.EnvVarOrDuration(serverIdleTimeoutEnvVar, defaultServerIdleTimeout),
		ServerReadTimeout:  middlemark.EnvVarOrDuration(serverReadTimeoutEnvVar, defaultServerReadTimeout),
		ServerWriteTimeout: middlemark.EnvVarOrDuration(serverWriteTimeoutEnvVar, defaultServerWriteTimeout),
	}
}
