// Package config provides functionality for managing configuration options
// for the application from environment variables and an optional .env file.
package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `env:"SERVER_ADDRESS" envDefault:"localhost:8080"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `env:"DATABASE_DSN"`

	// JWTSecret is the HMAC key used to sign session tokens. Required.
	JWTSecret string `env:"JWT_SECRET_KEY"`

	// TokenTTL is how long an issued session token and its cookie stay
	// valid. A policy value, deliberately not a constant.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// CookieName is the name of the session cookie.
	CookieName string `env:"COOKIE_NAME" envDefault:"token"`

	// CookieSecure marks the session cookie Secure when true.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`

	// FrontendURL is where logout and OAuth failures redirect to.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// DashboardURL is where a successful OAuth login redirects to.
	DashboardURL string `env:"DASHBOARD_URL" envDefault:"http://localhost:3000/dashboard"`

	// CORSOrigin is the allowed browser origin.
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`

	// GoogleClientID identifies the app to Google's OAuth endpoints.
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	// GoogleClientSecret authenticates the token exchange.
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// GoogleRedirectURL is the registered callback URL.
	GoogleRedirectURL string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:8080/auth/google/callback"`
}

// Parse loads an optional .env file and then reads configuration from the
// environment. It returns an error when a required value is missing so the
// caller can refuse to start.
func Parse() (*Options, error) {
	// Missing .env is fine in production, values come from the real env.
	_ = godotenv.Load()

	options := &Options{}
	if err := env.Parse(options); err != nil {
		return nil, err
	}

	if options.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET_KEY is required")
	}
	if options.DatabaseDSN == "" {
		return nil, errors.New("DATABASE_DSN is required")
	}
	if options.TokenTTL <= 0 {
		return nil, errors.New("TOKEN_TTL must be positive")
	}

	return options, nil
}
