// Package main initializes and starts the API server, setting up
// configuration, logging, the database connection, repositories, services
// and HTTP handlers.
package main

import (
	"fmt"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/MitchellAV/mern-logging-app/internal/auth"
	"github.com/MitchellAV/mern-logging-app/internal/config"
	"github.com/MitchellAV/mern-logging-app/internal/db"
	"github.com/MitchellAV/mern-logging-app/internal/logger"
	"github.com/MitchellAV/mern-logging-app/internal/oauth"
	"github.com/MitchellAV/mern-logging-app/internal/repository"
	"github.com/MitchellAV/mern-logging-app/internal/server/handler/http"
	"github.com/MitchellAV/mern-logging-app/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// or returns the first of its arguments that is not the empty string.
// Equivalent to cmp.Or for strings, which requires Go 1.22.
func or(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func main() {
	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", or(version, "N/A"))
	fmt.Printf("Build date: %s\n", or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("info"); err != nil {
		panic(err)
	}
	zapLogger := log.Log

	// Load configuration from the environment.
	options, err := config.Parse()
	if err != nil {
		zapLogger.Fatal("invalid configuration", zap.Error(err))
	}

	// Initialize the PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	postRepo := repository.NewPostgresPostRepository(postgresDB)

	// Initialize the auth primitives: hashing and token signing.
	hasher := auth.NewPasswordHasher(0)
	tokens := auth.NewTokenIssuer([]byte(options.JWTSecret), options.TokenTTL)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, hasher, tokens)
	postService := service.NewPostService(postRepo)

	// Configure the external identity provider.
	googleClient := oauth.New(oauth.Config{
		ClientID:     options.GoogleClientID,
		ClientSecret: options.GoogleClientSecret,
		RedirectURL:  options.GoogleRedirectURL,
	})

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{
		AuthService: authService,
		OAuth:       googleClient,
		Cookie: http.CookieConfig{
			Name:   options.CookieName,
			Secure: options.CookieSecure,
			TTL:    options.TokenTTL,
		},
		FrontendURL:  options.FrontendURL,
		DashboardURL: options.DashboardURL,
		Logger:       zapLogger,
	}
	postHandler := &http.PostHandler{PostService: postService, Logger: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, postHandler, zapLogger, options.CORSOrigin, tokens)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
