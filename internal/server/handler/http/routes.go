package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/MitchellAV/mern-logging-app/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the API.
//
// Routes:
//
//	POST /auth/signup           → authHandler.SignUp
//	POST /auth/login            → authHandler.Login
//	GET  /auth/google           → authHandler.Google
//	GET  /auth/google/callback  → authHandler.GoogleCallback
//	GET  /auth/logout           → authHandler.Logout
//	GET  /posts                 → postHandler.Public
//	POST /posts                 → postHandler.Create   (cookie auth)
//	GET  /posts/mine            → postHandler.Mine     (cookie auth)
//
// corsOrigin is the browser origin allowed to send credentialed requests;
// tokenParser backs the cookie-auth middleware on the protected group.
func NewRouter(
	authHandler *AuthHandler,
	postHandler *PostHandler,
	logger *zap.Logger,
	corsOrigin string,
	tokenParser middleware.TokenParser,
) http.Handler {
	r := chi.NewRouter()

	// The cookie-based session requires credentialed CORS.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	// Only allow bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/login", authHandler.Login)
		r.Get("/google", authHandler.Google)
		r.Get("/google/callback", authHandler.GoogleCallback)
		r.Get("/logout", authHandler.Logout)
	})

	r.Route("/posts", func(r chi.Router) {
		// Public listing
		r.Get("/", postHandler.Public)

		// Protected group: requires a valid session cookie
		r.Group(func(r chi.Router) {
			r.Use(middleware.CookieAuth(authHandler.Cookie.Name, tokenParser))
			r.Post("/", postHandler.Create)
			r.Get("/mine", postHandler.Mine)
		})
	})

	return r
}
