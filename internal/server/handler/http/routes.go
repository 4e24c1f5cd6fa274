package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/shipdash/internal/authz"
	"github.com/atinyakov/shipdash/internal/middleware"
	"github.com/atinyakov/shipdash/internal/models"
	"github.com/atinyakov/shipdash/internal/service"
)

// NewRouter constructs the HTTP handler that serves the dashboard API.
//
// Parameters:
//
//	authHandler  - handler for login and token verification
//	syncHandler  - handler for collection download and upload
//	usersHandler - handler for account management
//	tokens       - verifier for bearer tokens
//	logger       - structured logger for request logging middleware
//
// Routes:
//
//	GET    /api/health          → 200 {"status":"ok"}
//	POST   /api/auth/login      → authHandler.Login
//	GET    /api/auth/me         → authHandler.Me (bearer)
//	GET    /api/sync/data       → syncHandler.Data
//	POST   /api/sync/upload     → syncHandler.Upload (bearer)
//	GET    /api/users           → usersHandler.List (bearer, admin)
//	POST   /api/users           → usersHandler.Create (bearer, admin)
//	PUT    /api/users/{id}      → usersHandler.Update (bearer, admin)
//	DELETE /api/users/{id}      → usersHandler.Delete (bearer, admin)
//
// The admin check on /users uses the account's current role as reported
// by authHandler's AuthService, not the role in the token.
//
// Middleware chain (applied in order):
//  1. RequestID, RealIP
//  2. AllowContentType("application/json") for requests with a body
//  3. WithRequestLogging(logger)
//  4. Recoverer
func NewRouter(
	authHandler *AuthHandler,
	syncHandler *SyncHandler,
	usersHandler *UsersHandler,
	tokens middleware.TokenParser,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Post("/auth/login", authHandler.Login)
		r.Get("/sync/data", syncHandler.Data)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(tokens))
			r.Get("/auth/me", authHandler.Me)
			r.Post("/sync/upload", syncHandler.Upload)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAccess(authz.UserManagement, currentAccount(authHandler.AuthService)))
				r.Get("/", usersHandler.List)
				r.Post("/", usersHandler.Create)
				r.Put("/{id}", usersHandler.Update)
				r.Delete("/{id}", usersHandler.Delete)
			})
		})
	})

	return r
}

// currentAccount resolves a token identity through AuthService.Me.
func currentAccount(auth AuthService) middleware.AccountResolver {
	return middleware.AccountResolverFunc(func(ctx context.Context, id models.Identity) (*models.Identity, error) {
		cur, err := auth.Me(ctx, id)
		if errors.Is(err, service.ErrInvalidCredentials) {
			return nil, middleware.ErrAccountGone
		}
		return cur, err
	})
}
