// Package main starts the shipping dashboard backend: configuration,
// logging, the PostgreSQL store, token issuing and the HTTP(S) API.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/shipdash/internal/config"
	"github.com/atinyakov/shipdash/internal/db"
	"github.com/atinyakov/shipdash/internal/logger"
	"github.com/atinyakov/shipdash/internal/repository"
	"github.com/atinyakov/shipdash/internal/server/handler/http"
	"github.com/atinyakov/shipdash/internal/service"
	"github.com/atinyakov/shipdash/internal/token"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Purge soft-deleted users in the background.
	cleanerDone := db.StartSoftDeleteCleaner(ctx, postgresDB,
		time.Duration(options.CleanInterval),
		time.Duration(options.Retention),
		zapLogger,
	)

	issuer, err := token.NewIssuer(options.TokenSecret, time.Duration(options.TokenTTL))
	if err != nil {
		zapLogger.Fatal("cannot init token issuer", zap.Error(err))
	}

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	collectionRepo := repository.NewPostgresCollectionRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, issuer)
	userService := service.NewUserService(userRepo)
	syncService := service.NewSyncService(collectionRepo, userRepo)

	seeded, err := userService.SeedAdmin(ctx, options.AdminUsername, options.AdminPassword)
	if err != nil {
		zapLogger.Fatal("cannot seed admin", zap.Error(err))
	}
	if seeded {
		zapLogger.Info("created initial admin", zap.String("username", options.AdminUsername))
	}

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService}
	syncHandler := &http.SyncHandler{SyncService: syncService}
	usersHandler := &http.UsersHandler{UserService: userService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, syncHandler, usersHandler, issuer, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("shutdown", zap.Error(err))
		}
	}()

	if options.TLSCert != "" {
		server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Port))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
	<-cleanerDone
}
