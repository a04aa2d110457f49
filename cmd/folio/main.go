// Package main is the entry point for the folio portfolio API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"folio/internal/cache"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/handlers"
	"folio/internal/router"
	"folio/internal/storage"
	"folio/internal/store"
	"folio/internal/token"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// A local .env file is optional; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the admin account and sample projects in development (no-op if
	// data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache) when configured. The API
	// works without it; public responses are just served uncached.
	var projectCache *cache.ProjectCache
	if cfg.CacheEnabled() {
		projectCache, err = cache.Connect(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cache.DefaultProjectTTL)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer projectCache.Close()
	} else {
		slog.Warn("valkey not configured — public response caching disabled")
	}

	// Pick the upload backend: S3-compatible object storage when configured,
	// local disk otherwise. uploadDir stays empty with S3 so the router does
	// not mount the static file server.
	var fileStorage storage.Storage
	uploadDir := ""
	if cfg.S3Enabled() {
		fileStorage = storage.NewS3(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		fileStorage = storage.NewLocal(cfg.UploadDir, "/uploads")
		uploadDir = cfg.UploadDir
		slog.Info("local upload storage", "dir", cfg.UploadDir)
	}

	// Initialize data stores.
	projectStore := store.NewProjectStore(db)
	adminStore := store.NewAdminStore(db)

	// Bearer tokens are signed with the configured secret and expire after
	// the configured TTL.
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(adminStore, issuer)
	adminHandlers := handlers.NewAdmin(projectStore, projectCache, fileStorage)
	publicHandlers := handlers.NewPublic(projectStore, projectCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Options{
		Issuer:     issuer,
		Auth:       authHandlers,
		Admin:      adminHandlers,
		Public:     publicHandlers,
		CORSOrigin: cfg.CORSOrigin,
		UploadDir:  uploadDir,
	})

	// Create the HTTP server with sensible timeouts. WriteTimeout leaves
	// headroom for multipart uploads on slow links.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
