// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// folio API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/token"
)

// loginRateLimit bounds login attempts per client IP per minute.
const loginRateLimit = 10

// Options carries the router's dependencies and settings.
type Options struct {
	Issuer     *token.Issuer
	Auth       *handlers.Auth
	Admin      *handlers.Admin
	Public     *handlers.Public
	CORSOrigin string

	// UploadDir, when non-empty, mounts a static file server for locally
	// stored uploads under /uploads. Left empty with S3 storage, where the
	// bucket serves files directly.
	UploadDir string
}

// New creates and returns the configured chi router with all middleware
// and route groups wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Public read-only API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", opts.Public.List)
		r.Get("/projects/{slug}", opts.Public.BySlug)

		r.Route("/admin", func(r chi.Router) {
			// Login is rate-limited but not authenticated.
			loginLimiter := middleware.NewRateLimiter(loginRateLimit, time.Minute)
			r.With(loginLimiter.Middleware).Post("/login", opts.Auth.Login)

			// Everything else requires a verified bearer token; the
			// middleware rejects before any handler or store is reached.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(opts.Issuer))

				r.Route("/projects", func(r chi.Router) {
					r.Get("/", opts.Admin.List)
					r.Post("/", opts.Admin.Create)
					r.Get("/{id}", opts.Admin.Get)
					r.Put("/{id}", opts.Admin.Update)
					r.Delete("/{id}", opts.Admin.Delete)
					r.Patch("/{id}/publish", opts.Admin.TogglePublish)
				})

				r.Post("/upload", opts.Admin.Upload)

				r.Route("/2fa", func(r chi.Router) {
					r.Post("/setup", opts.Auth.TwoFASetup)
					r.Post("/activate", opts.Auth.TwoFAActivate)
				})
			})
		})
	})

	// Locally stored uploads (thumbnails) are served as static files.
	if opts.UploadDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir)))
		r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
			fileServer.ServeHTTP(w, r)
		})
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
