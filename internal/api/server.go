// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lequangminh/taskora/internal/auth"
	"github.com/lequangminh/taskora/internal/platform/config"
	"github.com/lequangminh/taskora/internal/platform/constants"
	"github.com/lequangminh/taskora/internal/platform/middleware"
	"github.com/lequangminh/taskora/internal/platform/ratelimit"
	"github.com/lequangminh/taskora/internal/todo"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the session lifecycle (register, login, refresh, logout)
	// plus the authenticated profile endpoint.
	Auth *auth.Handler

	// Todo handles the owner-scoped task CRUD.
	Todo *todo.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, limiter *ratelimit.Limiter, h Handlers) *Server {
	r := chi.NewRouter()

	defaultPolicy := ratelimit.Policy{
		Name:   "default",
		Limit:  cfg.DefaultRateLimit,
		Window: cfg.RateLimitWindow,
	}

	authenticate := middleware.Authenticate(verifier, middleware.AuthOptions{
		LegacyHeaderFallback: cfg.LegacyHeaderFallback,
	})

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.RateLimit(limiter, defaultPolicy))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.TrustedOrigins))
	r.Use(middleware.OriginGuard(cfg.TrustedOrigins))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {

		// Session lifecycle endpoints verify credentials or the refresh
		// cookie themselves. Token verification must NOT gate them: a client
		// holding a stale access cookie (secret rotation, expiry) still has
		// to be able to log in, refresh, and log out.
		api.Mount("/auth", h.Auth.Routes())

		api.Group(func(protected chi.Router) {
			protected.Use(authenticate)

			protected.Mount("/todos", h.Todo.Routes())
			protected.With(middleware.RequireAuth).Get("/users/me", h.Auth.Me)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
