// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/coffeeshop/internal/api/middleware"
	"github.com/ManuGH/coffeeshop/internal/auth"
)

// maxBodyBytes bounds drink payloads.
const maxBodyBytes = 1 << 20

func (s *Server) newRouter() chi.Router {
	snap := s.Snapshot()
	rl := middleware.RateLimitConfig{}
	if snap.App.RateLimit.Enabled {
		rl.RequestLimit = snap.App.RateLimit.Requests
		rl.WindowSize = snap.App.RateLimit.Window
	}
	return middleware.NewRouter(middleware.StackConfig{
		Origins: s.origins,

		EnableSecurityHeaders: true,
		CSP:                   middleware.DefaultCSP,

		EnableMetrics:  true,
		TracingService: s.tracing,
		EnableLogging:  true,

		RateLimit: rl,
	})
}

func (s *Server) routes() http.Handler {
	r := s.newRouter()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) { writeNotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Public
	r.Get("/drinks", s.handleListDrinks)
	r.Get("/environment", s.handleEnvironment)
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	// Permission scoped
	r.With(auth.Middleware(s.verifier, PermissionGetDrinksDetail)).Get("/drinks-detail", s.handleListDrinksDetail)
	r.With(auth.Middleware(s.verifier, PermissionPostDrinks)).Post("/drinks", s.handleCreateDrink)
	r.With(auth.Middleware(s.verifier, PermissionPatchDrinks)).Patch("/drinks/{id}", s.handleUpdateDrink)
	r.With(auth.Middleware(s.verifier, PermissionDeleteDrinks)).Delete("/drinks/{id}", s.handleDeleteDrink)

	return r
}
