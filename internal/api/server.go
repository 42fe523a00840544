// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api implements the HTTP API of the coffee shop backend.
package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/ManuGH/coffeeshop/internal/api/middleware"
	"github.com/ManuGH/coffeeshop/internal/auth"
	"github.com/ManuGH/coffeeshop/internal/config"
	"github.com/ManuGH/coffeeshop/internal/drinks"
	"github.com/ManuGH/coffeeshop/internal/health"
	"github.com/ManuGH/coffeeshop/internal/log"
)

// Route permissions.
const (
	PermissionGetDrinksDetail = "get:drinks-detail"
	PermissionPostDrinks      = "post:drinks"
	PermissionPatchDrinks     = "patch:drinks"
	PermissionDeleteDrinks    = "delete:drinks"
)

// DrinkService is the drinks use case layer the handlers depend on.
type DrinkService interface {
	ListShort(ctx context.Context) ([]drinks.ShortDrink, error)
	ListLong(ctx context.Context) ([]drinks.Drink, error)
	Create(ctx context.Context, body []byte) (drinks.Drink, error)
	Update(ctx context.Context, id int64, body []byte) (drinks.Drink, error)
	Delete(ctx context.Context, id int64) error
	SetCacheTTL(ttl time.Duration)
}

// Deps are the collaborators of a Server.
type Deps struct {
	Drinks   DrinkService
	Verifier auth.TokenVerifier
	Health   *health.Manager
	// Metrics serves /metrics; nil leaves the route unregistered.
	Metrics http.Handler
	// TracingService names the server spans; empty disables tracing.
	TracingService string
}

// Server serves the drinks API from the current configuration snapshot.
type Server struct {
	mu   sync.RWMutex
	snap config.Snapshot

	drinks   DrinkService
	verifier auth.TokenVerifier
	health   *health.Manager
	metrics  http.Handler
	origins  *middleware.Origins

	handler     http.Handler
	handlerOnce sync.Once
	tracing     string
}

// New creates a Server for snap.
func New(snap config.Snapshot, deps Deps) (*Server, error) {
	if deps.Drinks == nil {
		return nil, errors.New("api: drinks service is required")
	}
	if deps.Verifier == nil {
		return nil, errors.New("api: token verifier is required")
	}
	hm := deps.Health
	if hm == nil {
		hm = health.NewManager(snap.App.Version, snap.Environment.Mode())
	}
	return &Server{
		snap:     snap,
		drinks:   deps.Drinks,
		verifier: deps.Verifier,
		health:   hm,
		metrics:  deps.Metrics,
		origins:  middleware.NewOrigins(snap.App.CORS.AllowedOrigins),
		tracing:  deps.TracingService,
	}, nil
}

// Handler returns the root handler. It is built once; later snapshots only
// change the hot-reloadable settings.
func (s *Server) Handler() http.Handler {
	s.handlerOnce.Do(func() {
		s.handler = s.routes()
	})
	return s.handler
}

// Snapshot returns the snapshot currently applied.
func (s *Server) Snapshot() config.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// ApplySnapshot applies the hot-reloadable parts of snap: the CORS allowlist,
// the log level and the drinks cache TTL. Other changes need a restart.
func (s *Server) ApplySnapshot(snap config.Snapshot) {
	s.mu.Lock()
	old := s.snap
	s.snap = snap
	s.mu.Unlock()

	logger := log.WithComponent("api")

	if !slices.Equal(old.App.CORS.AllowedOrigins, snap.App.CORS.AllowedOrigins) {
		s.origins.Set(snap.App.CORS.AllowedOrigins)
		logger.Info().
			Str(log.FieldEvent, "cors.updated").
			Strs("origins", s.origins.List()).
			Msg("CORS allowlist updated")
	}
	if old.App.LogLevel != snap.App.LogLevel {
		if err := log.SetLevel(snap.App.LogLevel); err != nil {
			logger.Warn().Err(err).Str(log.FieldEvent, "log.level_invalid").Msg("keeping previous log level")
		}
	}
	if old.App.Cache.DrinksTTL != snap.App.Cache.DrinksTTL {
		s.drinks.SetCacheTTL(snap.App.Cache.DrinksTTL)
	}
	logger.Debug().
		Str(log.FieldEvent, "config.applied").
		Uint64("epoch", snap.Epoch).
		Msg("configuration snapshot applied")
}
