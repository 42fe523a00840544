// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package daemon provides the core daemon bootstrapping and lifecycle management.
package daemon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/coffeeshop/internal/api"
	"github.com/ManuGH/coffeeshop/internal/auth"
	"github.com/ManuGH/coffeeshop/internal/cache"
	"github.com/ManuGH/coffeeshop/internal/config"
	"github.com/ManuGH/coffeeshop/internal/drinks"
	"github.com/ManuGH/coffeeshop/internal/health"
	xglog "github.com/ManuGH/coffeeshop/internal/log"
	"github.com/ManuGH/coffeeshop/internal/persistence/sqlite"
	"github.com/ManuGH/coffeeshop/internal/telemetry"
)

// ServiceName identifies the daemon in traces and logs.
const ServiceName = "coffeeshop"

// jwksWarmupTimeout bounds the initial signing key fetch at startup.
const jwksWarmupTimeout = 5 * time.Second

// Options configure Build.
type Options struct {
	Snapshot config.Snapshot
	// Holder enables hot reload; nil runs with Snapshot only.
	Holder *config.ConfigHolder
	Logger zerolog.Logger
	// Server overrides the HTTP server settings derived from the snapshot.
	Server *ServerConfig
}

// Build opens every runtime dependency for opts.Snapshot and wires them into
// an App. Resources opened before a failure are released.
func Build(ctx context.Context, opts Options) (*App, error) {
	app := opts.Snapshot.App
	env := opts.Snapshot.Environment
	logger := opts.Logger

	var closers []func(context.Context) error
	fail := func(err error) (*App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i](ctx)
		}
		return nil, err
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        app.Telemetry.Enabled,
		ServiceName:    ServiceName,
		ServiceVersion: app.Version,
		Environment:    env.Mode(),
		ExporterType:   app.Telemetry.Exporter,
		Endpoint:       app.Telemetry.Endpoint,
		SamplingRate:   app.Telemetry.SamplingRate,
	})
	if err != nil {
		logger.Warn().Err(err).Str(xglog.FieldEvent, "telemetry.init_failed").Msg("telemetry initialization failed, continuing without tracing")
		tp = nil
	} else {
		closers = append(closers, tp.Shutdown)
		if app.Telemetry.Enabled {
			logger.Info().
				Str("exporter", app.Telemetry.Exporter).
				Str("endpoint", app.Telemetry.Endpoint).
				Float64("sampling_rate", app.Telemetry.SamplingRate).
				Msg("Telemetry initialized")
		}
	}

	if app.Database.Path != sqlite.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(app.Database.Path), 0o750); err != nil {
			return fail(fmt.Errorf("create database directory: %w", err))
		}
	}
	db, err := sqlite.Open(ctx, app.Database.Path, sqlite.Config{
		BusyTimeout:  app.Database.BusyTimeout,
		MaxOpenConns: app.Database.MaxOpenConns,
	})
	if err != nil {
		return fail(fmt.Errorf("open database: %w", err))
	}
	closers = append(closers, func(context.Context) error { return db.Close() })

	if err := drinks.Migrate(ctx, db, logger); err != nil {
		return fail(err)
	}
	store := drinks.NewSQLiteStore(db)
	if app.Database.Seed {
		seeded, err := store.Seed(ctx)
		if err != nil {
			return fail(fmt.Errorf("seed drinks: %w", err))
		}
		if seeded {
			logger.Info().Str(xglog.FieldEvent, "drinks.seeded").Msg("seeded empty drinks table")
		}
	}

	c, err := cache.New(ctx, cache.RedisConfig{
		Addr:     app.Redis.Addr,
		Password: app.Redis.Password,
		DB:       app.Redis.DB,
	}, logger)
	if err != nil {
		return fail(fmt.Errorf("open cache: %w", err))
	}
	closers = append(closers, func(context.Context) error { return c.Close() })

	jwks := auth.NewJWKSCache(app.Auth.JWKSURL(), app.Auth.JWKSTTL)
	warmCtx, cancel := context.WithTimeout(ctx, jwksWarmupTimeout)
	if err := jwks.Refresh(warmCtx); err != nil {
		logger.Warn().Err(err).Str(xglog.FieldEvent, "jwks.warmup_failed").Str("url", jwks.URL()).
			Msg("signing keys unavailable at startup, will retry on demand")
	}
	cancel()
	verifier := auth.NewVerifier(jwks, auth.VerifierConfig{
		Issuer:     app.Auth.Issuer(),
		Audience:   app.Auth.Audience,
		Algorithms: app.Auth.Algorithms,
		Leeway:     app.Auth.Leeway,
	})

	svc := drinks.NewService(store, c, app.Cache.DrinksTTL)

	hm := health.NewManager(app.Version, env.Mode())
	hm.RegisterChecker(health.NewPingChecker("sqlite", store.Ping))
	hm.RegisterChecker(health.NewOptionalPingChecker("cache", c.Ping))
	hm.RegisterChecker(health.NewKeySetChecker(jwks))

	srv, err := api.New(opts.Snapshot, api.Deps{
		Drinks:         svc,
		Verifier:       verifier,
		Health:         hm,
		Metrics:        promhttp.Handler(),
		TracingService: ServiceName + "-api",
	})
	if err != nil {
		return fail(err)
	}

	serverCfg := DefaultServerConfig(app.ListenAddr)
	if opts.Server != nil {
		serverCfg = *opts.Server
	}
	mgr, err := NewManager(serverCfg, Deps{Logger: logger, APIHandler: srv.Handler()})
	if err != nil {
		return fail(err)
	}
	// LIFO: the cache closes first, the tracer provider last.
	if tp != nil {
		mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	}
	mgr.RegisterShutdownHook("sqlite", func(context.Context) error { return db.Close() })
	mgr.RegisterShutdownHook("cache", func(context.Context) error { return c.Close() })

	maint := NewMaintenance(logger)
	if err := maint.Add("jwks_refresh", app.Maintenance.JWKSRefresh, jwks.Refresh); err != nil {
		return fail(err)
	}
	if err := maint.Add("sqlite_integrity", app.Maintenance.IntegrityCheck, integrityJob(db)); err != nil {
		return fail(err)
	}

	return NewApp(logger, mgr, opts.Holder, srv, maint), nil
}

func integrityJob(db *sql.DB) JobFunc {
	return func(ctx context.Context) error {
		problems, err := sqlite.VerifyIntegrity(ctx, db, "quick")
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			return errors.New("integrity check: " + strings.Join(problems, "; "))
		}
		return nil
	}
}
