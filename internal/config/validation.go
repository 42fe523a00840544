// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ManuGH/coffeeshop/internal/validate"
)

// SupportedAlgorithms lists the JWT signing algorithms the verifier accepts.
// Symmetric algorithms are deliberately absent: the provider signs with RS256.
var SupportedAlgorithms = []string{"RS256"}

// SupportedExporters lists the OTLP exporter transports.
var SupportedExporters = []string{"grpc", "http"}

// Validate validates the configuration using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.ListenAddr("listenAddr", cfg.ListenAddr)
	v.OneOf("logLevel", cfg.LogLevel, validate.LogLevels)

	// Database
	v.FilePath("database.path", cfg.Database.Path)
	v.MinDuration("database.busyTimeout", cfg.Database.BusyTimeout, 0)
	v.Range("database.maxOpenConns", cfg.Database.MaxOpenConns, 1, 256)

	// Auth
	v.NotEmpty("auth.domain", cfg.Auth.Domain)
	if cfg.Auth.Domain != "" {
		v.URL("auth.domain", cfg.Auth.Issuer(), []string{"https"})
	}
	v.NotEmpty("auth.audience", cfg.Auth.Audience)
	if len(cfg.Auth.Algorithms) == 0 {
		v.AddError("auth.algorithms", "at least one algorithm is required", cfg.Auth.Algorithms)
	}
	for i, alg := range cfg.Auth.Algorithms {
		v.OneOf(fmt.Sprintf("auth.algorithms[%d]", i), alg, SupportedAlgorithms)
	}
	v.MinDuration("auth.jwksTTL", cfg.Auth.JWKSTTL, time.Minute)
	v.MinDuration("auth.leeway", cfg.Auth.Leeway, 0)

	// CORS
	for i, origin := range cfg.CORS.AllowedOrigins {
		v.Origin(fmt.Sprintf("cors.allowedOrigins[%d]", i), origin)
	}

	// Rate limit
	if cfg.RateLimit.Enabled {
		v.Positive("rateLimit.requests", cfg.RateLimit.Requests)
		v.MinDuration("rateLimit.window", cfg.RateLimit.Window, time.Second)
	}

	// Cache
	v.MinDuration("cache.drinksTTL", cfg.Cache.DrinksTTL, 0)

	// Redis
	if cfg.Redis.Addr != "" {
		v.HostPort("redis.addr", cfg.Redis.Addr)
		v.Range("redis.db", cfg.Redis.DB, 0, 15)
	}

	// Telemetry
	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, SupportedExporters)
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	// Maintenance
	validateCronSpec(v, "maintenance.jwksRefresh", cfg.Maintenance.JWKSRefresh)
	validateCronSpec(v, "maintenance.integrityCheck", cfg.Maintenance.IntegrityCheck)

	return v.Err()
}

func validateCronSpec(v *validate.Validator, field, spec string) {
	if strings.TrimSpace(spec) == "" {
		return
	}
	v.Custom(field, spec, func(any) error {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid cron spec: %w", err)
		}
		return nil
	})
}
