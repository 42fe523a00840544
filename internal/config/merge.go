// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"
	"time"
)

// mergeFileConfig overlays set file values onto cfg.
func mergeFileConfig(cfg *AppConfig, f *FileConfig) error {
	setString(&cfg.ListenAddr, f.ListenAddr)
	setString(&cfg.LogLevel, strings.ToLower(f.LogLevel))
	setString(&cfg.EnvironmentFile, f.EnvironmentFile)

	if d := f.Database; d != nil {
		setString(&cfg.Database.Path, d.Path)
		if err := setDuration(&cfg.Database.BusyTimeout, "database.busyTimeout", d.BusyTimeout); err != nil {
			return err
		}
		setPtr(&cfg.Database.MaxOpenConns, d.MaxOpenConns)
		setPtr(&cfg.Database.Seed, d.Seed)
	}

	if a := f.Auth; a != nil {
		setString(&cfg.Auth.Domain, a.Domain)
		setString(&cfg.Auth.Audience, a.Audience)
		if len(a.Algorithms) > 0 {
			cfg.Auth.Algorithms = append([]string(nil), a.Algorithms...)
		}
		if err := setDuration(&cfg.Auth.JWKSTTL, "auth.jwksTTL", a.JWKSTTL); err != nil {
			return err
		}
		if err := setDuration(&cfg.Auth.Leeway, "auth.leeway", a.Leeway); err != nil {
			return err
		}
	}

	if c := f.CORS; c != nil && len(c.AllowedOrigins) > 0 {
		cfg.CORS.AllowedOrigins = append([]string(nil), c.AllowedOrigins...)
	}

	if r := f.RateLimit; r != nil {
		setPtr(&cfg.RateLimit.Enabled, r.Enabled)
		setPtr(&cfg.RateLimit.Requests, r.Requests)
		if err := setDuration(&cfg.RateLimit.Window, "rateLimit.window", r.Window); err != nil {
			return err
		}
	}

	if c := f.Cache; c != nil {
		if err := setDuration(&cfg.Cache.DrinksTTL, "cache.drinksTTL", c.DrinksTTL); err != nil {
			return err
		}
	}

	if r := f.Redis; r != nil {
		setString(&cfg.Redis.Addr, r.Addr)
		setString(&cfg.Redis.Password, r.Password)
		setPtr(&cfg.Redis.DB, r.DB)
	}

	if t := f.Telemetry; t != nil {
		setPtr(&cfg.Telemetry.Enabled, t.Enabled)
		setString(&cfg.Telemetry.Exporter, t.Exporter)
		setString(&cfg.Telemetry.Endpoint, t.Endpoint)
		setPtr(&cfg.Telemetry.SamplingRate, t.SamplingRate)
	}

	if m := f.Maintenance; m != nil {
		// Pointers so that an explicit "" disables a job.
		setPtr(&cfg.Maintenance.JWKSRefresh, m.JWKSRefresh)
		setPtr(&cfg.Maintenance.IntegrityCheck, m.IntegrityCheck)
	}

	return nil
}

// ToFileConfig maps cfg back to its YAML shape. Binary-only fields are
// omitted.
func ToFileConfig(cfg AppConfig) FileConfig {
	return FileConfig{
		ListenAddr:      cfg.ListenAddr,
		LogLevel:        cfg.LogLevel,
		EnvironmentFile: cfg.EnvironmentFile,
		Database: &DatabaseFile{
			Path:         cfg.Database.Path,
			BusyTimeout:  cfg.Database.BusyTimeout.String(),
			MaxOpenConns: ptr(cfg.Database.MaxOpenConns),
			Seed:         ptr(cfg.Database.Seed),
		},
		Auth: &AuthFile{
			Domain:     cfg.Auth.Domain,
			Audience:   cfg.Auth.Audience,
			Algorithms: cfg.Auth.Algorithms,
			JWKSTTL:    cfg.Auth.JWKSTTL.String(),
			Leeway:     cfg.Auth.Leeway.String(),
		},
		CORS: &CORSFile{AllowedOrigins: cfg.CORS.AllowedOrigins},
		RateLimit: &RateLimitFile{
			Enabled:  ptr(cfg.RateLimit.Enabled),
			Requests: ptr(cfg.RateLimit.Requests),
			Window:   cfg.RateLimit.Window.String(),
		},
		Cache: &CacheFile{DrinksTTL: cfg.Cache.DrinksTTL.String()},
		Redis: &RedisFile{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       ptr(cfg.Redis.DB),
		},
		Telemetry: &TelemetryFile{
			Enabled:      ptr(cfg.Telemetry.Enabled),
			Exporter:     cfg.Telemetry.Exporter,
			Endpoint:     cfg.Telemetry.Endpoint,
			SamplingRate: ptr(cfg.Telemetry.SamplingRate),
		},
		Maintenance: &MaintenanceFile{
			JWKSRefresh:    ptr(cfg.Maintenance.JWKSRefresh),
			IntegrityCheck: ptr(cfg.Maintenance.IntegrityCheck),
		},
	}
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, field, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, raw, err)
	}
	*dst = d
	return nil
}

func ptr[T any](v T) *T { return &v }
