// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"testing"
	"time"

	"github.com/ManuGH/coffeeshop/internal/validate"
)

func validConfig() AppConfig {
	cfg := Defaults()
	cfg.Auth.Domain = "dkhundley.auth0.com"
	cfg.Auth.Audience = "coffeeshop"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate(defaults) = %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*AppConfig)
		field string
	}{
		{"listen addr", func(c *AppConfig) { c.ListenAddr = "nope" }, "listenAddr"},
		{"log level", func(c *AppConfig) { c.LogLevel = "verbose" }, "logLevel"},
		{"db path traversal", func(c *AppConfig) { c.Database.Path = "../etc/db" }, "database.path"},
		{"max open conns", func(c *AppConfig) { c.Database.MaxOpenConns = 0 }, "database.maxOpenConns"},
		{"missing domain", func(c *AppConfig) { c.Auth.Domain = "" }, "auth.domain"},
		{"missing audience", func(c *AppConfig) { c.Auth.Audience = "" }, "auth.audience"},
		{"symmetric algorithm", func(c *AppConfig) { c.Auth.Algorithms = []string{"HS256"} }, "auth.algorithms[0]"},
		{"no algorithms", func(c *AppConfig) { c.Auth.Algorithms = nil }, "auth.algorithms"},
		{"jwks ttl", func(c *AppConfig) { c.Auth.JWKSTTL = time.Second }, "auth.jwksTTL"},
		{"cors origin with path", func(c *AppConfig) { c.CORS.AllowedOrigins = []string{"https://a.example/app"} }, "cors.allowedOrigins[0]"},
		{"rate limit requests", func(c *AppConfig) { c.RateLimit.Requests = 0 }, "rateLimit.requests"},
		{"redis addr", func(c *AppConfig) { c.Redis.Addr = "localhost" }, "redis.addr"},
		{"exporter", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "zipkin"
		}, "telemetry.exporter"},
		{"sampling", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.SamplingRate = 2
		}, "telemetry.samplingRate"},
		{"cron", func(c *AppConfig) { c.Maintenance.JWKSRefresh = "every now and then" }, "maintenance.jwksRefresh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mut(&cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			var ve validate.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error type = %T, want validate.ValidationError", err)
			}
			found := false
			for _, f := range ve.Fields() {
				if f == tt.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("fields = %v, want %q", ve.Fields(), tt.field)
			}
		})
	}
}

func TestValidate_DisabledSectionsSkipChecks(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.Requests = 0
	cfg.Telemetry.Enabled = false
	cfg.Telemetry.Exporter = "zipkin"
	cfg.Maintenance.IntegrityCheck = ""
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}
