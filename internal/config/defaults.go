// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// Default values applied before the file and ENV layers.
const (
	DefaultListenAddr      = ":5000"
	DefaultLogLevel        = "info"
	DefaultDBPath          = "data/database.db"
	DefaultDBBusyTimeout   = 5 * time.Second
	DefaultDBMaxOpenConns  = 10
	DefaultAlgorithm       = "RS256"
	DefaultJWKSTTL         = time.Hour
	DefaultLeeway          = 30 * time.Second
	DefaultRateLimit       = 600
	DefaultRateLimitWindow = time.Minute
	DefaultDrinksTTL       = 30 * time.Second
	DefaultOTelExporter    = "grpc"
	DefaultOTelEndpoint    = "localhost:4317"
	DefaultSamplingRate    = 1.0
	DefaultJWKSRefresh     = "@every 30m"
	DefaultIntegrityCheck  = "0 4 * * *"
)

func setDefaults(cfg *AppConfig) {
	cfg.ListenAddr = DefaultListenAddr
	cfg.LogLevel = DefaultLogLevel

	cfg.Database = DatabaseConfig{
		Path:         DefaultDBPath,
		BusyTimeout:  DefaultDBBusyTimeout,
		MaxOpenConns: DefaultDBMaxOpenConns,
	}
	cfg.Auth = AuthConfig{
		Algorithms: []string{DefaultAlgorithm},
		JWKSTTL:    DefaultJWKSTTL,
		Leeway:     DefaultLeeway,
	}
	cfg.RateLimit = RateLimitConfig{
		Enabled:  true,
		Requests: DefaultRateLimit,
		Window:   DefaultRateLimitWindow,
	}
	cfg.Cache = CacheConfig{DrinksTTL: DefaultDrinksTTL}
	cfg.Telemetry = TelemetryConfig{
		Exporter:     DefaultOTelExporter,
		Endpoint:     DefaultOTelEndpoint,
		SamplingRate: DefaultSamplingRate,
	}
	cfg.Maintenance = MaintenanceConfig{
		JWKSRefresh:    DefaultJWKSRefresh,
		IntegrityCheck: DefaultIntegrityCheck,
	}
}

// Defaults returns a configuration holding only default values. Provider
// settings remain empty until derived from an environment record.
func Defaults() AppConfig {
	var cfg AppConfig
	setDefaults(&cfg)
	return cfg
}
