// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// AppConfig is the validated backend server configuration.
type AppConfig struct {
	Version         string // binary version, never read from file
	ListenAddr      string
	LogLevel        string
	EnvironmentFile string // optional path of the runtime environment record

	Database    DatabaseConfig
	Auth        AuthConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Cache       CacheConfig
	Redis       RedisConfig
	Telemetry   TelemetryConfig
	Maintenance MaintenanceConfig
}

// DatabaseConfig configures the SQLite drinks store.
type DatabaseConfig struct {
	Path         string
	BusyTimeout  time.Duration
	MaxOpenConns int
	Seed         bool // insert a sample drink into an empty table on startup
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	Domain     string // provider host, e.g. "dkhundley.auth0.com"
	Audience   string
	Algorithms []string
	JWKSTTL    time.Duration
	Leeway     time.Duration
}

// Issuer returns the expected "iss" claim for the configured domain.
func (a AuthConfig) Issuer() string {
	if a.Domain == "" {
		return ""
	}
	return "https://" + a.Domain + "/"
}

// JWKSURL returns the signing key set location for the configured domain.
func (a AuthConfig) JWKSURL() string {
	if a.Domain == "" {
		return ""
	}
	return "https://" + a.Domain + "/.well-known/jwks.json"
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig configures the per-IP sliding window limiter.
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// CacheConfig configures response caching.
type CacheConfig struct {
	DrinksTTL time.Duration
}

// RedisConfig selects the shared cache. An empty Addr keeps the cache in process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string // "grpc" or "http"
	Endpoint     string
	SamplingRate float64
}

// MaintenanceConfig holds cron specs for background maintenance. An empty spec
// disables the job.
type MaintenanceConfig struct {
	JWKSRefresh    string
	IntegrityCheck string
}

// FileConfig is the on-disk YAML shape of AppConfig. Pointer and string fields
// distinguish "unset" from zero values during merge.
type FileConfig struct {
	ListenAddr      string `yaml:"listenAddr,omitempty"`
	LogLevel        string `yaml:"logLevel,omitempty"`
	EnvironmentFile string `yaml:"environmentFile,omitempty"`

	Database    *DatabaseFile    `yaml:"database,omitempty"`
	Auth        *AuthFile        `yaml:"auth,omitempty"`
	CORS        *CORSFile        `yaml:"cors,omitempty"`
	RateLimit   *RateLimitFile   `yaml:"rateLimit,omitempty"`
	Cache       *CacheFile       `yaml:"cache,omitempty"`
	Redis       *RedisFile       `yaml:"redis,omitempty"`
	Telemetry   *TelemetryFile   `yaml:"telemetry,omitempty"`
	Maintenance *MaintenanceFile `yaml:"maintenance,omitempty"`
}

type DatabaseFile struct {
	Path         string `yaml:"path,omitempty"`
	BusyTimeout  string `yaml:"busyTimeout,omitempty"`
	MaxOpenConns *int   `yaml:"maxOpenConns,omitempty"`
	Seed         *bool  `yaml:"seed,omitempty"`
}

type AuthFile struct {
	Domain     string   `yaml:"domain,omitempty"`
	Audience   string   `yaml:"audience,omitempty"`
	Algorithms []string `yaml:"algorithms,omitempty"`
	JWKSTTL    string   `yaml:"jwksTTL,omitempty"`
	Leeway     string   `yaml:"leeway,omitempty"`
}

type CORSFile struct {
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

type RateLimitFile struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Requests *int   `yaml:"requests,omitempty"`
	Window   string `yaml:"window,omitempty"`
}

type CacheFile struct {
	DrinksTTL string `yaml:"drinksTTL,omitempty"`
}

type RedisFile struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       *int   `yaml:"db,omitempty"`
}

type TelemetryFile struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}

type MaintenanceFile struct {
	JWKSRefresh    *string `yaml:"jwksRefresh,omitempty"`
	IntegrityCheck *string `yaml:"integrityCheck,omitempty"`
}
