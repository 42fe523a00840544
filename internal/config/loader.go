// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ManuGH/coffeeshop/internal/environment"
)

// Environment variables overriding the server configuration.
const (
	EnvListenAddr      = "COFFEESHOP_LISTEN"
	EnvLogLevel        = "COFFEESHOP_LOG_LEVEL"
	EnvEnvironmentFile = "COFFEESHOP_ENVIRONMENT_FILE"

	EnvDBPath         = "COFFEESHOP_DB_PATH"
	EnvDBBusyTimeout  = "COFFEESHOP_DB_BUSY_TIMEOUT"
	EnvDBMaxOpenConns = "COFFEESHOP_DB_MAX_OPEN_CONNS"
	EnvDBSeed         = "COFFEESHOP_DB_SEED"

	EnvAuthDomain     = "COFFEESHOP_AUTH_DOMAIN"
	EnvAuthAudience   = "COFFEESHOP_AUTH_AUDIENCE"
	EnvAuthAlgorithms = "COFFEESHOP_AUTH_ALGORITHMS"
	EnvAuthJWKSTTL    = "COFFEESHOP_AUTH_JWKS_TTL"
	EnvAuthLeeway     = "COFFEESHOP_AUTH_LEEWAY"

	EnvCORSOrigins = "COFFEESHOP_CORS_ORIGINS"

	EnvRateLimitEnabled  = "COFFEESHOP_RATELIMIT_ENABLED"
	EnvRateLimitRequests = "COFFEESHOP_RATELIMIT_REQUESTS"
	EnvRateLimitWindow   = "COFFEESHOP_RATELIMIT_WINDOW"

	EnvCacheDrinksTTL = "COFFEESHOP_CACHE_DRINKS_TTL"

	EnvRedisAddr     = "COFFEESHOP_REDIS_ADDR"
	EnvRedisPassword = "COFFEESHOP_REDIS_PASSWORD"
	EnvRedisDB       = "COFFEESHOP_REDIS_DB"

	EnvOTelEnabled      = "COFFEESHOP_OTEL_ENABLED"
	EnvOTelExporter     = "COFFEESHOP_OTEL_EXPORTER"
	EnvOTelEndpoint     = "COFFEESHOP_OTEL_ENDPOINT"
	EnvOTelSamplingRate = "COFFEESHOP_OTEL_SAMPLING_RATE"

	EnvMaintJWKSRefresh    = "COFFEESHOP_MAINT_JWKS_REFRESH"
	EnvMaintIntegrityCheck = "COFFEESHOP_MAINT_INTEGRITY_CHECK"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys

	// The environment record is loaded once per Loader and reused by every
	// later Load, so reloads never swap it.
	envOnce sync.Once
	env     environment.Environment
	envErr  error
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// ConfigPath returns the YAML file this loader reads, or "" for ENV-only setups.
func (l *Loader) ConfigPath() string {
	return l.configPath
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

func (l *Loader) envStrings(key string, defaultVal []string) []string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseStringSlice(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults.
// Auth and CORS settings left empty are derived from the environment record.
func (l *Loader) Load() (AppConfig, error) {
	cfg := AppConfig{}

	// 1. Set defaults
	setDefaults(&cfg)

	// 2. Load from file (if provided)
	if l.configPath != "" {
		var fileCfg FileConfig
		if err := decodeStrictFile(l.configPath, &fileCfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, &fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	// 3. Override with environment variables (highest priority)
	l.mergeEnvConfig(&cfg)

	// 4. Derive provider settings from the environment record
	env, err := l.Environment(cfg.EnvironmentFile)
	if err != nil {
		return cfg, err
	}
	deriveFromEnvironment(&cfg, env)

	// 5. Version from binary
	cfg.Version = l.version

	// 6. Validate final configuration
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Environment returns the runtime environment record. The first call loads it
// from path (ENV overrides apply); later calls return the same record.
func (l *Loader) Environment(path string) (environment.Environment, error) {
	l.envOnce.Do(func() {
		el := NewEnvironmentLoader(path)
		l.env, l.envErr = el.Load()
		for k := range el.ConsumedEnvKeys {
			l.ConsumedEnvKeys[k] = struct{}{}
		}
	})
	return l.env, l.envErr
}

// LoadSnapshot loads the server configuration and pairs it with the record.
func (l *Loader) LoadSnapshot() (Snapshot, error) {
	cfg, err := l.Load()
	if err != nil {
		return Snapshot{}, err
	}
	env, err := l.Environment(cfg.EnvironmentFile)
	if err != nil {
		return Snapshot{}, err
	}
	return BuildSnapshot(cfg, env), nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.ListenAddr = l.envString(EnvListenAddr, cfg.ListenAddr)
	cfg.LogLevel = strings.ToLower(l.envString(EnvLogLevel, cfg.LogLevel))
	cfg.EnvironmentFile = l.envString(EnvEnvironmentFile, cfg.EnvironmentFile)

	cfg.Database.Path = l.envString(EnvDBPath, cfg.Database.Path)
	cfg.Database.BusyTimeout = l.envDuration(EnvDBBusyTimeout, cfg.Database.BusyTimeout)
	cfg.Database.MaxOpenConns = l.envInt(EnvDBMaxOpenConns, cfg.Database.MaxOpenConns)
	cfg.Database.Seed = l.envBool(EnvDBSeed, cfg.Database.Seed)

	cfg.Auth.Domain = l.envString(EnvAuthDomain, cfg.Auth.Domain)
	cfg.Auth.Audience = l.envString(EnvAuthAudience, cfg.Auth.Audience)
	cfg.Auth.Algorithms = l.envStrings(EnvAuthAlgorithms, cfg.Auth.Algorithms)
	cfg.Auth.JWKSTTL = l.envDuration(EnvAuthJWKSTTL, cfg.Auth.JWKSTTL)
	cfg.Auth.Leeway = l.envDuration(EnvAuthLeeway, cfg.Auth.Leeway)

	cfg.CORS.AllowedOrigins = l.envStrings(EnvCORSOrigins, cfg.CORS.AllowedOrigins)

	cfg.RateLimit.Enabled = l.envBool(EnvRateLimitEnabled, cfg.RateLimit.Enabled)
	cfg.RateLimit.Requests = l.envInt(EnvRateLimitRequests, cfg.RateLimit.Requests)
	cfg.RateLimit.Window = l.envDuration(EnvRateLimitWindow, cfg.RateLimit.Window)

	cfg.Cache.DrinksTTL = l.envDuration(EnvCacheDrinksTTL, cfg.Cache.DrinksTTL)

	cfg.Redis.Addr = l.envString(EnvRedisAddr, cfg.Redis.Addr)
	cfg.Redis.Password = l.envString(EnvRedisPassword, cfg.Redis.Password)
	cfg.Redis.DB = l.envInt(EnvRedisDB, cfg.Redis.DB)

	cfg.Telemetry.Enabled = l.envBool(EnvOTelEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString(EnvOTelExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString(EnvOTelEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat(EnvOTelSamplingRate, cfg.Telemetry.SamplingRate)

	cfg.Maintenance.JWKSRefresh = l.envString(EnvMaintJWKSRefresh, cfg.Maintenance.JWKSRefresh)
	cfg.Maintenance.IntegrityCheck = l.envString(EnvMaintIntegrityCheck, cfg.Maintenance.IntegrityCheck)
}

// deriveFromEnvironment fills provider settings the operator left empty so
// that the backend verifies tokens for the same tenant the frontend logs into.
func deriveFromEnvironment(cfg *AppConfig, env environment.Environment) {
	if cfg.Auth.Domain == "" {
		cfg.Auth.Domain = env.Auth.Domain()
	}
	cfg.Auth.Domain = strings.TrimSuffix(strings.TrimPrefix(cfg.Auth.Domain, "https://"), "/")
	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = env.Auth.Audience
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		if origin := originOf(env.Auth.CallbackURL); origin != "" {
			cfg.CORS.AllowedOrigins = []string{origin}
		}
	}
}

// originOf reduces a URL to scheme://host[:port].
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
