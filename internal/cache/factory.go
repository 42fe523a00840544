// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cache

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// defaultCleanupInterval is the janitor period of the in-process cache.
const defaultCleanupInterval = time.Minute

// New returns a RedisCache when cfg.Addr is set and an in-process cache
// otherwise.
func New(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (Cache, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		logger.Info().Msg("using in-memory cache")
		return NewMemoryCache(defaultCleanupInterval), nil
	}
	return NewRedisCache(ctx, cfg, logger)
}
