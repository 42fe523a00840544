// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"slices"

	"github.com/ManuGH/coffeeshop/internal/environment"
)

// Snapshot is the immutable, effective runtime configuration: the validated
// server configuration paired with the environment record it was derived from.
type Snapshot struct {
	Epoch       uint64
	App         AppConfig
	Environment environment.Environment
}

// BuildSnapshot copies app so that later mutation of the caller's slices cannot
// leak into the snapshot.
func BuildSnapshot(app AppConfig, env environment.Environment) Snapshot {
	return Snapshot{
		App:         cloneAppConfig(app),
		Environment: env,
	}
}

func cloneAppConfig(app AppConfig) AppConfig {
	out := app
	out.Auth.Algorithms = slices.Clone(app.Auth.Algorithms)
	out.CORS.AllowedOrigins = slices.Clone(app.CORS.AllowedOrigins)
	return out
}
