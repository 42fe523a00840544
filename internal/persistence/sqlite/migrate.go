// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/coffeeshop/internal/log"
)

// Migrate applies every pending goose migration found at the root of fsys.
// A provider is used instead of goose's package-level state so that several
// databases can be migrated concurrently.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, logger zerolog.Logger) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("sqlite: migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: migrate up: %w", err)
	}
	for _, r := range results {
		logger.Info().
			Str(xglog.FieldEvent, "sqlite.migrated").
			Int64("version", r.Source.Version).
			Dur("duration", r.Duration).
			Msg("applied migration")
	}
	return nil
}
