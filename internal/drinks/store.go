// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package drinks

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/ManuGH/coffeeshop/internal/persistence/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store persists drinks.
type Store interface {
	List(ctx context.Context) ([]Drink, error)
	Get(ctx context.Context, id int64) (Drink, error)
	Create(ctx context.Context, title string, recipe []Ingredient) (Drink, error)
	// Update replaces the non-nil fields of the drink with id.
	Update(ctx context.Context, id int64, title *string, recipe []Ingredient) (Drink, error)
	Delete(ctx context.Context, id int64) error
}

// SQLiteStore is a Store backed by the drinks table. Recipes are stored as
// JSON text.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database. Call Migrate first.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Migrate brings the drinks schema up to date.
func Migrate(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	return sqlite.Migrate(ctx, db, sub, logger)
}

func (s *SQLiteStore) List(ctx context.Context) ([]Drink, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, recipe FROM drinks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list drinks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Drink{}
	for rows.Next() {
		d, err := scanDrink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drinks: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (Drink, error) {
	return getDrink(ctx, s.db, id)
}

func (s *SQLiteStore) Create(ctx context.Context, title string, recipe []Ingredient) (Drink, error) {
	raw, err := json.Marshal(recipe)
	if err != nil {
		return Drink{}, fmt.Errorf("encode recipe: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO drinks (title, recipe) VALUES (?, ?)`, title, string(raw))
	if err != nil {
		return Drink{}, mapWriteErr("create drink", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Drink{}, fmt.Errorf("create drink: %w", err)
	}
	return Drink{ID: id, Title: title, Recipe: recipe}, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, title *string, recipe []Ingredient) (Drink, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Drink{}, fmt.Errorf("update drink: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	d, err := getDrink(ctx, tx, id)
	if err != nil {
		return Drink{}, err
	}
	if title != nil {
		d.Title = *title
	}
	if recipe != nil {
		d.Recipe = recipe
	}
	raw, err := json.Marshal(d.Recipe)
	if err != nil {
		return Drink{}, fmt.Errorf("encode recipe: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE drinks SET title = ?, recipe = ? WHERE id = ?`, d.Title, string(raw), id); err != nil {
		return Drink{}, mapWriteErr("update drink", err)
	}
	if err := tx.Commit(); err != nil {
		return Drink{}, fmt.Errorf("update drink: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drinks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete drink: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete drink: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed inserts a sample drink when the table is empty and reports whether it
// did.
func (s *SQLiteStore) Seed(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drinks`).Scan(&n); err != nil {
		return false, fmt.Errorf("count drinks: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	_, err := s.Create(ctx, "water", []Ingredient{{Name: "water", Color: "blue", Parts: 1}})
	return err == nil, err
}

// Ping reports whether the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getDrink(ctx context.Context, q queryer, id int64) (Drink, error) {
	row := q.QueryRowContext(ctx, `SELECT id, title, recipe FROM drinks WHERE id = ?`, id)
	d, err := scanDrink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Drink{}, ErrNotFound
	}
	return d, err
}

func scanDrink(sc scanner) (Drink, error) {
	var (
		d   Drink
		raw string
	)
	if err := sc.Scan(&d.ID, &d.Title, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Drink{}, err
		}
		return Drink{}, fmt.Errorf("scan drink: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &d.Recipe); err != nil {
		return Drink{}, fmt.Errorf("decode recipe of drink %d: %w", d.ID, err)
	}
	return d, nil
}

func mapWriteErr(op string, err error) error {
	if sqlite.IsUniqueViolation(err) {
		return ErrDuplicateTitle
	}
	return fmt.Errorf("%s: %w", op, err)
}
