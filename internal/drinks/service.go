// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package drinks

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/ManuGH/coffeeshop/internal/cache"
	xglog "github.com/ManuGH/coffeeshop/internal/log"
)

// ShortListKey is the cache key of the public drinks list.
const ShortListKey = "drinks:short"

var operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "coffeeshop_drinks_operations_total",
	Help: "Drinks catalogue operations by operation and result",
}, []string{"op", "result"})

// Service is the catalogue's use-case layer: validation, persistence and
// caching of the public list.
type Service struct {
	store  Store
	cache  cache.Cache
	ttl    atomic.Int64
	logger zerolog.Logger
	// generation is bumped by every write before the cached list is dropped.
	// A list read may only refill the cache if no write happened meanwhile.
	generation atomic.Uint64
}

// NewService creates a Service. A nil cache disables caching.
func NewService(store Store, c cache.Cache, ttl time.Duration) *Service {
	s := &Service{
		store:  store,
		cache:  c,
		logger: xglog.WithComponent("drinks"),
	}
	s.ttl.Store(int64(ttl))
	return s
}

// SetCacheTTL changes how long the public list is cached. Zero disables it.
func (s *Service) SetCacheTTL(ttl time.Duration) {
	s.ttl.Store(int64(ttl))
}

// CacheTTL returns the current cache TTL.
func (s *Service) CacheTTL() time.Duration {
	return time.Duration(s.ttl.Load())
}

// ListShort returns every drink in its public form.
func (s *Service) ListShort(ctx context.Context) ([]ShortDrink, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, ShortListKey); ok {
			var out []ShortDrink
			if err := json.Unmarshal(raw, &out); err == nil {
				record("list_short", nil)
				return out, nil
			}
			s.cache.Delete(ctx, ShortListKey)
		}
	}

	gen := s.generation.Load()
	ds, err := s.store.List(ctx)
	record("list_short", err)
	if err != nil {
		return nil, err
	}
	out := Shorts(ds)
	s.fill(ctx, gen, out)
	return out, nil
}

// fill caches out, read at generation gen. A write that lands between the
// check and Set bumps the generation before deleting, so the re-check after
// Set removes whatever the write's delete missed.
func (s *Service) fill(ctx context.Context, gen uint64, out []ShortDrink) {
	ttl := s.CacheTTL()
	if s.cache == nil || ttl <= 0 || s.generation.Load() != gen {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return
	}
	s.cache.Set(ctx, ShortListKey, raw, ttl)
	if s.generation.Load() != gen {
		s.cache.Delete(ctx, ShortListKey)
	}
}

// ListLong returns every drink in full.
func (s *Service) ListLong(ctx context.Context) ([]Drink, error) {
	ds, err := s.store.List(ctx)
	record("list_long", err)
	return ds, err
}

// Create validates body and stores a new drink.
func (s *Service) Create(ctx context.Context, body []byte) (Drink, error) {
	in, err := ParseCreate(body)
	if err != nil {
		record("create", err)
		return Drink{}, err
	}
	d, err := s.store.Create(ctx, *in.Title, in.Recipe)
	record("create", err)
	if err != nil {
		return Drink{}, err
	}
	s.invalidate(ctx)
	s.logger.Info().
		Str(xglog.FieldEvent, "drinks.created").
		Int64(xglog.FieldDrinkID, d.ID).
		Str("title", d.Title).
		Msg("drink created")
	return d, nil
}

// Update applies a patch body to the drink with id.
func (s *Service) Update(ctx context.Context, id int64, body []byte) (Drink, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		record("update", err)
		return Drink{}, err
	}
	in, err := ParsePatch(body)
	if err != nil {
		record("update", err)
		return Drink{}, err
	}
	d, err := s.store.Update(ctx, id, in.Title, in.Recipe)
	record("update", err)
	if err != nil {
		return Drink{}, err
	}
	s.invalidate(ctx)
	s.logger.Info().
		Str(xglog.FieldEvent, "drinks.updated").
		Int64(xglog.FieldDrinkID, d.ID).
		Msg("drink updated")
	return d, nil
}

// Delete removes the drink with id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	record("delete", err)
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info().
		Str(xglog.FieldEvent, "drinks.deleted").
		Int64(xglog.FieldDrinkID, id).
		Msg("drink deleted")
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	s.generation.Add(1)
	if s.cache != nil {
		s.cache.Delete(ctx, ShortListKey)
	}
}

func record(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrInvalidDrink), errors.Is(err, ErrDuplicateTitle):
		result = "invalid"
	default:
		result = "error"
	}
	operationsTotal.WithLabelValues(op, result).Inc()
}
