// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	xglog "github.com/ManuGH/coffeeshop/internal/log"
	"github.com/ManuGH/coffeeshop/internal/resilience"
)

const (
	maxJWKSBytes   = 1 << 20
	defaultJWKSTTL = time.Hour
	// An unknown kid forces at most one refetch per interval so that tokens
	// with random kids cannot hammer the provider.
	unknownKidInterval = 10 * time.Second
	// Consecutive fetch failures before the provider is skipped for a while.
	breakerThreshold = 3
	breakerReset     = 30 * time.Second
)

// JWKSCache holds the provider's RSA signing keys by kid.
type JWKSCache struct {
	url    string
	client *http.Client
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time

	group       singleflight.Group
	missLimiter *rate.Limiter
	breaker     *resilience.CircuitBreaker
}

// JWKSOption configures a JWKSCache.
type JWKSOption func(*JWKSCache)

// WithHTTPClient replaces the default traced HTTP client.
func WithHTTPClient(c *http.Client) JWKSOption {
	return func(j *JWKSCache) { j.client = c }
}

// WithUnknownKidInterval sets how often an unknown kid may trigger a refetch.
func WithUnknownKidInterval(d time.Duration) JWKSOption {
	return func(j *JWKSCache) { j.missLimiter = rate.NewLimiter(rate.Every(d), 1) }
}

// NewJWKSCache creates a cache for the key set at url. Keys are fetched lazily.
func NewJWKSCache(url string, ttl time.Duration, opts ...JWKSOption) *JWKSCache {
	if ttl <= 0 {
		ttl = defaultJWKSTTL
	}
	c := &JWKSCache{
		url: url,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		ttl:         ttl,
		logger:      xglog.WithComponent("jwks"),
		now:         time.Now,
		keys:        make(map[string]*rsa.PublicKey),
		missLimiter: rate.NewLimiter(rate.Every(unknownKidInterval), 1),
		breaker:     resilience.NewCircuitBreaker("jwks", breakerThreshold, breakerReset),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the key set location.
func (c *JWKSCache) URL() string { return c.url }

// Key returns the public key for kid, refreshing the set when it is stale or
// when kid is unknown. A stale key is still served if the refresh fails.
func (c *JWKSCache) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	stale := c.staleLocked()
	c.mu.RUnlock()

	if ok && !stale {
		return key, nil
	}
	if !ok && !stale && !c.missLimiter.Allow() {
		return nil, fmt.Errorf("kid %q: %w", kid, ErrKeyNotFound)
	}

	if err := c.Refresh(ctx); err != nil {
		if ok {
			c.logger.Warn().Err(err).
				Str(xglog.FieldEvent, "jwks.serve_stale").
				Str(xglog.FieldKeyID, kid).
				Msg("key set refresh failed, serving cached key")
			return key, nil
		}
		return nil, fmt.Errorf("refresh key set: %w", err)
	}

	c.mu.RLock()
	key, ok = c.keys[kid]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("kid %q: %w", kid, ErrKeyNotFound)
	}
	return key, nil
}

// Refresh fetches the key set now. Concurrent calls share one request, which
// runs detached from the caller's cancellation and is bounded by the HTTP client
// timeout: a caller that gives up returns ctx.Err() while the fetch still
// completes for everyone else, and only provider failures count towards the
// breaker. After repeated failures the provider is not contacted until the
// breaker resets.
func (c *JWKSCache) Refresh(ctx context.Context) error {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("jwks", func() (any, error) {
		return nil, c.refresh(fetchCtx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *JWKSCache) refresh(ctx context.Context) error {
	var keys map[string]*rsa.PublicKey
	err := c.breaker.Execute(func() error {
		var ferr error
		keys, ferr = c.fetch(ctx)
		return ferr
	})
	if err != nil {
		jwksRefreshTotal.WithLabelValues("error").Inc()
		return err
	}
	c.mu.Lock()
	c.keys = keys
	c.fetchedAt = c.now()
	c.mu.Unlock()

	jwksRefreshTotal.WithLabelValues("ok").Inc()
	c.logger.Debug().
		Str(xglog.FieldEvent, "jwks.refreshed").
		Int("keys", len(keys)).
		Msg("key set refreshed")
	return nil
}

// Fresh reports whether the key set was fetched within the TTL.
func (c *JWKSCache) Fresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.staleLocked()
}

// LastRefresh returns when the key set was last fetched successfully.
func (c *JWKSCache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

func (c *JWKSCache) staleLocked() bool {
	return c.fetchedAt.IsZero() || c.now().Sub(c.fetchedAt) > c.ttl
}

func (c *JWKSCache) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("key set endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBytes))
	if err != nil {
		return nil, err
	}

	var set jose.JSONWebKeySet
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("decode key set: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		pub, ok := k.Key.(*rsa.PublicKey)
		if !ok || !k.Valid() {
			continue
		}
		keys[k.KeyID] = pub
	}
	if len(keys) == 0 {
		return nil, errors.New("key set contains no RSA signing keys")
	}
	return keys, nil
}
