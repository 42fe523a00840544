// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/coffeeshop/internal/resilience"
)

func TestJWKSCache_FetchesLazilyAndCaches(t *testing.T) {
	srv := newJWKSServer(t)
	c := NewJWKSCache(srv.URL, time.Hour, WithHTTPClient(srv.Client()))

	assert.False(t, c.Fresh())
	assert.True(t, c.LastRefresh().IsZero())

	for i := 0; i < 3; i++ {
		key, err := c.Key(bg(), testKid)
		require.NoError(t, err)
		assert.Equal(t, signingKey(t).PublicKey.N, key.N)
	}
	assert.Equal(t, int64(1), srv.hits.Load())
	assert.True(t, c.Fresh())
}

func TestJWKSCache_ConcurrentRefreshesCollapse(t *testing.T) {
	srv := newJWKSServer(t)
	c := NewJWKSCache(srv.URL, time.Hour, WithHTTPClient(srv.Client()))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Key(bg(), testKid)
		}()
	}
	wg.Wait()

	// singleflight collapses overlapping fetches; sequential stragglers may
	// still find a fresh set, so at most a handful of requests are made.
	assert.LessOrEqual(t, srv.hits.Load(), int64(16))
	assert.True(t, c.Fresh())
}

func TestJWKSCache_UnknownKidIsThrottled(t *testing.T) {
	srv := newJWKSServer(t)
	c := NewJWKSCache(srv.URL, time.Hour,
		WithHTTPClient(srv.Client()),
		WithUnknownKidInterval(time.Hour))

	_, err := c.Key(bg(), testKid)
	require.NoError(t, err)

	_, err = c.Key(bg(), "missing")
	assert.True(t, errors.Is(err, ErrKeyNotFound))
	_, err = c.Key(bg(), "missing-again")
	assert.True(t, errors.Is(err, ErrKeyNotFound))

	// first lookup plus one forced refetch for the first unknown kid
	assert.Equal(t, int64(2), srv.hits.Load())
}

func TestJWKSCache_ServesStaleKeyWhenRefreshFails(t *testing.T) {
	srv := newJWKSServer(t)
	c := NewJWKSCache(srv.URL, time.Minute, WithHTTPClient(srv.Client()))

	_, err := c.Key(bg(), testKid)
	require.NoError(t, err)

	now := time.Now()
	c.now = func() time.Time { return now.Add(time.Hour) }
	srv.fail.Store(true)

	assert.False(t, c.Fresh())
	key, err := c.Key(bg(), testKid)
	require.NoError(t, err)
	assert.NotNil(t, key)

	require.Error(t, c.Refresh(bg()))
}

func TestJWKSCache_FailsWithoutKeys(t *testing.T) {
	srv := newJWKSServer(t)
	srv.fail.Store(true)
	c := NewJWKSCache(srv.URL, time.Hour, WithHTTPClient(srv.Client()))

	_, err := c.Key(bg(), testKid)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrKeyNotFound))
}

func TestJWKSCache_StopsCallingFailingProvider(t *testing.T) {
	srv := newJWKSServer(t)
	srv.fail.Store(true)
	c := NewJWKSCache(srv.URL, time.Hour, WithHTTPClient(srv.Client()))

	for i := 0; i < breakerThreshold; i++ {
		require.Error(t, c.Refresh(bg()))
	}
	hits := srv.hits.Load()

	err := c.Refresh(bg())
	assert.True(t, errors.Is(err, resilience.ErrCircuitOpen))
	assert.Equal(t, hits, srv.hits.Load())
}

func TestJWKSCache_CallerCancellationDoesNotTripBreaker(t *testing.T) {
	srv := newJWKSServer(t)
	srv.delay.Store(int64(100 * time.Millisecond))
	c := NewJWKSCache(srv.URL, time.Hour, WithHTTPClient(srv.Client()))

	for i := 0; i < breakerThreshold; i++ {
		ctx, cancel := context.WithTimeout(bg(), 10*time.Millisecond)
		_, err := c.Key(ctx, testKid)
		cancel()
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	}

	key, err := c.Key(bg(), testKid)
	require.NoError(t, err)
	assert.NotNil(t, key)
	assert.Equal(t, resilience.StateClosed, c.breaker.State())
}

func TestJWKSCache_AbandonedRefreshStillPopulatesKeys(t *testing.T) {
	srv := newJWKSServer(t)
	srv.delay.Store(int64(50 * time.Millisecond))
	c := NewJWKSCache(srv.URL, time.Hour, WithHTTPClient(srv.Client()))

	ctx, cancel := context.WithCancel(bg())
	cancel()
	require.ErrorIs(t, c.Refresh(ctx), context.Canceled)

	require.Eventually(t, c.Fresh, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), srv.hits.Load())
}
