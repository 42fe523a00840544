// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/golang-jwt/jwt/v5"
)

const (
	testKid      = "test-key"
	testIssuer   = "https://tenant.auth0.test/"
	testAudience = "coffeeshop"
)

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
)

func signingKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	keyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = k
	})
	return testKey
}

// jwksServer serves a key set with the test key under testKid and counts hits.
type jwksServer struct {
	*httptest.Server
	hits  atomic.Int64
	fail  atomic.Bool
	delay atomic.Int64 // nanoseconds before answering
}

func newJWKSServer(t *testing.T) *jwksServer {
	t.Helper()
	key := signingKey(t)
	s := &jwksServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if d := time.Duration(s.delay.Load()); d > 0 {
			time.Sleep(d)
		}
		if s.fail.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
			Key:       &key.PublicKey,
			KeyID:     testKid,
			Use:       "sig",
			Algorithm: "RS256",
		}}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(s.Close)
	return s
}

type tokenOpts struct {
	kid         string
	issuer      string
	audience    string
	expiresIn   time.Duration
	permissions []string
	noPerms     bool
}

func defaultTokenOpts() tokenOpts {
	return tokenOpts{
		kid:         testKid,
		issuer:      testIssuer,
		audience:    testAudience,
		expiresIn:   time.Hour,
		permissions: []string{"get:drinks-detail"},
	}
}

func mintToken(t *testing.T, o tokenOpts) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "auth0|barista",
		"iss": o.issuer,
		"aud": []string{o.audience},
		"iat": now.Unix(),
		"exp": now.Add(o.expiresIn).Unix(),
	}
	if !o.noPerms {
		perms := o.permissions
		if perms == nil {
			perms = []string{}
		}
		claims["permissions"] = perms
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if o.kid != "" {
		tok.Header["kid"] = o.kid
	}
	signed, err := tok.SignedString(signingKey(t))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newTestVerifier(t *testing.T) (*Verifier, *jwksServer) {
	t.Helper()
	srv := newJWKSServer(t)
	cache := NewJWKSCache(srv.URL, time.Hour, WithHTTPClient(srv.Client()))
	return NewVerifier(cache, VerifierConfig{
		Issuer:   testIssuer,
		Audience: testAudience,
		Leeway:   5 * time.Second,
	}), srv
}

var _ KeySource = (*JWKSCache)(nil)

func bg() context.Context { return context.Background() }
