// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the verified claims of an access token.
type Claims struct {
	jwt.RegisteredClaims
	// Permissions is nil when the token carries no permissions claim at all,
	// and empty when the claim is present but grants nothing.
	Permissions []string `json:"permissions,omitempty"`
	Scope       string   `json:"scope,omitempty"`
}

// KeySource resolves a kid to an RSA public key.
type KeySource interface {
	Key(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// TokenVerifier verifies a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
}

// VerifierConfig holds what a valid token must look like.
type VerifierConfig struct {
	Issuer     string
	Audience   string
	Algorithms []string
	Leeway     time.Duration
}

// Verifier checks token signatures against a KeySource and validates the
// standard claims.
type Verifier struct {
	keys   KeySource
	parser *jwt.Parser
}

var errMissingKid = errors.New("token header has no kid")

// NewVerifier creates a Verifier. Algorithms defaults to RS256.
func NewVerifier(keys KeySource, cfg VerifierConfig) *Verifier {
	algs := slices.Clone(cfg.Algorithms)
	if len(algs) == 0 {
		algs = []string{jwt.SigningMethodRS256.Alg()}
	}
	return &Verifier{
		keys: keys,
		parser: jwt.NewParser(
			jwt.WithValidMethods(algs),
			jwt.WithAudience(cfg.Audience),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithLeeway(cfg.Leeway),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify parses raw and returns its claims, or an *Error describing why the
// token is not acceptable.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errMissingKid
		}
		return v.keys.Key(ctx, kid)
	})
	if err != nil {
		return nil, classify(err)
	}
	return claims, nil
}

func classify(err error) *Error {
	switch {
	case errors.Is(err, errMissingKid):
		return newError(http.StatusUnauthorized, CodeInvalidHeader, "Authorization malformed.", err)
	case errors.Is(err, ErrKeyNotFound):
		return newError(http.StatusUnauthorized, CodeInvalidHeader, "Unable to find the appropriate key.", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newError(http.StatusUnauthorized, CodeTokenExpired, "Token expired.", err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return newError(http.StatusUnauthorized, CodeInvalidClaims,
			"Incorrect claims. Please, check the audience and issuer.", err)
	default:
		return newError(http.StatusUnauthorized, CodeInvalidToken, "Unable to parse authentication token.", err)
	}
}

// CheckPermission reports whether claims grant permission. An empty
// permission only requires a verified token.
func CheckPermission(claims *Claims, permission string) error {
	if permission == "" {
		return nil
	}
	if claims == nil || claims.Permissions == nil {
		return newError(http.StatusBadRequest, CodeInvalidClaims, "Permissions not included in JWT.", nil)
	}
	if !slices.Contains(claims.Permissions, permission) {
		return newError(http.StatusForbidden, CodeUnauthorized, "Permission not found.", nil)
	}
	return nil
}
