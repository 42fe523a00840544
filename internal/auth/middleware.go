// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package auth

import (
	"context"
	"net/http"

	xglog "github.com/ManuGH/coffeeshop/internal/log"
)

type claimsKey struct{}

// WithClaims stores verified claims in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims stored by Middleware, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}

// Middleware requires a verified bearer token granting permission.
func Middleware(v TokenVerifier, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := xglog.WithComponentFromContext(ctx, "auth")

			reject := func(err error) {
				ae := AsError(err)
				authFailuresTotal.WithLabelValues(ae.Code).Inc()
				logger.Info().
					Str(xglog.FieldEvent, "auth.rejected").
					Str(xglog.FieldPermission, permission).
					Str("code", ae.Code).
					Int(xglog.FieldStatus, ae.Status).
					Err(ae.Unwrap()).
					Msg("request rejected")
				WriteError(w, ae)
			}

			raw, err := BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				reject(err)
				return
			}
			claims, err := v.Verify(ctx, raw)
			if err != nil {
				reject(err)
				return
			}
			if err := CheckPermission(claims, permission); err != nil {
				reject(err)
				return
			}

			authSuccessTotal.WithLabelValues(permission).Inc()
			logger.Debug().
				Str(xglog.FieldEvent, "auth.granted").
				Str(xglog.FieldSubject, claims.Subject).
				Str(xglog.FieldPermission, permission).
				Msg("request authorized")

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}
