// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package middleware

import (
	"net/http"
	"slices"
	"strings"
	"sync/atomic"
)

// Origins is a CORS allowlist that can be swapped at runtime when the server
// configuration is reloaded.
type Origins struct {
	allowed atomic.Pointer[map[string]bool]
}

// NewOrigins creates an allowlist holding origins.
func NewOrigins(origins []string) *Origins {
	o := &Origins{}
	o.Set(origins)
	return o
}

// Set replaces the allowlist. "*" allows every origin.
func (o *Origins) Set(origins []string) {
	m := make(map[string]bool, len(origins))
	for _, origin := range origins {
		m[strings.TrimSuffix(strings.TrimSpace(origin), "/")] = true
	}
	o.allowed.Store(&m)
}

// List returns the current allowlist in sorted order.
func (o *Origins) List() []string {
	m := *o.allowed.Load()
	out := make([]string, 0, len(m))
	for origin := range m {
		out = append(out, origin)
	}
	slices.Sort(out)
	return out
}

// Allowed reports whether origin may call the API.
func (o *Origins) Allowed(origin string) bool {
	m := *o.allowed.Load()
	return m["*"] || m[origin]
}

// CORS returns a middleware that sets Cross-Origin Resource Sharing headers
// for origins on the allowlist. Preflight requests are answered directly.
func CORS(origins *Origins) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Only reflect the origin when it is allowed; the browser blocks the rest.
			if origin != "" && origins.Allowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Expose-Headers", "Retry-After, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "600")

			// Always set Vary: Origin to prevent cache poisoning/confusion
			vary := w.Header().Get("Vary")
			if vary == "" {
				w.Header().Set("Vary", "Origin, Access-Control-Request-Method, Access-Control-Request-Headers")
			} else if !strings.Contains(vary, "Origin") {
				w.Header().Set("Vary", vary+", Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Allow", "GET, POST, PATCH, DELETE, OPTIONS")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
