// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coffeeshop_auth_failures_total",
		Help: "Rejected requests by auth error code",
	}, []string{"code"})

	authSuccessTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coffeeshop_auth_success_total",
		Help: "Authorized requests by required permission",
	}, []string{"permission"})

	jwksRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coffeeshop_jwks_refresh_total",
		Help: "Key set refresh attempts by result",
	}, []string{"result"})
)
