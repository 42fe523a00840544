// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"time"
)

// PingChecker reports a dependency healthy when its ping succeeds.
type PingChecker struct {
	name     string
	ping     func(ctx context.Context) error
	severity Status
}

// NewPingChecker creates a checker that is unhealthy when ping fails.
func NewPingChecker(name string, ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping, severity: StatusUnhealthy}
}

// NewOptionalPingChecker creates a checker that is only degraded when ping
// fails, for dependencies the service can run without.
func NewOptionalPingChecker(name string, ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping, severity: StatusDegraded}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if err := c.ping(ctx); err != nil {
		return CheckResult{Status: c.severity, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}

// KeySet is the view of the signing key cache the freshness check needs.
type KeySet interface {
	Fresh() bool
	LastRefresh() time.Time
}

// KeySetChecker reports the freshness of the token signing keys. Stale keys
// degrade the service; tokens signed with known keys still verify.
type KeySetChecker struct {
	keys KeySet
}

// NewKeySetChecker creates a checker for keys.
func NewKeySetChecker(keys KeySet) *KeySetChecker {
	return &KeySetChecker{keys: keys}
}

func (c *KeySetChecker) Name() string { return "jwks" }

func (c *KeySetChecker) Check(context.Context) CheckResult {
	last := c.keys.LastRefresh()
	switch {
	case last.IsZero():
		return CheckResult{Status: StatusDegraded, Message: "signing keys not fetched yet"}
	case !c.keys.Fresh():
		return CheckResult{
			Status:  StatusDegraded,
			Message: fmt.Sprintf("signing keys stale since %s", last.UTC().Format(time.RFC3339)),
		}
	default:
		return CheckResult{Status: StatusHealthy, Message: "signing keys fresh"}
	}
}
