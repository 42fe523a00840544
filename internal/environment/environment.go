// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package environment defines the runtime configuration record shared by the
// coffee shop frontend and backend: the deployment mode, where the backend API
// lives, and how to reach the authentication provider.
//
// An Environment is a plain value. It is built once (from the development
// literal, a file, or the process environment) and handed around by copy;
// nothing in this module mutates a record after it has been loaded.
package environment

import "strings"

// DefaultProviderSuffix is appended to a bare tenant prefix to form the
// authentication provider host.
const DefaultProviderSuffix = ".auth0.com"

// Environment is the runtime configuration record.
type Environment struct {
	// Production reports whether this is a production deployment.
	Production bool `json:"production" yaml:"production"`
	// APIServerURL is the base address of the backend API.
	APIServerURL string `json:"apiServerUrl" yaml:"apiServerUrl"`
	// Auth holds the authentication provider parameters.
	Auth Auth `json:"auth0" yaml:"auth0"`
}

// Auth holds the authentication provider settings of an Environment.
type Auth struct {
	// DomainPrefix is the tenant identifier at the provider (e.g. "dkhundley").
	DomainPrefix string `json:"url" yaml:"url"`
	// Audience identifies the protected API issued tokens are valid for.
	Audience string `json:"audience" yaml:"audience"`
	// ClientID is the public identifier of the registered client application.
	ClientID string `json:"clientId" yaml:"clientId"`
	// CallbackURL is where the provider redirects after login.
	CallbackURL string `json:"callbackURL" yaml:"callbackURL"`
}

// Development returns the non-production record used for local work.
func Development() Environment {
	return Environment{
		Production:   false,
		APIServerURL: "http://127.0.0.1:5000",
		Auth: Auth{
			DomainPrefix: "dkhundley",
			Audience:     "coffeeshop",
			ClientID:     "YGdlsP3nGYP53AO4yINKytqrvjlv6isy",
			CallbackURL:  "http://127.0.0.1:8100",
		},
	}
}

// Mode returns "production" or "development".
func (e Environment) Mode() string {
	if e.Production {
		return "production"
	}
	return "development"
}

// Domain returns the provider host. A prefix that already contains a dot is
// treated as a fully qualified host.
func (a Auth) Domain() string {
	prefix := strings.TrimSpace(a.DomainPrefix)
	if prefix == "" {
		return ""
	}
	if strings.Contains(prefix, ".") {
		return strings.TrimSuffix(prefix, "/")
	}
	return prefix + DefaultProviderSuffix
}

// Issuer returns the expected "iss" claim of tokens minted by the provider.
func (a Auth) Issuer() string {
	d := a.Domain()
	if d == "" {
		return ""
	}
	return "https://" + d + "/"
}

// JWKSURL returns the location of the provider's signing keys.
func (a Auth) JWKSURL() string {
	d := a.Domain()
	if d == "" {
		return ""
	}
	return "https://" + d + "/.well-known/jwks.json"
}
