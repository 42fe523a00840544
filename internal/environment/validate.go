// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package environment

import "github.com/ManuGH/coffeeshop/internal/validate"

// Field paths use the wire names so errors match what operators edit.
const (
	FieldProduction   = "production"
	FieldAPIServerURL = "apiServerUrl"
	FieldDomainPrefix = "auth0.url"
	FieldAudience     = "auth0.audience"
	FieldClientID     = "auth0.clientId"
	FieldCallbackURL  = "auth0.callbackURL"
)

// Validate checks that every field is present and that both URLs are absolute.
// The API URL must use http or https; the callback URL may use any scheme so
// that native app redirect schemes remain possible.
func Validate(env Environment) error {
	v := validate.New()

	v.URL(FieldAPIServerURL, env.APIServerURL, []string{"http", "https"})
	v.NotEmpty(FieldDomainPrefix, env.Auth.DomainPrefix)
	v.NotEmpty(FieldAudience, env.Auth.Audience)
	v.NotEmpty(FieldClientID, env.Auth.ClientID)
	v.URL(FieldCallbackURL, env.Auth.CallbackURL, nil)

	return v.Err()
}
