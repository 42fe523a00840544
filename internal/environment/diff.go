// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package environment

// Diff returns the wire paths of the fields that differ between a and b, in
// declaration order. Equal records yield nil.
func Diff(a, b Environment) []string {
	var changed []string
	if a.Production != b.Production {
		changed = append(changed, FieldProduction)
	}
	if a.APIServerURL != b.APIServerURL {
		changed = append(changed, FieldAPIServerURL)
	}
	if a.Auth.DomainPrefix != b.Auth.DomainPrefix {
		changed = append(changed, FieldDomainPrefix)
	}
	if a.Auth.Audience != b.Auth.Audience {
		changed = append(changed, FieldAudience)
	}
	if a.Auth.ClientID != b.Auth.ClientID {
		changed = append(changed, FieldClientID)
	}
	if a.Auth.CallbackURL != b.Auth.CallbackURL {
		changed = append(changed, FieldCallbackURL)
	}
	return changed
}
