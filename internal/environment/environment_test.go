// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package environment

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ManuGH/coffeeshop/internal/validate"
)

func TestDevelopment_IsNotProduction(t *testing.T) {
	env := Development()
	if env.Production {
		t.Fatal("development record must have production == false")
	}
	if env.Mode() != "development" {
		t.Errorf("expected mode development, got %q", env.Mode())
	}
}

func TestDevelopment_APIServerURLIsAbsoluteHTTP(t *testing.T) {
	u, err := url.Parse(Development().APIServerURL)
	if err != nil {
		t.Fatalf("apiServerUrl does not parse: %v", err)
	}
	if !u.IsAbs() || u.Host == "" {
		t.Fatalf("apiServerUrl must be absolute with a host, got %q", u.String())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		t.Fatalf("apiServerUrl scheme must be http or https, got %q", u.Scheme)
	}
}

func TestDevelopment_CallbackURLIsAbsolute(t *testing.T) {
	u, err := url.Parse(Development().Auth.CallbackURL)
	if err != nil {
		t.Fatalf("callbackURL does not parse: %v", err)
	}
	if !u.IsAbs() || u.Host == "" {
		t.Fatalf("callbackURL must be absolute with a host, got %q", u.String())
	}
}

func TestDevelopment_StringFieldsNonEmpty(t *testing.T) {
	env := Development()
	fields := map[string]string{
		"domainPrefix": env.Auth.DomainPrefix,
		"audience":     env.Auth.Audience,
		"clientId":     env.Auth.ClientID,
	}
	for name, value := range fields {
		if value == "" {
			t.Errorf("%s must not be empty", name)
		}
	}
}

func TestDevelopment_Idempotent(t *testing.T) {
	first := Development()
	second := Development()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("two loads differ (-first +second):\n%s", diff)
	}
	if first != second {
		t.Fatal("records must compare equal with ==")
	}
}

func TestDevelopment_CopiesAreIndependent(t *testing.T) {
	a := Development()
	b := a
	b.Auth.Audience = "other"
	if a.Auth.Audience != "coffeeshop" {
		t.Fatalf("mutating a copy leaked into the original: %q", a.Auth.Audience)
	}
	if Development().Auth.Audience != "coffeeshop" {
		t.Fatal("development literal must not be affected by callers")
	}
}

func TestValidate_Development(t *testing.T) {
	if err := Validate(Development()); err != nil {
		t.Fatalf("development record must be valid: %v", err)
	}
}

func TestValidate_RejectsBrokenRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Environment)
		field  string
	}{
		{"empty api url", func(e *Environment) { e.APIServerURL = "" }, FieldAPIServerURL},
		{"relative api url", func(e *Environment) { e.APIServerURL = "/api" }, FieldAPIServerURL},
		{"ftp api url", func(e *Environment) { e.APIServerURL = "ftp://127.0.0.1" }, FieldAPIServerURL},
		{"blank prefix", func(e *Environment) { e.Auth.DomainPrefix = "  " }, FieldDomainPrefix},
		{"empty audience", func(e *Environment) { e.Auth.Audience = "" }, FieldAudience},
		{"empty client id", func(e *Environment) { e.Auth.ClientID = "" }, FieldClientID},
		{"hostless callback", func(e *Environment) { e.Auth.CallbackURL = "http://" }, FieldCallbackURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Development()
			tt.mutate(&env)

			err := Validate(env)
			var verr validate.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if fields := verr.Fields(); len(fields) != 1 || fields[0] != tt.field {
				t.Fatalf("expected failure on %s, got %v", tt.field, fields)
			}
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	err := Validate(Environment{})
	var verr validate.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := len(verr.Errors()); got != 5 {
		t.Fatalf("expected 5 field errors for an empty record, got %d: %v", got, err)
	}
}

func TestValidate_AllowsAppCallbackScheme(t *testing.T) {
	env := Development()
	env.Auth.CallbackURL = "io.ionic.coffeeshop://callback"
	if err := Validate(env); err != nil {
		t.Fatalf("custom callback scheme should be accepted: %v", err)
	}
}

func TestAuth_DerivedLocations(t *testing.T) {
	a := Development().Auth
	if got := a.Domain(); got != "dkhundley.auth0.com" {
		t.Errorf("Domain() = %q", got)
	}
	if got := a.Issuer(); got != "https://dkhundley.auth0.com/" {
		t.Errorf("Issuer() = %q", got)
	}
	if got := a.JWKSURL(); got != "https://dkhundley.auth0.com/.well-known/jwks.json" {
		t.Errorf("JWKSURL() = %q", got)
	}

	full := Auth{DomainPrefix: "udacity-fsnd.eu.auth0.com/"}
	if got := full.Domain(); got != "udacity-fsnd.eu.auth0.com" {
		t.Errorf("qualified Domain() = %q", got)
	}

	if (Auth{}).Issuer() != "" || (Auth{}).JWKSURL() != "" {
		t.Error("empty prefix must not derive locations")
	}
}

func TestDiff(t *testing.T) {
	a := Development()
	if d := Diff(a, a); d != nil {
		t.Fatalf("expected no diff, got %v", d)
	}

	b := a
	b.Production = true
	b.Auth.ClientID = "prod-client"
	want := []string{FieldProduction, FieldClientID}
	if diff := cmp.Diff(want, Diff(a, b)); diff != "" {
		t.Fatalf("unexpected diff (-want +got):\n%s", diff)
	}
}
