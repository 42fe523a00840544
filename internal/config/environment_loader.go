// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ManuGH/coffeeshop/internal/environment"
	"github.com/ManuGH/coffeeshop/internal/validate"
)

// Environment variables overriding fields of the runtime environment record.
const (
	EnvRecordProduction   = "COFFEESHOP_ENV_PRODUCTION"
	EnvRecordAPIServerURL = "COFFEESHOP_ENV_API_SERVER_URL"
	EnvRecordDomainPrefix = "COFFEESHOP_ENV_AUTH_DOMAIN_PREFIX"
	EnvRecordAudience     = "COFFEESHOP_ENV_AUTH_AUDIENCE"
	EnvRecordClientID     = "COFFEESHOP_ENV_AUTH_CLIENT_ID"
	EnvRecordCallbackURL  = "COFFEESHOP_ENV_AUTH_CALLBACK_URL"
)

// EnvironmentLoader builds the runtime environment record with precedence
// ENV > File > development literal. A record file replaces the development
// literal entirely, so a file must carry every field itself. The loader has no
// side effects besides reading its inputs: loading twice with unchanged inputs
// yields equal records.
type EnvironmentLoader struct {
	path            string
	ConsumedEnvKeys map[string]struct{}
}

// NewEnvironmentLoader creates a loader. An empty path skips the file layer.
func NewEnvironmentLoader(path string) *EnvironmentLoader {
	return &EnvironmentLoader{
		path:            strings.TrimSpace(path),
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path returns the record file path, or "" when only ENV and defaults apply.
func (l *EnvironmentLoader) Path() string {
	return l.path
}

// Load returns a validated record.
func (l *EnvironmentLoader) Load() (environment.Environment, error) {
	env := environment.Development()

	if l.path != "" {
		env = environment.Environment{}
		if err := decodeStrictFile(l.path, &env); err != nil {
			return environment.Environment{}, fmt.Errorf("load environment file %s: %w", l.path, err)
		}
	}

	if err := l.mergeEnv(&env); err != nil {
		return environment.Environment{}, fmt.Errorf("environment record invalid: %w", err)
	}

	if err := environment.Validate(env); err != nil {
		return environment.Environment{}, fmt.Errorf("environment record invalid: %w", err)
	}
	return env, nil
}

// LoadEnvironmentFile loads and validates a record file without consulting the
// process environment.
func LoadEnvironmentFile(path string) (environment.Environment, error) {
	var env environment.Environment
	if err := decodeStrictFile(path, &env); err != nil {
		return environment.Environment{}, fmt.Errorf("load environment file %s: %w", path, err)
	}
	if err := environment.Validate(env); err != nil {
		return environment.Environment{}, fmt.Errorf("environment record invalid: %w", err)
	}
	return env, nil
}

// mergeEnv applies ENV overrides. Unlike the server config, an unparseable
// value is rejected rather than ignored: the record decides the deployment mode.
func (l *EnvironmentLoader) mergeEnv(env *environment.Environment) error {
	l.ConsumedEnvKeys[EnvRecordProduction] = struct{}{}
	production, set, err := LookupBool(EnvRecordProduction)
	if err != nil {
		raw := os.Getenv(EnvRecordProduction)
		v := validate.New()
		v.AddError(EnvRecordProduction, fmt.Sprintf("invalid boolean %q", raw), raw)
		return v.Err()
	}
	if set {
		env.Production = production
	}

	env.APIServerURL = l.envString(EnvRecordAPIServerURL, env.APIServerURL)
	env.Auth.DomainPrefix = l.envString(EnvRecordDomainPrefix, env.Auth.DomainPrefix)
	env.Auth.Audience = l.envString(EnvRecordAudience, env.Auth.Audience)
	env.Auth.ClientID = l.envString(EnvRecordClientID, env.Auth.ClientID)
	env.Auth.CallbackURL = l.envString(EnvRecordCallbackURL, env.Auth.CallbackURL)
	return nil
}

func (l *EnvironmentLoader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

// RecordEnvKeys lists every environment variable the record loader reads.
func RecordEnvKeys() []string {
	return []string{
		EnvRecordProduction,
		EnvRecordAPIServerURL,
		EnvRecordDomainPrefix,
		EnvRecordAudience,
		EnvRecordClientID,
		EnvRecordCallbackURL,
	}
}
