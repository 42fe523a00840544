// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package environment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding of Render.
type Format string

const (
	// FormatTS renders the frontend module (environment.ts).
	FormatTS Format = "ts"
	// FormatJSON renders the wire JSON document.
	FormatJSON Format = "json"
	// FormatYAML renders the loader's file format.
	FormatYAML Format = "yaml"
)

// Formats lists the supported render formats.
var Formats = []string{string(FormatTS), string(FormatJSON), string(FormatYAML)}

// ParseFormat maps a format name (or a file extension such as ".ts") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "ts", "typescript":
		return FormatTS, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: %v)", s, Formats)
	}
}

// Render writes env to w in the requested format. The record is validated first
// so that an invalid record never reaches a build artifact.
func Render(w io.Writer, env Environment, format Format) error {
	if err := Validate(env); err != nil {
		return err
	}

	switch format {
	case FormatTS:
		return renderTS(w, env)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(env); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("close yaml encoder: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (supported: %v)", format, Formats)
	}
}

func renderTS(w io.Writer, env Environment) error {
	var b bytes.Buffer
	b.WriteString("export const environment = {\n")
	fmt.Fprintf(&b, "  production: %s,\n", strconv.FormatBool(env.Production))
	fmt.Fprintf(&b, "  apiServerUrl: %s,\n", tsString(env.APIServerURL))
	b.WriteString("  auth0: {\n")
	fmt.Fprintf(&b, "    url: %s,\n", tsString(env.Auth.DomainPrefix))
	fmt.Fprintf(&b, "    audience: %s,\n", tsString(env.Auth.Audience))
	fmt.Fprintf(&b, "    clientId: %s,\n", tsString(env.Auth.ClientID))
	fmt.Fprintf(&b, "    callbackURL: %s,\n", tsString(env.Auth.CallbackURL))
	b.WriteString("  }\n")
	b.WriteString("};\n")

	if _, err := w.Write(b.Bytes()); err != nil {
		return fmt.Errorf("write ts module: %w", err)
	}
	return nil
}

var tsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// tsString renders s as a single-quoted TypeScript string literal.
func tsString(s string) string {
	return "'" + tsEscaper.Replace(s) + "'"
}

// WriteFile renders env and atomically replaces path with the result.
// Readers never observe a partially written record.
func WriteFile(path string, env Environment, format Format) error {
	var buf bytes.Buffer
	if err := Render(&buf, env, format); err != nil {
		return err
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
