// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package environment

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestRender_TypeScriptModule(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Development(), FormatTS); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `export const environment = {
  production: false,
  apiServerUrl: 'http://127.0.0.1:5000',
  auth0: {
    url: 'dkhundley',
    audience: 'coffeeshop',
    clientId: 'YGdlsP3nGYP53AO4yINKytqrvjlv6isy',
    callbackURL: 'http://127.0.0.1:8100',
  }
};
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("unexpected module (-want +got):\n%s", diff)
	}
}

func TestRender_TypeScriptEscapesQuotes(t *testing.T) {
	env := Development()
	env.Auth.Audience = `it's\here`

	var buf bytes.Buffer
	if err := Render(&buf, env, FormatTS); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `audience: 'it\'s\\here',`) {
		t.Fatalf("quote not escaped:\n%s", buf.String())
	}
}

func TestRender_JSONUsesWireNames(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Development(), FormatJSON); err != nil {
		t.Fatalf("render: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc["apiServerUrl"] != "http://127.0.0.1:5000" {
		t.Errorf("apiServerUrl missing: %v", doc)
	}
	auth, ok := doc["auth0"].(map[string]any)
	if !ok {
		t.Fatalf("auth0 block missing: %v", doc)
	}
	if auth["url"] != "dkhundley" || auth["callbackURL"] != "http://127.0.0.1:8100" {
		t.Errorf("unexpected auth0 block: %v", auth)
	}

	var back Environment
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back != Development() {
		t.Fatalf("json output does not decode to the same record: %+v", back)
	}
}

func TestRender_YAMLDecodesToSameRecord(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Development(), FormatYAML); err != nil {
		t.Fatalf("render: %v", err)
	}
	var back Environment
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back != Development() {
		t.Fatalf("yaml output does not decode to the same record: %+v", back)
	}
}

func TestRender_RefusesInvalidRecord(t *testing.T) {
	env := Development()
	env.Auth.ClientID = ""

	var buf bytes.Buffer
	if err := Render(&buf, env, FormatTS); err == nil {
		t.Fatal("expected validation error")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing must be written for an invalid record, got %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"ts":    FormatTS,
		".ts":   FormatTS,
		"JSON":  FormatJSON,
		"yml":   FormatYAML,
		".yaml": FormatYAML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Error("expected error for toml")
	}
}

func TestWriteFile_ReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environment.ts")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := WriteFile(path, Development(), FormatTS); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "export const environment = {") {
		t.Fatalf("unexpected content: %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}
