// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStringSlice(t *testing.T) {
	const key = "COFFEESHOP_TEST_SLICE"
	def := []string{"http://default"}

	tests := []struct {
		name  string
		value string
		set   bool
		want  []string
	}{
		{name: "unset", want: def},
		{name: "blank", value: "  ", set: true, want: def},
		{name: "list", value: "https://a.example, https://b.example,,", set: true, want: []string{"https://a.example", "https://b.example"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv(key, tt.value)
			}
			if diff := cmp.Diff(tt.want, ParseStringSlice(key, def)); diff != "" {
				t.Fatalf("ParseStringSlice (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookupBool(t *testing.T) {
	const key = "COFFEESHOP_TEST_BOOL"

	if _, set, err := LookupBool(key); set || err != nil {
		t.Fatalf("unset: set=%v err=%v", set, err)
	}

	t.Setenv(key, " Yes ")
	if v, set, err := LookupBool(key); !v || !set || err != nil {
		t.Fatalf("yes: v=%v set=%v err=%v", v, set, err)
	}

	t.Setenv(key, "on")
	if _, set, err := LookupBool(key); !set || err == nil {
		t.Fatalf("on: set=%v err=%v, want an error", set, err)
	}

	// The tolerant server-config parser keeps its default for the same input.
	if got := ParseBool(key, true); !got {
		t.Fatal("ParseBool must fall back to the default")
	}
}
