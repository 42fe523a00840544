// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package validate

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name           string
		value          string
		allowedSchemes []string
		wantErr        bool
	}{
		{"valid http", "http://127.0.0.1:5000", []string{"http", "https"}, false},
		{"valid https", "https://example.com", []string{"http", "https"}, false},
		{"empty url", "", []string{"http"}, true},
		{"whitespace url", "   ", []string{"http"}, true},
		{"no host", "http://", []string{"http"}, true},
		{"invalid scheme", "ftp://example.com", []string{"http", "https"}, true},
		{"no scheme", "example.com", []string{"http"}, true},
		{"relative path", "/callback", nil, true},
		{"custom scheme allowed when unrestricted", "io.ionic.starter://callback", nil, false},
		{"with port", "http://example.com:8080", []string{"http"}, false},
		{"with path", "http://example.com/path", []string{"http"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("testURL", tt.value, tt.allowedSchemes)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Origin(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"*", false},
		{"http://127.0.0.1:8100", false},
		{"https://shop.example.com", false},
		{"https://shop.example.com/", false},
		{"https://shop.example.com/app", true},
		{"shop.example.com", true},
		{"http://host?x=1", true},
	}
	for _, tt := range tests {
		v := New()
		v.Origin("origin", tt.value)
		if got := !v.IsValid(); got != tt.wantErr {
			t.Errorf("Origin(%q) error = %v, want %v (%v)", tt.value, got, tt.wantErr, v.Err())
		}
	}
}

func TestValidator_ListenAddr(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{":5000", false},
		{"127.0.0.1:5000", false},
		{"", true},
		{"5000", true},
		{":0", true},
		{":http", true},
		{":70000", true},
	}
	for _, tt := range tests {
		v := New()
		v.ListenAddr("listenAddr", tt.value)
		if got := !v.IsValid(); got != tt.wantErr {
			t.Errorf("ListenAddr(%q) error = %v, want %v", tt.value, got, tt.wantErr)
		}
	}
}

func TestValidator_HostPort(t *testing.T) {
	v := New()
	v.HostPort("redis.addr", "localhost:6379")
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}

	v = New()
	v.HostPort("redis.addr", ":6379")
	if v.IsValid() {
		t.Fatal("expected error for missing host")
	}
}

func TestValidator_Port(t *testing.T) {
	for _, port := range []int{0, -1, 65536} {
		v := New()
		v.Port("port", port)
		if v.IsValid() {
			t.Errorf("expected error for port %d", port)
		}
	}
	v := New()
	v.Port("port", 8080)
	if !v.IsValid() {
		t.Errorf("unexpected error: %v", v.Err())
	}
}

func TestValidator_RangesAndDurations(t *testing.T) {
	v := New()
	v.Range("requests", 0, 1, 100)
	v.FloatRange("samplingRate", 1.5, 0, 1)
	v.MinDuration("ttl", 500*time.Millisecond, time.Second)
	v.Positive("db", 0)

	if got := len(v.Errors()); got != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", got, v.Err())
	}
}

func TestValidator_NotEmpty(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"coffeeshop", false},
		{"", true},
		{"   ", true},
		{"\t\n", true},
	}
	for _, tt := range tests {
		v := New()
		v.NotEmpty("audience", tt.value)
		if got := !v.IsValid(); got != tt.wantErr {
			t.Errorf("NotEmpty(%q) error = %v, want %v", tt.value, got, tt.wantErr)
		}
	}
}

func TestValidator_OneOf(t *testing.T) {
	v := New()
	v.OneOf("exporter", "grpc", []string{"grpc", "http"})
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.OneOf("exporter", "zipkin", []string{"grpc", "http"})
	if v.IsValid() {
		t.Fatal("expected error for zipkin")
	}
	if !strings.Contains(v.Err().Error(), `"zipkin"`) {
		t.Errorf("error should quote the bad value, got %v", v.Err())
	}
}

func TestValidator_FilePath(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"data/database.db", false},
		{"/var/lib/coffeeshop/database.db", false},
		{":memory:", false},
		{"", true},
		{"../escape.db", true},
		{"data/", true},
	}
	for _, tt := range tests {
		v := New()
		v.FilePath("database.path", tt.value)
		if got := !v.IsValid(); got != tt.wantErr {
			t.Errorf("FilePath(%q) error = %v, want %v", tt.value, got, tt.wantErr)
		}
	}
}

func TestValidator_Custom(t *testing.T) {
	v := New()
	v.Custom("algorithms", "HS256", func(val any) error {
		if val.(string) != "RS256" {
			return errors.New("only RS256 is supported")
		}
		return nil
	})
	if v.IsValid() {
		t.Fatal("expected custom validator error")
	}
	if v.Errors()[0].Message != "only RS256 is supported" {
		t.Errorf("unexpected message %q", v.Errors()[0].Message)
	}
}

func TestValidator_MultipleErrors(t *testing.T) {
	v := New()

	v.Port("port", 0)
	v.URL("url", "", []string{"http"})
	v.NotEmpty("name", "")

	err := v.Err()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if got := verr.Fields(); strings.Join(got, ",") != "port,url,name" {
		t.Errorf("unexpected fields %v", got)
	}
	if strings.Count(err.Error(), "; ") != 2 {
		t.Errorf("expected messages joined with '; ', got %q", err.Error())
	}
}

func TestValidator_ErrIsSnapshot(t *testing.T) {
	v := New()
	v.NotEmpty("a", "")
	err := v.Err()
	v.NotEmpty("b", "")

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors()) != 1 {
		t.Fatalf("error must not observe later additions, got %d entries", len(verr.Errors()))
	}
}
