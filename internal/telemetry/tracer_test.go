// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{
		Enabled:      false,
		ServiceName:  "coffeeshop",
		ExporterType: "grpc",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if provider.tp != nil {
		t.Error("Expected noop provider (tp == nil)")
	}

	_, span := otel.Tracer("test").Start(context.Background(), "noop-check")
	if span.IsRecording() {
		t.Error("Expected noop tracer span to be non-recording")
	}
	span.End()
}

func TestNewProvider_InvalidExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		Enabled:      true,
		ServiceName:  "coffeeshop",
		ExporterType: "invalid",
	})
	if err == nil {
		t.Fatal("Expected error for invalid exporter type")
	}
	want := "unsupported exporter type: invalid (supported: grpc, http)"
	if err.Error() != want {
		t.Errorf("Expected error message %q, got %q", want, err.Error())
	}
}

func TestNewProvider_HTTPExporterRecords(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		Enabled:        true,
		ServiceName:    "coffeeshop",
		ServiceVersion: "test",
		Environment:    "development",
		ExporterType:   "http",
		Endpoint:       "127.0.0.1:1",
		SamplingRate:   1.0,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	t.Cleanup(func() {
		// no collector is listening; the flush error is expected
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
		_, _ = NewProvider(context.Background(), Config{})
	})

	_, span := Tracer("test").Start(ctx, "recorded")
	if !span.IsRecording() {
		t.Error("Expected span to be recording with sampling rate 1.0")
	}
	span.End()
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0.0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		if got := newSampler(tt.rate).Description(); got != tt.want {
			t.Errorf("newSampler(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestProvider_ShutdownNoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &Provider{}
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Expected no error on noop shutdown, got: %v", err)
	}
}

func TestAttributes(t *testing.T) {
	attrs := DrinkAttributes("create", 0)
	if len(attrs) != 1 || attrs[0] != attribute.String(DrinkOpKey, "create") {
		t.Fatalf("DrinkAttributes without id = %v", attrs)
	}
	if got := DrinkAttributes("delete", 7); len(got) != 2 || got[1].Value.AsInt64() != 7 {
		t.Fatalf("DrinkAttributes with id = %v", got)
	}
	if ErrorAttributes(nil) != nil {
		t.Fatal("ErrorAttributes(nil) must be nil")
	}
	if got := ErrorAttributes(errors.New("boom")); got[1].Value.AsString() != "boom" {
		t.Fatalf("ErrorAttributes = %v", got)
	}
	if got := HTTPAttributes("GET", "/drinks", "/drinks", 200); len(got) != 4 {
		t.Fatalf("HTTPAttributes = %v", got)
	}
}
