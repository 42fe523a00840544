// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import "go.opentelemetry.io/otel/attribute"

// Attribute keys used on coffee shop spans.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"
	HTTPUserAgentKey  = "http.user_agent"

	DrinkIDKey        = "drink.id"
	DrinkOpKey        = "drink.operation"
	AuthPermissionKey = "auth.permission"
	AuthSubjectKey    = "auth.subject"
	JobNameKey        = "job.name"
	JobStatusKey      = "job.status"
	ErrorKey          = "error"
	ErrorTypeKey      = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// DrinkAttributes describes a catalogue operation.
func DrinkAttributes(op string, id int64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(DrinkOpKey, op)}
	if id > 0 {
		attrs = append(attrs, attribute.Int64(DrinkIDKey, id))
	}
	return attrs
}

// JobAttributes describes a maintenance job run.
func JobAttributes(name, status string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(JobNameKey, name),
		attribute.String(JobStatusKey, status),
	}
}

// ErrorAttributes marks a span as failed.
func ErrorAttributes(err error) []attribute.KeyValue {
	if err == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, err.Error()),
	}
}
