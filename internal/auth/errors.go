// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package auth verifies bearer tokens issued by the authentication provider
// named in the environment record and enforces per-route permissions.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error codes reported to clients.
const (
	CodeHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader = "invalid_header"
	CodeTokenExpired  = "token_expired"
	CodeInvalidClaims = "invalid_claims"
	CodeInvalidToken  = "invalid_token"
	CodeUnauthorized  = "unauthorized"
)

var (
	// ErrUnauthenticated matches every 401 Error.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPermissionDenied matches every 403 Error.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrKeyNotFound is returned by a key source that has no key for a kid.
	ErrKeyNotFound = errors.New("signing key not found")
)

// Error is an authentication or authorization failure. Code and Description
// are safe to show to clients.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Status      int    `json:"-"`
	cause       error
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Description
}

// Unwrap exposes the underlying verification failure, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is lets callers test the failure class with errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	case ErrPermissionDenied:
		return e.Status == http.StatusForbidden
	}
	return false
}

func newError(status int, code, description string, cause error) *Error {
	return &Error{Code: code, Description: description, Status: status, cause: cause}
}

// AsError extracts an *Error from err. Errors of any other type become a
// generic 401 invalid_token.
func AsError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return newError(http.StatusUnauthorized, CodeInvalidToken, "Unable to parse authentication token.", err)
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message *Error `json:"message"`
}

// WriteError writes the JSON failure envelope for e.
func WriteError(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	if e.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer error="`+e.Code+`"`)
	}
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Success: false, Error: e.Status, Message: e})
}
