// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/coffeeshop/internal/drinks"
	"github.com/ManuGH/coffeeshop/internal/log"
)

// errorEnvelope is the body of every non-auth error response.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorEnvelope{Success: false, Error: code, Message: message})
}

// writeBadRequest writes a 400 Bad Request response
func writeBadRequest(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, "bad request")
}

// writeNotFound writes a 404 Not Found response
func writeNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}

// writeUnprocessable writes a 422 Unprocessable Entity response
func writeUnprocessable(w http.ResponseWriter) {
	writeError(w, http.StatusUnprocessableEntity, "unprocessable")
}

func writeInternal(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// writeDrinkError maps a drinks error to its envelope. Unknown errors are
// logged and never leak into the body: reads answer 500, writes 422.
func writeDrinkError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, drinks.ErrNotFound):
		writeNotFound(w)
		return
	case errors.Is(err, drinks.ErrInvalidDrink), errors.Is(err, drinks.ErrDuplicateTitle):
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Debug().Err(err).Str(log.FieldEvent, "drinks.rejected").Str("op", op).Msg("drink payload rejected")
		writeUnprocessable(w)
		return
	}

	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Error().Err(err).Str(log.FieldEvent, "drinks.failed").Str("op", op).Msg("drink operation failed")
	if r.Method == http.MethodGet {
		writeInternal(w)
		return
	}
	writeUnprocessable(w)
}
