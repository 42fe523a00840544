// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/coffeeshop/internal/drinks"
	"github.com/ManuGH/coffeeshop/internal/telemetry"
)

type drinksResponse[T any] struct {
	Success bool `json:"success"`
	Drinks  []T  `json:"drinks"`
}

type deleteResponse struct {
	Success bool  `json:"success"`
	Delete  int64 `json:"delete"`
}

// GET /drinks
func (s *Server) handleListDrinks(w http.ResponseWriter, r *http.Request) {
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.DrinkAttributes("list_short", 0)...)
	ds, err := s.drinks.ListShort(r.Context())
	if err != nil {
		writeDrinkError(w, r, "list_short", err)
		return
	}
	if ds == nil {
		ds = []drinks.ShortDrink{}
	}
	writeJSON(w, http.StatusOK, drinksResponse[drinks.ShortDrink]{Success: true, Drinks: ds})
}

// GET /drinks-detail
func (s *Server) handleListDrinksDetail(w http.ResponseWriter, r *http.Request) {
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.DrinkAttributes("list_long", 0)...)
	ds, err := s.drinks.ListLong(r.Context())
	if err != nil {
		writeDrinkError(w, r, "list_long", err)
		return
	}
	if ds == nil {
		ds = []drinks.Drink{}
	}
	writeJSON(w, http.StatusOK, drinksResponse[drinks.Drink]{Success: true, Drinks: ds})
}

// POST /drinks
func (s *Server) handleCreateDrink(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	d, err := s.drinks.Create(r.Context(), body)
	if err != nil {
		writeDrinkError(w, r, "create", err)
		return
	}
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.DrinkAttributes("create", d.ID)...)
	writeJSON(w, http.StatusOK, drinksResponse[drinks.Drink]{Success: true, Drinks: []drinks.Drink{d.Long()}})
}

// PATCH /drinks/{id}
func (s *Server) handleUpdateDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := drinkID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.DrinkAttributes("update", id)...)
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	d, err := s.drinks.Update(r.Context(), id, body)
	if err != nil {
		writeDrinkError(w, r, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, drinksResponse[drinks.Drink]{Success: true, Drinks: []drinks.Drink{d.Long()}})
}

// DELETE /drinks/{id}
func (s *Server) handleDeleteDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := drinkID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.DrinkAttributes("delete", id)...)
	if err := s.drinks.Delete(r.Context(), id); err != nil {
		writeDrinkError(w, r, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Success: true, Delete: id})
}

// drinkID parses the {id} path segment. Anything but a positive integer
// cannot name a drink.
func drinkID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request entity too large")
			return nil, false
		}
		writeBadRequest(w)
		return nil, false
	}
	if len(body) == 0 {
		writeBadRequest(w)
		return nil, false
	}
	return body, true
}
