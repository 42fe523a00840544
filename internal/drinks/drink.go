// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package drinks implements the coffee shop's drinks catalogue: the drink
// model, payload validation, SQLite persistence and a caching service.
package drinks

import "errors"

var (
	// ErrNotFound is returned when no drink has the requested id.
	ErrNotFound = errors.New("drink not found")
	// ErrInvalidDrink is returned for payloads that fail validation.
	ErrInvalidDrink = errors.New("invalid drink")
	// ErrDuplicateTitle is returned when another drink already has the title.
	ErrDuplicateTitle = errors.New("drink title already exists")
)

// Ingredient is one component of a recipe.
type Ingredient struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// Drink is a catalogue entry.
type Drink struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

// ShortIngredient is the public view of an ingredient: enough to draw the
// drink, not enough to make it.
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// ShortDrink is the public representation of a drink.
type ShortDrink struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// Short returns the public representation without ingredient names.
func (d Drink) Short() ShortDrink {
	recipe := make([]ShortIngredient, len(d.Recipe))
	for i, in := range d.Recipe {
		recipe[i] = ShortIngredient{Color: in.Color, Parts: in.Parts}
	}
	return ShortDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Long returns the full representation. The recipe is copied.
func (d Drink) Long() Drink {
	recipe := make([]Ingredient, len(d.Recipe))
	copy(recipe, d.Recipe)
	return Drink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Shorts maps a list of drinks to their public representation.
func Shorts(ds []Drink) []ShortDrink {
	out := make([]ShortDrink, len(ds))
	for i, d := range ds {
		out[i] = d.Short()
	}
	return out
}
