// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package drinks

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/drink.json
var schemaFS embed.FS

// Input is a validated create or patch payload. A nil field was absent.
type Input struct {
	Title  *string
	Recipe []Ingredient
}

type compiledSchemas struct {
	create *gojsonschema.Schema
	patch  *gojsonschema.Schema
}

var (
	schemasOnce sync.Once
	schemas     compiledSchemas
	schemasErr  error
)

func loadSchemas() (compiledSchemas, error) {
	schemasOnce.Do(func() {
		raw, err := schemaFS.ReadFile("schema/drink.json")
		if err != nil {
			schemasErr = err
			return
		}
		var base map[string]any
		if err := json.Unmarshal(raw, &base); err != nil {
			schemasErr = fmt.Errorf("decode drink schema: %w", err)
			return
		}
		patch, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(base))
		if err != nil {
			schemasErr = fmt.Errorf("compile patch schema: %w", err)
			return
		}
		create := make(map[string]any, len(base)+1)
		for k, v := range base {
			create[k] = v
		}
		create["required"] = []any{"title", "recipe"}
		createSchema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(create))
		if err != nil {
			schemasErr = fmt.Errorf("compile create schema: %w", err)
			return
		}
		schemas = compiledSchemas{create: createSchema, patch: patch}
	})
	return schemas, schemasErr
}

// ParseCreate validates a create payload. Both title and recipe are required.
func ParseCreate(body []byte) (Input, error) {
	s, err := loadSchemas()
	if err != nil {
		return Input{}, err
	}
	return parse(body, s.create)
}

// ParsePatch validates a patch payload. Either field may be omitted.
func ParsePatch(body []byte) (Input, error) {
	s, err := loadSchemas()
	if err != nil {
		return Input{}, err
	}
	return parse(body, s.patch)
}

func parse(body []byte, schema *gojsonschema.Schema) (Input, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return Input{}, fmt.Errorf("%w: malformed JSON: %v", ErrInvalidDrink, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return Input{}, fmt.Errorf("%w: payload must be an object", ErrInvalidDrink)
	}
	// A single ingredient object is accepted in place of a one-item recipe.
	if single, ok := obj["recipe"].(map[string]any); ok {
		obj["recipe"] = []any{single}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(obj))
	if err != nil {
		return Input{}, fmt.Errorf("%w: %v", ErrInvalidDrink, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Input{}, fmt.Errorf("%w: %s", ErrInvalidDrink, strings.Join(msgs, "; "))
	}

	var in Input
	if v, ok := obj["title"].(string); ok {
		title := strings.TrimSpace(v)
		in.Title = &title
	}
	if raw, ok := obj["recipe"]; ok {
		b, err := json.Marshal(raw)
		if err != nil {
			return Input{}, fmt.Errorf("%w: %v", ErrInvalidDrink, err)
		}
		if err := json.Unmarshal(b, &in.Recipe); err != nil {
			return Input{}, fmt.Errorf("%w: %v", ErrInvalidDrink, err)
		}
	}
	return in, nil
}
