// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"reflect"
	"sort"
)

// ChangeSummary describes the result of comparing two AppConfigs.
type ChangeSummary struct {
	ChangedFields   []string // List of field paths that changed
	RestartRequired bool     // True if any changed field is not hot-reloadable
}

// hotReloadAllowlist defines the fields a running server applies without restart.
var hotReloadAllowlist = map[string]struct{}{
	"LogLevel":            {},
	"CORS.AllowedOrigins": {},
	"Cache.DrinksTTL":     {},
}

// ignoredFields never count as changes.
var ignoredFields = map[string]struct{}{
	"Version": {},
}

// Diff compares two configurations and returns a summary of changes.
func Diff(old, next AppConfig) ChangeSummary {
	summary := ChangeSummary{}
	summary.compareStruct("", reflect.ValueOf(old), reflect.ValueOf(next))
	return summary
}

// HotReloadable reports whether field may change without a restart.
func HotReloadable(field string) bool {
	_, ok := hotReloadAllowlist[field]
	return ok
}

func (s *ChangeSummary) compareStruct(prefix string, oldVal, nextVal reflect.Value) {
	t := oldVal.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		fieldPath := f.Name
		if prefix != "" {
			fieldPath = prefix + "." + f.Name
		}
		if _, skip := ignoredFields[fieldPath]; skip {
			continue
		}

		ov := oldVal.Field(i)
		nv := nextVal.Field(i)

		if ov.Kind() == reflect.Struct {
			s.compareStruct(fieldPath, ov, nv)
			continue
		}

		if !reflect.DeepEqual(normalizeValue(ov), normalizeValue(nv)) {
			s.recordChange(fieldPath)
		}
	}
}

func (s *ChangeSummary) recordChange(fieldPath string) {
	s.ChangedFields = append(s.ChangedFields, fieldPath)
	if !HotReloadable(fieldPath) {
		s.RestartRequired = true
	}
}

// normalizeValue treats nil and empty string slices as equal and ignores order.
func normalizeValue(v reflect.Value) any {
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.String {
		if v.Len() == 0 {
			return []string{}
		}
		raw := v.Interface().([]string)
		sorted := make([]string, len(raw))
		copy(sorted, raw)
		sort.Strings(sorted)
		return sorted
	}
	return v.Interface()
}
