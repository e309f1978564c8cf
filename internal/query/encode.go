// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/MKhiriev/go-docsync/models"
)

// Encode renders f in the document-store wire form used by the HTTP
// protocol: {"field": value}, {"field": {"$gt": value}}, {"$or": [...]}.
// A nil filter encodes as an empty string.
func Encode(f *models.Filter) (string, error) {
	if f == nil {
		return "", nil
	}
	raw, err := json.Marshal(toWire(*f))
	if err != nil {
		return "", fmt.Errorf("encode filter: %w", err)
	}
	return string(raw), nil
}

func toWire(f models.Filter) map[string]any {
	switch f.Op {
	case models.OpAnd, models.OpOr:
		children := make([]any, 0, len(f.Filters))
		for _, child := range f.Filters {
			children = append(children, toWire(child))
		}
		return map[string]any{string(f.Op): children}
	case models.OpEqual:
		return map[string]any{f.Field: f.Value}
	default:
		return map[string]any{f.Field: map[string]any{string(f.Op): f.Value}}
	}
}

// Decode parses the wire form produced by Encode. An empty string decodes to
// a nil filter.
func Decode(s string) (*models.Filter, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	f, err := fromWire(raw)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func fromWire(raw map[string]any) (*models.Filter, error) {
	var parts []models.Filter

	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := raw[key]

		if op := models.Operator(key); op.IsLogical() {
			items, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s needs a list", ErrInvalidQuery, key)
			}
			children := make([]models.Filter, 0, len(items))
			for _, item := range items {
				m, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%w: %s items must be objects", ErrInvalidQuery, key)
				}
				child, err := fromWire(m)
				if err != nil {
					return nil, err
				}
				if child != nil {
					children = append(children, *child)
				}
			}
			parts = append(parts, models.Filter{Op: op, Filters: children})
			continue
		}

		if strings.HasPrefix(key, "$") {
			return nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, key)
		}

		if ops, ok := operatorObject(value); ok {
			for _, opKey := range slices.Sorted(maps.Keys(ops)) {
				parts = append(parts, models.Filter{Op: models.Operator(opKey), Field: key, Value: ops[opKey]})
			}
			continue
		}
		parts = append(parts, models.Eq(key, value))
	}

	switch len(parts) {
	case 0:
		return nil, nil
	case 1:
		return &parts[0], nil
	}
	f := models.And(parts...)
	return &f, nil
}

// operatorObject reports whether v is an object whose keys are all operators.
func operatorObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

// EncodeSort renders sort keys as a comma separated list, descending keys
// prefixed with "-".
func EncodeSort(sort []models.SortField) string {
	parts := make([]string, 0, len(sort))
	for _, s := range sort {
		if s.Direction == models.Descending {
			parts = append(parts, "-"+s.Field)
			continue
		}
		parts = append(parts, s.Field)
	}
	return strings.Join(parts, ",")
}

// DecodeSort parses the form produced by EncodeSort.
func DecodeSort(s string) []models.SortField {
	var out []models.SortField
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(part, "-"):
			out = append(out, models.SortField{Field: part[1:], Direction: models.Descending})
		default:
			out = append(out, models.SortField{Field: part, Direction: models.Ascending})
		}
	}
	return out
}

// Signature identifies a query for the pull cache. Skip and limit are not
// part of it since paged queries are never cached.
func Signature(q *models.Query) string {
	if q == nil {
		return "{}"
	}
	filter, err := Encode(q.Filter)
	if err != nil {
		filter = fmt.Sprintf("%v", q.Filter)
	}
	sig := map[string]string{"filter": filter, "sort": EncodeSort(q.Sort)}
	raw, _ := json.Marshal(sig)
	return string(raw)
}
