// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/MKhiriev/go-docsync/models"
)

// Match reports whether e satisfies f. A nil filter matches everything.
func Match(f *models.Filter, e models.Entity) bool {
	if f == nil {
		return true
	}
	return match(*f, e)
}

func match(f models.Filter, e models.Entity) bool {
	switch f.Op {
	case models.OpAnd:
		for _, child := range f.Filters {
			if !match(child, e) {
				return false
			}
		}
		return true
	case models.OpOr:
		for _, child := range f.Filters {
			if match(child, e) {
				return true
			}
		}
		return false
	}

	value, present := lookup(e, f.Field)

	switch f.Op {
	case models.OpEqual:
		return present && matchesValue(value, f.Value)
	case models.OpNotEqual:
		return !present || !matchesValue(value, f.Value)
	case models.OpIn:
		return present && matchesAny(value, f.Value)
	case models.OpNotIn:
		return !present || !matchesAny(value, f.Value)
	case models.OpExists:
		want, _ := f.Value.(bool)
		return present == want
	case models.OpGreater, models.OpGreaterOrEqual, models.OpLess, models.OpLessOrEqual:
		if !present {
			return false
		}
		c, ok := compare(value, f.Value)
		if !ok {
			return false
		}
		switch f.Op {
		case models.OpGreater:
			return c > 0
		case models.OpGreaterOrEqual:
			return c >= 0
		case models.OpLess:
			return c < 0
		default:
			return c <= 0
		}
	}
	return false
}

// Apply filters, sorts and pages entities according to q. The input slice
// is not modified.
func Apply(q *models.Query, entities []models.Entity) []models.Entity {
	out := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if q == nil || Match(q.Filter, e) {
			out = append(out, e)
		}
	}
	if q == nil {
		return out
	}

	if len(q.Sort) > 0 {
		slices.SortStableFunc(out, func(a, b models.Entity) int {
			for _, s := range q.Sort {
				av, _ := lookup(a, s.Field)
				bv, _ := lookup(b, s.Field)
				if c := sortOrder(av, bv); c != 0 {
					return c * int(s.Direction)
				}
			}
			return 0
		})
	}

	if q.Skip > 0 {
		if q.Skip >= len(out) {
			return out[:0]
		}
		out = out[q.Skip:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}

func lookup(e models.Entity, path string) (any, bool) {
	var current any = map[string]any(e)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case models.Entity:
		return m, true
	}
	return nil, false
}

// matchesValue compares a document value with a query value. Array document
// values match when any element matches.
func matchesValue(docValue, want any) bool {
	if equal(docValue, want) {
		return true
	}
	if items, ok := docValue.([]any); ok {
		for _, item := range items {
			if equal(item, want) {
				return true
			}
		}
	}
	return false
}

func matchesAny(docValue, list any) bool {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice {
		return false
	}
	for i := range rv.Len() {
		if matchesValue(docValue, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func equal(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// normalize converts Go-typed values into their JSON-decoded shape so that
// documents read from storage compare equal to values built in code.
func normalize(v any) any {
	switch v.(type) {
	case string, bool, nil, map[string]any, []any:
		return v
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func compare(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		return cmpOrdered(af, bf), true
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// sortOrder orders any two values: missing < numbers < strings < booleans < rest.
func sortOrder(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return cmpOrdered(ra, rb)
	}
	switch ra {
	case 0:
		return 0
	case 3:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case 4:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
	c, _ := compare(a, b)
	return c
}

func typeRank(v any) int {
	if v == nil {
		return 0
	}
	if _, ok := toFloat(v); ok {
		return 1
	}
	switch v.(type) {
	case string:
		return 2
	case bool:
		return 3
	}
	return 4
}

func cmpOrdered[T int | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
