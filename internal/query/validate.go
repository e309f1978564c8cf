// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package query validates, evaluates and encodes models.Query predicate trees.
//
// The matcher is the reference implementation used by the bundled SQLite
// replica and by the in-memory collection service. It follows the usual
// document-store rules: dotted field paths, numeric comparison across number
// types, and equality against array fields matching any element.
package query

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/MKhiriev/go-docsync/models"
)

// ErrInvalidQuery is returned for malformed predicate trees, sort keys or
// result windows.
var ErrInvalidQuery = errors.New("invalid query")

const maxFilterDepth = 32

// Validate checks that q is well formed. A nil query is valid.
func Validate(q *models.Query) error {
	if q == nil {
		return nil
	}
	if q.Skip < 0 || q.Limit < 0 {
		return fmt.Errorf("%w: skip and limit must not be negative", ErrInvalidQuery)
	}
	for _, s := range q.Sort {
		if s.Field == "" {
			return fmt.Errorf("%w: sort field is empty", ErrInvalidQuery)
		}
		if s.Direction != models.Ascending && s.Direction != models.Descending {
			return fmt.Errorf("%w: sort direction of %q must be 1 or -1", ErrInvalidQuery, s.Field)
		}
	}
	if q.Filter == nil {
		return nil
	}
	return validateFilter(*q.Filter, 0)
}

func validateFilter(f models.Filter, depth int) error {
	if depth > maxFilterDepth {
		return fmt.Errorf("%w: filter is nested deeper than %d levels", ErrInvalidQuery, maxFilterDepth)
	}

	switch f.Op {
	case models.OpAnd, models.OpOr:
		if f.Field != "" {
			return fmt.Errorf("%w: logical operator %s cannot have a field", ErrInvalidQuery, f.Op)
		}
		if len(f.Filters) == 0 {
			return fmt.Errorf("%w: logical operator %s needs at least one filter", ErrInvalidQuery, f.Op)
		}
		for _, child := range f.Filters {
			if err := validateFilter(child, depth+1); err != nil {
				return err
			}
		}
		return nil

	case models.OpEqual, models.OpNotEqual:
		return validateComparison(f)

	case models.OpGreater, models.OpGreaterOrEqual, models.OpLess, models.OpLessOrEqual:
		if err := validateComparison(f); err != nil {
			return err
		}
		if _, ok := toFloat(f.Value); ok {
			return nil
		}
		if _, ok := f.Value.(string); ok {
			return nil
		}
		return fmt.Errorf("%w: %s on %q needs a number or a string", ErrInvalidQuery, f.Op, f.Field)

	case models.OpIn, models.OpNotIn:
		if err := validateComparison(f); err != nil {
			return err
		}
		if f.Value == nil || reflect.TypeOf(f.Value).Kind() != reflect.Slice {
			return fmt.Errorf("%w: %s on %q needs a list of values", ErrInvalidQuery, f.Op, f.Field)
		}
		return nil

	case models.OpExists:
		if err := validateComparison(f); err != nil {
			return err
		}
		if _, ok := f.Value.(bool); !ok {
			return fmt.Errorf("%w: %s on %q needs a boolean", ErrInvalidQuery, f.Op, f.Field)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, f.Op)
	}
}

func validateComparison(f models.Filter) error {
	if f.Field == "" {
		return fmt.Errorf("%w: %s needs a field", ErrInvalidQuery, f.Op)
	}
	if len(f.Filters) > 0 {
		return fmt.Errorf("%w: %s on %q cannot have nested filters", ErrInvalidQuery, f.Op, f.Field)
	}
	return nil
}
