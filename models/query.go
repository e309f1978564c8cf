// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Operator is a predicate operator of a Filter node.
type Operator string

// Comparison operators apply to a single field; logical operators combine
// child filters.
const (
	OpEqual          Operator = "$eq"
	OpNotEqual       Operator = "$ne"
	OpGreater        Operator = "$gt"
	OpGreaterOrEqual Operator = "$gte"
	OpLess           Operator = "$lt"
	OpLessOrEqual    Operator = "$lte"
	OpIn             Operator = "$in"
	OpNotIn          Operator = "$nin"
	OpExists         Operator = "$exists"

	OpAnd Operator = "$and"
	OpOr  Operator = "$or"
)

// IsLogical reports whether the operator combines child filters.
func (o Operator) IsLogical() bool {
	return o == OpAnd || o == OpOr
}

// Filter is a node of an attribute/value predicate tree. Comparison nodes
// carry Field and Value; logical nodes carry Filters.
type Filter struct {
	Op      Operator `json:"op"`
	Field   string   `json:"field,omitempty"`
	Value   any      `json:"value,omitempty"`
	Filters []Filter `json:"filters,omitempty"`
}

func Eq(field string, value any) Filter  { return Filter{Op: OpEqual, Field: field, Value: value} }
func Ne(field string, value any) Filter  { return Filter{Op: OpNotEqual, Field: field, Value: value} }
func Gt(field string, value any) Filter  { return Filter{Op: OpGreater, Field: field, Value: value} }
func Gte(field string, value any) Filter { return Filter{Op: OpGreaterOrEqual, Field: field, Value: value} }
func Lt(field string, value any) Filter  { return Filter{Op: OpLess, Field: field, Value: value} }
func Lte(field string, value any) Filter { return Filter{Op: OpLessOrEqual, Field: field, Value: value} }

func In[T any](field string, values ...T) Filter {
	return Filter{Op: OpIn, Field: field, Value: toAnySlice(values)}
}

func NotIn[T any](field string, values ...T) Filter {
	return Filter{Op: OpNotIn, Field: field, Value: toAnySlice(values)}
}

func Exists(field string, exists bool) Filter {
	return Filter{Op: OpExists, Field: field, Value: exists}
}

func And(filters ...Filter) Filter { return Filter{Op: OpAnd, Filters: filters} }
func Or(filters ...Filter) Filter  { return Filter{Op: OpOr, Filters: filters} }

func toAnySlice[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// SortDirection orders query results on one field.
type SortDirection int

const (
	Ascending  SortDirection = 1
	Descending SortDirection = -1
)

// SortField is one key of a multi-key sort.
type SortField struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// Query selects entities of a collection. A nil *Query selects everything.
type Query struct {
	Filter *Filter     `json:"filter,omitempty"`
	Sort   []SortField `json:"sort,omitempty"`
	Skip   int         `json:"skip,omitempty"`
	Limit  int         `json:"limit,omitempty"`
}

// NewQuery returns a query matching f.
func NewQuery(f Filter) *Query {
	return &Query{Filter: &f}
}

// QueryByIDs returns a query matching the entities with the given ids.
func QueryByIDs(ids ...string) *Query {
	return NewQuery(In(IDField, ids...))
}

// Ascending appends an ascending sort key.
func (q *Query) Ascending(field string) *Query {
	q.Sort = append(q.Sort, SortField{Field: field, Direction: Ascending})
	return q
}

// Descending appends a descending sort key.
func (q *Query) Descending(field string) *Query {
	q.Sort = append(q.Sort, SortField{Field: field, Direction: Descending})
	return q
}

// Page sets skip and limit.
func (q *Query) Page(skip, limit int) *Query {
	q.Skip = skip
	q.Limit = limit
	return q
}

// IsPaged reports whether the query restricts the result window. Paged
// queries cannot be answered with a delta fetch.
func (q *Query) IsPaged() bool {
	return q != nil && (q.Skip > 0 || q.Limit > 0)
}

// Unpaged returns a copy of q without skip and limit.
func (q *Query) Unpaged() *Query {
	if q == nil {
		return nil
	}
	c := *q
	c.Skip, c.Limit = 0, 0
	return &c
}
