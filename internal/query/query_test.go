// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"testing"

	"github.com/MKhiriev/go-docsync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func books() []models.Entity {
	return []models.Entity{
		{"_id": "a", "title": "Dune", "pages": float64(412), "tags": []any{"scifi", "classic"}},
		{"_id": "b", "title": "Emma", "pages": float64(474), "author": map[string]any{"name": "Austen"}},
		{"_id": "c", "title": "Beloved", "pages": float64(324)},
	}
}

// ── Validate ─────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       *models.Query
		wantErr bool
	}{
		{name: "nil query", q: nil},
		{name: "empty query", q: &models.Query{}},
		{name: "equality", q: models.NewQuery(models.Eq("title", "Dune"))},
		{name: "nested logical", q: models.NewQuery(models.Or(models.Eq("a", 1), models.And(models.Gt("b", 2), models.Exists("c", true))))},
		{name: "negative skip", q: &models.Query{Skip: -1}, wantErr: true},
		{name: "unknown operator", q: models.NewQuery(models.Filter{Op: "$regex", Field: "a", Value: "x"}), wantErr: true},
		{name: "comparison without field", q: models.NewQuery(models.Filter{Op: models.OpEqual, Value: 1}), wantErr: true},
		{name: "empty and", q: models.NewQuery(models.And()), wantErr: true},
		{name: "logical with field", q: models.NewQuery(models.Filter{Op: models.OpOr, Field: "x", Filters: []models.Filter{models.Eq("a", 1)}}), wantErr: true},
		{name: "in without list", q: models.NewQuery(models.Filter{Op: models.OpIn, Field: "a", Value: 1}), wantErr: true},
		{name: "gt with bool", q: models.NewQuery(models.Gt("a", true)), wantErr: true},
		{name: "exists with string", q: models.NewQuery(models.Filter{Op: models.OpExists, Field: "a", Value: "yes"}), wantErr: true},
		{name: "bad sort direction", q: &models.Query{Sort: []models.SortField{{Field: "a", Direction: 3}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.q)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuery)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// ── Match / Apply ────────────────────────────────────────────────────────────

func TestMatch(t *testing.T) {
	doc := books()[0]

	assert.True(t, Match(nil, doc))
	assert.True(t, Match(ptr(models.Eq("title", "Dune")), doc))
	assert.True(t, Match(ptr(models.Eq("pages", 412)), doc), "int compares with decoded float")
	assert.True(t, Match(ptr(models.Eq("tags", "classic")), doc), "array field matches an element")
	assert.True(t, Match(ptr(models.Ne("missing", 1)), doc))
	assert.True(t, Match(ptr(models.In("_id", "x", "a")), doc))
	assert.False(t, Match(ptr(models.NotIn("_id", "a")), doc))
	assert.True(t, Match(ptr(models.Gte("pages", 412)), doc))
	assert.False(t, Match(ptr(models.Lt("title", 5)), doc))
	assert.True(t, Match(ptr(models.Exists("author", false)), doc))
	assert.True(t, Match(ptr(models.Or(models.Eq("title", "x"), models.Lt("pages", 500))), doc))
	assert.False(t, Match(ptr(models.And(models.Eq("title", "Dune"), models.Gt("pages", 500))), doc))

	assert.True(t, Match(ptr(models.Eq("author.name", "Austen")), books()[1]), "dotted path")
}

func TestApply_SortSkipLimit(t *testing.T) {
	q := (&models.Query{}).Descending("pages").Page(1, 1)

	got := Apply(q, books())
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID())

	assert.Empty(t, Apply(&models.Query{Skip: 10}, books()))
	assert.Len(t, Apply(nil, books()), 3)
}

func TestApply_SortMissingFirst(t *testing.T) {
	got := Apply((&models.Query{}).Ascending("author.name"), books())
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[2].ID())
}

// ── Encode / Decode ──────────────────────────────────────────────────────────

func TestEncodeDecode(t *testing.T) {
	f := models.And(models.Eq("title", "Dune"), models.Gt("pages", 100))

	s, err := Encode(&f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"$and":[{"title":"Dune"},{"pages":{"$gt":100}}]}`, s)

	decoded, err := Decode(s)
	require.NoError(t, err)
	assert.True(t, Match(decoded, books()[0]))
	assert.False(t, Match(decoded, books()[1]))
}

func TestDecode_ImplicitAnd(t *testing.T) {
	f, err := Decode(`{"title":"Emma","pages":{"$gte":400,"$lt":500}}`)
	require.NoError(t, err)
	require.NoError(t, Validate(&models.Query{Filter: f}))
	assert.Equal(t, models.OpAnd, f.Op)
	assert.Len(t, f.Filters, 3)
	assert.True(t, Match(f, books()[1]))
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(`{not json`)
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = Decode(`{"$where":"1"}`)
	assert.ErrorIs(t, err, ErrInvalidQuery)

	f, err := Decode("")
	assert.NoError(t, err)
	assert.Nil(t, f)
}

func TestSort_RoundTrip(t *testing.T) {
	sort := []models.SortField{{Field: "title", Direction: models.Ascending}, {Field: "pages", Direction: models.Descending}}
	assert.Equal(t, "title,-pages", EncodeSort(sort))
	assert.Equal(t, sort, DecodeSort("title, -pages"))
}

func TestSignature_IgnoresPaging(t *testing.T) {
	q := models.NewQuery(models.Eq("title", "Dune"))
	paged := *q
	paged.Skip, paged.Limit = 10, 5

	assert.Equal(t, Signature(q), Signature(&paged))
	assert.NotEqual(t, Signature(q), Signature(nil))
}

func ptr(f models.Filter) *models.Filter { return &f }
