// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"github.com/spf13/pflag"

	"github.com/MKhiriev/go-docsync/internal/query"
	"github.com/MKhiriev/go-docsync/models"
)

// queryFlags carries a query in the same wire form the collection service
// accepts: a JSON filter, a sort list and a result window.
type queryFlags struct {
	filter string
	sort   string
	skip   int
	limit  int
}

func (f *queryFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.filter, "query", "q", "", `Filter as JSON, e.g. '{"year":{"$gt":1900}}'`)
	fs.StringVar(&f.sort, "sort", "", "Comma separated sort fields, '-' prefix for descending")
	fs.IntVar(&f.skip, "skip", 0, "Entities to skip")
	fs.IntVar(&f.limit, "limit", 0, "Maximum number of entities")
}

// query returns nil when no flag is set.
func (f *queryFlags) query() (*models.Query, error) {
	filter, err := query.Decode(f.filter)
	if err != nil {
		return nil, err
	}
	sort := query.DecodeSort(f.sort)

	if filter == nil && len(sort) == 0 && f.skip == 0 && f.limit == 0 {
		return nil, nil
	}
	q := &models.Query{Filter: filter, Sort: sort, Skip: f.skip, Limit: f.limit}
	if err := query.Validate(q); err != nil {
		return nil, err
	}
	return q, nil
}
