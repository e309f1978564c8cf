// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-docsync/internal/query"
	"github.com/MKhiriev/go-docsync/models"
)

const maxBodyBytes = 16 << 20

// queryFromRequest reads the query, sort, skip and limit parameters. A
// request without any of them yields a nil query.
func queryFromRequest(r *http.Request) (*models.Query, error) {
	values := r.URL.Query()

	filter, err := query.Decode(values.Get("query"))
	if err != nil {
		return nil, err
	}
	skip, err := intParam(values.Get("skip"), "skip")
	if err != nil {
		return nil, err
	}
	limit, err := intParam(values.Get("limit"), "limit")
	if err != nil {
		return nil, err
	}
	sort := query.DecodeSort(values.Get("sort"))

	if filter == nil && len(sort) == 0 && skip == 0 && limit == 0 {
		return nil, nil
	}
	return &models.Query{Filter: filter, Sort: sort, Skip: skip, Limit: limit}, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidParameter, name, raw)
	}
	return n, nil
}

func (h *Handler) entityFromRequest(r *http.Request) (models.Entity, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	e, err := models.DecodeEntity(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if err := h.validator.Validate(r.Context(), e); err != nil {
		return nil, err
	}
	return e, nil
}

func collectionParam(r *http.Request) string {
	return chi.URLParam(r, "collection")
}
