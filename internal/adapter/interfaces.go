// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport-layer client of the remote
// collection service.
//
// The primary abstraction is [CollectionClient], which decouples the sync
// engine from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPCollectionClient]).
//
// Error values defined in errors.go are mapped from HTTP status codes and
// service error names by mapHTTPError so that callers can use [errors.Is]
// for transport-agnostic error handling (e.g. [ErrNotFound] for a missing
// entity, [ErrIncrementalUnsupported] when delta sets are disabled).
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/go-docsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/collection_client_mock.go -package=mock

// RequestOptions tune a single remote call.
type RequestOptions struct {
	// Timeout bounds the call. Zero keeps the client default.
	Timeout time.Duration
}

// CollectionClient performs CRUD, query, count and delta-fetch operations
// against one remote collection service. Implementations are responsible for
// serialisation, authentication headers, and mapping transport-level errors
// to the sentinel values defined in this package.
type CollectionClient interface {
	// Create stores a new entity. The service assigns _id when it is absent
	// and returns the authoritative entity.
	Create(ctx context.Context, collection string, entity models.Entity, opts RequestOptions) (models.Entity, error)

	// Update replaces the entity identified by its _id and returns the
	// authoritative entity.
	Update(ctx context.Context, collection string, entity models.Entity, opts RequestOptions) (models.Entity, error)

	// Delete removes one entity. A missing entity yields [ErrNotFound].
	Delete(ctx context.Context, collection, id string, opts RequestOptions) (int, error)

	// DeleteByQuery removes every entity matching q and reports the count.
	DeleteByQuery(ctx context.Context, collection string, q *models.Query, opts RequestOptions) (int, error)

	// Find returns the entities matching q and the server time the request
	// started at.
	Find(ctx context.Context, collection string, q *models.Query, opts RequestOptions) (models.FindResult, error)

	// FindByID returns one entity or [ErrNotFound].
	FindByID(ctx context.Context, collection, id string, opts RequestOptions) (models.Entity, error)

	// FindDelta returns the entities matching q changed since the given
	// server timestamp, and the ids deleted since then. Services without
	// delta support answer [ErrIncrementalUnsupported]; a timestamp outside
	// the retained window answers [ErrOutOfRange].
	FindDelta(ctx context.Context, collection string, q *models.Query, since string, opts RequestOptions) (models.DeltaSet, error)

	// Count counts the entities matching q.
	Count(ctx context.Context, collection string, q *models.Query, opts RequestOptions) (int, error)
}
