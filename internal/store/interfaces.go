// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-docsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// EntityRepository is the local replica of remote collections. Every method
// is scoped to one collection.
type EntityRepository interface {
	// Find returns the entities matching q, sorted and paged as q asks.
	Find(ctx context.Context, collection string, q *models.Query) ([]models.Entity, error)
	// FindByID returns ErrEntityNotFound when the entity is not stored.
	FindByID(ctx context.Context, collection, id string) (models.Entity, error)
	// Upsert inserts or replaces entities by _id.
	Upsert(ctx context.Context, collection string, entities ...models.Entity) error
	// Delete removes the entities matching q and returns them.
	Delete(ctx context.Context, collection string, q *models.Query) ([]models.Entity, error)
	// DeleteByID removes entities by id and reports how many were removed.
	DeleteByID(ctx context.Context, collection string, ids ...string) (int, error)
	// Clear removes every entity of the collection.
	Clear(ctx context.Context, collection string) error
	// Count counts the entities matching q.
	Count(ctx context.Context, collection string, q *models.Query) (int, error)
}

// SyncQueueRepository persists the sync ledger: at most one pending record
// per (collection, entity id), kept in insertion order.
type SyncQueueRepository interface {
	// Save stores record, replacing any record of the same entity.
	Save(ctx context.Context, record models.SyncRecord) error
	FindByCollection(ctx context.Context, collection string) ([]models.SyncRecord, error)
	// FindByEntityID returns ErrSyncRecordNotFound when nothing is pending.
	FindByEntityID(ctx context.Context, collection, entityID string) (models.SyncRecord, error)
	// DeleteByID removes records by record id and reports how many existed.
	DeleteByID(ctx context.Context, recordIDs ...string) (int, error)
	DeleteByEntityIDs(ctx context.Context, collection string, entityIDs ...string) (int, error)
	DeleteByCollection(ctx context.Context, collection string) (int, error)
}

// QueryCacheRepository remembers the server timestamp of the last pull of
// each unpaged (collection, query) pair.
type QueryCacheRepository interface {
	// Find returns ErrQueryCacheNotFound for a query never pulled.
	Find(ctx context.Context, collection, query string) (models.QueryCacheEntry, error)
	// Save inserts the entry or updates LastRequest of the existing one.
	Save(ctx context.Context, entry models.QueryCacheEntry) error
	DeleteByCollection(ctx context.Context, collection string) error
}
