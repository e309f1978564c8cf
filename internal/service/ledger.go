// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-docsync/internal/query"
	"github.com/MKhiriev/go-docsync/internal/store"
	"github.com/MKhiriev/go-docsync/models"
)

// IDGenerator produces identifiers for temporary entity ids and ledger
// records.
type IDGenerator interface {
	Generate() string
}

// SyncLedger keeps the pending local mutations of one collection. There is
// at most one record per entity: adding a mutation replaces the previous one.
type SyncLedger struct {
	collection string
	queue      store.SyncQueueRepository
	ids        IDGenerator
	now        func() time.Time
}

func NewSyncLedger(collection string, queue store.SyncQueueRepository, ids IDGenerator) *SyncLedger {
	return &SyncLedger{
		collection: collection,
		queue:      queue,
		ids:        ids,
		now:        time.Now,
	}
}

// Add records op for every entity. It fails with ErrSync before writing
// anything when an entity has no id.
//
// A delete of a locally created entity only drops its pending record: the
// remote service never saw the entity.
func (l *SyncLedger) Add(ctx context.Context, op models.SyncOperation, entities ...models.Entity) error {
	if !op.Valid() {
		return fmt.Errorf("%w: unknown operation %q", ErrSync, op)
	}
	for _, e := range entities {
		if e.ID() == "" {
			return fmt.Errorf("%w: %w", ErrSync, ErrMissingEntityID)
		}
	}

	for _, e := range entities {
		if op == models.SyncDelete && e.IsLocal() {
			if _, err := l.queue.DeleteByEntityIDs(ctx, l.collection, e.ID()); err != nil {
				return fmt.Errorf("drop record of locally created entity %s: %w", e.ID(), err)
			}
			continue
		}

		record := models.SyncRecord{
			ID:         l.ids.Generate(),
			Collection: l.collection,
			EntityID:   e.ID(),
			Operation:  op,
			Entity:     e.Clone(),
			CreatedAt:  l.now().UTC(),
		}
		if err := l.queue.Save(ctx, record); err != nil {
			return fmt.Errorf("save sync record of %s: %w", e.ID(), err)
		}
	}
	return nil
}

// Find returns the records whose entity snapshot matches the filter of q,
// oldest first. Sort, skip and limit of q are ignored.
func (l *SyncLedger) Find(ctx context.Context, q *models.Query) ([]models.SyncRecord, error) {
	records, err := l.queue.FindByCollection(ctx, l.collection)
	if err != nil {
		return nil, fmt.Errorf("load sync records: %w", err)
	}
	if q == nil || q.Filter == nil {
		return records, nil
	}

	matched := records[:0]
	for _, r := range records {
		if r.Entity != nil && query.Match(q.Filter, r.Entity) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// FindByEntityID returns the pending record of one entity, or
// store.ErrSyncRecordNotFound.
func (l *SyncLedger) FindByEntityID(ctx context.Context, entityID string) (models.SyncRecord, error) {
	return l.queue.FindByEntityID(ctx, l.collection, entityID)
}

func (l *SyncLedger) Count(ctx context.Context, q *models.Query) (int, error) {
	records, err := l.Find(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// RemoveByID removes records by record id. A record replaced by a newer
// mutation is not removed and is not counted.
func (l *SyncLedger) RemoveByID(ctx context.Context, recordIDs ...string) (int, error) {
	n, err := l.queue.DeleteByID(ctx, recordIDs...)
	if err != nil {
		return 0, fmt.Errorf("remove sync records: %w", err)
	}
	return n, nil
}

// RemoveByEntityID removes the pending records of the given entities.
func (l *SyncLedger) RemoveByEntityID(ctx context.Context, entityIDs ...string) (int, error) {
	if len(entityIDs) == 0 {
		return 0, nil
	}
	n, err := l.queue.DeleteByEntityIDs(ctx, l.collection, entityIDs...)
	if err != nil {
		return 0, fmt.Errorf("remove sync records by entity: %w", err)
	}
	return n, nil
}

// Clear removes the records matching q and reports how many were removed.
func (l *SyncLedger) Clear(ctx context.Context, q *models.Query) (int, error) {
	if q == nil || q.Filter == nil {
		n, err := l.queue.DeleteByCollection(ctx, l.collection)
		if err != nil {
			return 0, fmt.Errorf("clear sync records: %w", err)
		}
		return n, nil
	}

	records, err := l.Find(ctx, q)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return l.RemoveByID(ctx, ids...)
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, store.ErrSyncRecordNotFound)
}
