// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-docsync/internal/adapter"
	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/store"
	"github.com/MKhiriev/go-docsync/models"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize bounds the number of records replayed concurrently.
const DefaultBatchSize = 100

// pushReconciler replays the ledger of one collection against the remote
// service. Per-record failures end up in the results; only local storage
// failures and a concurrent push abort the whole run.
type pushReconciler struct {
	collection  string
	ledger      *SyncLedger
	entities    store.EntityRepository
	remote      adapter.CollectionClient
	coordinator *SyncCoordinator
	batchSize   int
	timeout     time.Duration
	logger      *logger.Logger
}

func (p *pushReconciler) Push(ctx context.Context, q *models.Query) (models.PushResults, error) {
	release, err := p.coordinator.TryAcquire(p.collection)
	if err != nil {
		return nil, err
	}
	defer release()

	records, err := p.ledger.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	results := make(models.PushResults, 0, len(records))
	if len(records) == 0 {
		return results, nil
	}

	p.logger.Debug().
		Str("func", "*pushReconciler.Push").
		Str("collection", p.collection).
		Int("records", len(records)).
		Msg("pushing pending records")

	for batch := range slices.Chunk(records, p.batchSize) {
		batchResults, err := p.pushBatch(ctx, batch)
		if err != nil {
			p.logger.Err(err).
				Str("func", "*pushReconciler.Push").
				Str("collection", p.collection).
				Msg("push aborted")
			return results, err
		}
		results = append(results, batchResults...)
	}

	p.logger.Info().
		Str("func", "*pushReconciler.Push").
		Str("collection", p.collection).
		Int("pushed", len(results.Succeeded())).
		Int("failed", len(results.Failed())).
		Msg("push finished")
	return results, nil
}

func (p *pushReconciler) pushBatch(ctx context.Context, batch []models.SyncRecord) (models.PushResults, error) {
	out := make(models.PushResults, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.batchSize)
	for i, record := range batch {
		g.Go(func() error {
			result, err := p.pushRecord(gctx, record)
			out[i] = result
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *pushReconciler) pushRecord(ctx context.Context, record models.SyncRecord) (models.PushResult, error) {
	if record.Operation == models.SyncDelete {
		return p.pushDelete(ctx, record)
	}
	return p.pushSave(ctx, record)
}

func (p *pushReconciler) pushDelete(ctx context.Context, record models.SyncRecord) (models.PushResult, error) {
	result := models.PushResult{ID: record.EntityID, Operation: record.Operation}

	_, err := p.remote.Delete(ctx, p.collection, record.EntityID, p.requestOptions())
	switch {
	case err == nil, errors.Is(err, adapter.ErrNotFound):
	case errors.Is(err, adapter.ErrInsufficientCredentials):
		result.Error = err
	default:
		result.Error = err
		return result, nil
	}

	unlock := p.coordinator.LockEntity(p.collection, record.EntityID)
	defer unlock()

	if _, err := p.ledger.RemoveByID(ctx, record.ID); err != nil {
		return result, err
	}
	return result, nil
}

func (p *pushReconciler) pushSave(ctx context.Context, record models.SyncRecord) (models.PushResult, error) {
	result := models.PushResult{ID: record.EntityID, Operation: record.Operation}

	entity, err := p.entities.FindByID(ctx, p.collection, record.EntityID)
	switch {
	case errors.Is(err, store.ErrEntityNotFound):
		entity = record.Entity.Clone()
	case err != nil:
		return result, fmt.Errorf("load local copy of %s: %w", record.EntityID, err)
	}
	if entity == nil {
		result.Error = fmt.Errorf("%w: record of %s has no entity to push", ErrSync, record.EntityID)
		return result, p.dropRecord(ctx, record)
	}

	local := entity.IsLocal()
	payload := entity.Clone()
	var saved models.Entity
	if local {
		delete(payload, models.IDField)
		payload.ClearLocal()
		saved, err = p.remote.Create(ctx, p.collection, payload, p.requestOptions())
	} else {
		saved, err = p.remote.Update(ctx, p.collection, payload, p.requestOptions())
	}
	if err == nil && saved.ID() == "" {
		if local {
			err = fmt.Errorf("%w: created entity has no id", adapter.ErrUnexpectedResponse)
		} else {
			saved.SetID(record.EntityID)
		}
	}

	if err != nil {
		result.Entity = entity
		result.Error = err
		if errors.Is(err, adapter.ErrInsufficientCredentials) {
			return result, p.dropRecord(ctx, record)
		}
		return result, nil
	}

	result.Entity = saved
	return result, p.complete(ctx, record, saved, local)
}

// complete removes a replayed record and writes the authoritative entity.
// When a newer mutation replaced the record while it was in flight, the
// newer local state is kept and only re-keyed onto the remote id.
func (p *pushReconciler) complete(ctx context.Context, record models.SyncRecord, saved models.Entity, local bool) error {
	unlock := p.coordinator.LockEntity(p.collection, record.EntityID)
	defer unlock()

	removed, err := p.ledger.RemoveByID(ctx, record.ID)
	if err != nil {
		return err
	}

	newID := saved.ID()
	if removed == 0 {
		if local && newID != record.EntityID {
			return p.rekey(ctx, record.EntityID, saved)
		}
		return nil
	}

	if err := p.entities.Upsert(ctx, p.collection, saved); err != nil {
		return fmt.Errorf("store pushed entity %s: %w", newID, err)
	}
	if newID != record.EntityID {
		if _, err := p.entities.DeleteByID(ctx, p.collection, record.EntityID); err != nil {
			return fmt.Errorf("drop temporary id %s: %w", record.EntityID, err)
		}
	}
	return nil
}

// rekey moves the local entity and the newer pending record of a temporary
// id onto the id the remote service assigned. If the entity was removed
// locally meanwhile, a delete of the remote copy is queued instead.
func (p *pushReconciler) rekey(ctx context.Context, tempID string, saved models.Entity) error {
	newID := saved.ID()

	pending, err := p.ledger.FindByEntityID(ctx, tempID)
	hasPending := err == nil
	if err != nil && !isRecordNotFound(err) {
		return fmt.Errorf("load newer record of %s: %w", tempID, err)
	}

	current, err := p.entities.FindByID(ctx, p.collection, tempID)
	switch {
	case errors.Is(err, store.ErrEntityNotFound):
		current = nil
	case err != nil:
		return fmt.Errorf("load local copy of %s: %w", tempID, err)
	}

	p.logger.Debug().
		Str("func", "*pushReconciler.rekey").
		Str("collection", p.collection).
		Str("temp_id", tempID).
		Str("id", newID).
		Bool("pending", hasPending).
		Bool("local", current != nil).
		Msg("entity changed while its create was in flight")

	if hasPending {
		if _, err := p.ledger.RemoveByID(ctx, pending.ID); err != nil {
			return err
		}
	}

	deleted := (hasPending && pending.Operation == models.SyncDelete) || (!hasPending && current == nil)
	if deleted {
		if current != nil {
			if _, err := p.entities.DeleteByID(ctx, p.collection, tempID); err != nil {
				return fmt.Errorf("drop temporary id %s: %w", tempID, err)
			}
		}
		return p.ledger.Add(ctx, models.SyncDelete, saved.Clone())
	}
	if current == nil {
		current = pending.Entity.Clone()
	}
	if current == nil {
		current = saved.Clone()
	}

	current.SetID(newID)
	current.ClearLocal()
	if err := p.entities.Upsert(ctx, p.collection, current); err != nil {
		return fmt.Errorf("store re-keyed entity %s: %w", newID, err)
	}
	if _, err := p.entities.DeleteByID(ctx, p.collection, tempID); err != nil {
		return fmt.Errorf("drop temporary id %s: %w", tempID, err)
	}
	if !hasPending {
		return nil
	}
	return p.ledger.Add(ctx, models.SyncUpdate, current)
}

func (p *pushReconciler) dropRecord(ctx context.Context, record models.SyncRecord) error {
	unlock := p.coordinator.LockEntity(p.collection, record.EntityID)
	defer unlock()

	_, err := p.ledger.RemoveByID(ctx, record.ID)
	return err
}

func (p *pushReconciler) requestOptions() adapter.RequestOptions {
	return adapter.RequestOptions{Timeout: p.timeout}
}
