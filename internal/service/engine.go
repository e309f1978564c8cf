// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/store"
	"github.com/MKhiriev/go-docsync/models"
)

// syncEngine holds the local replica of one collection together with its
// ledger and reconcilers. Local and cache processors share it.
type syncEngine struct {
	collection  string
	entities    store.EntityRepository
	cache       store.QueryCacheRepository
	ledger      *SyncLedger
	pusher      *pushReconciler
	puller      *pullReconciler
	coordinator *SyncCoordinator
	network     *NetworkState
	ids         IDGenerator
	opts        DataStoreOptions
	logger      *logger.Logger
}

func newSyncEngine(collection string, deps DataStoreDeps, opts DataStoreOptions) *syncEngine {
	log := opts.Logger.GetChildLogger()
	ledger := NewSyncLedger(collection, deps.Queue, opts.IDGenerator)

	return &syncEngine{
		collection: collection,
		entities:   deps.Entities,
		cache:      deps.QueryCache,
		ledger:     ledger,
		pusher: &pushReconciler{
			collection:  collection,
			ledger:      ledger,
			entities:    deps.Entities,
			remote:      deps.Remote,
			coordinator: deps.Coordinator,
			batchSize:   opts.BatchSize,
			timeout:     opts.Timeout,
			logger:      log,
		},
		puller: &pullReconciler{
			collection: collection,
			entities:   deps.Entities,
			cache:      deps.QueryCache,
			ledger:     ledger,
			remote:     deps.Remote,
			ids:        opts.IDGenerator,
			logger:     log,
		},
		coordinator: deps.Coordinator,
		network:     deps.Network,
		ids:         opts.IDGenerator,
		opts:        opts,
		logger:      log,
	}
}

// write stores e locally and records op in the ledger.
func (e *syncEngine) write(ctx context.Context, op models.SyncOperation, entity models.Entity) (models.Entity, error) {
	entity = entity.Clone()
	if entity.ID() == "" {
		entity.SetID(e.ids.Generate())
		entity.MarkLocal()
	}

	unlock := e.coordinator.LockEntity(e.collection, entity.ID())
	defer unlock()

	if !entity.IsLocal() {
		current, err := e.entities.FindByID(ctx, e.collection, entity.ID())
		switch {
		case err == nil && current.IsLocal():
			entity.MarkLocal()
		case err != nil && !errors.Is(err, store.ErrEntityNotFound):
			return nil, fmt.Errorf("load local copy of %s: %w", entity.ID(), err)
		}
	}

	if err := e.entities.Upsert(ctx, e.collection, entity); err != nil {
		return nil, fmt.Errorf("store entity %s: %w", entity.ID(), err)
	}
	if err := e.ledger.Add(ctx, op, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// remove deletes the local entities matching q and queues remote deletes
// for those the remote service knows. It returns the number of removed
// entities and the ids queued for deletion.
func (e *syncEngine) remove(ctx context.Context, q *models.Query) (int, []string, error) {
	matched, err := e.entities.Find(ctx, e.collection, q)
	if err != nil {
		return 0, nil, fmt.Errorf("find entities to remove: %w", err)
	}

	removed := 0
	var queued []string
	for _, entity := range matched {
		ok, err := e.removeOne(ctx, entity)
		if err != nil {
			return removed, queued, err
		}
		if !ok {
			continue
		}
		removed++
		if !entity.IsLocal() {
			queued = append(queued, entity.ID())
		}
	}
	return removed, queued, nil
}

func (e *syncEngine) removeOne(ctx context.Context, entity models.Entity) (bool, error) {
	unlock := e.coordinator.LockEntity(e.collection, entity.ID())
	defer unlock()

	n, err := e.entities.DeleteByID(ctx, e.collection, entity.ID())
	if err != nil {
		return false, fmt.Errorf("remove entity %s: %w", entity.ID(), err)
	}
	if n == 0 {
		return false, nil
	}
	if err := e.ledger.Add(ctx, models.SyncDelete, entity); err != nil {
		return false, err
	}
	return true, nil
}

// pushIDs pushes the records of the given entities right after a local
// mutation. A push already running for the collection leaves them queued.
func (e *syncEngine) pushIDs(ctx context.Context, ids ...string) (models.PushResults, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	results, err := e.pusher.Push(ctx, models.QueryByIDs(ids...))
	if errors.Is(err, ErrSyncInProgress) {
		e.logger.Debug().
			Str("func", "*syncEngine.pushIDs").
			Str("collection", e.collection).
			Strs("ids", ids).
			Msg("push in progress, records stay queued")
		return nil, nil
	}
	return results, err
}

// checkPending fails with a *PendingSyncError while records matching q wait
// to be pushed.
func (e *syncEngine) checkPending(ctx context.Context, q *models.Query) error {
	pending, err := e.ledger.Count(ctx, q)
	if err != nil {
		return err
	}
	if pending > 0 {
		return &PendingSyncError{Collection: e.collection, Count: pending}
	}
	return nil
}

func (e *syncEngine) pull(ctx context.Context, q *models.Query, opts models.PullOptions) (models.PullResult, error) {
	pending, err := e.ledger.Count(ctx, q)
	if err != nil {
		return models.PullResult{}, err
	}
	if pending > 0 {
		if _, err := e.pusher.Push(ctx, q); err != nil {
			return models.PullResult{}, err
		}
		if err := e.checkPending(ctx, q); err != nil {
			return models.PullResult{}, err
		}
	}

	if opts.PageSize <= 0 {
		opts.PageSize = e.opts.PageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = e.opts.Timeout
	}
	return e.puller.Pull(ctx, q, opts)
}

// cachedPull refreshes q for a cache-strategy read with the store defaults.
func (e *syncEngine) cachedPull(ctx context.Context, q *models.Query) (models.PullResult, error) {
	return e.puller.Pull(ctx, q, models.PullOptions{
		UseDeltaFetch:  e.opts.UseDeltaFetch,
		AutoPagination: e.opts.AutoPagination,
		PageSize:       e.opts.PageSize,
		Timeout:        e.opts.Timeout,
	})
}

func (e *syncEngine) clear(ctx context.Context, q *models.Query) (models.RemoveResult, error) {
	removed, err := e.entities.Delete(ctx, e.collection, q)
	if err != nil {
		return models.RemoveResult{}, fmt.Errorf("clear local entities: %w", err)
	}

	if q != nil {
		if _, err := e.ledger.RemoveByEntityID(ctx, models.EntityIDs(removed)...); err != nil {
			return models.RemoveResult{}, err
		}
		// a remembered timestamp would hide the cleared entities from delta pulls
		if len(removed) > 0 {
			if err := e.cache.DeleteByCollection(ctx, e.collection); err != nil {
				return models.RemoveResult{}, fmt.Errorf("clear query cache: %w", err)
			}
		}
		return models.RemoveResult{Count: len(removed)}, nil
	}

	if _, err := e.ledger.Clear(ctx, nil); err != nil {
		return models.RemoveResult{}, err
	}
	if err := e.cache.DeleteByCollection(ctx, e.collection); err != nil {
		return models.RemoveResult{}, fmt.Errorf("clear query cache: %w", err)
	}
	return models.RemoveResult{Count: len(removed)}, nil
}
