// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/MKhiriev/go-docsync/internal/adapter"
	"github.com/MKhiriev/go-docsync/internal/store"
	"github.com/MKhiriev/go-docsync/models"
)

// processor implements the operations of a DataStore for one strategy.
// Arguments are validated by the DataStore.
type processor interface {
	find(ctx context.Context, q *models.Query) iter.Seq2[[]models.Entity, error]
	findByID(ctx context.Context, id string) iter.Seq2[models.Entity, error]
	count(ctx context.Context, q *models.Query) iter.Seq2[int, error]
	create(ctx context.Context, e models.Entity) (models.Entity, error)
	update(ctx context.Context, e models.Entity) (models.Entity, error)
	remove(ctx context.Context, q *models.Query) (models.RemoveResult, error)
	removeByID(ctx context.Context, id string) (models.RemoveResult, error)
}

// ── network ──────────────────────────────────────────────────────────────────

type networkProcessor struct {
	collection string
	remote     adapter.CollectionClient
	timeout    time.Duration
}

func (p *networkProcessor) opts() adapter.RequestOptions {
	return adapter.RequestOptions{Timeout: p.timeout}
}

func (p *networkProcessor) find(ctx context.Context, q *models.Query) iter.Seq2[[]models.Entity, error] {
	return func(yield func([]models.Entity, error) bool) {
		res, err := p.remote.Find(ctx, p.collection, q, p.opts())
		yield(res.Entities, err)
	}
}

func (p *networkProcessor) findByID(ctx context.Context, id string) iter.Seq2[models.Entity, error] {
	return func(yield func(models.Entity, error) bool) {
		yield(p.remote.FindByID(ctx, p.collection, id, p.opts()))
	}
}

func (p *networkProcessor) count(ctx context.Context, q *models.Query) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		yield(p.remote.Count(ctx, p.collection, q, p.opts()))
	}
}

func (p *networkProcessor) create(ctx context.Context, e models.Entity) (models.Entity, error) {
	return p.remote.Create(ctx, p.collection, e, p.opts())
}

func (p *networkProcessor) update(ctx context.Context, e models.Entity) (models.Entity, error) {
	return p.remote.Update(ctx, p.collection, e, p.opts())
}

func (p *networkProcessor) remove(ctx context.Context, q *models.Query) (models.RemoveResult, error) {
	n, err := p.remote.DeleteByQuery(ctx, p.collection, q, p.opts())
	return models.RemoveResult{Count: n}, err
}

func (p *networkProcessor) removeByID(ctx context.Context, id string) (models.RemoveResult, error) {
	n, err := p.remote.Delete(ctx, p.collection, id, p.opts())
	return models.RemoveResult{Count: n}, err
}

// ── local ────────────────────────────────────────────────────────────────────

// localProcessor works on the local replica and the ledger only.
type localProcessor struct {
	engine *syncEngine
}

func (p *localProcessor) find(ctx context.Context, q *models.Query) iter.Seq2[[]models.Entity, error] {
	return func(yield func([]models.Entity, error) bool) {
		yield(p.findLocal(ctx, q))
	}
}

func (p *localProcessor) findLocal(ctx context.Context, q *models.Query) ([]models.Entity, error) {
	e := p.engine
	entities, err := e.entities.Find(ctx, e.collection, q)
	if err != nil {
		return nil, fmt.Errorf("find local entities: %w", err)
	}
	if entities == nil {
		entities = []models.Entity{}
	}
	return entities, nil
}

func (p *localProcessor) findByID(ctx context.Context, id string) iter.Seq2[models.Entity, error] {
	return func(yield func(models.Entity, error) bool) {
		yield(p.findLocalByID(ctx, id))
	}
}

// findLocalByID returns nil without error for a missing entity.
func (p *localProcessor) findLocalByID(ctx context.Context, id string) (models.Entity, error) {
	e := p.engine
	entity, err := e.entities.FindByID(ctx, e.collection, id)
	if errors.Is(err, store.ErrEntityNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find local entity %s: %w", id, err)
	}
	return entity, nil
}

func (p *localProcessor) count(ctx context.Context, q *models.Query) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		yield(p.countLocal(ctx, q))
	}
}

func (p *localProcessor) countLocal(ctx context.Context, q *models.Query) (int, error) {
	e := p.engine
	n, err := e.entities.Count(ctx, e.collection, q)
	if err != nil {
		return 0, fmt.Errorf("count local entities: %w", err)
	}
	return n, nil
}

func (p *localProcessor) create(ctx context.Context, e models.Entity) (models.Entity, error) {
	return p.engine.write(ctx, models.SyncCreate, e)
}

func (p *localProcessor) update(ctx context.Context, e models.Entity) (models.Entity, error) {
	return p.engine.write(ctx, models.SyncUpdate, e)
}

func (p *localProcessor) remove(ctx context.Context, q *models.Query) (models.RemoveResult, error) {
	n, _, err := p.engine.remove(ctx, q)
	return models.RemoveResult{Count: n}, err
}

func (p *localProcessor) removeByID(ctx context.Context, id string) (models.RemoveResult, error) {
	return p.remove(ctx, models.QueryByIDs(id))
}

// ── cache ────────────────────────────────────────────────────────────────────

// cacheProcessor answers from the local replica and then from the network
// while online. Mutations are pushed as soon as they are recorded.
type cacheProcessor struct {
	*localProcessor
	network *networkProcessor
}

func (p *cacheProcessor) online() bool {
	return p.engine.network.Online()
}

func (p *cacheProcessor) find(ctx context.Context, q *models.Query) iter.Seq2[[]models.Entity, error] {
	return func(yield func([]models.Entity, error) bool) {
		local, err := p.findLocal(ctx, q)
		if !yield(local, err) || err != nil || !p.online() {
			return
		}

		if err := p.engine.checkPending(ctx, nil); err != nil {
			yield(nil, err)
			return
		}

		pulled, err := p.engine.cachedPull(ctx, q)
		if err != nil {
			yield(nil, err)
			return
		}
		yield(pulled.Entities, nil)
	}
}

// findByID yields the local copy first. When the remote copy is gone the
// local one is evicted and the not-found error is yielded after it.
func (p *cacheProcessor) findByID(ctx context.Context, id string) iter.Seq2[models.Entity, error] {
	return func(yield func(models.Entity, error) bool) {
		local, err := p.findLocalByID(ctx, id)
		if err != nil {
			yield(nil, err)
			return
		}
		if !p.online() {
			yield(local, nil)
			return
		}
		if local != nil && !yield(local, nil) {
			return
		}

		if err := p.engine.checkPending(ctx, nil); err != nil {
			yield(nil, err)
			return
		}

		e := p.engine
		remote, err := p.network.remote.FindByID(ctx, e.collection, id, p.network.opts())
		switch {
		case errors.Is(err, adapter.ErrNotFound):
			if local != nil {
				if _, derr := e.entities.DeleteByID(ctx, e.collection, id); derr != nil {
					yield(nil, fmt.Errorf("evict local entity %s: %w", id, derr))
					return
				}
			}
			yield(nil, err)
			return
		case err != nil:
			yield(nil, err)
			return
		}

		if err := e.entities.Upsert(ctx, e.collection, remote); err != nil {
			yield(nil, fmt.Errorf("store fetched entity %s: %w", id, err))
			return
		}
		yield(remote, nil)
	}
}

func (p *cacheProcessor) count(ctx context.Context, q *models.Query) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		n, err := p.countLocal(ctx, q)
		if !yield(n, err) || err != nil || !p.online() {
			return
		}

		if err := p.engine.checkPending(ctx, nil); err != nil {
			yield(0, err)
			return
		}
		yield(p.network.remote.Count(ctx, p.engine.collection, q, p.network.opts()))
	}
}

func (p *cacheProcessor) create(ctx context.Context, e models.Entity) (models.Entity, error) {
	saved, err := p.localProcessor.create(ctx, e)
	if err != nil {
		return nil, err
	}
	return p.pushSaved(ctx, saved)
}

func (p *cacheProcessor) update(ctx context.Context, e models.Entity) (models.Entity, error) {
	saved, err := p.localProcessor.update(ctx, e)
	if err != nil {
		return nil, err
	}
	return p.pushSaved(ctx, saved)
}

// pushSaved pushes a freshly written entity and returns the authoritative
// copy. A failed push keeps the record queued and returns the local copy
// with the error.
func (p *cacheProcessor) pushSaved(ctx context.Context, saved models.Entity) (models.Entity, error) {
	if !p.online() {
		return saved, nil
	}
	results, err := p.engine.pushIDs(ctx, saved.ID())
	if err != nil {
		return saved, err
	}
	for _, r := range results {
		if r.Error != nil {
			return saved, r.Error
		}
		if r.Entity != nil {
			return r.Entity, nil
		}
	}
	return saved, nil
}

func (p *cacheProcessor) remove(ctx context.Context, q *models.Query) (models.RemoveResult, error) {
	n, queued, err := p.engine.remove(ctx, q)
	if err != nil || !p.online() {
		return models.RemoveResult{Count: n}, err
	}

	results, err := p.engine.pushIDs(ctx, queued...)
	if err != nil {
		return models.RemoveResult{Count: n}, err
	}
	if failed := results.Failed(); len(failed) > 0 {
		return models.RemoveResult{Count: n}, failed[0].Error
	}
	return models.RemoveResult{Count: n}, nil
}

func (p *cacheProcessor) removeByID(ctx context.Context, id string) (models.RemoveResult, error) {
	return p.remove(ctx, models.QueryByIDs(id))
}
