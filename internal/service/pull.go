// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-docsync/internal/adapter"
	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/query"
	"github.com/MKhiriev/go-docsync/internal/store"
	"github.com/MKhiriev/go-docsync/models"
)

// DefaultPageSize is the page size of auto-paginated pulls.
const DefaultPageSize = 10000

// pullReconciler refreshes the local replica of one collection from the
// remote service, with a full or a delta fetch.
type pullReconciler struct {
	collection string
	entities   store.EntityRepository
	cache      store.QueryCacheRepository
	ledger     *SyncLedger
	remote     adapter.CollectionClient
	ids        IDGenerator
	logger     *logger.Logger
}

func (p *pullReconciler) Pull(ctx context.Context, q *models.Query, opts models.PullOptions) (models.PullResult, error) {
	signature := query.Signature(q)

	if opts.UseDeltaFetch && !q.IsPaged() {
		entry, err := p.cache.Find(ctx, p.collection, signature)
		switch {
		case err == nil && entry.LastRequest != "":
			result, err := p.pullDelta(ctx, q, entry, opts)
			if err == nil {
				return result, nil
			}
			if !errors.Is(err, adapter.ErrIncrementalUnsupported) && !errors.Is(err, adapter.ErrOutOfRange) {
				return models.PullResult{}, err
			}
			p.logger.Debug().Err(err).
				Str("func", "*pullReconciler.Pull").
				Str("collection", p.collection).
				Msg("delta fetch rejected, falling back to a full fetch")
		case err != nil && !errors.Is(err, store.ErrQueryCacheNotFound):
			return models.PullResult{}, fmt.Errorf("load query cache: %w", err)
		}
	}

	return p.pullFull(ctx, q, signature, opts)
}

func (p *pullReconciler) pullFull(ctx context.Context, q *models.Query, signature string, opts models.PullOptions) (models.PullResult, error) {
	found, err := p.fetch(ctx, q, opts)
	if err != nil {
		return models.PullResult{}, err
	}

	pending, err := p.pendingIDs(ctx)
	if err != nil {
		return models.PullResult{}, err
	}

	// one remote page says nothing about entities outside of it
	var stale []string
	if !q.IsPaged() {
		local, err := p.entities.Find(ctx, p.collection, q)
		if err != nil {
			return models.PullResult{}, fmt.Errorf("load local entities: %w", err)
		}

		remoteIDs := make(map[string]struct{}, len(found.Entities))
		for _, e := range found.Entities {
			remoteIDs[e.ID()] = struct{}{}
		}
		for _, e := range local {
			if _, ok := remoteIDs[e.ID()]; !ok {
				stale = append(stale, e.ID())
			}
		}
	}

	deleted, err := p.entities.DeleteByID(ctx, p.collection, withoutPendingIDs(stale, pending)...)
	if err != nil {
		return models.PullResult{}, fmt.Errorf("evict stale entities: %w", err)
	}
	changed := withoutPendingEntities(found.Entities, pending)
	if err := p.entities.Upsert(ctx, p.collection, changed...); err != nil {
		return models.PullResult{}, fmt.Errorf("store pulled entities: %w", err)
	}

	if err := p.remember(ctx, q, signature, found.SyncTimestamp); err != nil {
		return models.PullResult{}, err
	}

	return p.result(ctx, q, len(changed), deleted, false)
}

func (p *pullReconciler) pullDelta(ctx context.Context, q *models.Query, entry models.QueryCacheEntry, opts models.PullOptions) (models.PullResult, error) {
	delta, err := p.remote.FindDelta(ctx, p.collection, q, entry.LastRequest, adapter.RequestOptions{Timeout: opts.Timeout})
	if err != nil {
		return models.PullResult{}, err
	}

	pending, err := p.pendingIDs(ctx)
	if err != nil {
		return models.PullResult{}, err
	}

	deleted, err := p.entities.DeleteByID(ctx, p.collection, withoutPendingIDs(delta.Deleted, pending)...)
	if err != nil {
		return models.PullResult{}, fmt.Errorf("apply deleted ids: %w", err)
	}
	changed := withoutPendingEntities(delta.Changed, pending)
	if err := p.entities.Upsert(ctx, p.collection, changed...); err != nil {
		return models.PullResult{}, fmt.Errorf("apply changed entities: %w", err)
	}

	if err := p.remember(ctx, q, entry.Query, delta.SyncTimestamp); err != nil {
		return models.PullResult{}, err
	}

	return p.result(ctx, q, len(changed), deleted, true)
}

// pendingIDs returns the ids of all entities of the collection with a
// pending record. A pull never overwrites or evicts their local copies.
func (p *pullReconciler) pendingIDs(ctx context.Context) (map[string]struct{}, error) {
	records, err := p.ledger.Find(ctx, nil)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		ids[r.EntityID] = struct{}{}
	}
	return ids, nil
}

func withoutPendingIDs(ids []string, pending map[string]struct{}) []string {
	if len(pending) == 0 {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := pending[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func withoutPendingEntities(entities []models.Entity, pending map[string]struct{}) []models.Entity {
	if len(pending) == 0 {
		return entities
	}
	out := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if _, ok := pending[e.ID()]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// fetch runs a full fetch, page by page when auto pagination is requested
// for an unpaged query.
func (p *pullReconciler) fetch(ctx context.Context, q *models.Query, opts models.PullOptions) (models.FindResult, error) {
	reqOpts := adapter.RequestOptions{Timeout: opts.Timeout}
	if !opts.AutoPagination || q.IsPaged() {
		return p.remote.Find(ctx, p.collection, q, reqOpts)
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total, err := p.remote.Count(ctx, p.collection, q, reqOpts)
	if err != nil {
		return models.FindResult{}, err
	}

	var out models.FindResult
	for skip := 0; skip < total || skip == 0; skip += pageSize {
		page := &models.Query{}
		if q != nil {
			*page = *q
		}
		page.Page(skip, pageSize)

		res, err := p.remote.Find(ctx, p.collection, page, reqOpts)
		if err != nil {
			return models.FindResult{}, err
		}
		if out.SyncTimestamp == "" {
			out.SyncTimestamp = res.SyncTimestamp
		}
		out.Entities = append(out.Entities, res.Entities...)
		if len(res.Entities) < pageSize {
			break
		}
	}

	p.logger.Debug().
		Str("func", "*pullReconciler.fetch").
		Str("collection", p.collection).
		Int("count", total).
		Int("fetched", len(out.Entities)).
		Msg("auto-paginated fetch finished")
	return out, nil
}

// remember stores the server timestamp of an unpaged pull for the next
// delta fetch.
func (p *pullReconciler) remember(ctx context.Context, q *models.Query, signature, timestamp string) error {
	if q.IsPaged() || timestamp == "" {
		return nil
	}
	entry := models.QueryCacheEntry{
		ID:          p.ids.Generate(),
		Collection:  p.collection,
		Query:       signature,
		LastRequest: timestamp,
	}
	if err := p.cache.Save(ctx, entry); err != nil {
		return fmt.Errorf("save query cache: %w", err)
	}
	return nil
}

func (p *pullReconciler) result(ctx context.Context, q *models.Query, changed, deleted int, delta bool) (models.PullResult, error) {
	entities, err := p.entities.Find(ctx, p.collection, q)
	if err != nil {
		return models.PullResult{}, fmt.Errorf("load pulled entities: %w", err)
	}
	if entities == nil {
		entities = []models.Entity{}
	}
	return models.PullResult{
		Entities: entities,
		Count:    len(entities),
		Changed:  changed,
		Deleted:  deleted,
		Delta:    delta,
	}, nil
}
