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
	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/query"
	"github.com/MKhiriev/go-docsync/internal/store"
	"github.com/MKhiriev/go-docsync/internal/utils"
	"github.com/MKhiriev/go-docsync/models"
)

// Strategy selects how a DataStore combines the local replica and the
// remote service.
type Strategy string

const (
	// StrategyNetwork sends every operation to the remote service and never
	// touches the local replica.
	StrategyNetwork Strategy = "network"
	// StrategyCache answers from the local replica first and then refreshes
	// it from the network while online. Mutations are pushed right away.
	StrategyCache Strategy = "cache"
	// StrategySync works on the local replica only. The network is used by
	// explicit Push, Pull and Sync calls.
	StrategySync Strategy = "sync"
)

func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case StrategyNetwork, StrategyCache, StrategySync:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// DataStoreDeps are the collaborators of a DataStore. Remote and
// Coordinator are always required; the repositories are required by the
// cache and sync strategies.
type DataStoreDeps struct {
	Entities    store.EntityRepository
	Queue       store.SyncQueueRepository
	QueryCache  store.QueryCacheRepository
	Remote      adapter.CollectionClient
	Coordinator *SyncCoordinator
	Network     *NetworkState
}

// DataStoreOptions tune a DataStore. Zero values take the defaults.
type DataStoreOptions struct {
	// BatchSize is the number of ledger records pushed concurrently.
	// Defaults to 100.
	BatchSize int
	// UseDeltaFetch makes cache-strategy reads ask for changes only.
	UseDeltaFetch bool
	// AutoPagination makes cache-strategy reads fetch in pages of PageSize.
	AutoPagination bool
	// PageSize defaults to 10000.
	PageSize int
	// Timeout bounds every remote call. Zero keeps the client default.
	Timeout time.Duration

	Logger      *logger.Logger
	IDGenerator IDGenerator
}

// DataStore is the entry point of an application to one collection. Reads
// return cold sequences: nothing runs until the sequence is ranged over, and
// every range runs the read again.
type DataStore struct {
	collection string
	strategy   Strategy
	processor  processor
	engine     *syncEngine
}

// NewDataStore builds a DataStore of collection working with the given
// strategy.
func NewDataStore(collection string, strategy Strategy, deps DataStoreDeps, opts DataStoreOptions) (*DataStore, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}
	if deps.Remote == nil || deps.Coordinator == nil {
		return nil, errors.New("data store needs a remote client and a sync coordinator")
	}
	if strategy != StrategyNetwork && (deps.Entities == nil || deps.Queue == nil || deps.QueryCache == nil) {
		return nil, fmt.Errorf("strategy %s needs the local repositories", strategy)
	}

	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = utils.NewUUIDGenerator()
	}

	s := &DataStore{collection: collection, strategy: strategy}
	network := &networkProcessor{
		collection: collection,
		remote:     deps.Remote,
		timeout:    opts.Timeout,
	}

	switch strategy {
	case StrategyNetwork:
		s.processor = network
		return s, nil
	case StrategyCache, StrategySync:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	s.engine = newSyncEngine(collection, deps, opts)
	local := &localProcessor{engine: s.engine}
	if strategy == StrategySync {
		s.processor = local
	} else {
		s.processor = &cacheProcessor{localProcessor: local, network: network}
	}
	return s, nil
}

func (s *DataStore) Collection() string {
	return s.collection
}

func (s *DataStore) Strategy() Strategy {
	return s.strategy
}

// Online reports whether cache-strategy operations may reach the network.
func (s *DataStore) Online() bool {
	return s.engine == nil || s.engine.network.Online()
}

// Find yields the entities matching q. The cache strategy yields the local
// matches first and, when online and nothing is pending, the refreshed set.
func (s *DataStore) Find(ctx context.Context, q *models.Query) iter.Seq2[[]models.Entity, error] {
	if err := query.Validate(q); err != nil {
		return errSeq[[]models.Entity](err)
	}
	return s.processor.find(ctx, q)
}

// FindByID yields the entity with the given id. A missing entity is yielded
// as nil without error while offline.
func (s *DataStore) FindByID(ctx context.Context, id string) iter.Seq2[models.Entity, error] {
	if id == "" {
		return errSeq[models.Entity](ErrMissingEntityID)
	}
	return s.processor.findByID(ctx, id)
}

func (s *DataStore) Count(ctx context.Context, q *models.Query) iter.Seq2[int, error] {
	if err := query.Validate(q); err != nil {
		return errSeq[int](err)
	}
	return s.processor.count(ctx, q)
}

// Create stores a new entity. An entity without _id gets a temporary id and
// is flagged as locally created until it is pushed.
func (s *DataStore) Create(ctx context.Context, e models.Entity) (models.Entity, error) {
	if len(e) == 0 {
		return nil, ErrEmptyEntity
	}
	return s.processor.create(ctx, e)
}

// Update replaces the entity identified by its _id.
func (s *DataStore) Update(ctx context.Context, e models.Entity) (models.Entity, error) {
	if len(e) == 0 {
		return nil, ErrEmptyEntity
	}
	if e.ID() == "" {
		return nil, ErrMissingEntityID
	}
	return s.processor.update(ctx, e)
}

// Save updates entities carrying an _id and creates the others.
func (s *DataStore) Save(ctx context.Context, e models.Entity) (models.Entity, error) {
	if e.ID() != "" {
		return s.Update(ctx, e)
	}
	return s.Create(ctx, e)
}

func (s *DataStore) Remove(ctx context.Context, q *models.Query) (models.RemoveResult, error) {
	if err := query.Validate(q); err != nil {
		return models.RemoveResult{}, err
	}
	return s.processor.remove(ctx, q)
}

func (s *DataStore) RemoveByID(ctx context.Context, id string) (models.RemoveResult, error) {
	if id == "" {
		return models.RemoveResult{}, ErrMissingEntityID
	}
	return s.processor.removeByID(ctx, id)
}

// Push replays the pending records matching q. The results hold one entry
// per record; failed entries carry their error and stay pending.
func (s *DataStore) Push(ctx context.Context, q *models.Query) (models.PushResults, error) {
	if err := s.checkLocal(q); err != nil {
		return nil, err
	}
	return s.engine.pusher.Push(ctx, q)
}

// Pull refreshes the local replica from the remote service. Records pending
// for q are pushed first; a *PendingSyncError is returned when some remain.
func (s *DataStore) Pull(ctx context.Context, q *models.Query, opts models.PullOptions) (models.PullResult, error) {
	if err := s.checkLocal(q); err != nil {
		return models.PullResult{}, err
	}
	return s.engine.pull(ctx, q, opts)
}

// Sync pushes and then pulls q. When the pull fails the push results are
// returned together with the error.
func (s *DataStore) Sync(ctx context.Context, q *models.Query, opts models.PullOptions) (models.SyncResult, error) {
	if err := s.checkLocal(q); err != nil {
		return models.SyncResult{}, err
	}

	pushed, err := s.engine.pusher.Push(ctx, q)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("push: %w", err)
	}
	pulled, err := s.engine.pull(ctx, q, opts)
	if err != nil {
		return models.SyncResult{Push: pushed}, fmt.Errorf("pull: %w", err)
	}
	return models.SyncResult{Push: pushed, Pull: pulled}, nil
}

func (s *DataStore) PendingSyncCount(ctx context.Context, q *models.Query) (int, error) {
	if err := s.checkLocal(q); err != nil {
		return 0, err
	}
	return s.engine.ledger.Count(ctx, q)
}

func (s *DataStore) PendingSyncEntities(ctx context.Context, q *models.Query) ([]models.SyncRecord, error) {
	if err := s.checkLocal(q); err != nil {
		return nil, err
	}
	return s.engine.ledger.Find(ctx, q)
}

// ClearSync abandons the pending records matching q without contacting the
// remote service.
func (s *DataStore) ClearSync(ctx context.Context, q *models.Query) (int, error) {
	if err := s.checkLocal(q); err != nil {
		return 0, err
	}
	return s.engine.ledger.Clear(ctx, q)
}

// Clear wipes the local entities matching q together with their pending
// records. A nil query also forgets every pull timestamp of the collection.
func (s *DataStore) Clear(ctx context.Context, q *models.Query) (models.RemoveResult, error) {
	if err := s.checkLocal(q); err != nil {
		return models.RemoveResult{}, err
	}
	return s.engine.clear(ctx, q)
}

func (s *DataStore) checkLocal(q *models.Query) error {
	if s.engine == nil {
		return fmt.Errorf("%w: %s", ErrOperationNotSupported, s.strategy)
	}
	return query.Validate(q)
}

func errSeq[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}
