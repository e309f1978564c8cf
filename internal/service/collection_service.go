// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/query"
	"github.com/MKhiriev/go-docsync/internal/utils"
	"github.com/MKhiriev/go-docsync/models"
)

// TimestampLayout is the layout of every timestamp the collection service
// hands out: entity metadata, X-Request-Start and delta sync timestamps.
const TimestampLayout = time.RFC3339Nano

//go:generate mockgen -source=collection_service.go -destination=../mock/collection_service_mock.go -package=mock

// CollectionService is the remote document collection service served by
// the reference HTTP server.
type CollectionService interface {
	// Now returns the service clock. Handlers report it as the request
	// start time.
	Now() time.Time
	Find(ctx context.Context, collection string, q *models.Query) ([]models.Entity, error)
	// FindByID returns ErrEntityNotFound for a missing entity.
	FindByID(ctx context.Context, collection, id string) (models.Entity, error)
	Count(ctx context.Context, collection string, q *models.Query) (int, error)
	// Create stores a new entity, assigning _id when it is absent.
	Create(ctx context.Context, collection string, e models.Entity) (models.Entity, error)
	// Update stores e under id, creating it when it does not exist.
	Update(ctx context.Context, collection, id string, e models.Entity) (models.Entity, error)
	Delete(ctx context.Context, collection, id string) (int, error)
	DeleteByQuery(ctx context.Context, collection string, q *models.Query) (int, error)
	// DeltaSet returns the entities matching q changed at or after since and
	// the ids deleted at or after since.
	DeltaSet(ctx context.Context, collection string, q *models.Query, since string) (models.DeltaSet, error)
}

// CollectionServiceOptions configure NewCollectionService.
type CollectionServiceOptions struct {
	// DisableDeltaSet makes DeltaSet answer ErrDeltaSetDisabled.
	DisableDeltaSet bool
	// DeltaRetention is how long deletions are remembered. Zero keeps them
	// forever.
	DeltaRetention time.Duration

	Clock       func() time.Time
	IDGenerator IDGenerator
}

type storedEntity struct {
	doc      models.Entity
	seq      uint64
	modified time.Time
}

type memoryCollection struct {
	entities   map[string]*storedEntity
	tombstones map[string]time.Time
}

type collectionService struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
	seq         uint64

	deltaDisabled bool
	retention     time.Duration
	clock         func() time.Time
	ids           IDGenerator
	logger        *logger.Logger
}

// NewCollectionService returns an in-memory CollectionService.
func NewCollectionService(opts CollectionServiceOptions, log *logger.Logger) CollectionService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = utils.NewUUIDGenerator()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &collectionService{
		collections:   make(map[string]*memoryCollection),
		deltaDisabled: opts.DisableDeltaSet,
		retention:     opts.DeltaRetention,
		clock:         opts.Clock,
		ids:           opts.IDGenerator,
		logger:        log,
	}
}

func (s *collectionService) Now() time.Time {
	return s.clock().UTC()
}

func (s *collectionService) Find(_ context.Context, collection string, q *models.Query) ([]models.Entity, error) {
	if err := checkRequest(collection, q); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return query.Apply(q, s.ordered(collection)), nil
}

func (s *collectionService) FindByID(_ context.Context, collection, id string) (models.Entity, error) {
	if err := checkRequest(collection, nil); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, ErrEntityNotFound
	}
	stored, ok := c.entities[id]
	if !ok {
		return nil, ErrEntityNotFound
	}
	return stored.doc.Clone(), nil
}

func (s *collectionService) Count(_ context.Context, collection string, q *models.Query) (int, error) {
	if err := checkRequest(collection, q); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(query.Apply(q.Unpaged(), s.ordered(collection))), nil
}

func (s *collectionService) Create(_ context.Context, collection string, e models.Entity) (models.Entity, error) {
	if err := checkRequest(collection, nil); err != nil {
		return nil, err
	}
	doc := e.Clone()
	if doc == nil {
		doc = models.Entity{}
	}
	if doc.ID() == "" {
		doc.SetID(s.ids.Generate())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store(collection, doc), nil
}

func (s *collectionService) Update(_ context.Context, collection, id string, e models.Entity) (models.Entity, error) {
	if err := checkRequest(collection, nil); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrMissingEntityID
	}
	doc := e.Clone()
	if doc == nil {
		doc = models.Entity{}
	}
	doc.SetID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store(collection, doc), nil
}

func (s *collectionService) Delete(_ context.Context, collection, id string) (int, error) {
	if err := checkRequest(collection, nil); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return 0, ErrEntityNotFound
	}
	if _, ok := c.entities[id]; !ok {
		return 0, ErrEntityNotFound
	}
	s.remove(c, id)
	return 1, nil
}

func (s *collectionService) DeleteByQuery(_ context.Context, collection string, q *models.Query) (int, error) {
	if err := checkRequest(collection, q); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return 0, nil
	}
	matched := query.Apply(q, s.ordered(collection))
	for _, e := range matched {
		s.remove(c, e.ID())
	}
	return len(matched), nil
}

func (s *collectionService) DeltaSet(_ context.Context, collection string, q *models.Query, since string) (models.DeltaSet, error) {
	if err := checkRequest(collection, q); err != nil {
		return models.DeltaSet{}, err
	}
	if s.deltaDisabled {
		return models.DeltaSet{}, ErrDeltaSetDisabled
	}

	from, err := time.Parse(TimestampLayout, since)
	if err != nil {
		return models.DeltaSet{}, ErrInvalidSince
	}
	now := s.Now()
	if from.After(now) || (s.retention > 0 && from.Before(now.Add(-s.retention))) {
		s.logger.Debug().
			Str("func", "*collectionService.DeltaSet").
			Str("collection", collection).
			Str("since", since).
			Msg("delta set requested outside the retained window")
		return models.DeltaSet{}, ErrSinceOutOfRange
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := models.DeltaSet{
		Changed:       []models.Entity{},
		Deleted:       []string{},
		SyncTimestamp: now.Format(TimestampLayout),
	}
	c, ok := s.collections[collection]
	if !ok {
		return out, nil
	}

	var changed []models.Entity
	for _, stored := range s.sorted(c) {
		if !stored.modified.Before(from) {
			changed = append(changed, stored.doc.Clone())
		}
	}
	out.Changed = query.Apply(q.Unpaged(), changed)

	for _, id := range slices.Sorted(maps.Keys(c.tombstones)) {
		if !c.tombstones[id].Before(from) {
			out.Deleted = append(out.Deleted, id)
		}
	}
	return out, nil
}

// store writes doc and stamps its metadata. The caller holds the write lock.
func (s *collectionService) store(collection string, doc models.Entity) models.Entity {
	c, ok := s.collections[collection]
	if !ok {
		c = &memoryCollection{
			entities:   make(map[string]*storedEntity),
			tombstones: make(map[string]time.Time),
		}
		s.collections[collection] = c
	}

	now := s.Now()
	stamp := now.Format(TimestampLayout)
	doc.ClearLocal()

	id := doc.ID()
	if existing, ok := c.entities[id]; ok {
		if meta, ok := existing.doc[models.MetadataField].(map[string]any); ok {
			if created, ok := meta["ect"].(string); ok {
				stamp = created
			}
		}
		doc.SetTimestamps(stamp, now.Format(TimestampLayout))
		existing.doc = doc
		existing.modified = now
		return doc.Clone()
	}

	doc.SetTimestamps(stamp, stamp)
	s.seq++
	c.entities[id] = &storedEntity{doc: doc, seq: s.seq, modified: now}
	delete(c.tombstones, id)
	return doc.Clone()
}

// remove deletes one entity and remembers the deletion for delta sets. The
// caller holds the write lock.
func (s *collectionService) remove(c *memoryCollection, id string) {
	now := s.Now()
	delete(c.entities, id)
	c.tombstones[id] = now

	if s.retention <= 0 {
		return
	}
	horizon := now.Add(-s.retention)
	for tid, at := range c.tombstones {
		if at.Before(horizon) {
			delete(c.tombstones, tid)
		}
	}
}

// ordered returns clones of the entities of collection in insertion order.
func (s *collectionService) ordered(collection string) []models.Entity {
	c, ok := s.collections[collection]
	if !ok {
		return []models.Entity{}
	}
	sorted := s.sorted(c)
	out := make([]models.Entity, 0, len(sorted))
	for _, stored := range sorted {
		out = append(out, stored.doc.Clone())
	}
	return out
}

func (s *collectionService) sorted(c *memoryCollection) []*storedEntity {
	return slices.SortedFunc(maps.Values(c.entities), func(a, b *storedEntity) int {
		return cmp.Compare(a.seq, b.seq)
	})
}

func checkRequest(collection string, q *models.Query) error {
	if collection == "" {
		return ErrEmptyCollection
	}
	return query.Validate(q)
}
