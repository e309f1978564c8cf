// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-docsync/internal/adapter"
	"github.com/MKhiriev/go-docsync/internal/config"
	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/store"
	"github.com/MKhiriev/go-docsync/models"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return context.Background()
}

// seqIDs hands out predictable ids: tmp-1, tmp-2, ...
type seqIDs struct {
	prefix string
	n      atomic.Int64
}

func (g *seqIDs) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}

func newTestStorages(t *testing.T) *store.ClientStorages {
	t.Helper()
	s, err := store.NewClientStorages(testContext(), config.ClientStorage{DSN: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type testEnv struct {
	storages    *store.ClientStorages
	coordinator *SyncCoordinator
	network     *NetworkState
	ids         *seqIDs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		storages:    newTestStorages(t),
		coordinator: NewSyncCoordinator(),
		network:     NewNetworkState(true),
		ids:         &seqIDs{prefix: "tmp"},
	}
}

func (env *testEnv) deps(remote adapter.CollectionClient) DataStoreDeps {
	return DataStoreDeps{
		Entities:    env.storages.Entities,
		Queue:       env.storages.SyncQueue,
		QueryCache:  env.storages.QueryCache,
		Remote:      remote,
		Coordinator: env.coordinator,
		Network:     env.network,
	}
}

func (env *testEnv) store(t *testing.T, collection string, strategy Strategy, remote adapter.CollectionClient) *DataStore {
	t.Helper()
	ds, err := NewDataStore(collection, strategy, env.deps(remote), DataStoreOptions{
		IDGenerator: env.ids,
		Logger:      logger.Nop(),
	})
	require.NoError(t, err)
	return ds
}

func (env *testEnv) seed(t *testing.T, collection string, entities ...models.Entity) {
	t.Helper()
	require.NoError(t, env.storages.Entities.Upsert(testContext(), collection, entities...))
}

func (env *testEnv) localIDs(t *testing.T, collection string) []string {
	t.Helper()
	found, err := env.storages.Entities.Find(testContext(), collection, nil)
	require.NoError(t, err)
	return models.EntityIDs(found)
}

// collect ranges over seq and returns every yielded pair.
func collect[T any](seq iter.Seq2[T, error]) ([]T, []error) {
	var values []T
	var errs []error
	for v, err := range seq {
		values = append(values, v)
		errs = append(errs, err)
	}
	return values, errs
}

// memoryRemote serves adapter.CollectionClient from an in-memory
// CollectionService and counts the calls it receives.
type memoryRemote struct {
	svc   CollectionService
	calls atomic.Int64

	mu       sync.Mutex
	failNext map[string]error
}

func newMemoryRemote(clock func() time.Time) *memoryRemote {
	return &memoryRemote{
		svc: NewCollectionService(CollectionServiceOptions{
			Clock:       clock,
			IDGenerator: &seqIDs{prefix: "r"},
		}, nil),
		failNext: make(map[string]error),
	}
}

// fail makes the next call of method return err.
func (m *memoryRemote) fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext[method] = err
}

func (m *memoryRemote) enter(method string) error {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failNext[method]
	delete(m.failNext, method)
	return err
}

func mapServiceError(err error) error {
	if errors.Is(err, ErrEntityNotFound) {
		return fmt.Errorf("%w: %w", adapter.ErrNotFound, err)
	}
	return err
}

func (m *memoryRemote) Create(ctx context.Context, collection string, e models.Entity, _ adapter.RequestOptions) (models.Entity, error) {
	if err := m.enter("Create"); err != nil {
		return nil, err
	}
	return m.svc.Create(ctx, collection, e)
}

func (m *memoryRemote) Update(ctx context.Context, collection string, e models.Entity, _ adapter.RequestOptions) (models.Entity, error) {
	if err := m.enter("Update"); err != nil {
		return nil, err
	}
	return m.svc.Update(ctx, collection, e.ID(), e)
}

func (m *memoryRemote) Delete(ctx context.Context, collection, id string, _ adapter.RequestOptions) (int, error) {
	if err := m.enter("Delete"); err != nil {
		return 0, err
	}
	n, err := m.svc.Delete(ctx, collection, id)
	return n, mapServiceError(err)
}

func (m *memoryRemote) DeleteByQuery(ctx context.Context, collection string, q *models.Query, _ adapter.RequestOptions) (int, error) {
	if err := m.enter("DeleteByQuery"); err != nil {
		return 0, err
	}
	return m.svc.DeleteByQuery(ctx, collection, q)
}

func (m *memoryRemote) Find(ctx context.Context, collection string, q *models.Query, _ adapter.RequestOptions) (models.FindResult, error) {
	if err := m.enter("Find"); err != nil {
		return models.FindResult{}, err
	}
	now := m.svc.Now().Format(TimestampLayout)
	found, err := m.svc.Find(ctx, collection, q)
	return models.FindResult{Entities: found, SyncTimestamp: now}, err
}

func (m *memoryRemote) FindByID(ctx context.Context, collection, id string, _ adapter.RequestOptions) (models.Entity, error) {
	if err := m.enter("FindByID"); err != nil {
		return nil, err
	}
	e, err := m.svc.FindByID(ctx, collection, id)
	return e, mapServiceError(err)
}

func (m *memoryRemote) FindDelta(ctx context.Context, collection string, q *models.Query, since string, _ adapter.RequestOptions) (models.DeltaSet, error) {
	if err := m.enter("FindDelta"); err != nil {
		return models.DeltaSet{}, err
	}
	return m.svc.DeltaSet(ctx, collection, q, since)
}

func (m *memoryRemote) Count(ctx context.Context, collection string, q *models.Query, _ adapter.RequestOptions) (int, error) {
	if err := m.enter("Count"); err != nil {
		return 0, err
	}
	return m.svc.Count(ctx, collection, q)
}

// stepClock advances by one millisecond on every reading.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}
