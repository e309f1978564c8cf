// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-docsync/internal/mock"
	"github.com/MKhiriev/go-docsync/internal/store"
	"github.com/MKhiriev/go-docsync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLedger(t *testing.T) *SyncLedger {
	t.Helper()
	return NewSyncLedger("books", newTestStorages(t).SyncQueue, &seqIDs{prefix: "rec"})
}

// ── Add ──────────────────────────────────────────────────────────────────────

func TestSyncLedger_CreateThenUpdateCollapses(t *testing.T) {
	ctx := testContext()
	ledger := newTestLedger(t)

	require.NoError(t, ledger.Add(ctx, models.SyncCreate, models.Entity{"_id": "a", "title": "Dune"}))
	require.NoError(t, ledger.Add(ctx, models.SyncUpdate, models.Entity{"_id": "a", "title": "Dune Messiah"}))

	records, err := ledger.Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].EntityID)
	assert.Equal(t, models.SyncUpdate, records[0].Operation)
	assert.Equal(t, "Dune Messiah", records[0].Entity["title"])
}

func TestSyncLedger_DeleteOfLocallyCreatedDropsRecord(t *testing.T) {
	ctx := testContext()
	ledger := newTestLedger(t)

	e := models.Entity{"_id": "tmp-1", "title": "draft"}
	e.MarkLocal()
	require.NoError(t, ledger.Add(ctx, models.SyncCreate, e))
	require.NoError(t, ledger.Add(ctx, models.SyncDelete, e))

	n, err := ledger.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSyncLedger_DeleteReplacesUpdate(t *testing.T) {
	ctx := testContext()
	ledger := newTestLedger(t)

	e := models.Entity{"_id": "a"}
	require.NoError(t, ledger.Add(ctx, models.SyncUpdate, e))
	require.NoError(t, ledger.Add(ctx, models.SyncDelete, e))

	records, err := ledger.Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.SyncDelete, records[0].Operation)
}

func TestSyncLedger_AddWithoutIDFailsBeforeWriting(t *testing.T) {
	ctx := testContext()
	ledger := newTestLedger(t)

	err := ledger.Add(ctx, models.SyncCreate, models.Entity{"_id": "a"}, models.Entity{"title": "no id"})
	require.ErrorIs(t, err, ErrSync)
	assert.ErrorIs(t, err, ErrMissingEntityID)

	n, err := ledger.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing may be written when one entity is invalid")
}

func TestSyncLedger_AddUnknownOperation(t *testing.T) {
	err := newTestLedger(t).Add(testContext(), "upsert", models.Entity{"_id": "a"})
	assert.ErrorIs(t, err, ErrSync)
}

func TestSyncLedger_AddStoresSnapshotCopy(t *testing.T) {
	ctx := testContext()
	ledger := newTestLedger(t)
	ledger.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	e := models.Entity{"_id": "a", "title": "Dune"}
	require.NoError(t, ledger.Add(ctx, models.SyncUpdate, e))
	e["title"] = "changed after add"

	record, err := ledger.FindByEntityID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Dune", record.Entity["title"])
	assert.Equal(t, "books", record.Collection)
	assert.Equal(t, 2026, record.CreatedAt.Year())
}

// ── Find / Clear ─────────────────────────────────────────────────────────────

func TestSyncLedger_FindMatchesSnapshots(t *testing.T) {
	ctx := testContext()
	ledger := newTestLedger(t)

	require.NoError(t, ledger.Add(ctx, models.SyncUpdate,
		models.Entity{"_id": "a", "genre": "scifi"},
		models.Entity{"_id": "b", "genre": "drama"},
		models.Entity{"_id": "c", "genre": "scifi"},
	))

	records, err := ledger.Find(ctx, models.NewQuery(models.Eq("genre", "scifi")))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].EntityID)
	assert.Equal(t, "c", records[1].EntityID)

	n, err := ledger.Count(ctx, models.QueryByIDs("b"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSyncLedger_Clear(t *testing.T) {
	ctx := testContext()
	ledger := newTestLedger(t)

	require.NoError(t, ledger.Add(ctx, models.SyncUpdate,
		models.Entity{"_id": "a", "genre": "scifi"},
		models.Entity{"_id": "b", "genre": "drama"},
		models.Entity{"_id": "c", "genre": "scifi"},
	))

	n, err := ledger.Clear(ctx, models.NewQuery(models.Eq("genre", "drama")))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = ledger.Clear(ctx, models.NewQuery(models.Eq("genre", "poetry")))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = ledger.Clear(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSyncLedger_RemoveByIDIgnoresReplacedRecord(t *testing.T) {
	ctx := testContext()
	ledger := newTestLedger(t)

	require.NoError(t, ledger.Add(ctx, models.SyncCreate, models.Entity{"_id": "a"}))
	first, err := ledger.FindByEntityID(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, ledger.Add(ctx, models.SyncUpdate, models.Entity{"_id": "a"}))

	n, err := ledger.RemoveByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = ledger.FindByEntityID(ctx, "a")
	assert.NoError(t, err)
}

func TestSyncLedger_StorageErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := testContext()

	queue := mock.NewMockSyncQueueRepository(ctrl)
	ledger := NewSyncLedger("books", queue, &seqIDs{prefix: "rec"})

	queue.EXPECT().Save(ctx, gomock.Any()).Return(store.ErrExecutingStatement)
	err := ledger.Add(ctx, models.SyncUpdate, models.Entity{"_id": "a"})
	assert.ErrorIs(t, err, store.ErrExecutingStatement)

	queue.EXPECT().FindByCollection(ctx, "books").Return(nil, store.ErrExecutingQuery)
	_, err = ledger.Count(ctx, nil)
	assert.ErrorIs(t, err, store.ErrExecutingQuery)
}

// ── SyncCoordinator ──────────────────────────────────────────────────────────

func TestSyncCoordinator_TryAcquire(t *testing.T) {
	c := NewSyncCoordinator()

	release, err := c.TryAcquire("books")
	require.NoError(t, err)
	assert.True(t, c.IsPushing("books"))

	_, err = c.TryAcquire("books")
	assert.ErrorIs(t, err, ErrSyncInProgress)

	other, err := c.TryAcquire("authors")
	require.NoError(t, err, "collections are independent")
	other()

	release()
	release()
	assert.False(t, c.IsPushing("books"))

	again, err := c.TryAcquire("books")
	require.NoError(t, err)
	again()
}

func TestSyncCoordinator_TryAcquireConcurrent(t *testing.T) {
	c := NewSyncCoordinator()

	const workers = 32
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		acquired int
		releases []func()
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := c.TryAcquire("books")
			if err != nil {
				return
			}
			mu.Lock()
			acquired++
			releases = append(releases, release)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, acquired)
	for _, release := range releases {
		release()
	}
}

func TestSyncCoordinator_LockEntity(t *testing.T) {
	c := NewSyncCoordinator()

	unlock := c.LockEntity("books", "a")
	locked := make(chan struct{})
	go func() {
		defer close(locked)
		c.LockEntity("books", "a")()
	}()

	select {
	case <-locked:
		t.Fatal("second lock of the same entity must wait")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-locked:
	case <-time.After(time.Second):
		t.Fatal("lock was not handed over")
	}
}
