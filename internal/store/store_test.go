// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-docsync/internal/config"
	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/models"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func newTestStorages(t *testing.T) *ClientStorages {
	t.Helper()
	s, err := NewClientStorages(testContext(), config.ClientStorage{DSN: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &DB{DB: db, logger: logger.Nop()}, mock
}

// ── entityRepository ──────────────────────────────────────────────────────────

func TestEntityRepository_UpsertFind(t *testing.T) {
	ctx := testContext()
	repo := newTestStorages(t).Entities

	require.NoError(t, repo.Upsert(ctx, "books",
		models.Entity{"_id": "1", "title": "Dune", "pages": 412},
		models.Entity{"_id": "2", "title": "Emma", "pages": 474},
	))
	require.NoError(t, repo.Upsert(ctx, "films", models.Entity{"_id": "1", "title": "Alien"}))

	all, err := repo.Find(ctx, "books", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, models.EntityIDs(all))

	matched, err := repo.Find(ctx, "books", models.NewQuery(models.Gt("pages", 450)))
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Emma", matched[0]["title"])

	// upsert replaces the stored document and keeps its position
	require.NoError(t, repo.Upsert(ctx, "books", models.Entity{"_id": "1", "title": "Dune Messiah"}))
	got, err := repo.FindByID(ctx, "books", "1")
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got["title"])
	_, hasPages := got["pages"]
	assert.False(t, hasPages)

	all, err = repo.Find(ctx, "books", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, models.EntityIDs(all))
}

func TestEntityRepository_UpsertWithoutID(t *testing.T) {
	repo := newTestStorages(t).Entities
	err := repo.Upsert(testContext(), "books", models.Entity{"title": "anonymous"})
	assert.ErrorIs(t, err, ErrEntityWithoutID)
}

func TestEntityRepository_FindByID_NotFound(t *testing.T) {
	repo := newTestStorages(t).Entities
	_, err := repo.FindByID(testContext(), "books", "missing")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestEntityRepository_DeleteAndCount(t *testing.T) {
	ctx := testContext()
	repo := newTestStorages(t).Entities

	require.NoError(t, repo.Upsert(ctx, "books",
		models.Entity{"_id": "1", "genre": "scifi"},
		models.Entity{"_id": "2", "genre": "drama"},
		models.Entity{"_id": "3", "genre": "scifi"},
	))

	count, err := repo.Count(ctx, "books", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = repo.Count(ctx, "books", models.NewQuery(models.Eq("genre", "scifi")))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.Count(ctx, "books", (&models.Query{}).Page(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	deleted, err := repo.Delete(ctx, "books", models.NewQuery(models.Eq("genre", "scifi")))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "3"}, models.EntityIDs(deleted))

	n, err := repo.DeleteByID(ctx, "books", "2", "missing")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err = repo.Count(ctx, "books", nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEntityRepository_Clear(t *testing.T) {
	ctx := testContext()
	repo := newTestStorages(t).Entities

	require.NoError(t, repo.Upsert(ctx, "books", models.Entity{"_id": "1"}))
	require.NoError(t, repo.Upsert(ctx, "films", models.Entity{"_id": "1"}))
	require.NoError(t, repo.Clear(ctx, "books"))

	books, err := repo.Find(ctx, "books", nil)
	require.NoError(t, err)
	assert.Empty(t, books)

	films, err := repo.Find(ctx, "films", nil)
	require.NoError(t, err)
	assert.Len(t, films, 1)
}

func TestEntityRepository_LocalFlagPersisted(t *testing.T) {
	ctx := testContext()
	repo := newTestStorages(t).Entities

	e := models.Entity{"_id": "tmp-1"}
	e.MarkLocal()
	require.NoError(t, repo.Upsert(ctx, "books", e))

	got, err := repo.FindByID(ctx, "books", "tmp-1")
	require.NoError(t, err)
	assert.True(t, got.IsLocal())
}

func TestEntityRepository_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT doc FROM entities")).
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.Find(testContext(), "books", nil)
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_UpsertRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO entities")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO entities")).
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := repo.Upsert(testContext(), "books", models.Entity{"_id": "1"}, models.Entity{"_id": "2"})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepository_DecodeError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT doc FROM entities")).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow("{broken"))

	_, err := repo.FindByID(testContext(), "books", "1")
	assert.ErrorIs(t, err, ErrDecodingDocument)
}

// ── syncQueueRepository ───────────────────────────────────────────────────────

func record(id, entityID string, op models.SyncOperation) models.SyncRecord {
	return models.SyncRecord{
		ID:         id,
		Collection: "books",
		EntityID:   entityID,
		Operation:  op,
		Entity:     models.Entity{"_id": entityID},
		CreatedAt:  time.Now(),
	}
}

func TestSyncQueueRepository_SaveReplacesPerEntity(t *testing.T) {
	ctx := testContext()
	repo := newTestStorages(t).SyncQueue

	require.NoError(t, repo.Save(ctx, record("r1", "a", models.SyncCreate)))
	require.NoError(t, repo.Save(ctx, record("r2", "b", models.SyncUpdate)))
	require.NoError(t, repo.Save(ctx, record("r3", "a", models.SyncUpdate)))

	records, err := repo.FindByCollection(ctx, "books")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "r2", records[0].ID)
	assert.Equal(t, "r3", records[1].ID)
	assert.Equal(t, models.SyncUpdate, records[1].Operation)
	assert.Equal(t, "a", records[1].Entity.ID())

	got, err := repo.FindByEntityID(ctx, "books", "a")
	require.NoError(t, err)
	assert.Equal(t, "r3", got.ID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSyncQueueRepository_Deletes(t *testing.T) {
	ctx := testContext()
	repo := newTestStorages(t).SyncQueue

	require.NoError(t, repo.Save(ctx, record("r1", "a", models.SyncCreate)))
	require.NoError(t, repo.Save(ctx, record("r2", "b", models.SyncDelete)))
	require.NoError(t, repo.Save(ctx, record("r3", "c", models.SyncUpdate)))

	n, err := repo.DeleteByID(ctx, "r1", "gone")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.DeleteByID(ctx, "r1")
	require.NoError(t, err)
	assert.Zero(t, n, "removing a removed record is a no-op")

	n, err = repo.DeleteByEntityIDs(ctx, "books", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.FindByEntityID(ctx, "books", "b")
	assert.ErrorIs(t, err, ErrSyncRecordNotFound)

	n, err = repo.DeleteByCollection(ctx, "books")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSyncQueueRepository_DeleteSnapshotless(t *testing.T) {
	ctx := testContext()
	repo := newTestStorages(t).SyncQueue

	r := record("r1", "a", models.SyncDelete)
	r.Entity = nil
	require.NoError(t, repo.Save(ctx, r))

	got, err := repo.FindByEntityID(ctx, "books", "a")
	require.NoError(t, err)
	assert.Nil(t, got.Entity)
}

func TestSyncQueueRepository_SaveError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSyncQueueRepository(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO sync_queue")).
		WillReturnError(sql.ErrConnDone)

	err := repo.Save(testContext(), record("r1", "a", models.SyncCreate))
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── queryCacheRepository ──────────────────────────────────────────────────────

func TestQueryCacheRepository(t *testing.T) {
	ctx := testContext()
	repo := newTestStorages(t).QueryCache

	_, err := repo.Find(ctx, "books", "{}")
	assert.ErrorIs(t, err, ErrQueryCacheNotFound)

	require.NoError(t, repo.Save(ctx, models.QueryCacheEntry{ID: "q1", Collection: "books", Query: "{}", LastRequest: "t1"}))
	require.NoError(t, repo.Save(ctx, models.QueryCacheEntry{ID: "q2", Collection: "books", Query: "{}", LastRequest: "t2"}))

	got, err := repo.Find(ctx, "books", "{}")
	require.NoError(t, err)
	assert.Equal(t, "q1", got.ID, "the existing entry is updated in place")
	assert.Equal(t, "t2", got.LastRequest)

	require.NoError(t, repo.DeleteByCollection(ctx, "books"))
	_, err = repo.Find(ctx, "books", "{}")
	assert.ErrorIs(t, err, ErrQueryCacheNotFound)
}

// ── connection ────────────────────────────────────────────────────────────────

func TestNewConnectSQLite_CreatesFile(t *testing.T) {
	path := t.TempDir() + "/replica.db"

	s, err := NewClientStorages(testContext(), config.ClientStorage{DSN: path}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Entities.Upsert(testContext(), "books", models.Entity{"_id": "1"}))
	require.NoError(t, s.Close())

	reopened, err := NewClientStorages(testContext(), config.ClientStorage{DSN: path}, logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Entities.FindByID(testContext(), "books", "1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID())
}
