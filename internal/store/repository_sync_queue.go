// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/models"
)

const syncQueueTable = "sync_queue"

var syncQueueColumns = []string{"id", "collection", "entity_id", "operation", "entity", "created_at"}

type syncQueueRepository struct {
	*DB
	logger *logger.Logger
}

func NewSyncQueueRepository(db *DB, logger *logger.Logger) SyncQueueRepository {
	return &syncQueueRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *syncQueueRepository) Save(ctx context.Context, record models.SyncRecord) error {
	log := logger.FromContext(ctx)

	var snapshot any
	if record.Entity != nil {
		raw, err := json.Marshal(record.Entity)
		if err != nil {
			return fmt.Errorf("failed to encode record snapshot: %w", err)
		}
		snapshot = string(raw)
	}

	stmt, args, err := r.builder().
		Insert(syncQueueTable).
		Options("OR REPLACE").
		Columns(syncQueueColumns...).
		Values(
			record.ID,
			record.Collection,
			record.EntityID,
			string(record.Operation),
			snapshot,
			record.CreatedAt.UTC().Format(time.RFC3339Nano),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.ExecContext(ctx, stmt, args...); err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.Save").
			Str("collection", record.Collection).
			Str("entity_id", record.EntityID).
			Str("operation", string(record.Operation)).
			Msg("failed to save sync record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *syncQueueRepository) FindByCollection(ctx context.Context, collection string) ([]models.SyncRecord, error) {
	log := logger.FromContext(ctx)

	stmt, args, err := r.builder().
		Select(syncQueueColumns...).
		From(syncQueueTable).
		Where(sq.Eq{"collection": collection}).
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.FindByCollection").
			Str("collection", collection).
			Msg("failed to query sync records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.SyncRecord
	for rows.Next() {
		record, err := scanSyncRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		log.Err(err).
			Str("func", "syncQueueRepository.FindByCollection").
			Str("collection", collection).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

func (r *syncQueueRepository) FindByEntityID(ctx context.Context, collection, entityID string) (models.SyncRecord, error) {
	stmt, args, err := r.builder().
		Select(syncQueueColumns...).
		From(syncQueueTable).
		Where(sq.Eq{"collection": collection, "entity_id": entityID}).
		ToSql()
	if err != nil {
		return models.SyncRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	record, err := scanSyncRecord(r.QueryRowContext(ctx, stmt, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncRecord{}, ErrSyncRecordNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncQueueRepository.FindByEntityID").
			Str("collection", collection).
			Str("entity_id", entityID).
			Msg("failed to query sync record")
		return models.SyncRecord{}, err
	}
	return record, nil
}

func (r *syncQueueRepository) DeleteByID(ctx context.Context, recordIDs ...string) (int, error) {
	deleted, err := execChunked(ctx, r.DB, recordIDs, func(chunk []string) sq.Sqlizer {
		return r.builder().Delete(syncQueueTable).Where(sq.Eq{"id": chunk})
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncQueueRepository.DeleteByID").
			Strs("record_ids", recordIDs).
			Msg("failed to delete sync records")
		return deleted, fmt.Errorf("failed to delete sync records: %w", err)
	}
	return deleted, nil
}

func (r *syncQueueRepository) DeleteByEntityIDs(ctx context.Context, collection string, entityIDs ...string) (int, error) {
	deleted, err := execChunked(ctx, r.DB, entityIDs, func(chunk []string) sq.Sqlizer {
		return r.builder().
			Delete(syncQueueTable).
			Where(sq.Eq{"collection": collection, "entity_id": chunk})
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncQueueRepository.DeleteByEntityIDs").
			Str("collection", collection).
			Msg("failed to delete sync records")
		return deleted, fmt.Errorf("failed to delete sync records: %w", err)
	}
	return deleted, nil
}

func (r *syncQueueRepository) DeleteByCollection(ctx context.Context, collection string) (int, error) {
	stmt, args, err := r.builder().
		Delete(syncQueueTable).
		Where(sq.Eq{"collection": collection}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.ExecContext(ctx, stmt, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncQueueRepository.DeleteByCollection").
			Str("collection", collection).
			Msg("failed to clear sync queue")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return int(affected), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSyncRecord(row rowScanner) (models.SyncRecord, error) {
	var (
		record    models.SyncRecord
		operation string
		snapshot  sql.NullString
		createdAt string
	)

	err := row.Scan(&record.ID, &record.Collection, &record.EntityID, &operation, &snapshot, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return record, err
	}
	if err != nil {
		return record, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	record.Operation = models.SyncOperation(operation)
	if snapshot.Valid {
		if record.Entity, err = decodeDocument(snapshot.String); err != nil {
			return record, err
		}
	}
	if record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return record, fmt.Errorf("%w: created_at: %w", ErrScanningRows, err)
	}

	return record, nil
}
