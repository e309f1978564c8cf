// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/models"
)

const queryCacheTable = "query_cache"

type queryCacheRepository struct {
	*DB
	logger *logger.Logger
}

func NewQueryCacheRepository(db *DB, logger *logger.Logger) QueryCacheRepository {
	return &queryCacheRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *queryCacheRepository) Find(ctx context.Context, collection, query string) (models.QueryCacheEntry, error) {
	stmt, args, err := r.builder().
		Select("id", "collection", "query", "last_request").
		From(queryCacheTable).
		Where(sq.Eq{"collection": collection, "query": query}).
		ToSql()
	if err != nil {
		return models.QueryCacheEntry{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var entry models.QueryCacheEntry
	err = r.QueryRowContext(ctx, stmt, args...).Scan(&entry.ID, &entry.Collection, &entry.Query, &entry.LastRequest)
	if errors.Is(err, sql.ErrNoRows) {
		return models.QueryCacheEntry{}, ErrQueryCacheNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "queryCacheRepository.Find").
			Str("collection", collection).
			Msg("failed to query cache entry")
		return models.QueryCacheEntry{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return entry, nil
}

func (r *queryCacheRepository) Save(ctx context.Context, entry models.QueryCacheEntry) error {
	stmt, args, err := r.builder().
		Insert(queryCacheTable).
		Columns("id", "collection", "query", "last_request").
		Values(entry.ID, entry.Collection, entry.Query, entry.LastRequest).
		Suffix("ON CONFLICT (collection, query) DO UPDATE SET last_request = excluded.last_request").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.ExecContext(ctx, stmt, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "queryCacheRepository.Save").
			Str("collection", entry.Collection).
			Str("query", entry.Query).
			Msg("failed to save cache entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *queryCacheRepository) DeleteByCollection(ctx context.Context, collection string) error {
	stmt, args, err := r.builder().
		Delete(queryCacheTable).
		Where(sq.Eq{"collection": collection}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.ExecContext(ctx, stmt, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "queryCacheRepository.DeleteByCollection").
			Str("collection", collection).
			Msg("failed to clear query cache")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
