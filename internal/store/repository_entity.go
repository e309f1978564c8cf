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
	"github.com/MKhiriev/go-docsync/internal/query"
	"github.com/MKhiriev/go-docsync/models"
)

const entitiesTable = "entities"

type entityRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntityRepository returns the SQLite-backed local replica. Documents are
// stored as JSON; predicates are evaluated with the reference matcher of
// package query.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	return &entityRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *entityRepository) Find(ctx context.Context, collection string, q *models.Query) ([]models.Entity, error) {
	all, err := r.loadCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	return query.Apply(q, all), nil
}

func (r *entityRepository) FindByID(ctx context.Context, collection, id string) (models.Entity, error) {
	log := logger.FromContext(ctx)

	stmt, args, err := r.builder().
		Select("doc").
		From(entitiesTable).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var doc string
	err = r.QueryRowContext(ctx, stmt, args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntityNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.FindByID").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to query entity")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return decodeDocument(doc)
}

func (r *entityRepository) Upsert(ctx context.Context, collection string, entities ...models.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		for _, e := range entities {
			id := e.ID()
			if id == "" {
				return ErrEntityWithoutID
			}

			doc, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to encode entity %s: %w", id, err)
			}

			stmt, args, err := r.builder().
				Insert(entitiesTable).
				Columns("collection", "id", "doc", "locally_created", "updated_at").
				Values(collection, id, string(doc), e.IsLocal(), now).
				Suffix("ON CONFLICT (collection, id) DO UPDATE SET doc = excluded.doc, locally_created = excluded.locally_created, updated_at = excluded.updated_at").
				ToSql()
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}

			if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
				return fmt.Errorf("%w: upsert entity %s: %w", ErrExecutingStatement, id, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Upsert").
			Str("collection", collection).
			Int("count", len(entities)).
			Msg("failed to upsert entities")
		return fmt.Errorf("failed to upsert entities: %w", err)
	}

	return nil
}

func (r *entityRepository) Delete(ctx context.Context, collection string, q *models.Query) ([]models.Entity, error) {
	matched, err := r.Find(ctx, collection, q)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, nil
	}

	if _, err = r.DeleteByID(ctx, collection, models.EntityIDs(matched)...); err != nil {
		return nil, err
	}
	return matched, nil
}

func (r *entityRepository) DeleteByID(ctx context.Context, collection string, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	log := logger.FromContext(ctx)

	var deleted int
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		deleted, err = execChunked(ctx, tx, ids, func(chunk []string) sq.Sqlizer {
			return r.builder().
				Delete(entitiesTable).
				Where(sq.Eq{"collection": collection, "id": chunk})
		})
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.DeleteByID").
			Str("collection", collection).
			Strs("ids", ids).
			Msg("failed to delete entities")
		return 0, fmt.Errorf("failed to delete entities: %w", err)
	}

	return deleted, nil
}

func (r *entityRepository) Clear(ctx context.Context, collection string) error {
	log := logger.FromContext(ctx)

	stmt, args, err := r.builder().
		Delete(entitiesTable).
		Where(sq.Eq{"collection": collection}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.ExecContext(ctx, stmt, args...); err != nil {
		log.Err(err).
			Str("func", "entityRepository.Clear").
			Str("collection", collection).
			Msg("failed to clear collection")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *entityRepository) Count(ctx context.Context, collection string, q *models.Query) (int, error) {
	if q == nil || q.Filter == nil {
		return r.countAll(ctx, collection, q)
	}

	matched, err := r.Find(ctx, collection, q)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (r *entityRepository) countAll(ctx context.Context, collection string, q *models.Query) (int, error) {
	stmt, args, err := r.builder().
		Select("COUNT(*)").
		From(entitiesTable).
		Where(sq.Eq{"collection": collection}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	if err = r.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityRepository.Count").
			Str("collection", collection).
			Msg("failed to count entities")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if q != nil {
		count = max(count-q.Skip, 0)
		if q.Limit > 0 {
			count = min(count, q.Limit)
		}
	}
	return count, nil
}

func (r *entityRepository) loadCollection(ctx context.Context, collection string) ([]models.Entity, error) {
	log := logger.FromContext(ctx)

	stmt, args, err := r.builder().
		Select("doc").
		From(entitiesTable).
		Where(sq.Eq{"collection": collection}).
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.loadCollection").
			Str("collection", collection).
			Msg("failed to query entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var entities []models.Entity
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		e, err := decodeDocument(doc)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		log.Err(err).
			Str("func", "entityRepository.loadCollection").
			Str("collection", collection).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entities, nil
}

func decodeDocument(doc string) (models.Entity, error) {
	var e models.Entity
	if err := json.Unmarshal([]byte(doc), &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingDocument, err)
	}
	return e, nil
}
