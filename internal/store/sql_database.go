// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/migrations"
)

// maxInParams bounds the number of values bound into one IN (...) clause.
const maxInParams = 500

// execer is implemented by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DB wraps the replica connection shared by all repositories.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate brings the replica schema up to date.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// builder returns a squirrel statement builder bound to the connection.
func (db *DB) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

// execChunked runs one DELETE per chunk of ids and returns the total number of
// affected rows.
func execChunked(ctx context.Context, exec execer, ids []string, build func(chunk []string) sq.Sqlizer) (int, error) {
	total := 0
	for chunk := range slices.Chunk(ids, maxInParams) {
		query, args, err := build(chunk).ToSql()
		if err != nil {
			return total, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		res, err := exec.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		total += int(affected)
	}
	return total, nil
}
