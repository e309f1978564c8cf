// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEntityNotFound is returned when no entity with the requested id is
	// stored locally for the collection.
	ErrEntityNotFound = errors.New("entity was not found")

	// ErrSyncRecordNotFound is returned when no pending sync record exists
	// for the requested entity.
	ErrSyncRecordNotFound = errors.New("sync record was not found")

	// ErrQueryCacheNotFound is returned when a (collection, query) pair was
	// never pulled.
	ErrQueryCacheNotFound = errors.New("query cache entry was not found")

	// ErrEntityWithoutID is returned when an entity without _id is stored.
	ErrEntityWithoutID = errors.New("entity has no id")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrDecodingDocument is returned when a stored JSON document cannot be
	// decoded.
	ErrDecodingDocument = errors.New("failed to decode stored document")
)
