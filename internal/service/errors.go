// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-docsync/internal/query"
)

var (
	// ErrInvalidQuery is returned for malformed queries before any local or
	// remote work starts.
	ErrInvalidQuery = query.ErrInvalidQuery

	ErrPendingSync     = errors.New("collection has entities pending sync")
	ErrSync            = errors.New("sync ledger error")
	ErrSyncInProgress  = errors.New("push is already in progress for the collection")
	ErrMissingEntityID = errors.New("entity id is missing")
	ErrEmptyEntity     = errors.New("entity is empty")

	ErrOperationNotSupported = errors.New("operation is not supported by the processing strategy")
	ErrUnknownStrategy       = errors.New("unknown processing strategy")
)

// Errors of the in-memory collection service.
var (
	ErrEntityNotFound   = errors.New("entity not found")
	ErrDeltaSetDisabled = errors.New("delta set is disabled")
	ErrInvalidSince     = errors.New("since must be an RFC 3339 timestamp")
	ErrSinceOutOfRange  = errors.New("since is outside the retained change window")
	ErrEmptyCollection  = errors.New("collection name is empty")
)

// PendingSyncError is returned when a network read or a pull is attempted
// while local mutations of the collection are still waiting to be pushed.
type PendingSyncError struct {
	Collection string
	Count      int
}

func (e *PendingSyncError) Error() string {
	return fmt.Sprintf("collection %q has %d entities pending sync, push them first", e.Collection, e.Count)
}

func (e *PendingSyncError) Unwrap() error {
	return ErrPendingSync
}
