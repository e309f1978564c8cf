// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// SyncOperation is the intent recorded for a pending local mutation.
type SyncOperation string

const (
	SyncCreate SyncOperation = "create"
	SyncUpdate SyncOperation = "update"
	SyncDelete SyncOperation = "delete"
)

// Valid reports whether op is one of the known operations.
func (op SyncOperation) Valid() bool {
	switch op {
	case SyncCreate, SyncUpdate, SyncDelete:
		return true
	}
	return false
}

// SyncRecord is a pending local mutation waiting to be replayed against the
// remote service. There is at most one record per (Collection, EntityID).
type SyncRecord struct {
	// ID identifies the record itself. A new mutation on the same entity
	// replaces the record and therefore gets a new ID.
	ID string `json:"id"`

	Collection string        `json:"collection"`
	EntityID   string        `json:"entity_id"`
	Operation  SyncOperation `json:"operation"`

	// Entity is the snapshot of the entity taken when the record was added.
	Entity Entity `json:"entity,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// PushResult reports the outcome of replaying one SyncRecord. Error is nil
// on success.
type PushResult struct {
	ID        string
	Operation SyncOperation
	Entity    Entity
	Error     error
}

// MarshalJSON renders Error as its message.
func (r PushResult) MarshalJSON() ([]byte, error) {
	out := struct {
		ID        string        `json:"_id"`
		Operation SyncOperation `json:"operation"`
		Entity    Entity        `json:"entity,omitempty"`
		Error     string        `json:"error,omitempty"`
	}{ID: r.ID, Operation: r.Operation, Entity: r.Entity}
	if r.Error != nil {
		out.Error = r.Error.Error()
	}
	return json.Marshal(out)
}

// PushResults holds one PushResult per replayed record.
type PushResults []PushResult

// Failed returns the results carrying an error, suitable for a selective retry.
func (rs PushResults) Failed() PushResults {
	var out PushResults
	for _, r := range rs {
		if r.Error != nil {
			out = append(out, r)
		}
	}
	return out
}

// Succeeded returns the results without an error.
func (rs PushResults) Succeeded() PushResults {
	var out PushResults
	for _, r := range rs {
		if r.Error == nil {
			out = append(out, r)
		}
	}
	return out
}

// PullResult is returned by a pull. Entities is the full set of local
// entities matching the pulled query after reconciliation, for both full and
// delta fetches; Count is len(Entities).
type PullResult struct {
	Entities []Entity `json:"entities"`
	Count    int      `json:"count"`

	// Changed and Deleted count the entities upserted and evicted locally.
	Changed int `json:"changed"`
	Deleted int `json:"deleted"`

	// Delta is true when the pull was answered by an incremental fetch.
	Delta bool `json:"delta"`
}

// SyncResult is the outcome of a push followed by a pull.
type SyncResult struct {
	Push PushResults `json:"push"`
	Pull PullResult  `json:"pull"`
}

// RemoveResult reports how many entities a remove deleted.
type RemoveResult struct {
	Count int `json:"count"`
}

// QueryCacheEntry remembers when a (collection, query) pair was last pulled so
// that the next pull can ask the service for changes only.
type QueryCacheEntry struct {
	ID         string `json:"id"`
	Collection string `json:"collection"`
	Query      string `json:"query"`

	// LastRequest is the server-reported timestamp of the last successful pull.
	LastRequest string `json:"last_request"`
}

// FindResult is a full fetch answer of the remote service.
type FindResult struct {
	Entities []Entity

	// SyncTimestamp is the server time at which the request started.
	SyncTimestamp string
}

// DeltaSet is an incremental fetch answer: entities changed or created and
// ids deleted since the requested timestamp.
type DeltaSet struct {
	Changed       []Entity
	Deleted       []string
	SyncTimestamp string
}

// PullOptions configure one pull.
type PullOptions struct {
	// UseDeltaFetch asks for an incremental fetch when a previous pull of the
	// same unpaged query is known.
	UseDeltaFetch bool

	// AutoPagination fetches an unpaged query in pages of PageSize entities.
	AutoPagination bool

	// PageSize defaults to 10000 when AutoPagination is set.
	PageSize int

	// Timeout bounds every remote call of the pull. Zero keeps the store default.
	Timeout time.Duration
}
