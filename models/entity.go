// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Well-known entity fields managed by the collection service.
const (
	// IDField holds the unique identifier of an entity inside its collection.
	IDField = "_id"

	// MetadataField holds service-managed metadata: last modification time
	// (lmt), entity creation time (ect) and the local-creation flag (local).
	MetadataField = "_kmd"

	// ACLField holds access-control metadata. It is opaque to the sync engine.
	ACLField = "_acl"

	metadataLocal        = "local"
	metadataLastModified = "lmt"
	metadataCreated      = "ect"
)

var (
	// ErrEntityIsArray is returned by DecodeEntity when the payload is a JSON
	// array. Data stores accept a single entity per call.
	ErrEntityIsArray = errors.New("entity must be a single JSON object, arrays are not supported")

	// ErrEntityNotObject is returned by DecodeEntity when the payload is valid
	// JSON but not an object.
	ErrEntityNotObject = errors.New("entity must be a JSON object")
)

// Entity is a JSON-like document stored in a collection. The sync engine only
// looks at the _id field and at the local-creation flag inside _kmd; every
// other field is opaque.
type Entity map[string]any

// DecodeEntity decodes raw JSON into a single Entity. Arrays are rejected
// with ErrEntityIsArray.
func DecodeEntity(raw []byte) (Entity, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return nil, ErrEntityIsArray
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrEntityNotObject
	}

	var e Entity
	if err := json.Unmarshal(trimmed, &e); err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	return e, nil
}

// ID returns the entity identifier or an empty string when it is missing or
// not a string.
func (e Entity) ID() string {
	if e == nil {
		return ""
	}
	id, _ := e[IDField].(string)
	return id
}

// SetID sets the entity identifier.
func (e Entity) SetID(id string) {
	e[IDField] = id
}

// IsLocal reports whether the entity was created offline and its id is a
// temporary placeholder not yet known to the remote service.
func (e Entity) IsLocal() bool {
	meta, ok := e[MetadataField].(map[string]any)
	if !ok {
		return false
	}
	local, _ := meta[metadataLocal].(bool)
	return local
}

// MarkLocal flags the entity as locally created.
func (e Entity) MarkLocal() {
	meta := e.metadata()
	meta[metadataLocal] = true
	e[MetadataField] = meta
}

// ClearLocal removes the local-creation flag. The _kmd field is dropped when
// nothing else is left in it.
func (e Entity) ClearLocal() {
	meta, ok := e[MetadataField].(map[string]any)
	if !ok {
		return
	}
	delete(meta, metadataLocal)
	if len(meta) == 0 {
		delete(e, MetadataField)
	}
}

// LastModified returns the service-reported last modification time, if any.
func (e Entity) LastModified() string {
	meta, ok := e[MetadataField].(map[string]any)
	if !ok {
		return ""
	}
	lmt, _ := meta[metadataLastModified].(string)
	return lmt
}

// SetTimestamps stamps the service metadata. created is only written when the
// entity does not carry a creation time yet.
func (e Entity) SetTimestamps(created, modified string) {
	meta := e.metadata()
	if _, ok := meta[metadataCreated]; !ok {
		meta[metadataCreated] = created
	}
	meta[metadataLastModified] = modified
	e[MetadataField] = meta
}

// Clone returns a deep copy of the entity.
func (e Entity) Clone() Entity {
	if e == nil {
		return nil
	}
	return cloneValue(map[string]any(e)).(map[string]any)
}

func (e Entity) metadata() map[string]any {
	meta, ok := e[MetadataField].(map[string]any)
	if !ok {
		meta = make(map[string]any)
	}
	return meta
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = cloneValue(item)
		}
		return out
	case Entity:
		return Entity(cloneValue(map[string]any(value)).(map[string]any))
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}

// EntityIDs collects the identifiers of the given entities, skipping those
// without an id.
func EntityIDs(entities []Entity) []string {
	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		if id := e.ID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
