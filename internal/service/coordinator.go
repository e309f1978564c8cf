// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"
	"hash/maphash"
	"sync"
)

const entityLockStripes = 64

// SyncCoordinator serializes push reconciliations per collection and orders
// local mutations against in-flight push completions of the same entity.
// One coordinator is shared by every DataStore of a process.
type SyncCoordinator struct {
	mu      sync.Mutex
	pushing map[string]bool

	seed    maphash.Seed
	entries [entityLockStripes]sync.Mutex
}

func NewSyncCoordinator() *SyncCoordinator {
	return &SyncCoordinator{
		pushing: make(map[string]bool),
		seed:    maphash.MakeSeed(),
	}
}

// TryAcquire marks a push of collection as running. It fails immediately
// with ErrSyncInProgress when one is already running. The returned release
// func must be called exactly once.
func (c *SyncCoordinator) TryAcquire(collection string) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pushing[collection] {
		return nil, fmt.Errorf("%w: %s", ErrSyncInProgress, collection)
	}
	c.pushing[collection] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.pushing, collection)
			c.mu.Unlock()
		})
	}, nil
}

// IsPushing reports whether a push of collection is running.
func (c *SyncCoordinator) IsPushing(collection string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pushing[collection]
}

// LockEntity locks one entity of a collection and returns the unlock func.
// Callers must not hold another entity lock while calling it.
func (c *SyncCoordinator) LockEntity(collection, id string) func() {
	var h maphash.Hash
	h.SetSeed(c.seed)
	_, _ = h.WriteString(collection)
	_ = h.WriteByte(0)
	_, _ = h.WriteString(id)

	m := &c.entries[h.Sum64()%entityLockStripes]
	m.Lock()
	return m.Unlock
}
