// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"
	"sync"

	"github.com/MKhiriev/go-docsync/internal/adapter"
	"github.com/MKhiriev/go-docsync/internal/config"
	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/store"
	"github.com/MKhiriev/go-docsync/internal/utils"
	"github.com/MKhiriev/go-docsync/models"
)

// ClientServices hands out one DataStore per collection. Every store shares
// the same coordinator, network state and local replica.
type ClientServices struct {
	Coordinator *SyncCoordinator
	Network     *NetworkState
	SyncJob     *SyncJob

	strategy Strategy
	deps     DataStoreDeps
	opts     DataStoreOptions

	mu     sync.Mutex
	stores map[string]*DataStore
}

func NewClientServices(storages *store.ClientStorages, remote adapter.CollectionClient, cfg *config.ClientConfig, log *logger.Logger) (*ClientServices, error) {
	strategy, err := ParseStrategy(cfg.Sync.Strategy)
	if err != nil {
		return nil, err
	}

	coordinator := NewSyncCoordinator()
	network := NewNetworkState(true)

	s := &ClientServices{
		Coordinator: coordinator,
		Network:     network,
		strategy:    strategy,
		deps: DataStoreDeps{
			Entities:    storages.Entities,
			Queue:       storages.SyncQueue,
			QueryCache:  storages.QueryCache,
			Remote:      remote,
			Coordinator: coordinator,
			Network:     network,
		},
		opts: DataStoreOptions{
			BatchSize:     cfg.Sync.BatchSize,
			UseDeltaFetch: cfg.Sync.UseDeltaFetch,
			PageSize:      cfg.Sync.PageSize,
			Timeout:       cfg.Adapter.RequestTimeout,
			Logger:        log,
			IDGenerator:   utils.NewUUIDGenerator(),
		},
		stores: make(map[string]*DataStore),
	}

	var syncers []Syncer
	if strategy != StrategyNetwork {
		for _, collection := range cfg.Sync.Collections {
			ds, err := s.DataStore(collection)
			if err != nil {
				return nil, fmt.Errorf("data store of %s: %w", collection, err)
			}
			syncers = append(syncers, ds)
		}
	}

	s.SyncJob = NewSyncJob(syncers, cfg.Workers.SyncInterval, models.PullOptions{
		UseDeltaFetch:  cfg.Sync.UseDeltaFetch,
		AutoPagination: true,
		PageSize:       cfg.Sync.PageSize,
	}, log)

	return s, nil
}

// DataStore returns the store of collection, creating it on first use.
func (s *ClientServices) DataStore(collection string) (*DataStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ds, ok := s.stores[collection]; ok {
		return ds, nil
	}
	ds, err := NewDataStore(collection, s.strategy, s.deps, s.opts)
	if err != nil {
		return nil, err
	}
	s.stores[collection] = ds
	return ds, nil
}

func (s *ClientServices) Strategy() Strategy {
	return s.strategy
}
