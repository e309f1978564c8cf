// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"slices"
	"strings"
)

// Strategies accepted by Sync.Strategy.
var strategies = []string{"network", "cache", "sync"}

// validate checks the merged [StructuredConfig] for values that are wrong
// regardless of which binary uses them.
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.BatchSize < 0 || cfg.Sync.PageSize < 0 {
		return fmt.Errorf("%w: batch and page size must not be negative", ErrInvalidSyncConfigs)
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DSN == "" || strings.Contains(cfg.Storage.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if !slices.Contains(strategies, cfg.Sync.Strategy) {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidSyncConfigs, cfg.Sync.Strategy)
	}
	if cfg.Sync.BatchSize <= 0 || cfg.Sync.PageSize <= 0 {
		return fmt.Errorf("%w: batch and page size must be positive", ErrInvalidSyncConfigs)
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTPAddress == "" || cfg.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}
	if cfg.DeltaRetention <= 0 {
		return fmt.Errorf("%w: delta retention must be positive", ErrInvalidServerConfigs)
	}
	return nil
}
