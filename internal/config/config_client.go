// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the collection service.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// Token is the optional bearer token.
	Token string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DSN is the SQLite connection string of the local replica.
	DSN string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the sync job runs.
	SyncInterval time.Duration
}

// ClientSync holds the data store defaults.
type ClientSync struct {
	Strategy      string
	BatchSize     int
	PageSize      int
	UseDeltaFetch bool
	Collections   []string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Sync    ClientSync

	// LogFilePath is the client log file, empty for the default location.
	LogFilePath string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig(flagCfg *StructuredConfig) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(flagCfg)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Token:          cfg.Adapter.Token,
		},
		Storage: ClientStorage{DSN: cfg.Storage.DB.DSN},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
		Sync: ClientSync{
			Strategy:      cfg.Sync.Strategy,
			BatchSize:     cfg.Sync.BatchSize,
			PageSize:      cfg.Sync.PageSize,
			UseDeltaFetch: cfg.Sync.UseDeltaFetch,
			Collections:   cfg.Sync.Collections,
		},
		LogFilePath: cfg.Log.FilePath,
	}
}
