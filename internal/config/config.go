// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// docsync client and the reference collection server. It is populated by
// merging values from environment variables, command-line flags, an optional
// JSON file and finally built-in defaults.
//
// Struct tags:
//   - envPrefix : prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Storage holds the local replica database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listen address, timeout and delta-set settings of the
	// reference collection server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds settings of the outbound connection to the collection
	// service.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// Sync holds defaults of the data stores built by the client.
	Sync Sync `envPrefix:"SYNC_"`

	// Log holds log output settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration of the local storage backends.
type Storage struct {
	// DB holds the SQLite database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite replica.
type DB struct {
	// DSN is the SQLite data source name, usually a file path
	// (e.g. "docsync.db" or "file:docsync.db?_busy_timeout=5000").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings of the reference server.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Token, when set, is the bearer token every request must present.
	// Env: SERVER_TOKEN
	Token string `env:"TOKEN"`

	// DisableDeltaSet makes the delta-set endpoint answer with a
	// MissingConfiguration error, forcing clients onto full fetches.
	// Env: SERVER_DISABLE_DELTA_SET
	DisableDeltaSet bool `env:"DISABLE_DELTA_SET"`

	// DeltaRetention is how long deletions are remembered for delta sets.
	// Older "since" timestamps are rejected as out of range.
	// Env: SERVER_DELTA_RETENTION
	DeltaRetention time.Duration `env:"DELTA_RETENTION"`
}

// Adapter holds settings of the collection service client.
type Adapter struct {
	// HTTPAddress is the base URL of the collection service
	// (e.g. "http://localhost:8080"). A missing scheme defaults to http.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the default timeout for outbound requests.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Token is sent as "Authorization: Bearer <token>" when set.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of the background sync job.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Sync holds data store defaults.
type Sync struct {
	// Strategy is one of "network", "cache" or "sync".
	// Env: SYNC_STRATEGY
	Strategy string `env:"STRATEGY"`

	// BatchSize is the number of ledger records pushed concurrently.
	// Env: SYNC_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`

	// PageSize is the page size of auto-paginated pulls.
	// Env: SYNC_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE"`

	// UseDeltaFetch enables incremental pulls.
	// Env: SYNC_USE_DELTA_FETCH
	UseDeltaFetch bool `env:"USE_DELTA_FETCH"`

	// Collections lists the collections kept in sync by the background job.
	// Env: SYNC_COLLECTIONS (comma separated)
	Collections []string `env:"COLLECTIONS" envSeparator:","`
}

// Log holds log output settings.
type Log struct {
	// FilePath is the client log file. Empty means next to the executable.
	// Env: LOG_FILE_PATH
	FilePath string `env:"FILE_PATH"`
}

// Defaults applied after every other source.
const (
	DefaultAdapterAddress = "http://localhost:8080"
	DefaultServerAddress  = "localhost:8080"
	DefaultRequestTimeout = 30 * time.Second
	DefaultDSN            = "docsync.db"
	DefaultSyncInterval   = time.Minute
	DefaultStrategy       = "cache"
	DefaultBatchSize      = 100
	DefaultPageSize       = 10000
	DefaultDeltaRetention = 24 * time.Hour
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{DB: DB{DSN: DefaultDSN}},
		Server: Server{
			HTTPAddress:    DefaultServerAddress,
			RequestTimeout: DefaultRequestTimeout,
			DeltaRetention: DefaultDeltaRetention,
		},
		Adapter: Adapter{
			HTTPAddress:    DefaultAdapterAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Workers: Workers{SyncInterval: DefaultSyncInterval},
		Sync: Sync{
			Strategy:  DefaultStrategy,
			BatchSize: DefaultBatchSize,
			PageSize:  DefaultPageSize,
		},
	}
}

// GetStructuredConfig loads and merges the configuration from all sources in
// the following priority order (a source only fills fields left empty by the
// ones before it):
//  1. Environment variables
//  2. Command-line flags (flagCfg, may be nil)
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig(flagCfg *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(flagCfg).
		withJSON().
		withDefaults().
		build()
}
