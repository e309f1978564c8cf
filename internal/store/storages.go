// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-docsync/internal/config"
	"github.com/MKhiriev/go-docsync/internal/logger"
)

// ClientStorages groups the repositories of the local replica so they can be
// passed around the service layer as one value.
type ClientStorages struct {
	Entities   EntityRepository
	SyncQueue  SyncQueueRepository
	QueryCache QueryCacheRepository

	db *DB
}

// NewClientStorages opens the SQLite replica named by cfg.DSN, runs pending
// schema migrations and wires the repositories to the connection.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Entities:   NewEntityRepository(db, logger),
		SyncQueue:  NewSyncQueueRepository(db, logger),
		QueryCache: NewQueryCacheRepository(db, logger),
		db:         db,
	}, nil
}

// Close closes the underlying connection.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}
