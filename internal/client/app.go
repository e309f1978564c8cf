// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-docsync/internal/adapter"
	"github.com/MKhiriev/go-docsync/internal/config"
	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/service"
	"github.com/MKhiriev/go-docsync/internal/store"
	"github.com/MKhiriev/go-docsync/internal/workers"
)

type App struct {
	services *service.ClientServices
	storages *store.ClientStorages
	workers  *workers.Workers
	logger   *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	remote, err := adapter.NewHTTPCollectionClient(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("create collection client: %w", err)
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	services, err := service.NewClientServices(storages, remote, cfg, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create client services: %w", err)
	}

	return &App{
		services: services,
		storages: storages,
		workers:  workers.NewWorkers(services, log),
		logger:   log,
	}, nil
}

func (a *App) DataStore(collection string) (*service.DataStore, error) {
	return a.services.DataStore(collection)
}

// SetOnline switches every data store of the app between online and
// offline mode.
func (a *App) SetOnline(online bool) {
	a.services.Network.SetOnline(online)
}

// Run syncs the configured collections once, then keeps syncing them in
// the background until ctx is done. A failed first sync is logged and does
// not stop the loop.
func (a *App) Run(ctx context.Context) error {
	if err := a.services.SyncJob.RunOnce(ctx); err != nil {
		a.logger.Warn().Err(err).Str("func", "*App.Run").Msg("initial sync failed")
	}

	a.workers.Start(ctx)
	defer a.workers.Stop()

	<-ctx.Done()
	a.logger.Info().Msg("client stopped")
	return nil
}

func (a *App) Close() error {
	return a.storages.Close()
}
