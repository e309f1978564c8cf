// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/service"
)

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

// NewWorkers collects the background workers of services.
func NewWorkers(services *service.ClientServices, logger *logger.Logger) *Workers {
	w := &Workers{logger: logger}
	if services != nil && services.SyncJob != nil {
		w.workers = append(w.workers, services.SyncJob)
	}
	return w
}

func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
	if w.logger != nil {
		w.logger.Info().Int("workers", len(w.workers)).Msg("workers started")
	}
}

// Stop stops the workers in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
	if w.logger != nil {
		w.logger.Info().Msg("workers stopped")
	}
}
