// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-docsync/internal/config"
	"github.com/MKhiriev/go-docsync/internal/logger"
)

// Services groups the services of the reference collection server.
type Services struct {
	Collections CollectionService
}

func NewServices(cfg *config.ServerConfig, log *logger.Logger) *Services {
	return &Services{
		Collections: NewCollectionService(CollectionServiceOptions{
			DisableDeltaSet: cfg.DisableDeltaSet,
			DeltaRetention:  cfg.DeltaRetention,
		}, log),
	}
}
