// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ServerConfig is the reference server view of [StructuredConfig].
type ServerConfig struct {
	HTTPAddress     string
	RequestTimeout  time.Duration
	Token           string
	DisableDeltaSet bool
	DeltaRetention  time.Duration
}

// GetServerConfig builds and validates the server view of the merged
// configuration.
func GetServerConfig(flagCfg *StructuredConfig) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(flagCfg)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		HTTPAddress:     cfg.Server.HTTPAddress,
		RequestTimeout:  cfg.Server.RequestTimeout,
		Token:           cfg.Server.Token,
		DisableDeltaSet: cfg.Server.DisableDeltaSet,
		DeltaRetention:  cfg.Server.DeltaRetention,
	}
	return serverCfg, serverCfg.validate()
}
