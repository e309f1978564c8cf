// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv reads STORAGE_*, ADAPTER_*, SYNC_* and the other prefixed
// variables into cfg. Unset variables leave their fields zero so that flags
// and the JSON file can fill them in during the merge.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}
