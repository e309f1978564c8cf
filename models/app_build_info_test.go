// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppBuildInfo(t *testing.T) {
	info := NewAppBuildInfo("1.2.3", "", "abc")
	assert.Equal(t, "1.2.3", info.BuildVersion())
	assert.Equal(t, "N/A", info.BuildDate())
	assert.Equal(t, "Build version: 1.2.3\nBuild date: N/A\nBuild commit: abc\n", info.String())

	var zero AppBuildInfo
	assert.Equal(t, "N/A", zero.BuildCommit())
}
