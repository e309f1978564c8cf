// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"github.com/MKhiriev/go-docsync/internal/client"
	"github.com/MKhiriev/go-docsync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	client.Execute(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
}
