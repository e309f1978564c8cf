// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the docsync client and the reference collection server.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win, later ones only fill empty fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry points are [GetClientConfig] and [GetServerConfig].
package config
