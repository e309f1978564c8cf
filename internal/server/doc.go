// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the collection service HTTP server.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown bounded by a timeout.
package server
