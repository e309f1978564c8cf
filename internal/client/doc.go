// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the docsync command line client.
//
// It wires the local replica, the collection service adapter, the data
// stores and the background sync workers into one process, and exposes them
// as cobra commands that print JSON.
package client
