// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http serves the document collection wire protocol of the reference
// server.
//
// Routes live under /appdata/{collection}. Requests pass through trace id,
// access logging, gzip and optional bearer token middleware before they reach
// the collection service. Every error answer is a JSON body naming the error,
// which the client adapter maps back onto its sentinels.
package http
