// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers manages the background workers of the docsync client.
// It defines the Worker interface and a Workers aggregate that starts and
// stops every worker in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Start launches the worker and returns immediately; the worker runs until
// ctx is done or Stop is called. Stop blocks until the worker has finished
// and must be safe to call more than once.
//
// [service.SyncJob] is the main implementation.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
