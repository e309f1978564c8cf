// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-docsync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spySyncer counts Sync calls and returns a fixed error.
type spySyncer struct {
	collection string
	offline    bool
	calls      atomic.Int64
	err        error
	onSync     func(opts models.PullOptions)
}

func (s *spySyncer) Collection() string { return s.collection }

func (s *spySyncer) Online() bool { return !s.offline }

func (s *spySyncer) Sync(_ context.Context, q *models.Query, opts models.PullOptions) (models.SyncResult, error) {
	s.calls.Add(1)
	if s.onSync != nil {
		s.onSync(opts)
	}
	return models.SyncResult{}, s.err
}

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestSyncJob_Start_Syncs(t *testing.T) {
	spy := &spySyncer{collection: "books"}
	job := NewSyncJob([]Syncer{spy}, 10*time.Millisecond, models.PullOptions{}, nil)

	job.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := spy.calls.Load()
	assert.GreaterOrEqual(t, got, int64(3), "Sync should run several times, ran %d", got)
}

func TestSyncJob_Stop_StopsGoroutine(t *testing.T) {
	spy := &spySyncer{collection: "books"}
	job := NewSyncJob([]Syncer{spy}, 10*time.Millisecond, models.PullOptions{}, nil)

	job.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	callsAfterStop := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, callsAfterStop, spy.calls.Load(), "no syncs after Stop")
}

func TestSyncJob_Stop_BeforeStart_NoPanic(t *testing.T) {
	job := NewSyncJob(nil, 0, models.PullOptions{}, nil)
	assert.NotPanics(t, func() { job.Stop() })
}

func TestSyncJob_DoubleStop_NoPanic(t *testing.T) {
	job := NewSyncJob([]Syncer{&spySyncer{}}, 10*time.Millisecond, models.PullOptions{}, nil)

	job.Start(context.Background())
	job.Stop()
	assert.NotPanics(t, func() { job.Stop() })
}

func TestSyncJob_DefaultInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		spy := &spySyncer{collection: "books"}
		job := NewSyncJob([]Syncer{spy}, interval, models.PullOptions{}, nil)
		assert.Equal(t, DefaultSyncInterval, job.interval)

		job.Start(context.Background())
		time.Sleep(20 * time.Millisecond)
		job.Stop()
		assert.Zero(t, spy.calls.Load())
	}
}

func TestSyncJob_Restart(t *testing.T) {
	spy := &spySyncer{collection: "books"}
	job := NewSyncJob([]Syncer{spy}, 10*time.Millisecond, models.PullOptions{}, nil)
	ctx := context.Background()

	job.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	before := spy.calls.Load()
	assert.Positive(t, before)

	// a second Start stops the running loop first
	job.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	assert.Greater(t, spy.calls.Load(), before)
}

func TestSyncJob_ContextCancel(t *testing.T) {
	job := NewSyncJob([]Syncer{&spySyncer{}}, 10*time.Millisecond, models.PullOptions{}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop hung after the context was cancelled")
	}
}

func TestSyncJob_ErrorsDoNotStopJob(t *testing.T) {
	spy := &spySyncer{collection: "books", err: assert.AnError}
	job := NewSyncJob([]Syncer{spy}, 10*time.Millisecond, models.PullOptions{}, nil)

	job.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, spy.calls.Load(), int64(3))
}

// ── RunOnce ──────────────────────────────────────────────────────────────────

func TestSyncJob_RunOnce(t *testing.T) {
	var gotOpts atomic.Value
	ok := &spySyncer{collection: "books", onSync: func(opts models.PullOptions) { gotOpts.Store(opts) }}
	busy := &spySyncer{collection: "authors", err: ErrSyncInProgress}
	offline := &spySyncer{collection: "notes", offline: true}
	failing := &spySyncer{collection: "tags", err: assert.AnError}

	opts := models.PullOptions{UseDeltaFetch: true, AutoPagination: true, PageSize: 50}
	job := NewSyncJob([]Syncer{ok, busy, offline, failing}, time.Minute, opts, nil)

	err := job.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, errors.Is(err, ErrSyncInProgress), "a busy collection is skipped silently")

	assert.EqualValues(t, 1, ok.calls.Load())
	assert.EqualValues(t, 1, busy.calls.Load())
	assert.Zero(t, offline.calls.Load(), "offline stores are not synced")
	assert.EqualValues(t, 1, failing.calls.Load())
	assert.Equal(t, opts, gotOpts.Load())
}

func TestSyncJob_RunOnceNothingToDo(t *testing.T) {
	job := NewSyncJob(nil, time.Minute, models.PullOptions{}, nil)
	assert.NoError(t, job.RunOnce(context.Background()))
}

func TestSyncJob_RunOnceWithDataStores(t *testing.T) {
	ctx := testContext()
	env := newTestEnv(t)
	remote := newMemoryRemote(newStepClock().Now)
	books := env.store(t, "books", StrategySync, remote)
	authors := env.store(t, "authors", StrategySync, remote)

	_, err := books.Create(ctx, models.Entity{"title": "Dune"})
	require.NoError(t, err)
	_, err = remote.svc.Create(ctx, "authors", models.Entity{"name": "Herbert"})
	require.NoError(t, err)

	job := NewSyncJob([]Syncer{books, authors}, time.Minute, models.PullOptions{AutoPagination: true, PageSize: 1}, nil)
	require.NoError(t, job.RunOnce(ctx))

	assert.Zero(t, pendingCount(t, books))
	assert.Len(t, env.localIDs(t, "books"), 1)
	assert.Len(t, env.localIDs(t, "authors"), 1)
}
