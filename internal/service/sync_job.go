// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/models"
	"golang.org/x/sync/errgroup"
)

// DefaultSyncInterval is used when a SyncJob is started without an interval.
const DefaultSyncInterval = 5 * time.Minute

const syncJobConcurrency = 4

// Syncer is the part of a DataStore the background job drives.
type Syncer interface {
	Collection() string
	Online() bool
	Sync(ctx context.Context, q *models.Query, opts models.PullOptions) (models.SyncResult, error)
}

// SyncJob periodically syncs a set of collections. It is idle until Start
// is called.
type SyncJob struct {
	syncers  []Syncer
	interval time.Duration
	pullOpts models.PullOptions
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSyncJob(syncers []Syncer, interval time.Duration, pullOpts models.PullOptions, log *logger.Logger) *SyncJob {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SyncJob{
		syncers:  syncers,
		interval: interval,
		pullOpts: pullOpts,
		logger:   log,
	}
}

// Start stops any previously running loop, then launches a goroutine that
// runs RunOnce every interval. The goroutine exits when ctx is cancelled or
// Stop is called.
func (j *SyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_ = j.RunOnce(jobCtx)
			}
		}
	}()
}

// Stop cancels the loop and blocks until it has exited. Safe to call when
// the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// RunOnce syncs every online collection. Collections are synced
// concurrently and independently; a collection already being pushed by
// someone else is skipped. The returned error joins the failures.
func (j *SyncJob) RunOnce(ctx context.Context) error {
	errs := make([]error, len(j.syncers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncJobConcurrency)
	for i, s := range j.syncers {
		if !s.Online() {
			continue
		}
		g.Go(func() error {
			res, err := s.Sync(gctx, nil, j.pullOpts)
			switch {
			case errors.Is(err, ErrSyncInProgress):
				return nil
			case err != nil:
				j.logger.Err(err).
					Str("func", "*SyncJob.RunOnce").
					Str("collection", s.Collection()).
					Msg("background sync failed")
				errs[i] = err
				return nil
			}
			j.logger.Info().
				Str("func", "*SyncJob.RunOnce").
				Str("collection", s.Collection()).
				Int("pushed", len(res.Push)).
				Int("push_failed", len(res.Push.Failed())).
				Int("pulled", res.Pull.Count).
				Bool("delta", res.Pull.Delta).
				Msg("background sync finished")
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
