// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-docsync/internal/adapter"
	"github.com/MKhiriev/go-docsync/internal/config"
	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/service"
	"github.com/MKhiriev/go-docsync/internal/store"
	"github.com/MKhiriev/go-docsync/models"
)

// newTestServer serves a real in-memory collection service.
func newTestServer(t *testing.T, cfg config.ServerConfig) (*service.Services, *httptest.Server) {
	t.Helper()
	services := service.NewServices(&cfg, logger.Nop())
	srv := httptest.NewServer(NewHandler(services, &cfg, logger.Nop()).Init())
	t.Cleanup(srv.Close)
	return services, srv
}

func newTestClient(t *testing.T, address, token string) adapter.CollectionClient {
	t.Helper()
	client, err := adapter.NewHTTPCollectionClient(config.ClientAdapter{
		HTTPAddress:    address,
		RequestTimeout: 5 * time.Second,
		Token:          token,
	}, logger.Nop())
	require.NoError(t, err)
	return client
}

func TestEndToEnd_AdapterAgainstServer(t *testing.T) {
	ctx := context.Background()
	_, srv := newTestServer(t, config.ServerConfig{Token: "secret"})
	client := newTestClient(t, srv.URL, "secret")
	opts := adapter.RequestOptions{}

	created, err := client.Create(ctx, "books", models.Entity{"title": "Dune", "year": 1965}, opts)
	require.NoError(t, err)
	id := created.ID()
	require.NotEmpty(t, id)

	_, err = client.Create(ctx, "books", models.Entity{"title": "Emma", "year": 1815}, opts)
	require.NoError(t, err)

	found, err := client.Find(ctx, "books", (&models.Query{Filter: ptr(models.Gt("year", 1900))}).Ascending("title"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, models.EntityIDs(found.Entities))
	assert.NotEmpty(t, found.SyncTimestamp)

	n, err := client.Count(ctx, "books", nil, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	created["year"] = 1966
	updated, err := client.Update(ctx, "books", created, opts)
	require.NoError(t, err)
	assert.EqualValues(t, 1966, updated["year"])

	delta, err := client.FindDelta(ctx, "books", nil, found.SyncTimestamp, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, models.EntityIDs(delta.Changed))

	deleted, err := client.Delete(ctx, "books", id, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = client.FindByID(ctx, "books", id, opts)
	assert.ErrorIs(t, err, adapter.ErrNotFound)
	_, err = client.Delete(ctx, "books", id, opts)
	assert.ErrorIs(t, err, adapter.ErrNotFound)

	removed, err := client.DeleteByQuery(ctx, "books", nil, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestEndToEnd_ErrorNames(t *testing.T) {
	ctx := context.Background()
	_, srv := newTestServer(t, config.ServerConfig{Token: "secret", DisableDeltaSet: true})
	opts := adapter.RequestOptions{}

	_, err := newTestClient(t, srv.URL, "wrong").Count(ctx, "books", nil, opts)
	assert.ErrorIs(t, err, adapter.ErrInsufficientCredentials)

	client := newTestClient(t, srv.URL, "secret")
	_, err = client.FindDelta(ctx, "books", nil, time.Now().UTC().Format(service.TimestampLayout), opts)
	assert.ErrorIs(t, err, adapter.ErrIncrementalUnsupported)

	_, err = client.FindDelta(ctx, "books", nil, "yesterday", opts)
	assert.ErrorIs(t, err, adapter.ErrIncrementalUnsupported, "a disabled delta set wins over a bad since")
}

func TestEndToEnd_DeltaOutOfRange(t *testing.T) {
	ctx := context.Background()
	_, srv := newTestServer(t, config.ServerConfig{DeltaRetention: time.Minute})
	client := newTestClient(t, srv.URL, "")

	old := time.Now().Add(-time.Hour).UTC().Format(service.TimestampLayout)
	_, err := client.FindDelta(ctx, "books", nil, old, adapter.RequestOptions{})
	assert.ErrorIs(t, err, adapter.ErrOutOfRange)
}

func TestEndToEnd_DataStoreSync(t *testing.T) {
	ctx := context.Background()
	services, srv := newTestServer(t, config.ServerConfig{})

	storages, err := store.NewClientStorages(ctx, config.ClientStorage{DSN: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	client := newTestClient(t, srv.URL, "")
	clientServices, err := service.NewClientServices(storages, client, &config.ClientConfig{
		Sync: config.ClientSync{Strategy: "sync", Collections: []string{"books"}, UseDeltaFetch: true},
	}, logger.Nop())
	require.NoError(t, err)

	books, err := clientServices.DataStore("books")
	require.NoError(t, err)

	local, err := books.Create(ctx, models.Entity{"title": "Dune"})
	require.NoError(t, err)

	_, err = services.Collections.Create(ctx, "books", models.Entity{"_id": "remote", "title": "Emma"})
	require.NoError(t, err)

	require.NoError(t, clientServices.SyncJob.RunOnce(ctx))

	pending, err := books.PendingSyncCount(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, pending)

	remote, err := services.Collections.Find(ctx, "books", nil)
	require.NoError(t, err)
	assert.Len(t, remote, 2)
	assert.NotContains(t, models.EntityIDs(remote), local.ID(), "the service assigned its own id")

	var ids []string
	for found, err := range books.Find(ctx, nil) {
		require.NoError(t, err)
		ids = models.EntityIDs(found)
	}
	assert.ElementsMatch(t, models.EntityIDs(remote), ids)

	_, err = services.Collections.Delete(ctx, "books", "remote")
	require.NoError(t, err)

	res, err := books.Pull(ctx, nil, models.PullOptions{UseDeltaFetch: true})
	require.NoError(t, err)
	assert.True(t, res.Delta)
	assert.Equal(t, 1, res.Deleted)
}

func ptr[T any](v T) *T {
	return &v
}
