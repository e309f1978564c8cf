// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-docsync/internal/config"
	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/query"
	"github.com/MKhiriev/go-docsync/internal/utils"
	"github.com/MKhiriev/go-docsync/models"
)

const (
	collectionPath = "/appdata/{collection}"
	entityPath     = "/appdata/{collection}/{id}"
	countPath      = "/appdata/{collection}/_count"
	deltaSetPath   = "/appdata/{collection}/_deltaset"

	retryCount = 2
	retryWait  = 100 * time.Millisecond
)

type httpCollectionClient struct {
	client *utils.HTTPClient
	token  string

	logger *logger.Logger
}

// NewHTTPCollectionClient constructs the HTTP/REST implementation of
// [CollectionClient]. It normalises the base URL from cfg.HTTPAddress and
// configures the underlying client with the request timeout.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPCollectionClient(cfg config.ClientAdapter, logger *logger.Logger) (CollectionClient, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient().RetryIdempotent(retryCount, retryWait)
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &httpCollectionClient{
		client: client,
		token:  strings.TrimSpace(cfg.Token),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpCollectionClient) Create(ctx context.Context, collection string, entity models.Entity, opts RequestOptions) (models.Entity, error) {
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	var created models.Entity
	resp, err := h.request(ctx, collection).
		SetHeader("Content-Type", "application/json").
		SetBody(entity).
		SetResult(&created).
		Post(collectionPath)
	if err := h.check(ctx, "Create", resp, err); err != nil {
		return nil, err
	}

	return created, nil
}

func (h *httpCollectionClient) Update(ctx context.Context, collection string, entity models.Entity, opts RequestOptions) (models.Entity, error) {
	id := entity.ID()
	if id == "" {
		return nil, fmt.Errorf("%w: entity has no id", ErrBadRequest)
	}

	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	var updated models.Entity
	resp, err := h.request(ctx, collection).
		SetPathParam("id", id).
		SetHeader("Content-Type", "application/json").
		SetBody(entity).
		SetResult(&updated).
		Put(entityPath)
	if err := h.check(ctx, "Update", resp, err); err != nil {
		return nil, err
	}

	return updated, nil
}

func (h *httpCollectionClient) Delete(ctx context.Context, collection, id string, opts RequestOptions) (int, error) {
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	var result models.CountResponse
	resp, err := h.request(ctx, collection).
		SetPathParam("id", id).
		SetResult(&result).
		Delete(entityPath)
	if err := h.check(ctx, "Delete", resp, err); err != nil {
		return 0, err
	}

	return result.Count, nil
}

func (h *httpCollectionClient) DeleteByQuery(ctx context.Context, collection string, q *models.Query, opts RequestOptions) (int, error) {
	params, err := queryParams(q)
	if err != nil {
		return 0, err
	}

	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	var result models.CountResponse
	resp, err := h.request(ctx, collection).
		SetQueryParams(params).
		SetResult(&result).
		Delete(collectionPath)
	if err := h.check(ctx, "DeleteByQuery", resp, err); err != nil {
		return 0, err
	}

	return result.Count, nil
}

func (h *httpCollectionClient) Find(ctx context.Context, collection string, q *models.Query, opts RequestOptions) (models.FindResult, error) {
	params, err := queryParams(q)
	if err != nil {
		return models.FindResult{}, err
	}

	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	resp, err := h.request(ctx, collection).
		SetQueryParams(params).
		Get(collectionPath)
	if err := h.check(ctx, "Find", resp, err); err != nil {
		return models.FindResult{}, err
	}

	var entities []models.Entity
	if err := json.Unmarshal(resp.Body(), &entities); err != nil {
		return models.FindResult{}, fmt.Errorf("%w: decode find response: %w", ErrUnexpectedResponse, err)
	}

	return models.FindResult{
		Entities:      entities,
		SyncTimestamp: resp.Header().Get(models.HeaderRequestStart),
	}, nil
}

func (h *httpCollectionClient) FindByID(ctx context.Context, collection, id string, opts RequestOptions) (models.Entity, error) {
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	var entity models.Entity
	resp, err := h.request(ctx, collection).
		SetPathParam("id", id).
		SetResult(&entity).
		Get(entityPath)
	if err := h.check(ctx, "FindByID", resp, err); err != nil {
		return nil, err
	}

	return entity, nil
}

func (h *httpCollectionClient) FindDelta(ctx context.Context, collection string, q *models.Query, since string, opts RequestOptions) (models.DeltaSet, error) {
	params, err := queryParams(q.Unpaged())
	if err != nil {
		return models.DeltaSet{}, err
	}
	params["since"] = since

	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	var result models.DeltaSetResponse
	resp, err := h.request(ctx, collection).
		SetQueryParams(params).
		SetResult(&result).
		Get(deltaSetPath)
	if err := h.check(ctx, "FindDelta", resp, err); err != nil {
		return models.DeltaSet{}, err
	}

	delta := models.DeltaSet{
		Changed:       result.Changed,
		Deleted:       make([]string, 0, len(result.Deleted)),
		SyncTimestamp: result.SyncTimestamp,
	}
	for _, ref := range result.Deleted {
		delta.Deleted = append(delta.Deleted, ref.ID)
	}
	if delta.SyncTimestamp == "" {
		delta.SyncTimestamp = resp.Header().Get(models.HeaderRequestStart)
	}

	return delta, nil
}

func (h *httpCollectionClient) Count(ctx context.Context, collection string, q *models.Query, opts RequestOptions) (int, error) {
	params, err := queryParams(q)
	if err != nil {
		return 0, err
	}

	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	var result models.CountResponse
	resp, err := h.request(ctx, collection).
		SetQueryParams(params).
		SetResult(&result).
		Get(countPath)
	if err := h.check(ctx, "Count", resp, err); err != nil {
		return 0, err
	}

	return result.Count, nil
}

// request starts a request bound to ctx with the collection path parameter
// and the bearer token set.
func (h *httpCollectionClient) request(ctx context.Context, collection string) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetPathParam("collection", collection)
	if h.token != "" {
		req.SetAuthToken(h.token)
	}
	return req
}

// check turns a transport error or a non-2xx answer into a package sentinel.
func (h *httpCollectionClient) check(ctx context.Context, op string, resp *resty.Response, err error) error {
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "httpCollectionClient."+op).
			Msg("collection service request failed")
		return fmt.Errorf("%w: %s: %w", ErrNetwork, strings.ToLower(op), err)
	}
	return mapHTTPError(resp)
}

func withTimeout(ctx context.Context, opts RequestOptions) (context.Context, context.CancelFunc) {
	if opts.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, opts.Timeout)
}

// queryParams renders q in the wire form: query, sort, skip and limit.
func queryParams(q *models.Query) (map[string]string, error) {
	params := make(map[string]string)
	if q == nil {
		return params, nil
	}

	filter, err := query.Encode(q.Filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if filter != "" {
		params["query"] = filter
	}
	if sort := query.EncodeSort(q.Sort); sort != "" {
		params["sort"] = sort
	}
	if q.Skip > 0 {
		params["skip"] = strconv.Itoa(q.Skip)
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	return params, nil
}
