// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// UserAgent identifies the docsync client to the collection service.
const UserAgent = "go-docsync"

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates and returns a new HTTPClient instance with the
// docsync user agent set.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New().SetHeader("User-Agent", UserAgent)}
}

// RetryIdempotent retries GET, PUT and DELETE requests answered with a 5xx
// status up to count times. POST is never retried since a lost answer may
// still have created the entity. Transport errors are not retried; they are
// reported to the caller, which decides whether it is offline.
func (c *HTTPClient) RetryIdempotent(count int, wait time.Duration) *HTTPClient {
	c.SetRetryCount(count).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(4 * wait).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil || resp == nil || resp.Request == nil {
				return false
			}
			switch resp.Request.Method {
			case http.MethodGet, http.MethodPut, http.MethodDelete:
				return resp.StatusCode() >= http.StatusInternalServerError
			}
			return false
		})
	return c
}
