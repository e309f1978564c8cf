// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrInsufficientCredentials is returned for 401 and 403 answers.
	ErrInsufficientCredentials = errors.New("insufficient credentials")
	// ErrBadRequest is returned for malformed requests.
	ErrBadRequest = errors.New("bad request")
	// ErrIncrementalUnsupported is returned when the service has delta
	// sets disabled for the collection.
	ErrIncrementalUnsupported = errors.New("incremental fetch is not supported")
	// ErrOutOfRange is returned when a delta-fetch timestamp is outside
	// the window the service retains changes for.
	ErrOutOfRange = errors.New("parameter value out of range")
	// ErrServer is returned for 5xx answers.
	ErrServer = errors.New("collection service error")
	// ErrNetwork wraps transport failures, including timeouts.
	ErrNetwork = errors.New("network error")
	// ErrUnexpectedResponse is returned when a 2xx body cannot be decoded.
	ErrUnexpectedResponse = errors.New("unexpected response")
)
