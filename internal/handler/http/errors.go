// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of request parsing. Callers can match against them with
// [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the "Authorization" header contains the
	// expected scheme prefix but the token value itself is an empty string.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")

	// ErrWrongToken is returned when the token does not match the configured one.
	ErrWrongToken = errors.New("token is not accepted")

	// ErrInvalidParameter is returned for unparsable skip, limit or since
	// parameters.
	ErrInvalidParameter = errors.New("invalid request parameter")

	// ErrInvalidBody is returned when the request body is not a JSON object.
	ErrInvalidBody = errors.New("invalid request body")
)
