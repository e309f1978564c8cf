// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// HeaderRequestStart carries the server time at which a request started. It
// is the timestamp a client hands back as "since" on its next delta fetch.
const HeaderRequestStart = "X-Request-Start"

// Error names carried in ErrorResponse.Error.
const (
	ErrorEntityNotFound           = "EntityNotFound"
	ErrorInsufficientCredentials  = "InsufficientCredentials"
	ErrorMissingConfiguration     = "MissingConfiguration"
	ErrorParameterValueOutOfRange = "ParameterValueOutOfRange"
	ErrorBadRequest               = "BadRequest"
	ErrorServerError              = "ServerError"
)

// ErrorResponse is the body of every non-2xx answer of the collection service.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"description,omitempty"`
}

// CountResponse answers count and delete requests.
type CountResponse struct {
	Count int `json:"count"`
}

// DeletedRef names an entity removed since the requested timestamp.
type DeletedRef struct {
	ID string `json:"_id"`
}

// DeltaSetResponse is the body of a delta-set answer.
type DeltaSetResponse struct {
	Changed       []Entity     `json:"changed"`
	Deleted       []DeletedRef `json:"deleted"`
	SyncTimestamp string       `json:"syncTimestamp,omitempty"`
}
