// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/service"
	"github.com/MKhiriev/go-docsync/internal/utils"
	"github.com/MKhiriev/go-docsync/internal/validators"
	"github.com/MKhiriev/go-docsync/models"
)

type errorStatus struct {
	status int
	name   string
}

var (
	badRequest       = errorStatus{http.StatusBadRequest, models.ErrorBadRequest}
	unauthorized     = errorStatus{http.StatusUnauthorized, models.ErrorInsufficientCredentials}
	serverError      = errorStatus{http.StatusInternalServerError, models.ErrorServerError}
	entityNotFound   = errorStatus{http.StatusNotFound, models.ErrorEntityNotFound}
	deltaSetDisabled = errorStatus{http.StatusBadRequest, models.ErrorMissingConfiguration}
	outOfRange       = errorStatus{http.StatusBadRequest, models.ErrorParameterValueOutOfRange}
)

var errorStatusMap = map[error]errorStatus{
	service.ErrEntityNotFound:   entityNotFound,
	service.ErrDeltaSetDisabled: deltaSetDisabled,
	service.ErrSinceOutOfRange:  outOfRange,
	service.ErrInvalidSince:     badRequest,
	service.ErrInvalidQuery:     badRequest,
	service.ErrEmptyCollection:  badRequest,
	service.ErrMissingEntityID:  badRequest,

	models.ErrEntityIsArray:   badRequest,
	models.ErrEntityNotObject: badRequest,

	validators.ErrInvalidCollection: badRequest,
	validators.ErrInvalidEntityID:   badRequest,
	validators.ErrInvalidMetadata:   badRequest,
	validators.ErrEmptyEntity:       badRequest,

	ErrInvalidParameter:           badRequest,
	ErrInvalidBody:                badRequest,
	ErrEmptyAuthorizationHeader:   unauthorized,
	ErrInvalidAuthorizationHeader: unauthorized,
	ErrEmptyToken:                 unauthorized,
	ErrWrongToken:                 unauthorized,
}

func statusFromError(err error) errorStatus {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return serverError
}

// writeError answers with the wire error body matching err. Server errors
// are logged; client errors are not.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	s := statusFromError(err)
	if s.status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Str("func", funcName).Msg("request failed")
	}
	utils.WriteError(w, s.status, s.name, err.Error())
}
