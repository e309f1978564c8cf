// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-docsync/internal/utils"
	"github.com/MKhiriev/go-docsync/models"
)

// methodNotAllowed answers a known path requested with an unsupported method
// using the wire error body, so clients see a BadRequest instead of chi's
// plain text 405.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusMethodNotAllowed, models.ErrorBadRequest,
		fmt.Sprintf("method %s is not supported for %s", r.Method, r.URL.Path))
}

// notFound answers unknown paths. The EntityNotFound name is reserved for
// entities, so unknown routes are reported as BadRequest.
func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusNotFound, models.ErrorBadRequest,
		fmt.Sprintf("no route for %s", r.URL.Path))
}
