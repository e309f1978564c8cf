// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-docsync/internal/validators"
)

// withCollection rejects requests whose collection path segment is not a
// valid collection name.
func (h *Handler) withCollection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.validator.Validate(r.Context(), validators.Collection(collectionParam(r))); err != nil {
			writeError(w, r, "*Handler.withCollection", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
