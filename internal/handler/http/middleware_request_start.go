// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-docsync/internal/service"
	"github.com/MKhiriev/go-docsync/models"
)

// withRequestStart stamps every response with the service clock taken
// before the request is handled. Clients remember it as the timestamp of
// their last pull.
func (h *Handler) withRequestStart(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(models.HeaderRequestStart, h.services.Collections.Now().Format(service.TimestampLayout))
		next.ServeHTTP(w, r)
	})
}
