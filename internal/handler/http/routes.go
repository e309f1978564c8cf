// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}
	router.Use(h.withRequestStart)

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)

	router.Route("/appdata/{collection}", func(r chi.Router) {
		if h.token != "" {
			r.Use(h.auth)
		}
		r.Use(h.withCollection)

		r.Get("/", h.find)
		r.Post("/", h.create)
		r.Delete("/", h.deleteByQuery)

		r.Get("/_count", h.count)
		r.Get("/_deltaset", h.deltaSet)

		r.Get("/{id}", h.findByID)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.deleteByID)
	})

	return router
}
