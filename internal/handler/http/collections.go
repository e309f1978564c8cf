// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/utils"
	"github.com/MKhiriev/go-docsync/models"
)

func (h *Handler) find(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, r, "*Handler.find", err)
		return
	}

	found, err := h.services.Collections.Find(r.Context(), collectionParam(r), q)
	if err != nil {
		writeError(w, r, "*Handler.find", err)
		return
	}
	if found == nil {
		found = []models.Entity{}
	}
	h.writeJSON(w, r, found, http.StatusOK)
}

func (h *Handler) count(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, r, "*Handler.count", err)
		return
	}

	n, err := h.services.Collections.Count(r.Context(), collectionParam(r), q)
	if err != nil {
		writeError(w, r, "*Handler.count", err)
		return
	}
	h.writeJSON(w, r, models.CountResponse{Count: n}, http.StatusOK)
}

func (h *Handler) deltaSet(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, r, "*Handler.deltaSet", err)
		return
	}

	delta, err := h.services.Collections.DeltaSet(r.Context(), collectionParam(r), q, r.URL.Query().Get("since"))
	if err != nil {
		writeError(w, r, "*Handler.deltaSet", err)
		return
	}

	resp := models.DeltaSetResponse{
		Changed:       delta.Changed,
		Deleted:       make([]models.DeletedRef, 0, len(delta.Deleted)),
		SyncTimestamp: delta.SyncTimestamp,
	}
	if resp.Changed == nil {
		resp.Changed = []models.Entity{}
	}
	for _, id := range delta.Deleted {
		resp.Deleted = append(resp.Deleted, models.DeletedRef{ID: id})
	}
	h.writeJSON(w, r, resp, http.StatusOK)
}

func (h *Handler) findByID(w http.ResponseWriter, r *http.Request) {
	e, err := h.services.Collections.FindByID(r.Context(), collectionParam(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "*Handler.findByID", err)
		return
	}
	h.writeJSON(w, r, e, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	e, err := h.entityFromRequest(r)
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.create").Msg("invalid entity was passed")
		writeError(w, r, "*Handler.create", err)
		return
	}

	created, err := h.services.Collections.Create(r.Context(), collectionParam(r), e)
	if err != nil {
		writeError(w, r, "*Handler.create", err)
		return
	}
	h.writeJSON(w, r, created, http.StatusCreated)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	e, err := h.entityFromRequest(r)
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.update").Msg("invalid entity was passed")
		writeError(w, r, "*Handler.update", err)
		return
	}

	updated, err := h.services.Collections.Update(r.Context(), collectionParam(r), chi.URLParam(r, "id"), e)
	if err != nil {
		writeError(w, r, "*Handler.update", err)
		return
	}
	h.writeJSON(w, r, updated, http.StatusOK)
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request) {
	n, err := h.services.Collections.Delete(r.Context(), collectionParam(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "*Handler.deleteByID", err)
		return
	}
	h.writeJSON(w, r, models.CountResponse{Count: n}, http.StatusOK)
}

func (h *Handler) deleteByQuery(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, r, "*Handler.deleteByQuery", err)
		return
	}

	n, err := h.services.Collections.DeleteByQuery(r.Context(), collectionParam(r), q)
	if err != nil {
		writeError(w, r, "*Handler.deleteByQuery", err)
		return
	}
	h.writeJSON(w, r, models.CountResponse{Count: n}, http.StatusOK)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	if _, err := utils.WriteJSON(w, data, status); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.writeJSON").Msg("failed to write response")
	}
}
