// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/mock"
	"github.com/MKhiriev/go-docsync/internal/service"
	"github.com/MKhiriev/go-docsync/internal/validators"
	"github.com/MKhiriev/go-docsync/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// ---- Helpers ----

func newTestHandler(t *testing.T, token string) (*Handler, *mock.MockCollectionService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mock.NewMockCollectionService(ctrl)
	svc.EXPECT().Now().Return(testNow).AnyTimes()

	return &Handler{
		services:  &service.Services{Collections: svc},
		validator: validators.NewRequestValidator(),
		token:     token,
		logger:    logger.Nop(),
	}, svc
}

func serve(h *Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	h.Init().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

// ---- Routes ----

func TestHandler_Find(t *testing.T) {
	h, svc := newTestHandler(t, "")

	filter := url.QueryEscape(`{"genre":"scifi"}`)
	svc.EXPECT().
		Find(gomock.Any(), "books", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, q *models.Query) ([]models.Entity, error) {
			require.NotNil(t, q)
			require.NotNil(t, q.Filter)
			assert.Equal(t, "genre", q.Filter.Field)
			assert.Equal(t, "scifi", q.Filter.Value)
			assert.Equal(t, []models.SortField{{Field: "year", Direction: models.Descending}}, q.Sort)
			assert.Equal(t, 10, q.Skip)
			assert.Equal(t, 5, q.Limit)
			return []models.Entity{{"_id": "a", "genre": "scifi"}}, nil
		})

	rr := serve(h, http.MethodGet, "/appdata/books?query="+filter+"&sort=-year&skip=10&limit=5", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"_id":"a","genre":"scifi"}]`, rr.Body.String())
	assert.Equal(t, testNow.Format(service.TimestampLayout), rr.Header().Get(models.HeaderRequestStart))
}

func TestHandler_Find_NoParamsMeansNilQuery(t *testing.T) {
	h, svc := newTestHandler(t, "")
	svc.EXPECT().Find(gomock.Any(), "books", (*models.Query)(nil)).Return(nil, nil)

	rr := serve(h, http.MethodGet, "/appdata/books", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String(), "an empty result is an empty array")
}

func TestHandler_Find_BadParameters(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "broken query json", target: "/appdata/books?query=" + url.QueryEscape("{oops")},
		{name: "non numeric skip", target: "/appdata/books?skip=ten"},
		{name: "non numeric limit", target: "/appdata/books?limit=" + url.QueryEscape("1.5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, "")

			rr := serve(h, http.MethodGet, tt.target, "")

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, models.ErrorBadRequest, decodeError(t, rr).Error)
		})
	}
}

func TestHandler_Count(t *testing.T) {
	h, svc := newTestHandler(t, "")
	svc.EXPECT().Count(gomock.Any(), "books", (*models.Query)(nil)).Return(7, nil)

	rr := serve(h, http.MethodGet, "/appdata/books/_count", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":7}`, rr.Body.String())
}

func TestHandler_DeltaSet(t *testing.T) {
	h, svc := newTestHandler(t, "")
	since := testNow.Add(-time.Hour).Format(service.TimestampLayout)

	svc.EXPECT().
		DeltaSet(gomock.Any(), "books", (*models.Query)(nil), since).
		Return(models.DeltaSet{
			Changed:       []models.Entity{{"_id": "a"}},
			Deleted:       []string{"b", "c"},
			SyncTimestamp: "ts",
		}, nil)

	rr := serve(h, http.MethodGet, "/appdata/books/_deltaset?since="+url.QueryEscape(since), "")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.DeltaSetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a"}, models.EntityIDs(resp.Changed))
	assert.Equal(t, []models.DeletedRef{{ID: "b"}, {ID: "c"}}, resp.Deleted)
}

func TestHandler_DeltaSet_EmptyListsAreArrays(t *testing.T) {
	h, svc := newTestHandler(t, "")
	svc.EXPECT().DeltaSet(gomock.Any(), "books", gomock.Any(), "x").Return(models.DeltaSet{}, nil)

	rr := serve(h, http.MethodGet, "/appdata/books/_deltaset?since=x", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.JSONEq(t, `[]`, string(raw["changed"]))
	assert.JSONEq(t, `[]`, string(raw["deleted"]))
}

func TestHandler_FindByID(t *testing.T) {
	h, svc := newTestHandler(t, "")
	svc.EXPECT().FindByID(gomock.Any(), "books", "a").Return(models.Entity{"_id": "a", "title": "Dune"}, nil)

	rr := serve(h, http.MethodGet, "/appdata/books/a", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"_id":"a","title":"Dune"}`, rr.Body.String())
}

func TestHandler_Create(t *testing.T) {
	h, svc := newTestHandler(t, "")
	svc.EXPECT().
		Create(gomock.Any(), "books", models.Entity{"title": "Dune"}).
		Return(models.Entity{"_id": "new", "title": "Dune"}, nil)

	rr := serve(h, http.MethodPost, "/appdata/books", `{"title":"Dune"}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"_id":"new","title":"Dune"}`, rr.Body.String())
}

func TestHandler_Create_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "array", body: `[{"title":"Dune"}]`},
		{name: "scalar", body: `42`},
		{name: "broken json", body: `{"title":`},
		{name: "numeric id", body: `{"_id":5}`},
		{name: "scalar metadata", body: `{"_kmd":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, "")

			rr := serve(h, http.MethodPost, "/appdata/books", tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, models.ErrorBadRequest, decodeError(t, rr).Error)
		})
	}
}

func TestHandler_Update(t *testing.T) {
	h, svc := newTestHandler(t, "")
	svc.EXPECT().
		Update(gomock.Any(), "books", "a", models.Entity{"title": "Dune"}).
		Return(models.Entity{"_id": "a", "title": "Dune"}, nil)

	rr := serve(h, http.MethodPut, "/appdata/books/a", `{"title":"Dune"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"_id":"a","title":"Dune"}`, rr.Body.String())
}

func TestHandler_DeleteByID(t *testing.T) {
	h, svc := newTestHandler(t, "")
	svc.EXPECT().Delete(gomock.Any(), "books", "a").Return(1, nil)

	rr := serve(h, http.MethodDelete, "/appdata/books/a", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":1}`, rr.Body.String())
}

func TestHandler_DeleteByQuery(t *testing.T) {
	h, svc := newTestHandler(t, "")
	svc.EXPECT().
		DeleteByQuery(gomock.Any(), "books", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, q *models.Query) (int, error) {
			require.NotNil(t, q)
			assert.Equal(t, "genre", q.Filter.Field)
			return 3, nil
		})

	rr := serve(h, http.MethodDelete, "/appdata/books?query="+url.QueryEscape(`{"genre":"drama"}`), "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":3}`, rr.Body.String())
}

// ---- Error mapping ----

func TestHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantName   string
	}{
		{"not found", service.ErrEntityNotFound, http.StatusNotFound, models.ErrorEntityNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", service.ErrEntityNotFound), http.StatusNotFound, models.ErrorEntityNotFound},
		{"delta disabled", service.ErrDeltaSetDisabled, http.StatusBadRequest, models.ErrorMissingConfiguration},
		{"since out of range", service.ErrSinceOutOfRange, http.StatusBadRequest, models.ErrorParameterValueOutOfRange},
		{"invalid since", service.ErrInvalidSince, http.StatusBadRequest, models.ErrorBadRequest},
		{"invalid query", service.ErrInvalidQuery, http.StatusBadRequest, models.ErrorBadRequest},
		{"unexpected", assert.AnError, http.StatusInternalServerError, models.ErrorServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestHandler(t, "")
			svc.EXPECT().FindByID(gomock.Any(), "books", "a").Return(nil, tt.err)

			rr := serve(h, http.MethodGet, "/appdata/books/a", "")

			assert.Equal(t, tt.wantStatus, rr.Code)
			resp := decodeError(t, rr)
			assert.Equal(t, tt.wantName, resp.Error)
			assert.Equal(t, tt.err.Error(), resp.Description)
		})
	}
}

func TestHandler_InvalidCollection(t *testing.T) {
	h, _ := newTestHandler(t, "")

	rr := serve(h, http.MethodGet, "/appdata/"+strings.Repeat("a", 200), "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.ErrorBadRequest, decodeError(t, rr).Error)
}

func TestHandler_UnknownRoute(t *testing.T) {
	h, _ := newTestHandler(t, "")

	rr := serve(h, http.MethodGet, "/api/user/login", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, models.ErrorBadRequest, decodeError(t, rr).Error)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t, "")

	rr := serve(h, http.MethodPatch, "/appdata/books/a", `{}`)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, models.ErrorBadRequest, decodeError(t, rr).Error)
}

func TestHandler_RequiresTokenWhenConfigured(t *testing.T) {
	h, svc := newTestHandler(t, "secret")
	svc.EXPECT().Count(gomock.Any(), "books", gomock.Any()).Return(0, nil)

	rr := serve(h, http.MethodGet, "/appdata/books/_count", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, models.ErrorInsufficientCredentials, decodeError(t, rr).Error)

	req := httptest.NewRequest(http.MethodGet, "/appdata/books/_count", nil)
	req.Header.Set("Authorization", "Bearer secret")
	ok := httptest.NewRecorder()
	h.Init().ServeHTTP(ok, req)
	assert.Equal(t, http.StatusOK, ok.Code)
}

func TestHandler_RecoversFromPanics(t *testing.T) {
	h, svc := newTestHandler(t, "")
	svc.EXPECT().Count(gomock.Any(), "books", gomock.Any()).DoAndReturn(
		func(context.Context, string, *models.Query) (int, error) {
			panic("boom")
		})

	rr := serve(h, http.MethodGet, "/appdata/books/_count", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
