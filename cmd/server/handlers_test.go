package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnibase/college-resolver-go/internal/college"
	"github.com/alumnibase/college-resolver-go/internal/config"
	"github.com/alumnibase/college-resolver-go/internal/logger"
	"github.com/alumnibase/college-resolver-go/internal/metrics"
	"github.com/alumnibase/college-resolver-go/internal/storage"
)

type staticLoader struct {
	records []college.InstitutionRecord
}

func (l *staticLoader) Load(_ context.Context) ([]college.InstitutionRecord, error) {
	return l.records, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *storage.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	log := logger.NewWithWriter("error", io.Discard)

	loader := &staticLoader{records: []college.InstitutionRecord{
		{ID: 1, Name: "Harvard University", City: "Cambridge", State: "MA"},
		{ID: 2, Name: "Yale University", City: "New Haven", State: "CT"},
		{ID: 3, Name: "SUNY Maritime College", City: "Bronx", State: "NY"},
	}}
	svc := college.NewService(loader, log, m)
	require.NoError(t, svc.Init(context.Background()))

	router := gin.New()
	a := newAPI(svc, db, m, log, 10, 50)
	cfg := &config.Config{MetricsUsername: "prometheus"}
	setupRoutes(router, a, db, registry, cfg)
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleResolve(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/colleges/resolve", resolveRequest{
		Names: []string{"Harvard University", "", "Completely Unknown School"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Resolutions, 3)

	require.NotNil(t, resp.Resolutions[0].StandardName)
	assert.Equal(t, "Harvard University", *resp.Resolutions[0].StandardName)
	assert.Equal(t, college.SourceReference, resp.Resolutions[0].Source)

	assert.Nil(t, resp.Resolutions[1].StandardName)
	assert.Equal(t, college.SourceUnmatched, resp.Resolutions[1].Source)

	assert.Nil(t, resp.Resolutions[2].StandardName)
	assert.Equal(t, "Completely Unknown School", resp.Resolutions[2].OriginalName)
}

func TestHandleResolveMappingPrecedence(t *testing.T) {
	router, db := newTestRouter(t)

	require.NoError(t, db.SaveMapping(context.Background(), &storage.Mapping{
		RawKey:       college.ExactKey("Harvard Univ."),
		RawName:      "Harvard Univ.",
		StandardName: "Harvard University",
	}))

	w := doJSON(t, router, http.MethodPost, "/api/colleges/resolve", resolveRequest{
		Names: []string{"Harvard Univ."},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Resolutions, 1)
	require.NotNil(t, resp.Resolutions[0].StandardName)
	assert.Equal(t, "Harvard University", *resp.Resolutions[0].StandardName)
	assert.Equal(t, college.SourceMapping, resp.Resolutions[0].Source)
	assert.InDelta(t, 1.0, resp.Resolutions[0].Confidence, 0.0001)
}

func TestHandleResolveValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "empty names", body: resolveRequest{Names: []string{}}},
		{name: "too many names", body: resolveRequest{Names: make([]string, 11)}},
		{name: "malformed body", body: "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/colleges/resolve", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleSearch(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/colleges/search?q=SUNY+Maritime", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Query   string   `json:"query"`
		Results []string `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "SUNY Maritime College — Bronx, NY", resp.Results[0])
}

func TestHandleSearchBlankQuery(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/colleges/search?q=", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []string `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)
}

func TestHandleSearchInvalidLimit(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, limit := range []string{"abc", "0", "-5"} {
		w := doJSON(t, router, http.MethodGet, "/api/colleges/search?q=yale&limit="+limit, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
	}
}

func TestMappingsLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	// Create
	w := doJSON(t, router, http.MethodPut, "/api/mappings", mappingRequest{
		RawName:      "MIT",
		StandardName: "Massachusetts Institute of Technology",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// List
	w = doJSON(t, router, http.MethodGet, "/api/mappings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Mappings []storage.Mapping `json:"mappings"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Equal(t, 1, listResp.Count)
	assert.Equal(t, "mit", listResp.Mappings[0].RawKey)

	// Delete
	w = doJSON(t, router, http.MethodDelete, "/api/mappings?name=MIT", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Delete again
	w = doJSON(t, router, http.MethodDelete, "/api/mappings?name=MIT", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSaveMappingValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body mappingRequest
	}{
		{name: "blank raw name", body: mappingRequest{RawName: "  ", StandardName: "Harvard University"}},
		{name: "blank standard name", body: mappingRequest{RawName: "MIT", StandardName: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPut, "/api/mappings", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestProbes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status   string `json:"status"`
		Mappings *int   `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	// The mapping count is included whenever the store is reachable.
	require.NotNil(t, resp.Mappings)
	assert.Equal(t, 0, *resp.Mappings)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "resolver_index_records")
}
