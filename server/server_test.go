package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"tendertrail/database"
	"tendertrail/extractors"
	"tendertrail/normalization"
	"tendertrail/pipeline"
	"tendertrail/schema"
	"tendertrail/translation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *database.DB) {
	t.Helper()
	db, err := database.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reg, err := schema.LoadRegistry(db)
	require.NoError(t, err)

	normalizer := normalization.NewNormalizer(
		reg.TargetSchema(),
		extractors.NewEngine(extractors.DefaultPolicy()),
		translation.NewTranslator(nil),
	)
	runner := pipeline.NewRunner(reg, normalizer,
		database.NewBatchLoader(db, 100), database.NewTracker(db), db, 1)
	return NewServer(runner, db), db
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestProcessSingleSource(t *testing.T) {
	srv, db := newTestServer(t)

	_, err := db.InsertRawRecords("adb", []normalization.RawRecord{
		{"id": "adb-1", "title": "Bridge works", "budget": "1,000,000 USD", "deadline": "2025-06-30"},
		{"id": "adb-2", "title": "Road works", "budget": "250,000 USD"},
	})
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/api/process", `{"source_name": "adb"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results        []pipeline.Result `json:"results"`
		ProcessedCount int               `json:"processed_count"`
		ErrorCount     int               `json:"error_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.ProcessedCount)
	require.Equal(t, 0, resp.ErrorCount)
	require.Len(t, resp.Results, 1)
	require.Equal(t, "adb", resp.Results[0].Source)
}

func TestProcessAllSources(t *testing.T) {
	srv, db := newTestServer(t)

	_, err := db.InsertRawRecords("wb", []normalization.RawRecord{
		{"id": "wb-1", "title": "WB tender", "publication_date": "30-Jun-2025"},
	})
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/api/process", `{"process_all_sources": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results        []pipeline.Result `json:"results"`
		ProcessedCount int               `json:"processed_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.ProcessedCount)
	require.Len(t, resp.Results, 3)
}

func TestProcessValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/process", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/process", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessUnknownSource(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/api/process", `{"source_name": "nosuch"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProcessSurfacesRecordErrors(t *testing.T) {
	srv, db := newTestServer(t)

	_, err := db.InsertRawRecords("adb", []normalization.RawRecord{
		{"id": "adb-1", "title": "Good one"},
		{"id": "adb-2", "description": "No title"},
	})
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/api/process", `{"source_name": "adb"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ProcessedCount int `json:"processed_count"`
		ErrorCount     int `json:"error_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.ProcessedCount)
	require.Equal(t, 1, resp.ErrorCount)

	rec = doJSON(t, srv, http.MethodGet, "/api/errors?source=adb", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var errsResp struct {
		Count  int `json:"count"`
		Errors []struct {
			RawID   string `json:"raw_id"`
			Source  string `json:"source"`
			Stage   string `json:"stage"`
			Message string `json:"error_message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errsResp))
	require.Equal(t, 1, errsResp.Count)
	require.Equal(t, "adb-2", errsResp.Errors[0].RawID)
	require.Equal(t, "validate", errsResp.Errors[0].Stage)
	require.Contains(t, errsResp.Errors[0].Message, "title")
}

func TestErrorsLimitValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/errors?limit=abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/errors?limit=0", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/errors", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	rec = doJSON(t, srv, http.MethodGet, "/health", "")
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"), "server must assign an id when absent")
}
