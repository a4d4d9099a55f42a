package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxnotify/internal/config"
	"fxnotify/internal/model"
)

func testServer(lastRun func() *model.RunSummary) *Server {
	cfg := config.DefaultConfig()
	cfg.WebhookURL = "https://example.invalid/webhook"
	cfg.Listen = "127.0.0.1:0"
	cfg.Normalize()
	return NewServer(cfg, lastRun)
}

func TestHealth(t *testing.T) {
	srv := testServer(func() *model.RunSummary { return nil })

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLastRunBeforeFirstRun(t *testing.T) {
	srv := testServer(func() *model.RunSummary { return nil })

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/last-run", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLastRun(t *testing.T) {
	summary := &model.RunSummary{
		StartedAt:  time.Date(2025, time.January, 15, 7, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, time.January, 15, 7, 0, 10, 0, time.UTC),
		FeedCount:  42,
		Today:      3,
		Upcoming:   5,
		Delivered:  true,
	}
	srv := testServer(func() *model.RunSummary { return summary })

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/last-run", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 42, got.FeedCount)
	assert.True(t, got.Delivered)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(func() *model.RunSummary { return nil })

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testServer(func() *model.RunSummary { return nil })

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
