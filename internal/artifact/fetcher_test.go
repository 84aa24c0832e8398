package artifact

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/modis-fire-dashboard/internal/config"
	"github.com/couchcryptid/modis-fire-dashboard/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFetcher(artifacts []Artifact, retries int, m *observability.Metrics) *Fetcher {
	f := NewFetcher(artifacts, 5*time.Second, retries, discardLogger(), m)
	f.backoff = time.Millisecond
	return f
}

func TestFetcher_DownloadsMissingAndIsIdempotent(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("payload:" + r.URL.Path))
	}))
	defer srv.Close()

	dir := t.TempDir()
	artifacts := []Artifact{
		{Name: "model", Path: filepath.Join(dir, "model.onnx"), URL: srv.URL + "/model"},
		{Name: "dataset_2021", Path: filepath.Join(dir, "nested", "modis_2021_India.csv"), URL: srv.URL + "/2021"},
	}
	m := observability.NewMetricsForTesting()
	f := newTestFetcher(artifacts, 0, m)

	require.NoError(t, f.Ensure(context.Background()))
	assert.Equal(t, int32(2), hits.Load())

	data, err := os.ReadFile(artifacts[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "payload:/model", string(data))
	assert.NoError(t, f.CheckReadiness(context.Background()))

	require.NoError(t, f.Ensure(context.Background()))
	assert.Equal(t, int32(2), hits.Load(), "second run must not touch the network")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArtifactFetches.WithLabelValues("model", "fetched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArtifactFetches.WithLabelValues("model", "present")))
}

func TestFetcher_HTTPErrorLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "scaler.json")
	m := observability.NewMetricsForTesting()
	f := newTestFetcher([]Artifact{{Name: "scaler", Path: target, URL: srv.URL}}, 0, m)

	err := f.Ensure(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial artifact should remain")
	assert.Error(t, f.CheckReadiness(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArtifactFetches.WithLabelValues("scaler", "error")))
}

func TestFetcher_RetriesTransientFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "model.onnx")
	f := newTestFetcher([]Artifact{{Name: "model", Path: target, URL: srv.URL}}, 2, observability.NewMetricsForTesting())

	require.NoError(t, f.Ensure(context.Background()))
	assert.Equal(t, int32(2), hits.Load())
	assert.FileExists(t, target)
}

func TestFetcher_MissingWithoutURL(t *testing.T) {
	f := newTestFetcher([]Artifact{{Name: "model", Path: filepath.Join(t.TempDir(), "m.onnx")}}, 0, observability.NewMetricsForTesting())

	err := f.Ensure(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no URL configured")
}

func TestFetcher_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newTestFetcher([]Artifact{{Name: "model", Path: filepath.Join(t.TempDir(), "m.onnx"), URL: srv.URL}}, 3, observability.NewMetricsForTesting())
	assert.Error(t, f.Ensure(ctx))
}

func TestRequired(t *testing.T) {
	t.Setenv("DATA_DIR", "/data")
	t.Setenv("MODEL_URL", "https://example.com/m.onnx")
	cfg, err := config.Load()
	require.NoError(t, err)

	got := Required(cfg)
	require.Len(t, got, 5)
	assert.Equal(t, "model", got[0].Name)
	assert.Equal(t, "https://example.com/m.onnx", got[0].URL)
	assert.Equal(t, "scaler", got[1].Name)
	assert.Equal(t, filepath.Join("/data", "modis_2021_India.csv"), got[2].Path)
	assert.Equal(t, cfg.DatasetURLs[2023], got[4].URL)
}
