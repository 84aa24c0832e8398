package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/modis-fire-dashboard/internal/config"
	"github.com/couchcryptid/modis-fire-dashboard/internal/dataset"
	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
	"github.com/couchcryptid/modis-fire-dashboard/internal/observability"
)

// Artifact is one file the dashboard needs on local disk.
type Artifact struct {
	Name string
	Path string
	URL  string
}

// Required lists the classifier, the scaler, and the three yearly datasets.
func Required(cfg *config.Config) []Artifact {
	out := []Artifact{
		{Name: "model", Path: cfg.ModelPath(), URL: cfg.ModelURL},
		{Name: "scaler", Path: cfg.ScalerPath(), URL: cfg.ScalerURL},
	}
	for _, year := range domain.Years {
		out = append(out, Artifact{
			Name: fmt.Sprintf("dataset_%d", year),
			Path: filepath.Join(cfg.DataDir, dataset.FileName(year)),
			URL:  cfg.DatasetURLs[year],
		})
	}
	return out
}

// Fetcher downloads artifacts that are missing locally.
type Fetcher struct {
	artifacts  []Artifact
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewFetcher creates a fetcher for the given artifacts. Each download is
// bounded by timeout and retried up to retries times.
func NewFetcher(artifacts []Artifact, timeout time.Duration, retries int, logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		artifacts: artifacts,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retries: retries,
		backoff: time.Second,
		logger:  logger,
		metrics: metrics,
	}
}

// Artifacts returns the managed artifacts.
func (f *Fetcher) Artifacts() []Artifact {
	return f.artifacts
}

// Ensure makes every artifact present on disk. Files that already exist are
// left alone, so a second call performs no network access.
func (f *Fetcher) Ensure(ctx context.Context) error {
	for _, a := range f.artifacts {
		if err := f.ensureOne(ctx, a); err != nil {
			f.metrics.ArtifactFetches.WithLabelValues(a.Name, "error").Inc()
			return err
		}
	}
	return nil
}

// CheckReadiness returns nil when every artifact exists locally.
func (f *Fetcher) CheckReadiness(_ context.Context) error {
	var missing []error
	for _, a := range f.artifacts {
		if ok, err := exists(a.Path); err != nil || !ok {
			missing = append(missing, fmt.Errorf("artifact %s missing at %s", a.Name, a.Path))
		}
	}
	return errors.Join(missing...)
}

func (f *Fetcher) ensureOne(ctx context.Context, a Artifact) error {
	ok, err := exists(a.Path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", a.Path, err)
	}
	if ok {
		f.metrics.ArtifactFetches.WithLabelValues(a.Name, "present").Inc()
		return nil
	}
	if a.URL == "" {
		return fmt.Errorf("artifact %s missing at %s and no URL configured", a.Name, a.Path)
	}

	f.logger.Info("fetching artifact", "artifact", a.Name, "path", a.Path)
	start := time.Now()

	backoff := f.backoff
	for attempt := 0; ; attempt++ {
		err = f.download(ctx, a)
		if err == nil {
			break
		}
		if attempt >= f.retries || ctx.Err() != nil {
			return fmt.Errorf("fetch %s: %w", a.Name, err)
		}
		f.logger.Warn("artifact fetch failed, retrying", "artifact", a.Name, "attempt", attempt+1, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			return fmt.Errorf("fetch %s: %w", a.Name, ctx.Err())
		}
		backoff = retry.NextBackoff(backoff, 30*time.Second)
	}

	f.metrics.ArtifactFetchDuration.WithLabelValues(a.Name).Observe(time.Since(start).Seconds())
	f.metrics.ArtifactFetches.WithLabelValues(a.Name, "fetched").Inc()
	f.logger.Info("artifact fetched", "artifact", a.Name, "duration", time.Since(start))
	return nil
}

// download streams the URL into a temp file beside the target and renames
// it into place, so an interrupted transfer never leaves a partial artifact.
func (f *Fetcher) download(ctx context.Context, a Artifact) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", a.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("artifact host error: status %d: %s", resp.StatusCode, body)
	}

	dir := filepath.Dir(a.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(a.Path)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", a.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", a.Name, err)
	}
	if err := os.Rename(tmp.Name(), a.Path); err != nil {
		return fmt.Errorf("install %s: %w", a.Name, err)
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
