package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
	"github.com/couchcryptid/modis-fire-dashboard/internal/observability"
)

// Store memoizes the unified dataset and its filtered views. Both are keyed on
// a fingerprint of the yearly files, so touching any file forces a reload.
type Store struct {
	loader  *Loader
	views   *lruCache[domain.Dataset]
	logger  *slog.Logger
	metrics *observability.Metrics

	mu          sync.Mutex
	fingerprint string
	unified     domain.Dataset
}

// NewStore wraps a loader. cacheSize bounds the number of filtered views kept;
// zero disables view caching.
func NewStore(loader *Loader, cacheSize int, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		loader:  loader,
		views:   newLRUCache[domain.Dataset](cacheSize),
		logger:  logger,
		metrics: metrics,
	}
}

// Unified returns the current unified dataset, reloading it when the files
// on disk changed since the last call.
func (s *Store) Unified(ctx context.Context) (domain.Dataset, error) {
	ds, _, err := s.current(ctx)
	return ds, err
}

// View returns the unified dataset together with the view selected by f.
func (s *Store) View(ctx context.Context, f domain.Filter) (unified, filtered domain.Dataset, err error) {
	unified, fp, err := s.current(ctx)
	if err != nil {
		return domain.Dataset{}, domain.Dataset{}, err
	}

	key := fp + "#" + f.Key()
	if v, ok := s.views.get(key); ok {
		s.metrics.FilterCache.WithLabelValues("hit").Inc()
		return unified, v, nil
	}
	s.metrics.FilterCache.WithLabelValues("miss").Inc()

	filtered = f.Apply(unified)
	s.views.put(key, filtered)
	return unified, filtered, nil
}

func (s *Store) current(ctx context.Context) (domain.Dataset, string, error) {
	fp, err := s.fingerprintFiles()
	if err != nil {
		return domain.Dataset{}, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if fp == s.fingerprint && s.unified.Columns != nil {
		return s.unified, fp, nil
	}

	ds, err := s.loader.Load(ctx)
	if err != nil {
		return domain.Dataset{}, "", fmt.Errorf("load dataset: %w", err)
	}

	s.metrics.DatasetLoads.Inc()
	s.metrics.DatasetRows.Set(float64(ds.Len()))
	if s.fingerprint != "" {
		s.logger.Info("dataset files changed, reloaded", "rows", ds.Len())
	}

	s.views.purge()
	s.fingerprint = fp
	s.unified = ds
	return ds, fp, nil
}

func (s *Store) fingerprintFiles() (string, error) {
	var b strings.Builder
	for _, year := range s.loader.Years() {
		path := s.loader.Path(year)
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			fmt.Fprintf(&b, "%d:absent;", year)
		case err != nil:
			return "", fmt.Errorf("stat %s: %w", path, err)
		default:
			fmt.Fprintf(&b, "%d:%d:%d;", year, info.Size(), info.ModTime().UnixNano())
		}
	}
	return b.String(), nil
}
