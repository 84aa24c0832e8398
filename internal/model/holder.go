package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/couchcryptid/modis-fire-dashboard/internal/observability"
)

// Holder owns the process-wide model handles. They are loaded lazily on the
// first Use and kept until Release. Calls to Use are serialized.
type Holder struct {
	load    LoadFunc
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	handles *Handles
}

// NewHolder creates an empty holder that loads handles with load.
func NewHolder(load LoadFunc, logger *slog.Logger, metrics *observability.Metrics) *Holder {
	return &Holder{load: load, logger: logger, metrics: metrics}
}

// Use runs fn with the loaded handles, loading them first if needed.
func (h *Holder) Use(ctx context.Context, fn func(Handles) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.handles == nil {
		loaded, err := h.load(ctx)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		if loaded.Scaler == nil || loaded.Classifier == nil {
			_ = loaded.Close()
			return errors.New("load model: incomplete handles")
		}
		if err := ValidateFeatureNames(loaded.Scaler.FeatureNames()); err != nil {
			_ = loaded.Close()
			return fmt.Errorf("load model: %w", err)
		}
		h.handles = &loaded
		h.metrics.ModelLoads.Inc()
		h.logger.Info("model handles loaded", "features", loaded.Scaler.FeatureNames())
	}
	return fn(*h.handles)
}

// Loaded reports whether handles are currently resident.
func (h *Holder) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.handles != nil
}

// Release drops the resident handles. The next Use reloads them.
func (h *Holder) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.handles == nil {
		return nil
	}
	err := h.handles.Close()
	h.handles = nil
	h.metrics.ModelReleases.Inc()
	h.logger.Debug("model handles released")
	return err
}

// FileLoader loads the ONNX classifier and the JSON scaler from disk.
func FileLoader(onnxCfg ONNXConfig, scalerPath string) LoadFunc {
	return func(_ context.Context) (Handles, error) {
		scaler, err := LoadStandardScaler(scalerPath)
		if err != nil {
			return Handles{}, err
		}
		clf, err := LoadONNXClassifier(onnxCfg, len(scaler.Names))
		if err != nil {
			return Handles{}, err
		}
		return Handles{Scaler: scaler, Classifier: clf}, nil
	}
}
