package model

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
	"github.com/couchcryptid/modis-fire-dashboard/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeScaler(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scaler.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestValidateFeatureNames(t *testing.T) {
	assert.NoError(t, ValidateFeatureNames(domain.FeatureNames))
	assert.NoError(t, ValidateFeatureNames([]string{"confidence", "track", "scan", "frp", "bright_t31", "brightness"}))

	bad := [][]string{
		{"brightness", "bright_t31", "frp", "scan", "track"},
		{"brightness", "bright_t31", "frp", "scan", "track", "type"},
		{"brightness", "brightness", "frp", "scan", "track", "confidence"},
		nil,
	}
	for _, names := range bad {
		assert.ErrorIs(t, ValidateFeatureNames(names), ErrFeatureMismatch, names)
	}
}

func TestAssembleFollowsDeclaredOrder(t *testing.T) {
	feats := map[string]float64{"brightness": 1, "bright_t31": 2, "frp": 3, "scan": 4, "track": 5, "confidence": 6}

	got, err := Assemble([]string{"confidence", "frp", "brightness", "scan", "bright_t31", "track"}, feats)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 3, 1, 4, 2, 5}, got)

	_, err = Assemble([]string{"brightness", "daynight"}, feats)
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}

func TestLoadStandardScaler(t *testing.T) {
	path := writeScaler(t, `{
		"feature_names_in_": ["brightness","bright_t31","frp","scan","track","confidence"],
		"mean_": [300, 290, 10, 1, 1, 1],
		"scale_": [10, 5, 5, 0.5, 0.5, 0]
	}`)

	s, err := LoadStandardScaler(path)
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureNames, s.FeatureNames())

	out, err := s.Transform([]float64{310, 280, 15, 2, 1, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, -2, 1, 2, 0, 1}, out, 1e-9)

	_, err = s.Transform([]float64{1, 2})
	assert.Error(t, err)
}

func TestLoadStandardScaler_Invalid(t *testing.T) {
	t.Run("wrong features", func(t *testing.T) {
		path := writeScaler(t, `{"feature_names_in_":["a","b"],"mean_":[0,0],"scale_":[1,1]}`)
		_, err := LoadStandardScaler(path)
		assert.ErrorIs(t, err, ErrFeatureMismatch)
	})
	t.Run("length mismatch", func(t *testing.T) {
		path := writeScaler(t, `{"feature_names_in_":["brightness","bright_t31","frp","scan","track","confidence"],"mean_":[0],"scale_":[1]}`)
		_, err := LoadStandardScaler(path)
		assert.Error(t, err)
	})
	t.Run("not json", func(t *testing.T) {
		_, err := LoadStandardScaler(writeScaler(t, "pickle"))
		assert.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadStandardScaler(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})
}

type stubScaler struct{ names []string }

func (s stubScaler) FeatureNames() []string                   { return s.names }
func (s stubScaler) Transform(x []float64) ([]float64, error) { return x, nil }

type closingClassifier struct{ closed *int }

func (c closingClassifier) Predict([]float64) (int64, error) { return 0, nil }
func (c closingClassifier) Close() error                     { *c.closed++; return nil }

func TestHolder_LoadOnceAndRelease(t *testing.T) {
	loads, closed := 0, 0
	load := func(context.Context) (Handles, error) {
		loads++
		return Handles{Scaler: stubScaler{names: domain.FeatureNames}, Classifier: closingClassifier{closed: &closed}}, nil
	}
	m := observability.NewMetricsForTesting()
	h := NewHolder(load, discardLogger(), m)
	ctx := context.Background()

	assert.False(t, h.Loaded())
	for range 3 {
		require.NoError(t, h.Use(ctx, func(Handles) error { return nil }))
	}
	assert.Equal(t, 1, loads)
	assert.True(t, h.Loaded())

	require.NoError(t, h.Release())
	assert.Equal(t, 1, closed)
	assert.False(t, h.Loaded())
	require.NoError(t, h.Release(), "release is idempotent")

	require.NoError(t, h.Use(ctx, func(Handles) error { return nil }))
	assert.Equal(t, 2, loads)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ModelLoads))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelReleases))
}

func TestHolder_RejectsMismatchedScaler(t *testing.T) {
	closed := 0
	load := func(context.Context) (Handles, error) {
		return Handles{Scaler: stubScaler{names: []string{"brightness"}}, Classifier: closingClassifier{closed: &closed}}, nil
	}
	h := NewHolder(load, discardLogger(), observability.NewMetricsForTesting())

	called := false
	err := h.Use(context.Background(), func(Handles) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrFeatureMismatch)
	assert.False(t, called)
	assert.Equal(t, 1, closed)
	assert.False(t, h.Loaded())
}

func TestHolder_LoadError(t *testing.T) {
	h := NewHolder(func(context.Context) (Handles, error) {
		return Handles{}, errors.New("file not found")
	}, discardLogger(), observability.NewMetricsForTesting())

	err := h.Use(context.Background(), func(Handles) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}
