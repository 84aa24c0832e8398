package model

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// StandardScaler applies (x - mean) / scale per feature. It is read from the
// JSON export of a fitted scikit-learn StandardScaler.
type StandardScaler struct {
	Names []string  `json:"feature_names_in_"`
	Mean  []float64 `json:"mean_"`
	Scale []float64 `json:"scale_"`
}

// LoadStandardScaler reads and validates a scaler export.
func LoadStandardScaler(path string) (*StandardScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scaler: %w", err)
	}
	var s StandardScaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scaler %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}
	return &s, nil
}

func (s *StandardScaler) validate() error {
	if err := ValidateFeatureNames(s.Names); err != nil {
		return err
	}
	if len(s.Mean) != len(s.Names) || len(s.Scale) != len(s.Names) {
		return fmt.Errorf("mean_ and scale_ must have %d entries, got %d and %d", len(s.Names), len(s.Mean), len(s.Scale))
	}
	return nil
}

func (s *StandardScaler) FeatureNames() []string {
	return s.Names
}

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("transform: want %d values, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		// scikit-learn stores 1 for zero-variance features; guard older exports.
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}
