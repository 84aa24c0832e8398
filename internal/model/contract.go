package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
)

// ErrFeatureMismatch is returned when a scaler does not declare exactly the
// features the dashboard assembles.
var ErrFeatureMismatch = errors.New("scaler feature names do not match")

// ValidateFeatureNames checks that names is a permutation of
// domain.FeatureNames. Order is free because vectors are assembled by name.
func ValidateFeatureNames(names []string) error {
	if len(names) != len(domain.FeatureNames) {
		return fmt.Errorf("%w: want %d features %v, got %d %v",
			ErrFeatureMismatch, len(domain.FeatureNames), domain.FeatureNames, len(names), names)
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return fmt.Errorf("%w: duplicate feature %q", ErrFeatureMismatch, n)
		}
		if !slices.Contains(domain.FeatureNames, n) {
			return fmt.Errorf("%w: unexpected feature %q", ErrFeatureMismatch, n)
		}
		seen[n] = true
	}
	return nil
}

// Assemble orders features to match the scaler's declared feature names.
func Assemble(order []string, features map[string]float64) ([]float64, error) {
	out := make([]float64, len(order))
	for i, name := range order {
		v, ok := features[name]
		if !ok {
			return nil, fmt.Errorf("%w: no value for %q", ErrFeatureMismatch, name)
		}
		out[i] = v
	}
	return out, nil
}
