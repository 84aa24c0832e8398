// Package model wraps the externally trained scaler and classifier behind
// small capability interfaces and owns their process-wide handles.
package model

import (
	"context"
	"errors"
)

// Scaler normalizes a raw feature vector. FeatureNames reports the order the
// scaler expects its input in.
type Scaler interface {
	FeatureNames() []string
	Transform(x []float64) ([]float64, error)
}

// Classifier maps a normalized vector to a class id.
type Classifier interface {
	Predict(x []float64) (int64, error)
}

// Handles is a loaded scaler and classifier pair.
type Handles struct {
	Scaler     Scaler
	Classifier Classifier
}

// LoadFunc loads a fresh pair of handles.
type LoadFunc func(ctx context.Context) (Handles, error)

// Close releases any resources held by the handles.
func (h Handles) Close() error {
	var errs []error
	if c, ok := h.Classifier.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := h.Scaler.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
