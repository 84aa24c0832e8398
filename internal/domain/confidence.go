package domain

import (
	"errors"
	"fmt"
)

// Confidence levels accepted by the prediction form.
const (
	ConfidenceLow     = "low"
	ConfidenceNominal = "nominal"
	ConfidenceHigh    = "high"
)

// ErrInvalidConfidence is returned for a confidence outside the three levels.
var ErrInvalidConfidence = errors.New("invalid confidence level")

// ConfidenceLevels lists the levels in encoding order.
var ConfidenceLevels = []string{ConfidenceLow, ConfidenceNominal, ConfidenceHigh}

// EncodeConfidence maps a confidence level to the ordinal the model was
// trained with: low=0, nominal=1, high=2.
func EncodeConfidence(level string) (float64, error) {
	switch level {
	case ConfidenceLow:
		return 0, nil
	case ConfidenceNominal:
		return 1, nil
	case ConfidenceHigh:
		return 2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidConfidence, level)
	}
}
