package pipeline

import (
	"fmt"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
	"github.com/couchcryptid/modis-fire-dashboard/internal/model"
)

// classify runs one validated input through the loaded artifacts: encode,
// assemble in the scaler's order, scale, predict, label.
func classify(h model.Handles, in domain.PredictionInput) (domain.Prediction, error) {
	features, err := in.Features()
	if err != nil {
		return domain.Prediction{}, err
	}

	vector, err := model.Assemble(h.Scaler.FeatureNames(), features)
	if err != nil {
		return domain.Prediction{}, err
	}

	scaled, err := h.Scaler.Transform(vector)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("scale features: %w", err)
	}

	id, err := h.Classifier.Predict(scaled)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("classify: %w", err)
	}

	return domain.Prediction{ClassID: id, Label: domain.LabelForClass(id)}, nil
}
