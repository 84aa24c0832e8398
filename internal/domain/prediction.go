package domain

import (
	"time"

	"github.com/google/uuid"
)

// FeatureNames is the feature vector the classifier was trained on.
var FeatureNames = []string{ColBrightness, ColBrightT31, ColFRP, ColScan, ColTrack, ColConfidence}

// PredictionInput holds the six raw values entered on the prediction page.
// The bounds mirror the form controls.
type PredictionInput struct {
	Brightness float64 `json:"brightness" validate:"gte=200,lte=500"`
	BrightT31  float64 `json:"bright_t31" validate:"gte=200,lte=350"`
	FRP        float64 `json:"frp" validate:"gte=0,lte=100"`
	Scan       float64 `json:"scan" validate:"gte=0,lte=5"`
	Track      float64 `json:"track" validate:"gte=0,lte=5"`
	Confidence string  `json:"confidence" validate:"required,oneof=low nominal high"`
}

// DefaultPredictionInput returns the values the form opens with.
func DefaultPredictionInput() PredictionInput {
	return PredictionInput{
		Brightness: 300,
		BrightT31:  290,
		FRP:        15,
		Scan:       1,
		Track:      1,
		Confidence: ConfidenceLow,
	}
}

// Features returns the encoded inputs keyed by feature name. Consumers build
// the model vector by looking names up, never by position.
func (in PredictionInput) Features() (map[string]float64, error) {
	conf, err := EncodeConfidence(in.Confidence)
	if err != nil {
		return nil, err
	}
	return map[string]float64{
		ColBrightness: in.Brightness,
		ColBrightT31:  in.BrightT31,
		ColFRP:        in.FRP,
		ColScan:       in.Scan,
		ColTrack:      in.Track,
		ColConfidence: conf,
	}, nil
}

// Prediction is the outcome of classifying one input.
type Prediction struct {
	ClassID int64  `json:"class_id"`
	Label   string `json:"label"`
}

// PredictionEvent records a successful prediction for downstream consumers.
type PredictionEvent struct {
	ID          string          `json:"id"`
	Input       PredictionInput `json:"input"`
	ClassID     int64           `json:"class_id"`
	Label       string          `json:"label"`
	PredictedAt time.Time       `json:"predicted_at"`
}

// NewPredictionEvent stamps a prediction with a fresh id and the current time.
func NewPredictionEvent(in PredictionInput, p Prediction) PredictionEvent {
	return PredictionEvent{
		ID:          uuid.NewString(),
		Input:       in,
		ClassID:     p.ClassID,
		Label:       p.Label,
		PredictedAt: Now(),
	}
}
