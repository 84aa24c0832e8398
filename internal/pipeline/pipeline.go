package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
	"github.com/couchcryptid/modis-fire-dashboard/internal/model"
	"github.com/couchcryptid/modis-fire-dashboard/internal/observability"
)

// ModelProvider grants serialized access to the loaded model handles.
type ModelProvider interface {
	Use(ctx context.Context, fn func(model.Handles) error) error
	Release() error
}

// EventPublisher receives a record of every successful prediction.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.PredictionEvent) error
}

// PredictionError wraps any failure inside the pipeline. Its message is shown
// to the user as is.
type PredictionError struct {
	Cause error
}

func (e *PredictionError) Error() string {
	return "Prediction failed: " + e.Cause.Error()
}

func (e *PredictionError) Unwrap() error {
	return e.Cause
}

// Predictor turns raw form input into a fire type label.
type Predictor struct {
	models       ModelProvider
	publisher    EventPublisher
	releaseAfter bool
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// New creates a Predictor. publisher may be nil. With releaseAfter set, the
// model handles are dropped after every prediction and reloaded on the next.
func New(models ModelProvider, publisher EventPublisher, releaseAfter bool, logger *slog.Logger, metrics *observability.Metrics) *Predictor {
	return &Predictor{
		models:       models,
		publisher:    publisher,
		releaseAfter: releaseAfter,
		logger:       logger,
		metrics:      metrics,
	}
}

// Predict validates in and classifies it. Out-of-range input yields an
// *InputError; any failure after validation yields a *PredictionError.
func (p *Predictor) Predict(ctx context.Context, in domain.PredictionInput) (domain.Prediction, error) {
	if err := validateStruct(in); err != nil {
		return domain.Prediction{}, err
	}

	start := time.Now()
	result, err := p.run(ctx, in)
	p.metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	if p.releaseAfter {
		if rerr := p.models.Release(); rerr != nil {
			p.logger.Warn("model release failed", "error", rerr)
		}
	}

	if err != nil {
		p.metrics.PredictionFailures.Inc()
		p.logger.Error("prediction failed", "error", err)
		return domain.Prediction{}, &PredictionError{Cause: err}
	}

	p.metrics.Predictions.WithLabelValues(result.Label).Inc()
	p.logger.Info("prediction complete", "class_id", result.ClassID, "label", result.Label)
	p.publish(ctx, in, result)
	return result, nil
}

func (p *Predictor) run(ctx context.Context, in domain.PredictionInput) (result domain.Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	err = p.models.Use(ctx, func(h model.Handles) error {
		var ferr error
		result, ferr = classify(h, in)
		return ferr
	})
	return result, err
}

func (p *Predictor) publish(ctx context.Context, in domain.PredictionInput, result domain.Prediction) {
	if p.publisher == nil {
		return
	}
	event := domain.NewPredictionEvent(in, result)
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.metrics.PredictionEvents.WithLabelValues("error").Inc()
		p.logger.Warn("publish prediction event failed", "error", err, "event_id", event.ID)
		return
	}
	p.metrics.PredictionEvents.WithLabelValues("published").Inc()
}

// IsInputError reports whether err came from input validation.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
