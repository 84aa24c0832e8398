package chart

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
	"github.com/couchcryptid/modis-fire-dashboard/internal/observability"
)

var (
	// ErrNoData is returned by a builder whose input holds nothing to draw.
	ErrNoData = errors.New("no data for chart")
	// ErrUnknownChart is returned for an id no builder is registered under.
	ErrUnknownChart = errors.New("unknown chart")
	// ErrChartUnavailable is returned when a chart's columns are missing or
	// its input is empty.
	ErrChartUnavailable = errors.New("chart unavailable for current data")
)

// Input is what every builder receives.
type Input struct {
	Data domain.Dataset
	// PieYear drives the single on-demand year selector. Nil means the first
	// available year.
	PieYear *int
}

// Builder is one capability-gated chart.
type Builder struct {
	ID      string
	Title   string
	Caption string
	Group   Group
	// Requires lists columns that must all be present.
	Requires []string
	// AnyOf lists columns of which at least one must be present.
	AnyOf []string
	Build func(in Input) (Figure, error)
}

// Available reports whether ds carries the columns the builder needs.
func (b Builder) Available(ds domain.Dataset) bool {
	if !ds.Has(b.Requires...) {
		return false
	}
	if len(b.AnyOf) == 0 {
		return true
	}
	_, ok := ds.FirstPresent(b.AnyOf...)
	return ok
}

// Registry holds builders in display order.
type Registry struct {
	builders []Builder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewRegistry creates a registry over builders.
func NewRegistry(builders []Builder, logger *slog.Logger, metrics *observability.Metrics) *Registry {
	return &Registry{builders: builders, logger: logger, metrics: metrics}
}

// NewDefaultRegistry creates a registry with every dashboard chart.
func NewDefaultRegistry(logger *slog.Logger, metrics *observability.Metrics) *Registry {
	return NewRegistry(DefaultBuilders(), logger, metrics)
}

// Builders returns the registered builders in order.
func (r *Registry) Builders() []Builder {
	return r.builders
}

// Build runs every available builder in order. A builder that fails or
// panics is logged and left out; it never stops the others.
func (r *Registry) Build(in Input) []Figure {
	figs := make([]Figure, 0, len(r.builders))
	for _, b := range r.builders {
		if !b.Available(in.Data) {
			r.metrics.Charts.WithLabelValues(b.ID, "skipped").Inc()
			continue
		}
		fig, err := r.run(b, in)
		if errors.Is(err, ErrNoData) {
			r.metrics.Charts.WithLabelValues(b.ID, "skipped").Inc()
			continue
		}
		if err != nil {
			r.metrics.Charts.WithLabelValues(b.ID, "error").Inc()
			r.logger.Error("chart build failed", "chart", b.ID, "error", err)
			continue
		}
		r.metrics.Charts.WithLabelValues(b.ID, "built").Inc()
		figs = append(figs, fig)
	}
	return figs
}

// BuildOne runs a single builder by id.
func (r *Registry) BuildOne(id string, in Input) (Figure, error) {
	for _, b := range r.builders {
		if b.ID != id {
			continue
		}
		if !b.Available(in.Data) {
			return Figure{}, fmt.Errorf("%s: %w", id, ErrChartUnavailable)
		}
		fig, err := r.run(b, in)
		if errors.Is(err, ErrNoData) {
			return Figure{}, fmt.Errorf("%s: %w", id, ErrChartUnavailable)
		}
		if err != nil {
			r.metrics.Charts.WithLabelValues(b.ID, "error").Inc()
			return Figure{}, err
		}
		r.metrics.Charts.WithLabelValues(b.ID, "built").Inc()
		return fig, nil
	}
	return Figure{}, fmt.Errorf("%q: %w", id, ErrUnknownChart)
}

func (r *Registry) run(b Builder, in Input) (fig Figure, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("chart %s panicked: %v", b.ID, rec)
		}
	}()

	fig, err = b.Build(in)
	if err != nil {
		return Figure{}, err
	}
	fig.ID = b.ID
	fig.Group = b.Group
	if fig.Title == "" {
		fig.Title = b.Title
	}
	if fig.Caption == "" {
		fig.Caption = b.Caption
	}
	return fig, nil
}
