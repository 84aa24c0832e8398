package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/modis-fire-dashboard/internal/chart"
	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
	"github.com/couchcryptid/modis-fire-dashboard/internal/observability"
)

const (
	// NoDataWarning is shown when none of the yearly files exist.
	NoDataWarning = "No MODIS data files found."
	// SourceCaption credits the dataset under the charts.
	SourceCaption = "Data Source: NASA MODIS Fire Detections (2021-2023)"
)

// ErrNoDataset is returned for chart and export requests when no yearly
// file is present.
var ErrNoDataset = errors.New(NoDataWarning)

// ArtifactEnsurer makes the model, scaler and datasets present locally.
type ArtifactEnsurer interface {
	Ensure(ctx context.Context) error
}

// DatasetSource yields the unified dataset and a filtered view of it.
type DatasetSource interface {
	View(ctx context.Context, f domain.Filter) (unified, filtered domain.Dataset, err error)
}

// Predictor classifies one prediction form submission.
type Predictor interface {
	Predict(ctx context.Context, in domain.PredictionInput) (domain.Prediction, error)
}

// WorkbookWriter serializes a filtered view.
type WorkbookWriter interface {
	Write(w io.Writer, view domain.Dataset, summary Summary) error
}

// Request carries the Data Visualization controls.
type Request struct {
	Filter  domain.Filter
	PieYear *int
}

// Summary describes the filtered view.
type Summary struct {
	TotalRecords int      `json:"total_records"`
	Years        []int    `json:"years"`
	FireTypes    []string `json:"fire_types"`
}

// Section is one chart group on the page.
type Section struct {
	Group   chart.Group    `json:"group"`
	Caption string         `json:"caption"`
	Charts  []chart.Figure `json:"charts"`
}

// Page is a rendered Data Visualization page.
type Page struct {
	Title       string               `json:"title"`
	GeneratedAt time.Time            `json:"generated_at"`
	Warning     string               `json:"warning,omitempty"`
	Summary     *Summary             `json:"summary,omitempty"`
	Options     domain.FilterOptions `json:"options"`
	Selected    domain.FilterOptions `json:"selected"`
	Sections    []Section            `json:"sections,omitempty"`
	Caption     string               `json:"caption,omitempty"`
}

// Dashboard wires the page flows together.
type Dashboard struct {
	artifacts ArtifactEnsurer
	data      DatasetSource
	predictor Predictor
	charts    *chart.Registry
	workbook  WorkbookWriter
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Dashboard. workbook may be nil to disable exports.
func New(artifacts ArtifactEnsurer, data DatasetSource, predictor Predictor, charts *chart.Registry, workbook WorkbookWriter, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	return &Dashboard{
		artifacts: artifacts,
		data:      data,
		predictor: predictor,
		charts:    charts,
		workbook:  workbook,
		logger:    logger,
		metrics:   metrics,
	}
}

// Predict runs the prediction pipeline.
func (d *Dashboard) Predict(ctx context.Context, in domain.PredictionInput) (domain.Prediction, error) {
	return d.predictor.Predict(ctx, in)
}

// Visualization renders the whole Data Visualization page for req.
func (d *Dashboard) Visualization(ctx context.Context, req Request) (Page, error) {
	start := time.Now()
	defer func() { d.metrics.PageRenderDuration.Observe(time.Since(start).Seconds()) }()

	unified, view, err := d.load(ctx, req.Filter)
	if err != nil {
		return Page{}, err
	}

	page := Page{Title: "MODIS Fire Data Visualization", GeneratedAt: domain.Now()}
	if unified.Empty() {
		page.Warning = NoDataWarning
		return page, nil
	}

	page.Options = domain.Options(unified)
	page.Selected = req.Filter.Resolve(page.Options)
	page.Summary = &Summary{
		TotalRecords: view.Len(),
		Years:        view.DistinctYears(),
		FireTypes:    view.DistinctTypes(),
	}
	page.Sections = sections(d.charts.Build(chart.Input{Data: view, PieYear: req.PieYear}))
	page.Caption = SourceCaption

	d.logger.Debug("visualization rendered", "rows", view.Len(), "duration", time.Since(start))
	return page, nil
}

// Chart builds a single figure against the filtered view.
func (d *Dashboard) Chart(ctx context.Context, req Request, id string) (chart.Figure, error) {
	unified, view, err := d.load(ctx, req.Filter)
	if err != nil {
		return chart.Figure{}, err
	}
	if unified.Empty() {
		return chart.Figure{}, ErrNoDataset
	}
	return d.charts.BuildOne(id, chart.Input{Data: view, PieYear: req.PieYear})
}

// Export writes the filtered view as a workbook.
func (d *Dashboard) Export(ctx context.Context, req Request, w io.Writer) error {
	if d.workbook == nil {
		return errors.New("export is not configured")
	}
	unified, view, err := d.load(ctx, req.Filter)
	if err != nil {
		return err
	}
	if unified.Empty() {
		return ErrNoDataset
	}
	summary := Summary{TotalRecords: view.Len(), Years: view.DistinctYears(), FireTypes: view.DistinctTypes()}
	if err := d.workbook.Write(w, view, summary); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (d *Dashboard) load(ctx context.Context, f domain.Filter) (domain.Dataset, domain.Dataset, error) {
	if err := d.artifacts.Ensure(ctx); err != nil {
		return domain.Dataset{}, domain.Dataset{}, fmt.Errorf("ensure artifacts: %w", err)
	}
	unified, view, err := d.data.View(ctx, f)
	if err != nil {
		return domain.Dataset{}, domain.Dataset{}, err
	}
	return unified, view, nil
}

// sections groups figures in page order, keeping registry order inside
// each group. Empty groups are dropped.
func sections(figs []chart.Figure) []Section {
	var out []Section
	for _, g := range chart.Groups() {
		s := Section{Group: g, Caption: chart.GroupCaption(g)}
		for _, f := range figs {
			if f.Group == g {
				s.Charts = append(s.Charts, f)
			}
		}
		if len(s.Charts) > 0 {
			out = append(out, s)
		}
	}
	return out
}
