package dashboard

import "github.com/couchcryptid/modis-fire-dashboard/internal/domain"

// Page names as shown in the navigation.
const (
	PagePrediction    = "Prediction"
	PageVisualization = "Data Visualization"
)

// Pages returns the navigation entries in order.
func (d *Dashboard) Pages() []string {
	return []string{PagePrediction, PageVisualization}
}

// Field describes one control on the prediction form.
type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Kind    string   `json:"kind"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Default any      `json:"default"`
	Options []string `json:"options,omitempty"`
}

// Form is the prediction page descriptor.
type Form struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Fields      []Field              `json:"fields"`
	Action      string               `json:"action"`
	Legend      []domain.LegendEntry `json:"legend"`
}

func numberField(name, label string, lo, hi, def float64) Field {
	return Field{Name: name, Label: label, Kind: "number", Min: &lo, Max: &hi, Default: def}
}

// PredictionForm returns the six inputs with their bounds and defaults.
func (d *Dashboard) PredictionForm() Form {
	def := domain.DefaultPredictionInput()
	return Form{
		Title:       "Fire Type Classification",
		Description: "Predict fire type based on MODIS satellite readings.",
		Fields: []Field{
			numberField(domain.ColBrightness, "Brightness", 200, 500, def.Brightness),
			numberField(domain.ColBrightT31, "Brightness T31", 200, 350, def.BrightT31),
			numberField(domain.ColFRP, "Fire Radiative Power (FRP)", 0, 100, def.FRP),
			numberField(domain.ColScan, "Scan", 0, 5, def.Scan),
			numberField(domain.ColTrack, "Track", 0, 5, def.Track),
			{
				Name:    domain.ColConfidence,
				Label:   "Confidence Level",
				Kind:    "select",
				Default: def.Confidence,
				Options: domain.ConfidenceLevels,
			},
		},
		Action: "Predict Fire Type",
		Legend: domain.Legend(),
	}
}
