package domain

// Fire type labels produced by the classifier.
const (
	LabelVegetationFire = "Vegetation Fire"
	LabelStaticLand     = "Other Static Land Source"
	LabelOffshoreFire   = "Offshore Fire"
	LabelUnknown        = "Unknown"
)

// Class id 1 (active volcano in the MODIS product) has no label and falls
// through to LabelUnknown along with any other id.
var classLabels = map[int64]string{
	0: LabelVegetationFire,
	2: LabelStaticLand,
	3: LabelOffshoreFire,
}

// LabelForClass maps a classifier output to its display label.
func LabelForClass(id int64) string {
	if l, ok := classLabels[id]; ok {
		return l
	}
	return LabelUnknown
}

// Labels returns every label LabelForClass can produce.
func Labels() []string {
	return []string{LabelVegetationFire, LabelStaticLand, LabelOffshoreFire, LabelUnknown}
}

// LegendEntry describes one fire type for the prediction page.
type LegendEntry struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Legend returns the fire type descriptions shown next to the form.
func Legend() []LegendEntry {
	return []LegendEntry{
		{Label: LabelVegetationFire, Description: "Wildfires, forest and grassland fires"},
		{Label: LabelStaticLand, Description: "Industrial, urban, or landfill fires"},
		{Label: LabelOffshoreFire, Description: "Oil/gas platform or ship fires"},
		{Label: LabelUnknown, Description: "Class id outside the trained mapping"},
	}
}
