package chart

import "github.com/couchcryptid/modis-fire-dashboard/internal/domain"

// Chart ids, in display order.
const (
	IDTypeBar               = "type_bar"
	IDTypePie               = "type_pie"
	IDConfidencePie         = "confidence_pie"
	IDYearBar               = "year_bar"
	IDFRPByTypeBox          = "frp_by_type_box"
	IDFRPHistogram          = "frp_histogram"
	IDLocationMap           = "location_map"
	IDDensityHeatmap        = "density_heatmap"
	IDYearPie               = "year_pie"
	IDTopLocationsPie       = "top_locations_pie"
	IDAnimatedDetections    = "animated_detections"
	IDAnimatedLocationBar   = "animated_location_bar"
	IDAnimatedHeatmap       = "animated_heatmap"
	IDAnimatedFRPBrightness = "animated_frp_brightness"
	IDTypePieForYear        = "type_pie_for_year"
	IDCumulativeLine        = "cumulative_line"
)

// animatedLocationColumns is the preference order for the animated bar,
// which differs from domain.LocationColumns.
var animatedLocationColumns = []string{domain.ColState, domain.ColRegion, domain.ColDistrict, domain.ColSubdivision}

// DefaultBuilders returns every dashboard chart in display order.
func DefaultBuilders() []Builder {
	return []Builder{
		{
			ID: IDTypeBar, Title: "Fire Type Distribution", Group: GroupDistribution,
			Requires: []string{domain.ColType},
			Build:    buildTypeBar,
		},
		{
			ID: IDTypePie, Title: "Fire Type Proportion", Group: GroupDistribution,
			Requires: []string{domain.ColType},
			Build:    buildTypePie,
		},
		{
			ID: IDConfidencePie, Title: "Confidence Level Distribution", Group: GroupDistribution,
			Requires: []string{domain.ColConfidence},
			Build:    buildConfidencePie,
		},
		{
			ID: IDYearBar, Title: "Fire Counts by Year", Group: GroupDistribution,
			Requires: []string{domain.ColYear},
			Build:    buildYearBar,
		},
		{
			ID: IDFRPByTypeBox, Title: "FRP Distribution by Fire Type", Group: GroupDistribution,
			Requires: []string{domain.ColFRP, domain.ColType},
			Build:    buildFRPByTypeBox,
		},
		{
			ID: IDFRPHistogram, Title: "FRP Histogram", Group: GroupDistribution,
			Caption:  "FRP (Fire Radiative Power) Distribution",
			Requires: []string{domain.ColFRP},
			Build:    buildFRPHistogram,
		},
		{
			ID: IDLocationMap, Title: "Recent Fire Locations in India", Group: GroupMaps,
			Requires: []string{domain.ColLatitude, domain.ColLongitude},
			Build:    buildLocationMap,
		},
		{
			ID: IDDensityHeatmap, Title: "Fire Density Heatmap (1° grid)", Group: GroupMaps,
			Requires: []string{domain.ColLatitude, domain.ColLongitude},
			Build:    buildDensityHeatmap,
		},
		{
			ID: IDYearPie, Title: "Fires by Year (Pie Chart)", Group: GroupDistribution,
			Requires: []string{domain.ColYear},
			Build:    buildYearPie,
		},
		{
			ID: IDTopLocationsPie, Title: "Top 10 Locations", Group: GroupDistribution,
			AnyOf: domain.LocationColumns,
			Build: buildTopLocationsPie,
		},
		{
			ID: IDAnimatedDetections, Title: "Fire Detections Animation (by Day)", Group: GroupMaps,
			Caption:  "Animated Fire Detections Over Time",
			Requires: []string{domain.ColAcqDate, domain.ColLatitude, domain.ColLongitude},
			Build:    buildAnimatedDetections,
		},
		{
			ID: IDAnimatedLocationBar, Title: "Top Locations by Fire Count (Animated)", Group: GroupAnimated,
			Requires: []string{domain.ColYear},
			AnyOf:    animatedLocationColumns,
			Build:    buildAnimatedLocationBar,
		},
		{
			ID: IDAnimatedHeatmap, Title: "Fire Density Heatmap by Year (Animated)", Group: GroupMaps,
			Caption:  "Animated Heatmap: Fire Density by Year",
			Requires: []string{domain.ColLatitude, domain.ColLongitude, domain.ColYear},
			Build:    buildAnimatedHeatmap,
		},
		{
			ID: IDAnimatedFRPBrightness, Title: "FRP vs Brightness by Year (Animated)", Group: GroupAnimated,
			Caption:  "Animated Scatter: FRP vs Brightness by Year",
			Requires: []string{domain.ColFRP, domain.ColBrightness, domain.ColYear},
			Build:    buildAnimatedFRPBrightness,
		},
		{
			ID: IDTypePieForYear, Title: "Fire Type Distribution by Year (Pie Chart)", Group: GroupDistribution,
			Requires: []string{domain.ColType, domain.ColYear},
			Build:    buildTypePieForYear,
		},
		{
			ID: IDCumulativeLine, Title: "Cumulative Fires Detected (Animated)", Group: GroupAnimated,
			Caption:  "Animated Line Chart: Cumulative Fires Over Time",
			Requires: []string{domain.ColAcqDate},
			Build:    buildCumulativeLine,
		},
	}
}
