package chart

import (
	"slices"
	"strconv"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
)

const (
	heatmapBins          = 30
	detectionsProjection = "natural earth"
)

func coordinates(o *domain.Observation) (float64, float64, bool) {
	if !o.HasCoordinates() {
		return 0, 0, false
	}
	return o.Longitude, o.Latitude, true
}

// buildLocationMap plots every located detection. Rows missing a coordinate
// are dropped.
func buildLocationMap(in Input) (Figure, error) {
	series := splitByType(in.Data.Rows, false, coordinates)
	if len(series) == 0 {
		return Figure{}, ErrNoData
	}
	series[0].Name = "detections"
	return Figure{Kind: KindPointMap, XTitle: "longitude", YTitle: "latitude", Series: series}, nil
}

func buildDensityHeatmap(in Input) (Figure, error) {
	grid := densityGrid(in.Data.Rows)
	if len(grid.Z) == 0 {
		return Figure{}, ErrNoData
	}
	return Figure{
		Kind:   KindHeatmap,
		XTitle: "lon_bin",
		YTitle: "lat_bin",
		Bins:   heatmapBins,
		Series: []Series{grid},
	}, nil
}

func buildAnimatedHeatmap(in Input) (Figure, error) {
	years, groups := byYear(in.Data.Rows)
	frames := make([]Frame, 0, len(years))
	for _, y := range years {
		grid := densityGrid(groups[y])
		if len(grid.Z) == 0 {
			continue
		}
		frames = append(frames, Frame{Key: strconv.Itoa(y), Series: []Series{grid}})
	}
	if len(frames) == 0 {
		return Figure{}, ErrNoData
	}
	return Figure{
		Kind:       KindHeatmap,
		XTitle:     "lon_bin",
		YTitle:     "lat_bin",
		Bins:       heatmapBins,
		Frames:     frames,
		FrameTitle: "year",
	}, nil
}

// buildAnimatedDetections shows one frame per acquisition day. Rows with an
// unparseable date or a missing coordinate are dropped.
func buildAnimatedDetections(in Input) (Figure, error) {
	colorByType := in.Data.Has(domain.ColType)

	days := make(map[string][]domain.Observation)
	for i := range in.Data.Rows {
		o := in.Data.Rows[i]
		if !o.HasCoordinates() {
			continue
		}
		key, ok := domain.DayKey(o.AcqDate)
		if !ok {
			continue
		}
		days[key] = append(days[key], o)
	}
	if len(days) == 0 {
		return Figure{}, ErrNoData
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	frames := make([]Frame, len(keys))
	for i, k := range keys {
		frames[i] = Frame{Key: k, Series: splitByType(days[k], colorByType, coordinates)}
	}
	return Figure{
		Kind:       KindScatterGeo,
		XTitle:     "longitude",
		YTitle:     "latitude",
		Frames:     frames,
		FrameTitle: "date_str",
		Projection: detectionsProjection,
	}, nil
}
