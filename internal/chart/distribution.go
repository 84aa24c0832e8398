package chart

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
)

const (
	frpHistogramBins = 50
	topLocations     = 10
)

func typeOf(o *domain.Observation) string       { return o.Type }
func confidenceOf(o *domain.Observation) string { return o.Confidence }

func buildTypeBar(in Input) (Figure, error) {
	counts := valueCounts(in.Data.Rows, typeOf)
	if len(counts) == 0 {
		return Figure{}, ErrNoData
	}
	return Figure{Kind: KindBar, XTitle: "Type", YTitle: "Count", Series: []Series{countSeries("Count", counts)}}, nil
}

func buildTypePie(in Input) (Figure, error) {
	counts := valueCounts(in.Data.Rows, typeOf)
	if len(counts) == 0 {
		return Figure{}, ErrNoData
	}
	return Figure{Kind: KindPie, Series: []Series{countSeries("Type", counts)}}, nil
}

func buildConfidencePie(in Input) (Figure, error) {
	counts := valueCounts(in.Data.Rows, confidenceOf)
	if len(counts) == 0 {
		return Figure{}, ErrNoData
	}
	return Figure{Kind: KindPie, Series: []Series{countSeries("Confidence", counts)}}, nil
}

func buildYearBar(in Input) (Figure, error) {
	counts := yearCounts(in.Data.Rows)
	if len(counts) == 0 {
		return Figure{}, ErrNoData
	}
	return Figure{Kind: KindBar, XTitle: "Year", YTitle: "Count", Series: []Series{countSeries("Count", counts)}}, nil
}

func buildYearPie(in Input) (Figure, error) {
	counts := yearCounts(in.Data.Rows)
	if len(counts) == 0 {
		return Figure{}, ErrNoData
	}
	return Figure{Kind: KindPie, Series: []Series{countSeries("Year", counts)}}, nil
}

// buildFRPByTypeBox emits one box per fire type, ordered by type.
func buildFRPByTypeBox(in Input) (Figure, error) {
	groups := make(map[string][]float64)
	for i := range in.Data.Rows {
		o := &in.Data.Rows[i]
		if o.Type == "" || !domain.Valid(o.FRP) {
			continue
		}
		groups[o.Type] = append(groups[o.Type], o.FRP)
	}
	if len(groups) == 0 {
		return Figure{}, ErrNoData
	}
	types := make([]string, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	slices.Sort(types)

	series := make([]Series, len(types))
	for i, t := range types {
		series[i] = Series{Name: t, Values: groups[t]}
	}
	return Figure{Kind: KindBox, XTitle: "type", YTitle: "frp", Series: series}, nil
}

func buildFRPHistogram(in Input) (Figure, error) {
	vals := make([]float64, 0, len(in.Data.Rows))
	for i := range in.Data.Rows {
		if v := in.Data.Rows[i].FRP; domain.Valid(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return Figure{}, ErrNoData
	}
	return Figure{
		Kind:   KindHistogram,
		XTitle: "frp",
		YTitle: "count",
		Bins:   frpHistogramBins,
		Series: []Series{{Name: "frp", Values: vals}},
	}, nil
}

// buildTopLocationsPie uses the first location column the data carries.
func buildTopLocationsPie(in Input) (Figure, error) {
	col, ok := in.Data.FirstPresent(domain.LocationColumns...)
	if !ok {
		return Figure{}, ErrNoData
	}
	counts := valueCounts(in.Data.Rows, func(o *domain.Observation) string { return o.Location(col) })
	if len(counts) == 0 {
		return Figure{}, ErrNoData
	}
	if len(counts) > topLocations {
		counts = counts[:topLocations]
	}
	label := locationLabel(col)
	return Figure{
		Kind:    KindPie,
		Title:   fmt.Sprintf("Top %d %ss", topLocations, label),
		Caption: fmt.Sprintf("Top %d %ss by Fire Count (Pie Chart)", topLocations, label),
		Series:  []Series{countSeries(label, counts)},
	}, nil
}

// buildTypePieForYear shows the type split of one year. The year comes from
// the selector and falls back to the first available year when unset or
// not present in the data. Only years with at least one typed row are offered.
func buildTypePieForYear(in Input) (Figure, error) {
	typed := make([]domain.Observation, 0, len(in.Data.Rows))
	for i := range in.Data.Rows {
		if in.Data.Rows[i].Type != "" {
			typed = append(typed, in.Data.Rows[i])
		}
	}
	years, groups := byYear(typed)
	if len(years) == 0 {
		return Figure{}, ErrNoData
	}
	year := years[0]
	if in.PieYear != nil && slices.Contains(years, *in.PieYear) {
		year = *in.PieYear
	}

	counts := valueCounts(groups[year], typeOf)
	if len(counts) == 0 {
		return Figure{}, ErrNoData
	}
	return Figure{
		Kind:     KindPie,
		Title:    fmt.Sprintf("Fire Type Distribution for %d", year),
		Series:   []Series{countSeries("type", counts)},
		Selector: domain.YearLabels(years),
		Selected: strconv.Itoa(year),
	}, nil
}
