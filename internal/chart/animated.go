package chart

import (
	"slices"
	"strconv"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
)

// buildAnimatedLocationBar counts detections per location for each year,
// largest first. The y range is shared by all frames so bars stay
// comparable.
func buildAnimatedLocationBar(in Input) (Figure, error) {
	col, ok := in.Data.FirstPresent(animatedLocationColumns...)
	if !ok {
		return Figure{}, ErrNoData
	}
	years, groups := byYear(in.Data.Rows)

	var frames []Frame
	peak := 0.0
	for _, y := range years {
		counts := valueCounts(groups[y], func(o *domain.Observation) string { return o.Location(col) })
		if len(counts) == 0 {
			continue
		}
		s := countSeries("Count", counts)
		peak = max(peak, maxValue(s.Values))
		frames = append(frames, Frame{Key: strconv.Itoa(y), Series: []Series{s}})
	}
	if len(frames) == 0 {
		return Figure{}, ErrNoData
	}

	label := locationLabel(col)
	return Figure{
		Kind:       KindBar,
		Title:      "Top " + label + "s by Fire Count (Animated)",
		Caption:    "Animated Bar Chart: Top " + label + "s by Fire Count Over Years",
		XTitle:     col,
		YTitle:     "Count",
		Frames:     frames,
		FrameTitle: "year",
		YRange:     &[2]float64{0, peak * 1.1},
	}, nil
}

func buildAnimatedFRPBrightness(in Input) (Figure, error) {
	colorByType := in.Data.Has(domain.ColType)
	point := func(o *domain.Observation) (float64, float64, bool) {
		if !domain.Valid(o.Brightness) || !domain.Valid(o.FRP) {
			return 0, 0, false
		}
		return o.Brightness, o.FRP, true
	}

	years, groups := byYear(in.Data.Rows)
	var frames []Frame
	for _, y := range years {
		series := splitByType(groups[y], colorByType, point)
		if len(series) == 0 {
			continue
		}
		frames = append(frames, Frame{Key: strconv.Itoa(y), Series: series})
	}
	if len(frames) == 0 {
		return Figure{}, ErrNoData
	}
	return Figure{
		Kind:       KindScatter,
		XTitle:     "brightness",
		YTitle:     "frp",
		Frames:     frames,
		FrameTitle: "year",
	}, nil
}

// buildCumulativeLine plots the running detection total at the end of each
// acquisition day. Rows with an unparseable date are dropped.
func buildCumulativeLine(in Input) (Figure, error) {
	perDay := make(map[string]int)
	for i := range in.Data.Rows {
		if key, ok := domain.DayKey(in.Data.Rows[i].AcqDate); ok {
			perDay[key]++
		}
	}
	if len(perDay) == 0 {
		return Figure{}, ErrNoData
	}

	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	slices.Sort(days)

	s := Series{Name: "cumulative", Labels: days, Y: make([]float64, len(days))}
	total := 0
	for i, d := range days {
		total += perDay[d]
		s.Y[i] = float64(total)
	}
	return Figure{Kind: KindLine, XTitle: "date_str", YTitle: "cumulative", Series: []Series{s}}, nil
}
