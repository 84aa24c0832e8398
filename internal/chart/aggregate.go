package chart

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
)

type count struct {
	label string
	n     int
}

// valueCounts tallies non-empty labels, most frequent first. Ties are broken
// by label so output is stable.
func valueCounts(rows []domain.Observation, label func(*domain.Observation) string) []count {
	tally := make(map[string]int)
	for i := range rows {
		if l := label(&rows[i]); l != "" {
			tally[l]++
		}
	}
	out := make([]count, 0, len(tally))
	for l, n := range tally {
		out = append(out, count{label: l, n: n})
	}
	slices.SortFunc(out, func(a, b count) int {
		if c := cmp.Compare(b.n, a.n); c != 0 {
			return c
		}
		return cmp.Compare(a.label, b.label)
	})
	return out
}

func countSeries(name string, counts []count) Series {
	s := Series{Name: name, Labels: make([]string, len(counts)), Values: make([]float64, len(counts))}
	for i, c := range counts {
		s.Labels[i] = c.label
		s.Values[i] = float64(c.n)
	}
	return s
}

// yearCounts tallies rows per year in ascending year order.
func yearCounts(rows []domain.Observation) []count {
	tally := make(map[int]int)
	for i := range rows {
		tally[rows[i].Year]++
	}
	years := make([]int, 0, len(tally))
	for y := range tally {
		years = append(years, y)
	}
	slices.Sort(years)
	out := make([]count, len(years))
	for i, y := range years {
		out[i] = count{label: strconv.Itoa(y), n: tally[y]}
	}
	return out
}

// byYear splits rows per year, keeping row order within each year.
func byYear(rows []domain.Observation) ([]int, map[int][]domain.Observation) {
	groups := make(map[int][]domain.Observation)
	var years []int
	for i := range rows {
		y := rows[i].Year
		if _, ok := groups[y]; !ok {
			years = append(years, y)
		}
		groups[y] = append(groups[y], rows[i])
	}
	slices.Sort(years)
	return years, groups
}

// gridCell is a 1 degree latitude/longitude bin.
type gridCell struct {
	lat, lon float64
}

// densityGrid counts located rows per 1 degree cell. Cells are returned
// ordered by latitude then longitude.
func densityGrid(rows []domain.Observation) Series {
	tally := make(map[gridCell]int)
	for i := range rows {
		o := &rows[i]
		if !o.HasCoordinates() {
			continue
		}
		tally[gridCell{lat: math.Floor(o.Latitude), lon: math.Floor(o.Longitude)}]++
	}
	cells := make([]gridCell, 0, len(tally))
	for c := range tally {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, func(a, b gridCell) int {
		if c := cmp.Compare(a.lat, b.lat); c != 0 {
			return c
		}
		return cmp.Compare(a.lon, b.lon)
	})

	s := Series{Name: "Count", X: make([]float64, len(cells)), Y: make([]float64, len(cells)), Z: make([]float64, len(cells))}
	for i, c := range cells {
		s.X[i] = c.lon
		s.Y[i] = c.lat
		s.Z[i] = float64(tally[c])
	}
	return s
}

// splitByType groups points into one series per fire type when colorByType
// is set, otherwise a single unnamed series. Series are ordered by type.
func splitByType(rows []domain.Observation, colorByType bool, point func(*domain.Observation) (x, y float64, ok bool)) []Series {
	index := make(map[string]int)
	var out []Series
	for i := range rows {
		o := &rows[i]
		x, y, ok := point(o)
		if !ok {
			continue
		}
		name := ""
		if colorByType {
			name = o.Type
		}
		j, seen := index[name]
		if !seen {
			j = len(out)
			index[name] = j
			out = append(out, Series{Name: name})
		}
		out[j].X = append(out[j].X, x)
		out[j].Y = append(out[j].Y, y)
	}
	slices.SortFunc(out, func(a, b Series) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

func maxValue(vals []float64) float64 {
	m := 0.0
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}

func locationLabel(col string) string {
	if col == "" {
		return ""
	}
	return strings.ToUpper(col[:1]) + col[1:]
}
