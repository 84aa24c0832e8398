package domain

import (
	"math"
	"slices"
	"strconv"
)

// Column names as they appear in the MODIS CSV header.
const (
	ColBrightness  = "brightness"
	ColBrightT31   = "bright_t31"
	ColFRP         = "frp"
	ColScan        = "scan"
	ColTrack       = "track"
	ColConfidence  = "confidence"
	ColType        = "type"
	ColAcqDate     = "acq_date"
	ColLatitude    = "latitude"
	ColLongitude   = "longitude"
	ColRegion      = "region"
	ColState       = "state"
	ColDistrict    = "district"
	ColSubdivision = "subdivision"

	// ColYear is not part of the source files; the loader adds it.
	ColYear = "year"
)

// Years lists the dataset vintages in load order.
var Years = []int{2021, 2022, 2023}

// LocationColumns lists the administrative label columns a file may carry.
var LocationColumns = []string{ColRegion, ColState, ColDistrict, ColSubdivision}

// Observation is one MODIS fire detection. Numeric fields are NaN when the
// source cell was missing or unparseable; string fields are empty.
type Observation struct {
	Brightness float64
	BrightT31  float64
	FRP        float64
	Scan       float64
	Track      float64
	Confidence string
	Type       string
	AcqDate    string
	Latitude   float64
	Longitude  float64

	Region      string
	State       string
	District    string
	Subdivision string

	// Year is the provenance tag of the file the row was read from.
	Year int
}

// Location returns the value of one of the administrative label columns.
func (o Observation) Location(col string) string {
	switch col {
	case ColRegion:
		return o.Region
	case ColState:
		return o.State
	case ColDistrict:
		return o.District
	case ColSubdivision:
		return o.Subdivision
	default:
		return ""
	}
}

// HasCoordinates reports whether both latitude and longitude are usable.
func (o Observation) HasCoordinates() bool {
	return Valid(o.Latitude) && Valid(o.Longitude)
}

// Valid reports whether a numeric field holds a value.
func Valid(v float64) bool {
	return !math.IsNaN(v)
}

// Columns is the set of column names present in a dataset.
type Columns map[string]struct{}

// NewColumns builds a column set.
func NewColumns(names ...string) Columns {
	c := make(Columns, len(names))
	c.Add(names...)
	return c
}

// Add inserts names into the set.
func (c Columns) Add(names ...string) {
	for _, n := range names {
		c[n] = struct{}{}
	}
}

// Has reports whether every name is present.
func (c Columns) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := c[n]; !ok {
			return false
		}
	}
	return true
}

// Names returns the column names in sorted order.
func (c Columns) Names() []string {
	out := make([]string, 0, len(c))
	for n := range c {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy of the set.
func (c Columns) Clone() Columns {
	out := make(Columns, len(c))
	for n := range c {
		out[n] = struct{}{}
	}
	return out
}

// Dataset is an ordered table of observations together with the columns the
// source files supplied. Rows must be treated as read-only once built: views
// produced by Filter share nothing mutable with their input but callers may
// hold the same backing array.
type Dataset struct {
	Columns Columns
	Rows    []Observation
}

// Len returns the number of rows.
func (d Dataset) Len() int { return len(d.Rows) }

// Empty reports whether the dataset holds no rows.
func (d Dataset) Empty() bool { return len(d.Rows) == 0 }

// Has reports whether every named column is present.
func (d Dataset) Has(names ...string) bool {
	if d.Columns == nil {
		return len(names) == 0
	}
	return d.Columns.Has(names...)
}

// FirstPresent returns the first of names present in the dataset.
func (d Dataset) FirstPresent(names ...string) (string, bool) {
	for _, n := range names {
		if d.Has(n) {
			return n, true
		}
	}
	return "", false
}

// Concat appends b to a. Columns are unioned, row order is a's rows followed
// by b's rows, and nothing is deduplicated.
func Concat(a, b Dataset) Dataset {
	cols := NewColumns()
	for n := range a.Columns {
		cols.Add(n)
	}
	for n := range b.Columns {
		cols.Add(n)
	}
	rows := make([]Observation, 0, len(a.Rows)+len(b.Rows))
	rows = append(rows, a.Rows...)
	rows = append(rows, b.Rows...)
	return Dataset{Columns: cols, Rows: rows}
}

// DistinctYears returns the sorted distinct years present.
func (d Dataset) DistinctYears() []int {
	if !d.Has(ColYear) {
		return nil
	}
	seen := make(map[int]struct{})
	var out []int
	for i := range d.Rows {
		y := d.Rows[i].Year
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	slices.Sort(out)
	return out
}

// DistinctTypes returns the sorted distinct fire types present. A row with
// no type contributes the empty string.
func (d Dataset) DistinctTypes() []string {
	if !d.Has(ColType) {
		return nil
	}
	return d.distinct(func(o *Observation) string { return o.Type })
}

// DistinctConfidences returns the sorted distinct confidence levels present.
func (d Dataset) DistinctConfidences() []string {
	if !d.Has(ColConfidence) {
		return nil
	}
	return d.distinct(func(o *Observation) string { return o.Confidence })
}

func (d Dataset) distinct(field func(*Observation) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range d.Rows {
		v := field(&d.Rows[i])
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// YearLabels renders years as strings, e.g. for chart categories.
func YearLabels(years []int) []string {
	out := make([]string, len(years))
	for i, y := range years {
		out[i] = strconv.Itoa(y)
	}
	return out
}
