package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Selection is the set of values chosen for one filter dimension.
//
// A nil Selection means the dimension was not restricted and keeps every
// value. A non-nil empty Selection keeps nothing.
type Selection[T cmp.Ordered] map[T]struct{}

// Select builds a non-nil selection from values.
func Select[T cmp.Ordered](values ...T) Selection[T] {
	s := make(Selection[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s Selection[T]) keeps(v T) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}

// Values returns the selected values in sorted order.
func (s Selection[T]) Values() []T {
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func (s Selection[T]) key() string {
	if s == nil {
		return "*"
	}
	vals := s.Values()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, "|") + "]"
}

// Filter narrows a dataset by year, fire type and confidence level.
type Filter struct {
	Years       Selection[int]
	Types       Selection[string]
	Confidences Selection[string]
}

// Apply returns the rows of ds kept by every dimension. A dimension whose
// column is absent from ds is ignored. The input dataset is not modified.
func (f Filter) Apply(ds Dataset) Dataset {
	byYear := f.Years != nil && ds.Has(ColYear)
	byType := f.Types != nil && ds.Has(ColType)
	byConf := f.Confidences != nil && ds.Has(ColConfidence)

	out := Dataset{Columns: ds.Columns.Clone()}
	if !byYear && !byType && !byConf {
		out.Rows = slices.Clone(ds.Rows)
		return out
	}

	out.Rows = make([]Observation, 0, len(ds.Rows))
	for i := range ds.Rows {
		o := &ds.Rows[i]
		if byYear && !f.Years.keeps(o.Year) {
			continue
		}
		if byType && !f.Types.keeps(o.Type) {
			continue
		}
		if byConf && !f.Confidences.keeps(o.Confidence) {
			continue
		}
		out.Rows = append(out.Rows, *o)
	}
	return out
}

// Key is a canonical string for the filter, stable across map ordering.
func (f Filter) Key() string {
	return "year=" + f.Years.key() + ";type=" + f.Types.key() + ";confidence=" + f.Confidences.key()
}

// DefaultFilter selects every observed value of each dimension the dataset
// carries, which is how the dashboard opens.
func DefaultFilter(ds Dataset) Filter {
	var f Filter
	if ds.Has(ColYear) {
		f.Years = Select(ds.DistinctYears()...)
	}
	if ds.Has(ColType) {
		f.Types = Select(ds.DistinctTypes()...)
	}
	if ds.Has(ColConfidence) {
		f.Confidences = Select(ds.DistinctConfidences()...)
	}
	return f
}

// FilterOptions lists the choices offered for each dimension. A nil slice
// means the dataset has no such column and the control is hidden.
type FilterOptions struct {
	Years       []int    `json:"years,omitempty"`
	Types       []string `json:"types,omitempty"`
	Confidences []string `json:"confidences,omitempty"`
}

// Options returns the sorted distinct values of every filterable column.
func Options(ds Dataset) FilterOptions {
	return FilterOptions{
		Years:       ds.DistinctYears(),
		Types:       ds.DistinctTypes(),
		Confidences: ds.DistinctConfidences(),
	}
}

// Resolve returns the values a filter actually keeps for the options, which
// is the option list itself for unrestricted dimensions.
func (f Filter) Resolve(opts FilterOptions) FilterOptions {
	return FilterOptions{
		Years:       resolve(f.Years, opts.Years),
		Types:       resolve(f.Types, opts.Types),
		Confidences: resolve(f.Confidences, opts.Confidences),
	}
}

func resolve[T cmp.Ordered](s Selection[T], opts []T) []T {
	if opts == nil {
		return nil
	}
	if s == nil {
		return opts
	}
	out := make([]T, 0, len(s))
	for _, v := range opts {
		if s.keeps(v) {
			out = append(out, v)
		}
	}
	return out
}
