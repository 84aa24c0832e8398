// Package xlsx exports a filtered view as an Excel workbook with excelize.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/modis-fire-dashboard/internal/dashboard"
	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetObservations = "Observations"
	SheetSummary      = "Summary"
)

type column struct {
	name  string
	value func(o *domain.Observation) any
}

func number(v float64) any {
	if !domain.Valid(v) {
		return nil
	}
	return v
}

// exportColumns lists every exportable column in sheet order.
var exportColumns = []column{
	{domain.ColYear, func(o *domain.Observation) any { return o.Year }},
	{domain.ColAcqDate, func(o *domain.Observation) any { return o.AcqDate }},
	{domain.ColLatitude, func(o *domain.Observation) any { return number(o.Latitude) }},
	{domain.ColLongitude, func(o *domain.Observation) any { return number(o.Longitude) }},
	{domain.ColBrightness, func(o *domain.Observation) any { return number(o.Brightness) }},
	{domain.ColBrightT31, func(o *domain.Observation) any { return number(o.BrightT31) }},
	{domain.ColFRP, func(o *domain.Observation) any { return number(o.FRP) }},
	{domain.ColScan, func(o *domain.Observation) any { return number(o.Scan) }},
	{domain.ColTrack, func(o *domain.Observation) any { return number(o.Track) }},
	{domain.ColConfidence, func(o *domain.Observation) any { return o.Confidence }},
	{domain.ColType, func(o *domain.Observation) any { return o.Type }},
	{domain.ColRegion, func(o *domain.Observation) any { return o.Region }},
	{domain.ColState, func(o *domain.Observation) any { return o.State }},
	{domain.ColDistrict, func(o *domain.Observation) any { return o.District }},
	{domain.ColSubdivision, func(o *domain.Observation) any { return o.Subdivision }},
}

// Workbook writes views as .xlsx. It implements dashboard.WorkbookWriter.
type Workbook struct{}

// NewWorkbook creates a workbook exporter.
func NewWorkbook() *Workbook { return &Workbook{} }

// Write streams the rows of view into an Observations sheet, restricted to
// the columns the view carries, and adds a Summary sheet.
func (Workbook) Write(w io.Writer, view domain.Dataset, summary dashboard.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetObservations); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeObservations(f, view); err != nil {
		return err
	}
	if err := writeSummary(f, summary); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeObservations(f *excelize.File, view domain.Dataset) error {
	var cols []column
	for _, c := range exportColumns {
		if view.Has(c.name) {
			cols = append(cols, c)
		}
	}

	sw, err := f.NewStreamWriter(SheetObservations)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}
	if len(cols) > 0 {
		if err := sw.SetColWidth(1, len(cols), 14); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]any, len(cols))
	for i := range view.Rows {
		o := &view.Rows[i]
		for j, c := range cols {
			row[j] = c.value(o)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush observations: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, s dashboard.Summary) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	years := make([]string, len(s.Years))
	for i, y := range s.Years {
		years[i] = strconv.Itoa(y)
	}
	rows := [][2]any{
		{"Total Records", s.TotalRecords},
		{"Years", strings.Join(years, ", ")},
		{"Fire Types", strings.Join(s.FireTypes, ", ")},
		{"Source", dashboard.SourceCaption},
	}
	for i, r := range rows {
		if err := f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", i+1), r[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", i+1), r[1]); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSummary, "A", "B", 24)
}
