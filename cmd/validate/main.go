// Command validate checks the local artifacts the dashboard runs on: that the
// classifier, scaler and yearly CSVs are present, that each CSV parses with the
// expected columns and value ranges, and that the scaler matches the feature
// vector the prediction form assembles.
//
// Usage:
//
//	go run ./cmd/validate -data-dir ./data
//
// Without -data-dir the DATA_DIR, MODEL_FILE and SCALER_FILE environment
// settings are used.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/couchcryptid/modis-fire-dashboard/internal/artifact"
	"github.com/couchcryptid/modis-fire-dashboard/internal/config"
	"github.com/couchcryptid/modis-fire-dashboard/internal/dataset"
	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
	"github.com/couchcryptid/modis-fire-dashboard/internal/model"
)

// expectedColumns are the MODIS columns every chart and filter can rely on.
var expectedColumns = []string{
	domain.ColLatitude, domain.ColLongitude, domain.ColBrightness, domain.ColScan,
	domain.ColTrack, domain.ColAcqDate, domain.ColConfidence, domain.ColBrightT31,
	domain.ColFRP, domain.ColType,
}

// knownTypes are the MODIS fire type codes.
var knownTypes = []string{"0", "1", "2", "3"}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "", "directory holding the model, scaler and yearly CSVs (default $DATA_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	if code := run(cfg); code != 0 {
		os.Exit(code)
	}
}

func run(cfg *config.Config) int {
	fmt.Println("=== MODIS Fire Dashboard Artifact Validation ===")
	fmt.Printf("Data directory: %s\n\n", cfg.DataDir)

	years := map[int]domain.Dataset{}
	phases := []*phase{
		validatePresence(artifact.Required(cfg)),
		validateCSVs(cfg.DataDir, years),
		validateValues(years),
		validateScaler(cfg.ScalerPath()),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	total := 0
	for _, ds := range years {
		total += ds.Len()
	}
	fmt.Printf("\nRecords: %d across %d yearly file(s)\n", total, len(years))

	for _, p := range phases {
		if len(p.notes) == 0 && p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for _, n := range p.notes {
			fmt.Printf("  note: %s\n", n)
		}
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Presence ──
// The classifier and scaler are required. Missing yearly files are skipped by
// the dashboard, so they are only noted.

func validatePresence(artifacts []artifact.Artifact) *phase {
	p := &phase{name: "Phase 1: Artifact Presence"}
	datasets := 0
	for _, a := range artifacts {
		info, err := os.Stat(a.Path)
		switch {
		case err == nil && info.Size() == 0:
			p.errorf("%s: %s is empty", a.Name, a.Path)
		case err == nil:
			if a.Name != "model" && a.Name != "scaler" {
				datasets++
			}
		case os.IsNotExist(err) && a.Name != "model" && a.Name != "scaler":
			p.notef("%s: %s not present; the year will be skipped", a.Name, a.Path)
		default:
			p.errorf("%s: %v", a.Name, err)
		}
	}
	if datasets == 0 {
		p.notef("no yearly CSVs present; the visualization page will show only a warning")
	}
	return p
}

// ── Phase 2: CSV Schema ──

func validateCSVs(dir string, out map[int]domain.Dataset) *phase {
	p := &phase{name: "Phase 2: CSV Schema"}
	for _, year := range domain.Years {
		path := filepath.Join(dir, dataset.FileName(year))
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			p.errorf("%d: %v", year, err)
			continue
		}
		ds, err := dataset.ReadCSV(f, year)
		f.Close()
		if err != nil {
			p.errorf("%d: %v", year, err)
			continue
		}
		out[year] = ds

		for _, col := range expectedColumns {
			if !ds.Has(col) {
				p.errorf("%d: missing column %q", year, col)
			}
		}
		if ds.Empty() {
			p.notef("%d: header only, no rows", year)
		}
		if _, ok := ds.FirstPresent(domain.LocationColumns...); !ok {
			p.notef("%d: no location column; location charts will be omitted", year)
		}
	}
	return p
}

// ── Phase 3: Value Ranges ──

func validateValues(years map[int]domain.Dataset) *phase {
	p := &phase{name: "Phase 3: Value Ranges"}
	for _, year := range domain.Years {
		ds, ok := years[year]
		if !ok {
			continue
		}
		var badCoords, missingCoords, badDates, badTypes, badFRP int
		for i := range ds.Rows {
			o := &ds.Rows[i]
			switch {
			case !o.HasCoordinates():
				missingCoords++
			case math.Abs(o.Latitude) > 90 || math.Abs(o.Longitude) > 180:
				badCoords++
			}
			if ds.Has(domain.ColAcqDate) {
				if _, ok := domain.ParseAcqDate(o.AcqDate); !ok {
					badDates++
				}
			}
			if ds.Has(domain.ColType) && !slices.Contains(knownTypes, o.Type) {
				badTypes++
			}
			if domain.Valid(o.FRP) && o.FRP < 0 {
				badFRP++
			}
		}
		if badCoords > 0 {
			p.errorf("%d: %d row(s) with coordinates out of range", year, badCoords)
		}
		if badTypes > 0 {
			p.errorf("%d: %d row(s) with a type outside %v", year, badTypes, knownTypes)
		}
		if badFRP > 0 {
			p.errorf("%d: %d row(s) with negative frp", year, badFRP)
		}
		if missingCoords > 0 {
			p.notef("%d: %d row(s) without coordinates are dropped from maps", year, missingCoords)
		}
		if badDates > 0 {
			p.notef("%d: %d row(s) with unparseable acq_date are dropped from time charts", year, badDates)
		}
	}
	return p
}

// ── Phase 4: Scaler Contract ──

func validateScaler(path string) *phase {
	p := &phase{name: "Phase 4: Scaler Contract"}
	s, err := model.LoadStandardScaler(path)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	for i, name := range s.Names {
		if s.Scale[i] == 0 {
			p.notef("feature %q has zero scale; treated as 1", name)
		}
	}
	if !slices.Equal(s.Names, domain.FeatureNames) {
		p.notef("scaler order %v differs from form order; vectors are assembled by name", s.Names)
	}
	return p
}
