package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
)

// FileName returns the on-disk name of the CSV for a year.
func FileName(year int) string {
	return fmt.Sprintf("modis_%d_India.csv", year)
}

// Loader reads the yearly MODIS exports from a directory.
type Loader struct {
	dir    string
	years  []int
	logger *slog.Logger
}

// NewLoader creates a loader for domain.Years under dir.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	return &Loader{dir: dir, years: domain.Years, logger: logger}
}

// Path returns the expected location of a year's file.
func (l *Loader) Path(year int) string {
	return filepath.Join(l.dir, FileName(year))
}

// Years returns the years the loader looks for, in load order.
func (l *Loader) Years() []int {
	return l.years
}

// Load builds the unified dataset. Years are read in ascending order and a
// missing file is skipped. When no file exists the result is empty and the
// error is nil.
func (l *Loader) Load(ctx context.Context) (domain.Dataset, error) {
	unified := domain.Dataset{Columns: domain.NewColumns()}
	for _, year := range l.years {
		if err := ctx.Err(); err != nil {
			return domain.Dataset{}, err
		}

		ds, err := l.loadYear(year)
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("dataset file missing, skipping year", "year", year, "path", l.Path(year))
			continue
		}
		if err != nil {
			return domain.Dataset{}, err
		}
		unified = domain.Concat(unified, ds)
	}
	return unified, nil
}

func (l *Loader) loadYear(year int) (domain.Dataset, error) {
	path := l.Path(year)
	f, err := os.Open(path)
	if err != nil {
		return domain.Dataset{}, err
	}
	defer f.Close()

	ds, err := ReadCSV(f, year)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read %s: %w", path, err)
	}
	l.logger.Debug("dataset file loaded", "year", year, "rows", ds.Len())
	return ds, nil
}

// ReadCSV parses one yearly export and tags every row with year. Columns are
// matched by header name, case-insensitively.
func ReadCSV(r io.Reader, year int) (domain.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Dataset{Columns: domain.NewColumns(domain.ColYear)}, nil
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	cols := domain.NewColumns(domain.ColYear)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if name == "" || name == domain.ColYear {
			continue
		}
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = i
		cols.Add(name)
	}

	p := rowParser{index: index}
	var rows []domain.Observation
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, p.parse(rec, year))
	}

	return domain.Dataset{Columns: cols, Rows: rows}, nil
}

type rowParser struct {
	index map[string]int
}

func (p rowParser) parse(rec []string, year int) domain.Observation {
	return domain.Observation{
		Brightness:  p.float(rec, domain.ColBrightness),
		BrightT31:   p.float(rec, domain.ColBrightT31),
		FRP:         p.float(rec, domain.ColFRP),
		Scan:        p.float(rec, domain.ColScan),
		Track:       p.float(rec, domain.ColTrack),
		Confidence:  p.str(rec, domain.ColConfidence),
		Type:        p.str(rec, domain.ColType),
		AcqDate:     p.str(rec, domain.ColAcqDate),
		Latitude:    p.float(rec, domain.ColLatitude),
		Longitude:   p.float(rec, domain.ColLongitude),
		Region:      p.str(rec, domain.ColRegion),
		State:       p.str(rec, domain.ColState),
		District:    p.str(rec, domain.ColDistrict),
		Subdivision: p.str(rec, domain.ColSubdivision),
		Year:        year,
	}
}

func (p rowParser) str(rec []string, col string) string {
	i, ok := p.index[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// float returns NaN for absent, empty, or unparseable cells.
func (p rowParser) float(rec []string, col string) float64 {
	s := p.str(rec, col)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
