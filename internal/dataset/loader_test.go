package dataset

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
)

const (
	csv2021 = `latitude,longitude,brightness,scan,track,acq_date,confidence,bright_t31,frp,type
21.5,79.1,310.2,1.1,1.0,2021-01-03,nominal,295.4,12.5,0
22.0,80.3,330.8,1.4,1.2,2021-01-04,high,300.1,40.2,2
`
	csv2022 = `latitude,longitude,brightness,scan,track,acq_date,confidence,bright_t31,frp,type
19.9,73.2,305.0,1.0,1.0,2022-03-11,low,290.0,8.1,0
`
	csv2023 = `latitude,longitude,brightness,scan,track,acq_date,confidence,bright_t31,frp,type,state
11.0,76.9,340.5,2.1,1.4,2023-05-20,nominal,299.0,55.0,0,Kerala
`
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeYear(t *testing.T, dir string, year int, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName(year)), []byte(content), 0o644))
}

var nanEqual = cmpopts.EquateNaNs()

func TestLoader_TwoYearsOnly(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2021, csv2021)
	writeYear(t, dir, 2022, csv2022)

	ds, err := NewLoader(dir, discardLogger()).Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	assert.Equal(t, []int{2021, 2022}, ds.DistinctYears())
	assert.Equal(t, 2021, ds.Rows[0].Year)
	assert.Equal(t, 2021, ds.Rows[1].Year)
	assert.Equal(t, 2022, ds.Rows[2].Year)
	assert.InDelta(t, 310.2, ds.Rows[0].Brightness, 1e-9)
	assert.Equal(t, "high", ds.Rows[1].Confidence)
	assert.True(t, ds.Has(domain.ColYear, domain.ColLatitude, domain.ColType))
	assert.False(t, ds.Has(domain.ColState))
}

func TestLoader_ReloadAfterAddingYearMatchesDirectLoad(t *testing.T) {
	incremental := t.TempDir()
	writeYear(t, incremental, 2021, csv2021)
	writeYear(t, incremental, 2022, csv2022)

	loader := NewLoader(incremental, discardLogger())
	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	writeYear(t, incremental, 2023, csv2023)
	reloaded, err := loader.Load(context.Background())
	require.NoError(t, err)

	direct := t.TempDir()
	writeYear(t, direct, 2021, csv2021)
	writeYear(t, direct, 2022, csv2022)
	writeYear(t, direct, 2023, csv2023)
	all, err := NewLoader(direct, discardLogger()).Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(all, reloaded, nanEqual))
	assert.Equal(t, 4, reloaded.Len())
	assert.Equal(t, "Kerala", reloaded.Rows[3].State)
	assert.True(t, reloaded.Has(domain.ColState))
}

func TestLoader_NoFiles(t *testing.T) {
	ds, err := NewLoader(t.TempDir(), discardLogger()).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ds.Empty())
	assert.False(t, ds.Has(domain.ColYear))
}

func TestLoader_MalformedCSVNamesFile(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2022, "brightness,frp\n\"300,1\n")

	_, err := NewLoader(dir, discardLogger()).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileName(2022))
}

func TestLoader_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2021, csv2021)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(dir, discardLogger()).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadCSV_BadCellsBecomeNaN(t *testing.T) {
	in := "\ufeffBrightness, FRP ,confidence,latitude\n" +
		"n/a,12.5,nominal,\n" +
		"320,,low,20.5,extra\n" +
		"330\n"

	ds, err := ReadCSV(strings.NewReader(in), 2023)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	assert.True(t, ds.Has(domain.ColBrightness, domain.ColFRP, domain.ColConfidence, domain.ColLatitude, domain.ColYear))
	assert.True(t, math.IsNaN(ds.Rows[0].Brightness))
	assert.InDelta(t, 12.5, ds.Rows[0].FRP, 1e-9)
	assert.True(t, math.IsNaN(ds.Rows[0].Latitude))
	assert.True(t, math.IsNaN(ds.Rows[1].FRP))
	assert.InDelta(t, 20.5, ds.Rows[1].Latitude, 1e-9)
	assert.Equal(t, "", ds.Rows[2].Confidence)
	assert.True(t, math.IsNaN(ds.Rows[0].Longitude), "absent column loads as NaN")
	for _, row := range ds.Rows {
		assert.Equal(t, 2023, row.Year)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(""), 2021)
	require.NoError(t, err)
	assert.True(t, ds.Empty())
	assert.True(t, ds.Has(domain.ColYear))
}
