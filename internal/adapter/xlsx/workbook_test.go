package xlsx

import (
	"bytes"
	"math"
	"testing"

	"github.com/couchcryptid/modis-fire-dashboard/internal/dashboard"
	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbookWrite(t *testing.T) {
	view := domain.Dataset{
		Columns: domain.NewColumns(domain.ColYear, domain.ColAcqDate, domain.ColFRP, domain.ColType),
		Rows: []domain.Observation{
			{Year: 2021, AcqDate: "2021-01-03", FRP: 12.5, Type: "0"},
			{Year: 2023, AcqDate: "2023-05-20", FRP: math.NaN(), Type: "2"},
		},
	}
	summary := dashboard.Summary{TotalRecords: 2, Years: []int{2021, 2023}, FireTypes: []string{"0", "2"}}

	var buf bytes.Buffer
	require.NoError(t, NewWorkbook().Write(&buf, view, summary))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{SheetObservations, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetObservations)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"year", "acq_date", "frp", "type"}, rows[0])
	assert.Equal(t, []string{"2021", "2021-01-03", "12.5", "0"}, rows[1])
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "2", rows[2][3])

	sum, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, sum, 4)
	assert.Equal(t, []string{"Total Records", "2"}, sum[0])
	assert.Equal(t, []string{"Years", "2021, 2023"}, sum[1])
	assert.Equal(t, []string{"Fire Types", "0, 2"}, sum[2])
	assert.Equal(t, dashboard.SourceCaption, sum[3][1])
}

func TestWorkbookWrite_EmptyView(t *testing.T) {
	view := domain.Dataset{Columns: domain.NewColumns(domain.ColYear)}

	var buf bytes.Buffer
	require.NoError(t, NewWorkbook().Write(&buf, view, dashboard.Summary{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(SheetObservations)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"year"}, rows[0])
}
