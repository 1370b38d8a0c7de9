package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/laundrymap/laundrymap/internal/model"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func sampleBusinesses() []model.Business {
	return []model.Business{
		{ID: 1, Name: "Dr. Laundry Telkom", Address: "Jl. Telekomunikasi No. 1",
			Lat: -6.9731, Lng: 107.6303, PricePerKG: intp(5000), SpeedDays: floatp(1),
			OpeningHours: "24 Jam"},
		{ID: 2, Name: "Laundry Barokah", Address: "Jl. Sukabirus Gg. IV No. 3",
			Lat: -6.9756, Lng: 107.6267, OpeningHours: "08:00 - 18:00"},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	require.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	densities := []model.DistrictDensity{
		{District: model.District{Name: "Sukabirus"}, Metric: model.MetricPrice, Density: 4750, Count: 2},
	}

	require.NoError(t, WriteXLSX(path, sampleBusinesses(), densities))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)

	laundries := f.Sheets[0]
	assert.Equal(t, "Laundries", laundries.Name)
	require.Len(t, laundries.Rows, 3)
	assert.Equal(t, "Name", laundries.Rows[0].Cells[1].String())
	assert.Equal(t, "Dr. Laundry Telkom", laundries.Rows[1].Cells[1].String())
	assert.Equal(t, "5000", laundries.Rows[1].Cells[5].String())
	// Unknown price stays an empty cell rather than zero.
	assert.Equal(t, "", laundries.Rows[2].Cells[5].String())

	dist := f.Sheets[1]
	assert.Equal(t, "Districts", dist.Name)
	require.Len(t, dist.Rows, 2)
	assert.Equal(t, "Sukabirus", dist.Rows[1].Cells[0].String())
}

func TestWriteXLSXWithoutDensities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(path, sampleBusinesses(), nil))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Sheets, 1)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(path, sampleBusinesses()))

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	records, err := csv.NewReader(in).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, businessHeader, records[0])
	assert.Equal(t, "Dr. Laundry Telkom", records[1][1])
	assert.Equal(t, "5000", records[1][5])
	assert.Equal(t, "", records[2][5])
	assert.Equal(t, "", records[2][6])
}

func TestWriteDispatch(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Write(filepath.Join(dir, "a.xlsx"), FormatXLSX, sampleBusinesses(), nil))
	require.NoError(t, Write(filepath.Join(dir, "a.csv"), FormatCSV, sampleBusinesses(), nil))
	require.Error(t, Write(filepath.Join(dir, "a.pdf"), Format("pdf"), sampleBusinesses(), nil))
}
