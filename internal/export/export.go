// Package export writes directory snapshots to spreadsheet files.
package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/laundrymap/laundrymap/internal/model"
)

// Format selects the output file type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name from user input.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatXLSX, FormatCSV:
		return Format(s), nil
	default:
		return "", eris.Errorf("export: unknown format %q", s)
	}
}

var businessHeader = []string{
	"ID", "Name", "Address", "Lat", "Lng",
	"Price per KG", "Speed (days)", "Opening Hours",
}

var districtHeader = []string{"District", "Metric", "Density", "Count"}

// Write dispatches on format. Densities may be nil; CSV output carries
// businesses only, XLSX adds a district sheet when densities are present.
func Write(path string, format Format, businesses []model.Business, densities []model.DistrictDensity) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(path, businesses, densities)
	case FormatCSV:
		return WriteCSV(path, businesses)
	default:
		return eris.Errorf("export: unknown format %q", format)
	}
}

// WriteXLSX writes a workbook with a Laundries sheet and, when densities
// are supplied, a Districts sheet.
func WriteXLSX(path string, businesses []model.Business, densities []model.DistrictDensity) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Laundries")
	if err != nil {
		return eris.Wrap(err, "export: add laundries sheet")
	}

	header := sheet.AddRow()
	for _, col := range businessHeader {
		header.AddCell().SetString(col)
	}

	for _, b := range businesses {
		row := sheet.AddRow()
		row.AddCell().SetInt64(b.ID)
		row.AddCell().SetString(b.Name)
		row.AddCell().SetString(b.Address)
		row.AddCell().SetFloat(b.Lat)
		row.AddCell().SetFloat(b.Lng)
		if b.PricePerKG != nil {
			row.AddCell().SetInt(*b.PricePerKG)
		} else {
			row.AddCell()
		}
		if b.SpeedDays != nil {
			row.AddCell().SetFloat(*b.SpeedDays)
		} else {
			row.AddCell()
		}
		row.AddCell().SetString(b.OpeningHours)
	}

	if len(densities) > 0 {
		dSheet, err := f.AddSheet("Districts")
		if err != nil {
			return eris.Wrap(err, "export: add districts sheet")
		}

		dHeader := dSheet.AddRow()
		for _, col := range districtHeader {
			dHeader.AddCell().SetString(col)
		}
		for _, d := range densities {
			row := dSheet.AddRow()
			row.AddCell().SetString(d.Name)
			row.AddCell().SetString(string(d.Metric))
			row.AddCell().SetFloat(d.Density)
			row.AddCell().SetInt(d.Count)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// WriteCSV writes the business table as a single CSV file.
func WriteCSV(path string, businesses []model.Business) error {
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer func() { _ = out.Close() }()

	w := csv.NewWriter(out)
	if err := w.Write(businessHeader); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for _, b := range businesses {
		record := []string{
			strconv.FormatInt(b.ID, 10),
			b.Name,
			b.Address,
			strconv.FormatFloat(b.Lat, 'f', -1, 64),
			strconv.FormatFloat(b.Lng, 'f', -1, 64),
			optionalInt(b.PricePerKG),
			optionalFloat(b.SpeedDays),
			b.OpeningHours,
		}
		if err := w.Write(record); err != nil {
			return eris.Wrapf(err, "export: write row %d", b.ID)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
