package httpserver

import (
	"github.com/xuri/excelize/v2"

	"ba_dashboard/internal/domain"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	countsSheet     = "Reviews per country"
)

// countsWorkbook renders the per-country bar chart data as a one-sheet workbook.
func countsWorkbook(counts []domain.CountryCount) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", countsSheet); err != nil {
		return nil, err
	}
	header := []any{"Country", "Reviews"}
	if err := f.SetSheetRow(countsSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, c := range counts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{c.Country, c.Count}
		if err := f.SetSheetRow(countsSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
