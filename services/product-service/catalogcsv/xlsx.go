package catalogcsv

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
)

const sheetName = "Products"

// WriteXLSX writes the catalog as a single sheet workbook with the feed columns.
func WriteXLSX(w io.Writer, products []models.ProductRecord) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().SetValue(col)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetFloat(p.Price)
		row.AddCell().SetString(p.Category)
		row.AddCell().SetString(p.Image)
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(fmt.Sprintf("%t", p.Featured))
		row.AddCell().SetString(p.DefaultWeight)
		row.AddCell().SetString(p.ShelfLife)
		row.AddCell().SetString(p.DeliveryTime)
	}

	return file.Write(w)
}

// ParseXLSX reads the first sheet of a workbook into rows, using the same
// header zipping and blank row rules as Parse.
func ParseXLSX(r io.ReaderAt, size int64) ([]Row, error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, ErrNoDataRows
	}

	records := make([][]string, 0, len(file.Sheets[0].Rows))
	for _, row := range file.Sheets[0].Rows {
		if row == nil {
			continue
		}
		rec := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			rec[i] = cell.String()
		}
		records = append(records, rec)
	}
	return FromRecords(records)
}
