package receipt

import (
	"fmt"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
)

const xlsxSheet = "Receipts"

var xlsxHeaders = map[string]string{
	"A1": "Date",
	"B1": "Description",
	"C1": "Amount",
	"D1": "Status",
}

// RenderXLSX writes a receipt list as a single-sheet workbook, one row per
// receipt followed by a total row.
func RenderXLSX(list *model.ReceiptList) ([]byte, error) {
	file := excelize.NewFile()
	file.SetActiveSheet(file.NewSheet(xlsxSheet))
	file.DeleteSheet("Sheet1")
	for k, v := range xlsxHeaders {
		file.SetCellValue(xlsxSheet, k, v)
	}

	row := 2
	for _, r := range list.Receipts {
		file.SetCellValue(xlsxSheet, fmt.Sprintf("A%d", row), r.Date.Format("2006-01-02"))
		file.SetCellValue(xlsxSheet, fmt.Sprintf("B%d", row), r.Description)
		file.SetCellValue(xlsxSheet, fmt.Sprintf("C%d", row), r.Amount)
		file.SetCellValue(xlsxSheet, fmt.Sprintf("D%d", row), r.Status)
		row++
	}
	file.SetCellValue(xlsxSheet, fmt.Sprintf("B%d", row), "Total earnings")
	file.SetCellValue(xlsxSheet, fmt.Sprintf("C%d", row), list.TotalEarnings)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render receipts xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
