package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
)

// RenderPDF lays out a receipt list as an A4 statement.
func RenderPDF(list *model.ReceiptList, title string, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 7, "Generated "+generatedAt.Format("Jan 2, 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(35, 9, "Date", "1", 0, "", true, 0, "")
	pdf.CellFormat(105, 9, "Description", "1", 0, "", true, 0, "")
	pdf.CellFormat(0, 9, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, r := range list.Receipts {
		pdf.CellFormat(35, 8, r.Date.Format(model.DisplayDateLayout), "1", 0, "", false, 0, "")
		pdf.CellFormat(105, 8, tr(r.Description), "1", 0, "", false, 0, "")
		pdf.CellFormat(0, 8, formatAmount(r.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(140, 10, "Total earnings", "1", 0, "R", false, 0, "")
	pdf.CellFormat(0, 10, formatAmount(list.TotalEarnings), "1", 1, "R", false, 0, "")

	pdf.SetY(pdf.GetY() + 12)
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 10, "This is a computer generated statement", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipts pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("Rs. %.2f", v)
}
