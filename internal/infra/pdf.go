package infra

// Reconciliation batch report generation using go-pdf/fpdf.
// Renders an A4 summary of a committed batch:
//   - Header with batch id and sale date
//   - Per-sale table (product, quantity, revenue, cost, profit)
//   - Totals block
//
// The output file is saved to storagePath/batch_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// BatchReport is the render input for a committed reconciliation batch.
// All amounts are preformatted strings; rendering does no arithmetic.
type BatchReport struct {
	BatchID        string
	SaleDate       string
	SalesProcessed int
	SalesSkipped   int
	TotalRevenue   string
	TotalCost      string
	TotalProfit    string
	Lines          []BatchReportLine
}

type BatchReportLine struct {
	ProductName string
	Quantity    string
	Revenue     string
	Cost        string
	Profit      string
}

// GenerateBatchReportPDF writes the report and returns the absolute path to
// the generated file. storagePath is created if needed.
func GenerateBatchReportPDF(report *BatchReport, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("batch_%s.pdf", report.BatchID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Savoria", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Sales-to-Inventory Reconciliation Report", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Batch %s", report.BatchID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Sale date: %s", report.SaleDate), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Sales processed: %d    skipped: %d",
		report.SalesProcessed, report.SalesSkipped), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Sales table ──────────────────────────────────────────────────────────
	col1 := contentW * 0.36 // product
	col2 := contentW * 0.12 // qty
	col3 := contentW * 0.18 // revenue
	col4 := contentW * 0.17 // cost
	col5 := contentW * 0.17 // profit

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Revenue", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Cost", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "Profit", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, line := range report.Lines {
		pdf.CellFormat(col1, 5, line.ProductName, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, line.Quantity, "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, line.Revenue, "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, line.Cost, "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 5, line.Profit, "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Revenue: %s    Cost: %s    Profit: %s",
		report.TotalRevenue, report.TotalCost, report.TotalProfit), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
