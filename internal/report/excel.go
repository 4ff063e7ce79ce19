// Package report exports invoice listings to Excel workbooks.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rmarban/invoicedesk/internal/models"
)

const sheetName = "Invoices"

var headers = []string{"Invoice ID", "Client", "Date", "Total", "Tax", "Payment Method", "Status"}

// ExcelExporter writes invoice summaries to .xlsx files.
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates an Excel exporter.
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// Export writes the given summaries to an Excel workbook at outputPath, one
// row per invoice plus a totals row.
func (e *ExcelExporter) Export(summaries []models.InvoiceSummary, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		e.setCell(f, cell, header)
	}

	var totalSum, taxSum float64
	for row, s := range summaries {
		values := []interface{}{
			s.InvoiceID, s.ClientName, s.InvoiceDate,
			s.TotalAmount, s.TaxAmount, s.PaymentMethod, s.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			e.setCell(f, cell, v)
		}
		totalSum += s.TotalAmount
		taxSum += s.TaxAmount
	}

	footer := len(summaries) + 2
	labelCell, _ := excelize.CoordinatesToCellName(1, footer)
	totalCell, _ := excelize.CoordinatesToCellName(4, footer)
	taxCell, _ := excelize.CoordinatesToCellName(5, footer)
	e.setCell(f, labelCell, "Total")
	e.setCell(f, totalCell, totalSum)
	e.setCell(f, taxCell, taxSum)

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	e.logger.Info("Invoice report exported",
		zap.String("output_path", outputPath),
		zap.Int("invoices", len(summaries)))
	return nil
}

func (e *ExcelExporter) setCell(f *excelize.File, cell string, value interface{}) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}
