package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rmarban/invoicedesk/internal/models"
)

func TestExcelExporter_Export(t *testing.T) {
	exporter := NewExcelExporter(zap.NewNop())

	t.Run("writes header, rows, and totals", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invoices.xlsx")
		summaries := []models.InvoiceSummary{
			{InvoiceID: "INV-2403", ClientName: "Acme", InvoiceDate: "2024-03-01", TotalAmount: 30.25, TaxAmount: 5.25, PaymentMethod: "transfer", Status: "pending"},
			{InvoiceID: "INV-2402", ClientName: "Globex", InvoiceDate: "2024-02-01", TotalAmount: 121.00, TaxAmount: 21.00, PaymentMethod: "cash", Status: "paid"},
		}

		require.NoError(t, exporter.Export(summaries, path))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		header, err := f.GetCellValue("Invoices", "A1")
		require.NoError(t, err)
		assert.Equal(t, "Invoice ID", header)

		firstID, _ := f.GetCellValue("Invoices", "A2")
		assert.Equal(t, "INV-2403", firstID)
		secondClient, _ := f.GetCellValue("Invoices", "B3")
		assert.Equal(t, "Globex", secondClient)

		footerLabel, _ := f.GetCellValue("Invoices", "A4")
		assert.Equal(t, "Total", footerLabel)
		footerTotal, _ := f.GetCellValue("Invoices", "D4")
		assert.Equal(t, "151.25", footerTotal)
	})

	t.Run("exports an empty listing without error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.xlsx")

		require.NoError(t, exporter.Export([]models.InvoiceSummary{}, path))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		footerLabel, _ := f.GetCellValue("Invoices", "A2")
		assert.Equal(t, "Total", footerLabel)
	})
}
