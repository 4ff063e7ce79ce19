package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmarban/invoicedesk/internal/config"
	"github.com/rmarban/invoicedesk/internal/models"
)

func TestComputeTotals(t *testing.T) {
	t.Run("computes subtotal, tax, and grand total", func(t *testing.T) {
		totals := ComputeTotals([]models.ServiceLine{
			{Description: "Consulting", Quantity: "2", UnitPrice: "10.00"},
			{Description: "Support", Quantity: "1", UnitPrice: "5.00"},
		}, "21")

		assert.Equal(t, "25.00", totals.Subtotal.StringFixed(2))
		assert.Equal(t, "5.25", totals.Tax.StringFixed(2))
		assert.Equal(t, "30.25", totals.GrandTotal.StringFixed(2))

		require.Len(t, totals.Lines, 2)
		assert.Equal(t, "20.00", totals.Lines[0].Total.StringFixed(2))
		assert.Equal(t, "5.00", totals.Lines[1].Total.StringFixed(2))
	})

	t.Run("unparsable quantity contributes zero", func(t *testing.T) {
		totals := ComputeTotals([]models.ServiceLine{
			{Description: "Valid", Quantity: "3", UnitPrice: "4.00"},
			{Description: "Empty qty", Quantity: "", UnitPrice: "99.00"},
			{Description: "Junk qty", Quantity: "two", UnitPrice: "99.00"},
		}, "0")

		assert.Equal(t, "12.00", totals.Subtotal.StringFixed(2))
		assert.Equal(t, "0.00", totals.Tax.StringFixed(2))
		assert.Equal(t, "12.00", totals.GrandTotal.StringFixed(2))
	})

	t.Run("unparsable tax percent coerces to zero", func(t *testing.T) {
		totals := ComputeTotals([]models.ServiceLine{
			{Quantity: "1", UnitPrice: "100"},
		}, "n/a")

		assert.Equal(t, "0.00", totals.Tax.StringFixed(2))
		assert.Equal(t, "100.00", totals.GrandTotal.StringFixed(2))
	})

	t.Run("no lines yields zero everywhere", func(t *testing.T) {
		totals := ComputeTotals(nil, "21")

		assert.Equal(t, "0.00", totals.Subtotal.StringFixed(2))
		assert.Equal(t, "0.00", totals.GrandTotal.StringFixed(2))
		assert.Empty(t, totals.Lines)
	})
}

func TestPlaceholders(t *testing.T) {
	req := Request{
		Client: models.Client{
			Name:    "Acme Corp",
			Email:   "billing@acme.test",
			Phone:   "+34 600 000 000",
			Address: "Calle Mayor 1",
		},
		Lines: []models.ServiceLine{
			{Description: "Consulting", Quantity: "2", UnitPrice: "10.00"},
		},
		TaxPercent: "21",
		Payment: models.PaymentInfo{
			Method: "transfer",
			Entity: "Test Bank",
			Name:   "Acme Holding",
			Number: "ES00 0000 0000 0000",
		},
	}
	business := config.BusinessInfo{
		Name:    "My Studio",
		Email:   "studio@example.test",
		Phone:   "+34 911 111 111",
		Address: "Gran Via 10",
	}

	totals := ComputeTotals(req.Lines, req.TaxPercent)
	ph := Placeholders("INV-240101-AAAA", "2024-01-01 09:00", req, business, totals)

	assert.Equal(t, "INV-240101-AAAA", ph["[invoice_id]"])
	assert.Equal(t, "2024-01-01 09:00", ph["[date_time]"])
	assert.Equal(t, "Acme Corp", ph["[client_name]"])
	assert.Equal(t, "Calle Mayor 1", ph["[client_adress]"])
	assert.Equal(t, "My Studio", ph["[business_name]"])
	assert.Equal(t, "Gran Via 10", ph["[business_adress]"])
	assert.Equal(t, "21", ph["[tax_%]"])
	assert.Equal(t, "transfer", ph["[payment_method]"])
	assert.Equal(t, "Consulting", ph["[service1]"])
	assert.Equal(t, "2.00", ph["[s1num]"])
	assert.Equal(t, "10.00", ph["[s1pri]"])
	assert.Equal(t, "20.00", ph["[s1sum]"])
	assert.Equal(t, "4.20", ph["[iva]"])
	assert.Equal(t, "24.20", ph["[total_iva]"])
}
