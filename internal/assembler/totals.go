package assembler

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rmarban/invoicedesk/internal/models"
)

// LineTotal is one service line with its computed amounts.
type LineTotal struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// Totals holds the monetary breakdown of one invoice.
type Totals struct {
	Lines      []LineTotal
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals derives per-line totals, subtotal, tax, and grand total from
// the raw service lines. Quantity, price, and tax percent come from free-text
// input; unparsable or empty values are treated as zero instead of failing.
// That leniency is deliberate: a half-filled service row contributes nothing
// rather than blocking generation.
func ComputeTotals(lines []models.ServiceLine, taxPercent string) Totals {
	totals := Totals{
		Lines:    make([]LineTotal, 0, len(lines)),
		Subtotal: decimal.Zero,
	}

	for _, line := range lines {
		qty := parseAmount(line.Quantity)
		price := parseAmount(line.UnitPrice)
		total := qty.Mul(price)

		totals.Lines = append(totals.Lines, LineTotal{
			Description: line.Description,
			Quantity:    qty,
			UnitPrice:   price,
			Total:       total,
		})
		totals.Subtotal = totals.Subtotal.Add(total)
	}

	pct := parseAmount(taxPercent)
	totals.Tax = totals.Subtotal.Mul(pct).Div(decimal.NewFromInt(100))
	totals.GrandTotal = totals.Subtotal.Add(totals.Tax)
	return totals
}

// parseAmount parses a free-text numeric field, coercing empty or invalid
// input to zero.
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
