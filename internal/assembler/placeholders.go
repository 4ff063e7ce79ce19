package assembler

import (
	"fmt"

	"github.com/rmarban/invoicedesk/internal/config"
)

// Placeholders builds the token-to-value map consumed by the template filler.
// The token set, including the "adress" spelling, is the contract with
// existing invoice templates and must not be altered. Service-line tokens are
// emitted for however many lines the request carries; templates simply omit
// the tokens for rows they do not render.
func Placeholders(invoiceID, issuedAt string, req Request, business config.BusinessInfo, totals Totals) map[string]string {
	ph := map[string]string{
		"[invoice_id]":      invoiceID,
		"[date_time]":       issuedAt,
		"[client_name]":     req.Client.Name,
		"[client_email]":    req.Client.Email,
		"[client_phone]":    req.Client.Phone,
		"[client_adress]":   req.Client.Address,
		"[business_name]":   business.Name,
		"[business_email]":  business.Email,
		"[business_phone]":  business.Phone,
		"[business_adress]": business.Address,
		"[tax_%]":           req.TaxPercent,
		"[payment_method]":  req.Payment.Method,
		"[payment_entity]":  req.Payment.Entity,
		"[payment_name]":    req.Payment.Name,
		"[payment_number]":  req.Payment.Number,
		"[iva]":             totals.Tax.StringFixed(2),
		"[total_iva]":       totals.GrandTotal.StringFixed(2),
	}

	for i, line := range totals.Lines {
		n := i + 1
		ph[fmt.Sprintf("[service%d]", n)] = line.Description
		ph[fmt.Sprintf("[s%dnum]", n)] = line.Quantity.StringFixed(2)
		ph[fmt.Sprintf("[s%dpri]", n)] = line.UnitPrice.StringFixed(2)
		ph[fmt.Sprintf("[s%dsum]", n)] = line.Total.StringFixed(2)
	}
	return ph
}
