package models

// Invoice status values known to the application. The storage layer treats
// status as an open set; these are the values the UI surfaces.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Invoice is a committed row in the invoices ledger.
type Invoice struct {
	ID            int64   `json:"id"`
	InvoiceID     string  `json:"invoice_id"`
	ClientName    string  `json:"client_name"`
	ClientEmail   string  `json:"client_email"`
	ClientPhone   string  `json:"client_phone"`
	ClientAddress string  `json:"client_address"`
	TotalAmount   float64 `json:"total_amount"`
	TaxAmount     float64 `json:"tax_amount"`
	InvoiceDate   string  `json:"invoice_date"`
	PaymentMethod string  `json:"payment_method"`
	PaymentEntity string  `json:"payment_entity"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// InvoiceSummary is the fixed projection returned by ledger listings.
type InvoiceSummary struct {
	InvoiceID     string  `json:"invoice_id"`
	ClientName    string  `json:"client_name"`
	InvoiceDate   string  `json:"invoice_date"`
	TotalAmount   float64 `json:"total_amount"`
	TaxAmount     float64 `json:"tax_amount"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
}

// ServiceLine is one billable row of an invoice as entered by the user.
// Quantity and UnitPrice are free text; unparsable values are treated as zero
// when totals are computed.
type ServiceLine struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

// PaymentInfo carries the payment details printed on the invoice.
type PaymentInfo struct {
	Method string `json:"method"`
	Entity string `json:"entity"`
	Name   string `json:"name"`
	Number string `json:"number"`
}
