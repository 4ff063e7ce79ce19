// Package ledger implements the structured invoice store. Unlike the
// flat-file client store, mutation here is row-scoped and uniqueness and
// filtering are enforced server-side, because financial records must never
// silently collide or vanish.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/rmarban/invoicedesk/internal/models"
)

// DefaultOrder is the sort applied to listings when the caller does not
// specify one.
const DefaultOrder = "invoice_date DESC"

// allowedOrderColumns whitelists the columns a caller may sort listings by.
var allowedOrderColumns = map[string]bool{
	"invoice_id":   true,
	"client_name":  true,
	"invoice_date": true,
	"total_amount": true,
	"tax_amount":   true,
	"status":       true,
	"created_at":   true,
}

// Filters narrows GetAll results. Zero-valued fields are ignored; set fields
// are ANDed together. Dates are inclusive bounds on invoice_date.
type Filters struct {
	ClientName string
	Status     string
	DateFrom   string
	DateTo     string
}

// Ledger provides CRUD and filtered queries over the invoices table.
type Ledger struct {
	db     *sql.DB
	logger *zap.Logger
}

// New creates a ledger over the given database handle.
func New(db *sql.DB, logger *zap.Logger) *Ledger {
	return &Ledger{
		db:     db,
		logger: logger,
	}
}

// Initialize idempotently ensures the invoices table exists.
func (l *Ledger) Initialize() error {
	query := `
		CREATE TABLE IF NOT EXISTS invoices (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			invoice_id TEXT UNIQUE,
			client_name TEXT,
			client_email TEXT,
			client_phone TEXT,
			client_address TEXT,
			total_amount REAL,
			tax_amount REAL,
			invoice_date TEXT,
			payment_method TEXT,
			payment_entity TEXT,
			status TEXT DEFAULT 'pending',
			created_at TEXT,
			updated_at TEXT
		)
	`
	if _, err := l.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create invoices table: %w", err)
	}
	return nil
}

// Save inserts a new invoice row. InvoiceID, ClientName, and a non-zero
// TotalAmount are required. Optional fields receive defaults: tax 0, empty
// payment fields, status "pending", invoice_date now. A second insert with the
// same invoice_id fails with ErrDuplicateID via the engine's unique constraint
// rather than a racy pre-check.
func (l *Ledger) Save(inv *models.Invoice) error {
	switch {
	case inv.InvoiceID == "":
		return fmt.Errorf("%w: invoice_id", ErrMissingField)
	case inv.ClientName == "":
		return fmt.Errorf("%w: client_name", ErrMissingField)
	case inv.TotalAmount == 0:
		return fmt.Errorf("%w: total_amount", ErrMissingField)
	}

	now := time.Now().Format(time.RFC3339)
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if inv.InvoiceDate == "" {
		inv.InvoiceDate = now
	}
	if inv.Status == "" {
		inv.Status = models.StatusPending
	}

	query := `
		INSERT INTO invoices (
			invoice_id, client_name, client_email, client_phone, client_address,
			total_amount, tax_amount, invoice_date, payment_method, payment_entity,
			status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := l.db.Exec(query,
		inv.InvoiceID,
		inv.ClientName,
		inv.ClientEmail,
		inv.ClientPhone,
		inv.ClientAddress,
		inv.TotalAmount,
		inv.TaxAmount,
		inv.InvoiceDate,
		inv.PaymentMethod,
		inv.PaymentEntity,
		inv.Status,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s", ErrDuplicateID, inv.InvoiceID)
		}
		l.logger.Error("Failed to save invoice",
			zap.String("invoice_id", inv.InvoiceID),
			zap.Error(err))
		return fmt.Errorf("failed to save invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	inv.ID = id

	l.logger.Info("Invoice saved",
		zap.String("invoice_id", inv.InvoiceID),
		zap.Float64("total_amount", inv.TotalAmount))
	return nil
}

// GetAll returns the summary projection of invoices matching the filters,
// sorted by orderBy. An orderBy outside the column whitelist falls back to the
// default invoice_date descending sort.
func (l *Ledger) GetAll(filters Filters, orderBy string) ([]models.InvoiceSummary, error) {
	query := `
		SELECT invoice_id, client_name, invoice_date,
			total_amount, tax_amount, payment_method, status
		FROM invoices
	`
	var conditions []string
	var params []interface{}

	if filters.ClientName != "" {
		conditions = append(conditions, "client_name LIKE ?")
		params = append(params, "%"+filters.ClientName+"%")
	}
	if filters.Status != "" {
		conditions = append(conditions, "status = ?")
		params = append(params, filters.Status)
	}
	if filters.DateFrom != "" {
		conditions = append(conditions, "invoice_date >= ?")
		params = append(params, filters.DateFrom)
	}
	if filters.DateTo != "" {
		conditions = append(conditions, "invoice_date <= ?")
		params = append(params, filters.DateTo)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + sanitizeOrder(orderBy)

	rows, err := l.db.Query(query, params...)
	if err != nil {
		l.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	summaries := []models.InvoiceSummary{}
	for rows.Next() {
		var s models.InvoiceSummary
		if err := rows.Scan(
			&s.InvoiceID,
			&s.ClientName,
			&s.InvoiceDate,
			&s.TotalAmount,
			&s.TaxAmount,
			&s.PaymentMethod,
			&s.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetDetails returns the full invoice record for the given invoice_id.
func (l *Ledger) GetDetails(invoiceID string) (*models.Invoice, error) {
	query := `
		SELECT id, invoice_id, client_name, client_email, client_phone,
			client_address, total_amount, tax_amount, invoice_date,
			payment_method, payment_entity, status, created_at, updated_at
		FROM invoices
		WHERE invoice_id = ?
	`

	var inv models.Invoice
	err := l.db.QueryRow(query, invoiceID).Scan(
		&inv.ID,
		&inv.InvoiceID,
		&inv.ClientName,
		&inv.ClientEmail,
		&inv.ClientPhone,
		&inv.ClientAddress,
		&inv.TotalAmount,
		&inv.TaxAmount,
		&inv.InvoiceDate,
		&inv.PaymentMethod,
		&inv.PaymentEntity,
		&inv.Status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, invoiceID)
	}
	if err != nil {
		l.logger.Error("Failed to get invoice details",
			zap.String("invoice_id", invoiceID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &inv, nil
}

// UpdateStatus sets the status and updated_at of the given invoice.
func (l *Ledger) UpdateStatus(invoiceID, status string) error {
	result, err := l.db.Exec(
		"UPDATE invoices SET status = ?, updated_at = ? WHERE invoice_id = ?",
		status, time.Now().Format(time.RFC3339), invoiceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, invoiceID)
	}

	l.logger.Info("Invoice status updated",
		zap.String("invoice_id", invoiceID),
		zap.String("status", status))
	return nil
}

// Delete removes the given invoice from the ledger.
func (l *Ledger) Delete(invoiceID string) error {
	result, err := l.db.Exec("DELETE FROM invoices WHERE invoice_id = ?", invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, invoiceID)
	}

	l.logger.Info("Invoice deleted", zap.String("invoice_id", invoiceID))
	return nil
}

// Count returns the number of rows in the ledger.
func (l *Ledger) Count() (int, error) {
	var n int
	if err := l.db.QueryRow("SELECT COUNT(*) FROM invoices").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return n, nil
}

// sanitizeOrder validates a caller-supplied sort expression against the
// column whitelist. Expressions are "column" or "column DESC"/"column ASC".
func sanitizeOrder(orderBy string) string {
	if orderBy == "" {
		return DefaultOrder
	}

	fields := strings.Fields(orderBy)
	if len(fields) == 0 || len(fields) > 2 || !allowedOrderColumns[strings.ToLower(fields[0])] {
		return DefaultOrder
	}
	if len(fields) == 2 {
		dir := strings.ToUpper(fields[1])
		if dir != "ASC" && dir != "DESC" {
			return DefaultOrder
		}
		return fields[0] + " " + dir
	}
	return fields[0]
}
