package ledger

import "errors"

var (
	// ErrMissingField is returned when a required invoice field is absent.
	ErrMissingField = errors.New("required invoice field is missing")

	// ErrDuplicateID is returned when an invoice_id already exists in the
	// ledger. The uniqueness constraint of the storage engine is the
	// authoritative check.
	ErrDuplicateID = errors.New("invoice ID already exists")

	// ErrNotFound is returned when no invoice matches the given invoice_id.
	ErrNotFound = errors.New("invoice not found")
)
