package clients

import "errors"

var (
	// ErrNameRequired is returned when a client is added without a name.
	ErrNameRequired = errors.New("client name is required")

	// ErrNotFound is returned when no client matches the given ID.
	ErrNotFound = errors.New("client not found")
)
