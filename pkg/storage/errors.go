package storage

import "errors"

// Common errors returned by storage implementations.
var (
	// ErrInvalidItem is returned when an item cannot be stored as given, for
	// example when its attributes are not a JSON object.
	ErrInvalidItem = errors.New("invalid item")
)
