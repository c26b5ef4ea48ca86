package domain

import (
	"encoding/json"
	"time"
)

// ItemID is the opaque identifier of an item. Callers choose it; the service
// never interprets its contents.
type ItemID string

// Item is a named record addressable by its ID.
type Item struct {
	// ID is the caller supplied identifier of the item.
	ID ItemID `json:"id"`
	// Name is a human readable label.
	Name string `json:"name"`
	// Attributes holds arbitrary JSON object data attached to the item.
	Attributes json.RawMessage `json:"attributes,omitempty"`

	// CreatedAt is the time the item was first stored.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time of the last change; zero when never updated.
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
