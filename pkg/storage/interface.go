// Package storage defines the core storage interfaces that the application relies on.
// It abstracts persistence operations so that different backends (PostgreSQL,
// a redis read-through cache in front of it) can provide concrete implementations.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"
	"resolver/pkg/domain"
)

// ItemStorage defines the item persistence operations.
type ItemStorage interface {
	// ItemByID fetches a single item. Returns nil and no error when not found.
	ItemByID(ctx context.Context, id domain.ItemID) (*domain.Item, error)
	// UpsertItem inserts the item or replaces name and attributes of an
	// existing one, and returns the stored row.
	UpsertItem(ctx context.Context, item domain.Item) (*domain.Item, error)
}

// Storage describes a storage handle with lifecycle management.
type Storage interface {
	ItemStorage

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases any resources held by the storage implementation (e.g. the
	// underlying connection pool). After Close, the instance should not be used.
	Close() error
}
