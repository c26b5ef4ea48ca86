// Package items implements item lookups on top of the storage layer, including
// batch resolution of many identifiers in one call.
package items

import (
	"context"
	"errors"
	"fmt"
	"resolver/pkg/batch"
	"resolver/pkg/domain"
	"resolver/pkg/metrics"
	"resolver/pkg/serrors"
	"resolver/pkg/storage"
	"strings"
	"time"
)

const metricsSource = "items"

// service is the concrete implementation of the Service interface.
type service struct {
	storage storage.Storage
	metrics *metrics.Batch
}

// New creates an item Service reading from and writing to strg. Batch
// resolutions are recorded on m.
func New(strg storage.Storage, m *metrics.Batch) Service {
	return &service{
		storage: strg,
		metrics: m,
	}
}

func (s *service) lookup(ctx context.Context, id string) (domain.Item, bool, error) {
	item, err := s.storage.ItemByID(ctx, domain.ItemID(id))
	if err != nil {
		return domain.Item{}, false, fmt.Errorf("could not get item: %w", err)
	}
	if item == nil {
		return domain.Item{}, false, nil
	}

	return *item, true, nil
}

// Resolve looks the identifiers up one after another. Unknown identifiers end
// up in NotFoundIDs; any storage failure fails the whole batch.
func (s *service) Resolve(ctx context.Context, ids []string) (batch.Result[domain.Item], error) {
	start := time.Now()
	res, err := batch.Resolve(ctx, ids, s.lookup)
	s.metrics.Observe(ctx, metricsSource, len(res.List), len(res.NotFoundIDs), time.Since(start), err)
	if err != nil {
		return res, fmt.Errorf("could not resolve items: %w", err)
	}

	return res, nil
}

// Get returns a single item or a NOT_FOUND error.
func (s *service) Get(ctx context.Context, id domain.ItemID) (*domain.Item, error) {
	item, err := s.storage.ItemByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get item: %w", err)
	}
	if item == nil {
		return nil, serrors.With(serrors.ErrNotFound, "item %q not found", id)
	}

	return item, nil
}

// Put validates and stores the item, replacing name and attributes of an
// existing item with the same ID.
func (s *service) Put(ctx context.Context, item domain.Item) (*domain.Item, error) {
	if strings.TrimSpace(string(item.ID)) == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "item id is required")
	}
	if strings.TrimSpace(item.Name) == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "item name is required")
	}

	stored, err := s.storage.UpsertItem(ctx, item)
	if errors.Is(err, storage.ErrInvalidItem) {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid item")
	}
	if err != nil {
		return nil, fmt.Errorf("could not store item: %w", err)
	}

	return stored, nil
}

// Ping reports whether the storage is reachable.
func (s *service) Ping(ctx context.Context) error {
	if err := s.storage.Ping(ctx); err != nil {
		return serrors.Wrap(serrors.ErrUnavailable, err, "storage unavailable")
	}

	return nil
}
