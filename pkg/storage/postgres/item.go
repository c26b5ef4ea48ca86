package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"resolver/pkg/domain"
	"resolver/pkg/storage"

	"github.com/doug-martin/goqu/v9"
)

const (
	itemsTable = "items"
)

// ItemByID returns an item by its ID, or nil when it does not exist.
func (p *PgSQL) ItemByID(ctx context.Context, id domain.ItemID) (*domain.Item, error) {
	var row PgItem
	found, err := p.Builder.From(itemsTable).
		Where(goqu.I("id").Eq(string(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch item by id: %w", err)
	}
	if !found {
		return nil, nil //nolint: nilnil
	}

	return row.ToDomain(), nil
}

// UpsertItem inserts the item, or updates name and attributes and sets
// updated_at when an item with the same ID already exists.
func (p *PgSQL) UpsertItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	var row PgItem
	row.FromDomain(item)
	if !isJSONObject(row.Attributes) {
		return nil, fmt.Errorf("attributes must be a JSON object: %w", storage.ErrInvalidItem)
	}

	var stored PgItem
	_, err := p.Builder.Insert(itemsTable).
		Rows(row).
		OnConflict(goqu.DoUpdate("id", goqu.Record{
			"name":       goqu.I("excluded.name"),
			"attributes": goqu.I("excluded.attributes"),
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		})).
		Returning(&PgItem{}).
		Executor().ScanStructContext(ctx, &stored)
	if err != nil {
		return nil, fmt.Errorf("could not upsert item into pg: %w", err)
	}

	return stored.ToDomain(), nil
}

func isJSONObject(b []byte) bool {
	b = bytes.TrimSpace(b)

	return len(b) > 0 && b[0] == '{' && json.Valid(b)
}
