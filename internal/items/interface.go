package items

import (
	"context"
	"resolver/pkg/batch"
	"resolver/pkg/domain"
)

//go:generate mockgen -package mockitems -source=interface.go -destination=mock/mockitems.go *
type Service interface {
	Resolve(ctx context.Context, ids []string) (batch.Result[domain.Item], error)
	Get(ctx context.Context, id domain.ItemID) (*domain.Item, error)
	Put(ctx context.Context, item domain.Item) (*domain.Item, error)
	Ping(ctx context.Context) error
}
