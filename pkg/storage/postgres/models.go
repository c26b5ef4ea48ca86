package postgres

import (
	"database/sql"
	"encoding/json"
	"resolver/pkg/domain"
	"time"
)

type PgItem struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	Attributes []byte `db:"attributes"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgItem) ToDomain() *domain.Item {
	return &domain.Item{
		ID:         domain.ItemID(p.ID),
		Name:       p.Name,
		Attributes: json.RawMessage(p.Attributes),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt.Time,
	}
}

func (p *PgItem) FromDomain(item domain.Item) {
	attributes := []byte(item.Attributes)
	if len(attributes) == 0 {
		attributes = []byte(`{}`)
	}

	*p = PgItem{
		ID:         string(item.ID),
		Name:       item.Name,
		Attributes: attributes,
		CreatedAt:  item.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  item.UpdatedAt,
			Valid: !item.UpdatedAt.IsZero(),
		},
	}
}
