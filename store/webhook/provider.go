package webhook

import (
	"context"

	"github.com/reviewpulse/reviewpulse/store"
)

type providerRow struct {
	ID        int32  `json:"id"`
	UID       string `json:"uid"`
	CreatorID int32  `json:"creator_id"`
	CreatedTs int64  `json:"created_ts"`
	Name      string `json:"name"`
}

func (r *providerRow) toStore() *store.Provider {
	return &store.Provider{
		ID:        r.ID,
		UID:       r.UID,
		CreatorID: r.CreatorID,
		CreatedTs: r.CreatedTs,
		Name:      r.Name,
	}
}

func (d *Driver) CreateProvider(ctx context.Context, create *store.Provider) (*store.Provider, error) {
	data := map[string]any{
		"uid":        create.UID,
		"creator_id": create.CreatorID,
		"created_ts": create.CreatedTs,
		"name":       create.Name,
	}

	var row providerRow
	if err := d.client.insert(ctx, "provider", data, &row); err != nil {
		return nil, err
	}
	return row.toStore(), nil
}

func (d *Driver) ListProviders(ctx context.Context, find *store.FindProvider) ([]*store.Provider, error) {
	filters := map[string]any{}
	if v := find.ID; v != nil {
		filters["id"] = *v
	}
	if v := find.UID; v != nil {
		filters["uid"] = *v
	}
	if v := find.CreatorID; v != nil {
		filters["creator_id"] = *v
	}

	rows := []*providerRow{}
	if err := d.client.query(ctx, "provider", filters, &rows); err != nil {
		return nil, err
	}
	list := make([]*store.Provider, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toStore())
	}
	return list, nil
}

func (d *Driver) DeleteProvider(ctx context.Context, delete *store.DeleteProvider) error {
	return d.client.delete(ctx, "provider", delete.ID)
}
