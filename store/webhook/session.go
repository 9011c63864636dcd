package webhook

import (
	"context"

	"github.com/reviewpulse/reviewpulse/store"
)

type sessionRow struct {
	ID              int32  `json:"id"`
	UID             string `json:"uid"`
	CreatorID       int32  `json:"creator_id"`
	CreatedTs       int64  `json:"created_ts"`
	ClientFirstName string `json:"client_first_name"`
	PhoneNumber     string `json:"phone_number"`
	ProviderID      *int32 `json:"provider_id"`
}

func (r *sessionRow) toStore() *store.Session {
	return &store.Session{
		ID:              r.ID,
		UID:             r.UID,
		CreatorID:       r.CreatorID,
		CreatedTs:       r.CreatedTs,
		ClientFirstName: r.ClientFirstName,
		PhoneNumber:     r.PhoneNumber,
		ProviderID:      r.ProviderID,
	}
}

func (d *Driver) CreateSession(ctx context.Context, create *store.Session) (*store.Session, error) {
	data := map[string]any{
		"uid":               create.UID,
		"creator_id":        create.CreatorID,
		"created_ts":        create.CreatedTs,
		"client_first_name": create.ClientFirstName,
		"phone_number":      create.PhoneNumber,
	}
	if create.ProviderID != nil {
		data["provider_id"] = *create.ProviderID
	}

	var row sessionRow
	if err := d.client.insert(ctx, "session_record", data, &row); err != nil {
		return nil, err
	}
	return row.toStore(), nil
}

func (d *Driver) ListSessions(ctx context.Context, find *store.FindSession) ([]*store.Session, error) {
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
	if v := find.Limit; v != nil {
		filters["limit"] = *v
	}
	if v := find.Offset; v != nil {
		filters["offset"] = *v
	}

	rows := []*sessionRow{}
	if err := d.client.query(ctx, "session_record", filters, &rows); err != nil {
		return nil, err
	}
	list := make([]*store.Session, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toStore())
	}
	return list, nil
}
