package webhook

import (
	"context"

	"github.com/reviewpulse/reviewpulse/store"
)

// reviewRequestRow is the wire shape of one review request row as the
// automation platform returns it.
type reviewRequestRow struct {
	ID                  int32    `json:"id"`
	UID                 string   `json:"uid"`
	CreatorID           int32    `json:"creator_id"`
	CreatedTs           int64    `json:"created_ts"`
	UpdatedTs           int64    `json:"updated_ts"`
	Status              string   `json:"status"`
	ClientFirstName     string   `json:"client_first_name"`
	PhoneNumber         string   `json:"phone_number"`
	ProviderName        *string  `json:"provider_name"`
	PhysicianName       *string  `json:"physician_name"`
	ResponseTimeMinutes *float64 `json:"response_time_minutes"`
}

func (r *reviewRequestRow) toStore() *store.ReviewRequest {
	return &store.ReviewRequest{
		ID:                  r.ID,
		UID:                 r.UID,
		CreatorID:           r.CreatorID,
		CreatedTs:           r.CreatedTs,
		UpdatedTs:           r.UpdatedTs,
		Status:              r.Status,
		ClientFirstName:     r.ClientFirstName,
		PhoneNumber:         r.PhoneNumber,
		ProviderName:        r.ProviderName,
		PhysicianName:       r.PhysicianName,
		ResponseTimeMinutes: r.ResponseTimeMinutes,
	}
}

func (d *Driver) CreateReviewRequest(ctx context.Context, create *store.ReviewRequest) (*store.ReviewRequest, error) {
	data := map[string]any{
		"uid":               create.UID,
		"creator_id":        create.CreatorID,
		"created_ts":        create.CreatedTs,
		"updated_ts":        create.UpdatedTs,
		"status":            create.Status,
		"client_first_name": create.ClientFirstName,
		"phone_number":      create.PhoneNumber,
	}
	if create.ProviderName != nil {
		data["provider_name"] = *create.ProviderName
	}
	if create.PhysicianName != nil {
		data["physician_name"] = *create.PhysicianName
	}
	if create.ResponseTimeMinutes != nil {
		data["response_time_minutes"] = *create.ResponseTimeMinutes
	}

	var row reviewRequestRow
	if err := d.client.insert(ctx, "review_request", data, &row); err != nil {
		return nil, err
	}
	return row.toStore(), nil
}

func (d *Driver) ListReviewRequests(ctx context.Context, find *store.FindReviewRequest) ([]*store.ReviewRequest, error) {
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
	if v := find.CreatedTsAfter; v != nil {
		filters["created_ts_gte"] = *v
	}
	if v := find.CreatedTsBefore; v != nil {
		filters["created_ts_lte"] = *v
	}
	if v := find.Status; v != nil {
		filters["status"] = *v
	}
	if v := find.Limit; v != nil {
		filters["limit"] = *v
	}
	if v := find.Offset; v != nil {
		filters["offset"] = *v
	}

	rows := []*reviewRequestRow{}
	if err := d.client.query(ctx, "review_request", filters, &rows); err != nil {
		return nil, err
	}
	list := make([]*store.ReviewRequest, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toStore())
	}
	return list, nil
}

func (d *Driver) UpdateReviewRequest(ctx context.Context, update *store.UpdateReviewRequest) (*store.ReviewRequest, error) {
	data := map[string]any{}
	if v := update.UpdatedTs; v != nil {
		data["updated_ts"] = *v
	}
	if v := update.Status; v != nil {
		data["status"] = *v
	}
	if v := update.ResponseTimeMinutes; v != nil {
		data["response_time_minutes"] = *v
	}
	if v := update.ProviderName; v != nil {
		data["provider_name"] = *v
	}
	if v := update.PhysicianName; v != nil {
		data["physician_name"] = *v
	}

	var row reviewRequestRow
	if err := d.client.update(ctx, "review_request", update.ID, data, &row); err != nil {
		return nil, err
	}
	return row.toStore(), nil
}

func (d *Driver) DeleteReviewRequest(ctx context.Context, delete *store.DeleteReviewRequest) error {
	return d.client.delete(ctx, "review_request", delete.ID)
}
