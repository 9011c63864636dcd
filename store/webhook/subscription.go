package webhook

import (
	"context"

	"github.com/reviewpulse/reviewpulse/store"
)

type subscriptionRow struct {
	ID               int32  `json:"id"`
	CreatorID        int32  `json:"creator_id"`
	UpdatedTs        int64  `json:"updated_ts"`
	CustomerID       string `json:"customer_id"`
	SubscriptionID   string `json:"subscription_id"`
	PlanID           string `json:"plan_id"`
	Status           string `json:"status"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
}

func (r *subscriptionRow) toStore() *store.Subscription {
	return &store.Subscription{
		ID:               r.ID,
		CreatorID:        r.CreatorID,
		UpdatedTs:        r.UpdatedTs,
		CustomerID:       r.CustomerID,
		SubscriptionID:   r.SubscriptionID,
		PlanID:           r.PlanID,
		Status:           r.Status,
		CurrentPeriodEnd: r.CurrentPeriodEnd,
	}
}

func (d *Driver) UpsertSubscription(ctx context.Context, upsert *store.Subscription) (*store.Subscription, error) {
	data := map[string]any{
		"creator_id":         upsert.CreatorID,
		"updated_ts":         upsert.UpdatedTs,
		"customer_id":        upsert.CustomerID,
		"subscription_id":    upsert.SubscriptionID,
		"plan_id":            upsert.PlanID,
		"status":             upsert.Status,
		"current_period_end": upsert.CurrentPeriodEnd,
	}

	var row subscriptionRow
	if err := d.client.upsert(ctx, "subscription", data, &row); err != nil {
		return nil, err
	}
	return row.toStore(), nil
}

func (d *Driver) GetSubscription(ctx context.Context, find *store.FindSubscription) (*store.Subscription, error) {
	filters := map[string]any{}
	if v := find.CreatorID; v != nil {
		filters["creator_id"] = *v
	}
	if v := find.CustomerID; v != nil {
		filters["customer_id"] = *v
	}

	rows := []*subscriptionRow{}
	if err := d.client.query(ctx, "subscription", filters, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toStore(), nil
}
