package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/reviewpulse/reviewpulse/store"
)

func (d *DB) UpsertSubscription(ctx context.Context, upsert *store.Subscription) (*store.Subscription, error) {
	fields := []string{"creator_id", "updated_ts", "customer_id", "subscription_id", "plan_id", "status", "current_period_end"}
	args := []any{upsert.CreatorID, upsert.UpdatedTs, upsert.CustomerID, upsert.SubscriptionID, upsert.PlanID, upsert.Status, upsert.CurrentPeriodEnd}

	stmt := `INSERT INTO subscription (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		ON CONFLICT (creator_id) DO UPDATE SET
			updated_ts = EXCLUDED.updated_ts,
			customer_id = EXCLUDED.customer_id,
			subscription_id = EXCLUDED.subscription_id,
			plan_id = EXCLUDED.plan_id,
			status = EXCLUDED.status,
			current_period_end = EXCLUDED.current_period_end
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&upsert.ID); err != nil {
		return nil, fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return upsert, nil
}

func (d *DB) GetSubscription(ctx context.Context, find *store.FindSubscription) (*store.Subscription, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.CreatorID; v != nil {
		where, args = append(where, "subscription.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CustomerID; v != nil {
		where, args = append(where, "subscription.customer_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, creator_id, updated_ts, customer_id, subscription_id, plan_id, status, current_period_end
		FROM subscription
		WHERE ` + strings.Join(where, " AND ") + ` LIMIT 1`

	var subscription store.Subscription
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&subscription.ID,
		&subscription.CreatorID,
		&subscription.UpdatedTs,
		&subscription.CustomerID,
		&subscription.SubscriptionID,
		&subscription.PlanID,
		&subscription.Status,
		&subscription.CurrentPeriodEnd,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return &subscription, nil
}
