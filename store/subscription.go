package store

import (
	"context"
)

// Subscription mirrors the payment processor's view of an account's plan.
// One row per account, upserted from webhook events; the processor remains
// the source of truth.
type Subscription struct {
	ID        int32
	CreatorID int32
	UpdatedTs int64

	CustomerID       string
	SubscriptionID   string
	PlanID           string
	Status           string
	CurrentPeriodEnd int64
}

// FindSubscription is the find condition for subscriptions.
type FindSubscription struct {
	CreatorID  *int32
	CustomerID *string
}

// UpsertSubscription creates or replaces the account's subscription row.
func (s *Store) UpsertSubscription(ctx context.Context, upsert *Subscription) (*Subscription, error) {
	return s.driver.UpsertSubscription(ctx, upsert)
}

// GetSubscription returns the subscription matching find, or nil.
func (s *Store) GetSubscription(ctx context.Context, find *FindSubscription) (*Subscription, error) {
	return s.driver.GetSubscription(ctx, find)
}
