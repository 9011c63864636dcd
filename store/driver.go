package store

import (
	"context"
	"database/sql"
)

// Driver is the interface every datastore backend implements. It contains
// all methods the store facade delegates to. The same interface is backed by
// direct SQL drivers (sqlite, postgres) and by the automation-platform
// webhook transport, selected by configuration at construction time.
type Driver interface {
	// GetDB returns the underlying SQL handle, or nil for backends that do
	// not own a local database (the webhook transport).
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)

	// ReviewRequest model related methods.
	CreateReviewRequest(ctx context.Context, create *ReviewRequest) (*ReviewRequest, error)
	ListReviewRequests(ctx context.Context, find *FindReviewRequest) ([]*ReviewRequest, error)
	UpdateReviewRequest(ctx context.Context, update *UpdateReviewRequest) (*ReviewRequest, error)
	DeleteReviewRequest(ctx context.Context, delete *DeleteReviewRequest) error

	// Provider model related methods.
	CreateProvider(ctx context.Context, create *Provider) (*Provider, error)
	ListProviders(ctx context.Context, find *FindProvider) ([]*Provider, error)
	DeleteProvider(ctx context.Context, delete *DeleteProvider) error

	// Session model related methods.
	CreateSession(ctx context.Context, create *Session) (*Session, error)
	ListSessions(ctx context.Context, find *FindSession) ([]*Session, error)

	// Subscription model related methods.
	UpsertSubscription(ctx context.Context, upsert *Subscription) (*Subscription, error)
	GetSubscription(ctx context.Context, find *FindSubscription) (*Subscription, error)
}
