package store

import (
	"context"
)

// Provider is a staff member or business unit that review requests can be
// attributed to. Only meaningful for clinic-mode accounts.
type Provider struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	Name      string
}

// FindProvider is the find condition for providers.
type FindProvider struct {
	ID        *int32
	UID       *string
	CreatorID *int32
}

// DeleteProvider is the delete request for a provider.
type DeleteProvider struct {
	ID int32
}

// CreateProvider creates a new provider.
func (s *Store) CreateProvider(ctx context.Context, create *Provider) (*Provider, error) {
	return s.driver.CreateProvider(ctx, create)
}

// ListProviders lists providers with filter.
func (s *Store) ListProviders(ctx context.Context, find *FindProvider) ([]*Provider, error) {
	return s.driver.ListProviders(ctx, find)
}

// GetProvider returns the single provider matching find, or nil.
func (s *Store) GetProvider(ctx context.Context, find *FindProvider) (*Provider, error) {
	list, err := s.driver.ListProviders(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// DeleteProvider deletes a provider.
func (s *Store) DeleteProvider(ctx context.Context, delete *DeleteProvider) error {
	return s.driver.DeleteProvider(ctx, delete)
}
