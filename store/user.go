package store

import (
	"context"
)

// User is the object representing an account.
type User struct {
	ID           int32
	UID          string
	CreatedTs    int64
	UpdatedTs    int64
	Email        string
	Nickname     string
	PasswordHash string

	// Business profile fields collected during onboarding.
	BusinessName    string
	GoogleReviewURL string

	// ClinicMode enables the provider directory and per-provider attribution.
	ClinicMode bool

	// Onboarding wizard state. OnboardingStep holds the named wizard state
	// (see server/onboarding); it is persisted so the wizard resumes where
	// the user left off.
	OnboardingStep      string
	OnboardingCompleted bool
}

// FindUser is the find condition for users.
type FindUser struct {
	ID    *int32
	UID   *string
	Email *string

	Limit *int
}

// UpdateUser is the update request for a user.
type UpdateUser struct {
	ID                  int32
	UpdatedTs           *int64
	Nickname            *string
	PasswordHash        *string
	BusinessName        *string
	GoogleReviewURL     *string
	ClinicMode          *bool
	OnboardingStep      *string
	OnboardingCompleted *bool
}

// CreateUser creates a new user.
func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	return s.driver.CreateUser(ctx, create)
}

// ListUsers lists users with filter.
func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns the single user matching find, or nil when absent.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateUser updates a user.
func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	return s.driver.UpdateUser(ctx, update)
}
