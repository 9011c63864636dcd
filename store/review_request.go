package store

import (
	"context"
)

// Review request status values. A request carries a single mutable status
// field that is overwritten in place as the request progresses; one row
// always represents one dispatched request.
const (
	ReviewRequestStatusSent      = "sent"
	ReviewRequestStatusClicked   = "clicked"
	ReviewRequestStatusCompleted = "completed"
	ReviewRequestStatusFailed    = "failed"
)

// ReviewRequest is the object representing one outbound review solicitation.
type ReviewRequest struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	// Status is one of the ReviewRequestStatus values. An empty status is
	// treated as sent-equivalent by consumers.
	Status string

	ClientFirstName string
	PhoneNumber     string

	// ProviderName and PhysicianName are optional display names of the staff
	// member associated with the request; which one is populated depends on
	// the account mode.
	ProviderName  *string
	PhysicianName *string

	// ResponseTimeMinutes is the elapsed time between send and completion.
	// Only present once the request reached completed status.
	ResponseTimeMinutes *float64
}

// FindReviewRequest is the find condition for review requests.
type FindReviewRequest struct {
	ID        *int32
	UID       *string
	CreatorID *int32

	// Inclusive created-time range filters (unix seconds).
	CreatedTsAfter  *int64
	CreatedTsBefore *int64

	Status *string

	Limit  *int
	Offset *int
}

// UpdateReviewRequest is the update request for a review request.
type UpdateReviewRequest struct {
	ID                  int32
	UpdatedTs           *int64
	Status              *string
	ResponseTimeMinutes *float64
	ProviderName        *string
	PhysicianName       *string
}

// DeleteReviewRequest is the delete request for a review request.
type DeleteReviewRequest struct {
	ID int32
}

// IsValidReviewRequestStatus reports whether status is a known status value.
func IsValidReviewRequestStatus(status string) bool {
	switch status {
	case ReviewRequestStatusSent, ReviewRequestStatusClicked, ReviewRequestStatusCompleted, ReviewRequestStatusFailed:
		return true
	}
	return false
}

// CreateReviewRequest logs a new review request.
func (s *Store) CreateReviewRequest(ctx context.Context, create *ReviewRequest) (*ReviewRequest, error) {
	return s.driver.CreateReviewRequest(ctx, create)
}

// ListReviewRequests lists review requests with filter.
func (s *Store) ListReviewRequests(ctx context.Context, find *FindReviewRequest) ([]*ReviewRequest, error) {
	return s.driver.ListReviewRequests(ctx, find)
}

// GetReviewRequest returns the single review request matching find, or nil.
func (s *Store) GetReviewRequest(ctx context.Context, find *FindReviewRequest) (*ReviewRequest, error) {
	list, err := s.driver.ListReviewRequests(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateReviewRequest updates a review request.
func (s *Store) UpdateReviewRequest(ctx context.Context, update *UpdateReviewRequest) (*ReviewRequest, error) {
	return s.driver.UpdateReviewRequest(ctx, update)
}

// DeleteReviewRequest deletes a review request.
func (s *Store) DeleteReviewRequest(ctx context.Context, delete *DeleteReviewRequest) error {
	return s.driver.DeleteReviewRequest(ctx, delete)
}
