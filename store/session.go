package store

import (
	"context"
)

// Session is one submission of the chat-like session form. Each session
// produces a corresponding review request; the session row keeps the raw
// intake data.
type Session struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64

	ClientFirstName string
	PhoneNumber     string
	ProviderID      *int32
}

// FindSession is the find condition for sessions.
type FindSession struct {
	ID        *int32
	UID       *string
	CreatorID *int32

	Limit  *int
	Offset *int
}

// CreateSession records a new session.
func (s *Store) CreateSession(ctx context.Context, create *Session) (*Session, error) {
	return s.driver.CreateSession(ctx, create)
}

// ListSessions lists sessions with filter.
func (s *Store) ListSessions(ctx context.Context, find *FindSession) ([]*Session, error) {
	return s.driver.ListSessions(ctx, find)
}
