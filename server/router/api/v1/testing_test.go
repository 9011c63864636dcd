package v1

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/reviewpulse/reviewpulse/internal/profile"
	"github.com/reviewpulse/reviewpulse/server/metrics"
	"github.com/reviewpulse/reviewpulse/store"
)

// fakeDriver is an in-memory store.Driver for handler tests.
type fakeDriver struct {
	users          []*store.User
	reviewRequests []*store.ReviewRequest
	providers      []*store.Provider
	sessions       []*store.Session
	subscriptions  []*store.Subscription
	nextID         int32
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{nextID: 1}
}

func (*fakeDriver) GetDB() *sql.DB { return nil }

func (*fakeDriver) Close() error { return nil }

func (*fakeDriver) IsInitialized(context.Context) (bool, error) { return true, nil }

func (d *fakeDriver) allocateID() int32 {
	id := d.nextID
	d.nextID++
	return id
}

func (d *fakeDriver) CreateUser(_ context.Context, create *store.User) (*store.User, error) {
	user := *create
	user.ID = d.allocateID()
	d.users = append(d.users, &user)
	return &user, nil
}

func (d *fakeDriver) ListUsers(_ context.Context, find *store.FindUser) ([]*store.User, error) {
	list := []*store.User{}
	for _, user := range d.users {
		if find.ID != nil && user.ID != *find.ID {
			continue
		}
		if find.UID != nil && user.UID != *find.UID {
			continue
		}
		if find.Email != nil && user.Email != *find.Email {
			continue
		}
		list = append(list, user)
		if find.Limit != nil && len(list) >= *find.Limit {
			break
		}
	}
	return list, nil
}

func (d *fakeDriver) UpdateUser(_ context.Context, update *store.UpdateUser) (*store.User, error) {
	for _, user := range d.users {
		if user.ID != update.ID {
			continue
		}
		if update.UpdatedTs != nil {
			user.UpdatedTs = *update.UpdatedTs
		}
		if update.Nickname != nil {
			user.Nickname = *update.Nickname
		}
		if update.PasswordHash != nil {
			user.PasswordHash = *update.PasswordHash
		}
		if update.BusinessName != nil {
			user.BusinessName = *update.BusinessName
		}
		if update.GoogleReviewURL != nil {
			user.GoogleReviewURL = *update.GoogleReviewURL
		}
		if update.ClinicMode != nil {
			user.ClinicMode = *update.ClinicMode
		}
		if update.OnboardingStep != nil {
			user.OnboardingStep = *update.OnboardingStep
		}
		if update.OnboardingCompleted != nil {
			user.OnboardingCompleted = *update.OnboardingCompleted
		}
		return user, nil
	}
	return nil, errors.New("user not found")
}

func (d *fakeDriver) CreateReviewRequest(_ context.Context, create *store.ReviewRequest) (*store.ReviewRequest, error) {
	reviewRequest := *create
	reviewRequest.ID = d.allocateID()
	d.reviewRequests = append(d.reviewRequests, &reviewRequest)
	return &reviewRequest, nil
}

func (d *fakeDriver) ListReviewRequests(_ context.Context, find *store.FindReviewRequest) ([]*store.ReviewRequest, error) {
	list := []*store.ReviewRequest{}
	for _, reviewRequest := range d.reviewRequests {
		if find.ID != nil && reviewRequest.ID != *find.ID {
			continue
		}
		if find.UID != nil && reviewRequest.UID != *find.UID {
			continue
		}
		if find.CreatorID != nil && reviewRequest.CreatorID != *find.CreatorID {
			continue
		}
		if find.CreatedTsAfter != nil && reviewRequest.CreatedTs < *find.CreatedTsAfter {
			continue
		}
		if find.CreatedTsBefore != nil && reviewRequest.CreatedTs > *find.CreatedTsBefore {
			continue
		}
		if find.Status != nil && reviewRequest.Status != *find.Status {
			continue
		}
		list = append(list, reviewRequest)
	}
	return list, nil
}

func (d *fakeDriver) UpdateReviewRequest(_ context.Context, update *store.UpdateReviewRequest) (*store.ReviewRequest, error) {
	for _, reviewRequest := range d.reviewRequests {
		if reviewRequest.ID != update.ID {
			continue
		}
		if update.UpdatedTs != nil {
			reviewRequest.UpdatedTs = *update.UpdatedTs
		}
		if update.Status != nil {
			reviewRequest.Status = *update.Status
		}
		if update.ResponseTimeMinutes != nil {
			reviewRequest.ResponseTimeMinutes = update.ResponseTimeMinutes
		}
		if update.ProviderName != nil {
			reviewRequest.ProviderName = update.ProviderName
		}
		if update.PhysicianName != nil {
			reviewRequest.PhysicianName = update.PhysicianName
		}
		return reviewRequest, nil
	}
	return nil, errors.New("review request not found")
}

func (d *fakeDriver) DeleteReviewRequest(_ context.Context, delete *store.DeleteReviewRequest) error {
	for i, reviewRequest := range d.reviewRequests {
		if reviewRequest.ID == delete.ID {
			d.reviewRequests = append(d.reviewRequests[:i], d.reviewRequests[i+1:]...)
			return nil
		}
	}
	return errors.New("review request not found")
}

func (d *fakeDriver) CreateProvider(_ context.Context, create *store.Provider) (*store.Provider, error) {
	provider := *create
	provider.ID = d.allocateID()
	d.providers = append(d.providers, &provider)
	return &provider, nil
}

func (d *fakeDriver) ListProviders(_ context.Context, find *store.FindProvider) ([]*store.Provider, error) {
	list := []*store.Provider{}
	for _, provider := range d.providers {
		if find.ID != nil && provider.ID != *find.ID {
			continue
		}
		if find.UID != nil && provider.UID != *find.UID {
			continue
		}
		if find.CreatorID != nil && provider.CreatorID != *find.CreatorID {
			continue
		}
		list = append(list, provider)
	}
	return list, nil
}

func (d *fakeDriver) DeleteProvider(_ context.Context, delete *store.DeleteProvider) error {
	for i, provider := range d.providers {
		if provider.ID == delete.ID {
			d.providers = append(d.providers[:i], d.providers[i+1:]...)
			return nil
		}
	}
	return errors.New("provider not found")
}

func (d *fakeDriver) CreateSession(_ context.Context, create *store.Session) (*store.Session, error) {
	session := *create
	session.ID = d.allocateID()
	d.sessions = append(d.sessions, &session)
	return &session, nil
}

func (d *fakeDriver) ListSessions(_ context.Context, find *store.FindSession) ([]*store.Session, error) {
	list := []*store.Session{}
	for _, session := range d.sessions {
		if find.CreatorID != nil && session.CreatorID != *find.CreatorID {
			continue
		}
		list = append(list, session)
	}
	return list, nil
}

func (d *fakeDriver) UpsertSubscription(_ context.Context, upsert *store.Subscription) (*store.Subscription, error) {
	for _, subscription := range d.subscriptions {
		if subscription.CreatorID == upsert.CreatorID {
			*subscription = *upsert
			return subscription, nil
		}
	}
	subscription := *upsert
	subscription.ID = d.allocateID()
	d.subscriptions = append(d.subscriptions, &subscription)
	return &subscription, nil
}

func (d *fakeDriver) GetSubscription(_ context.Context, find *store.FindSubscription) (*store.Subscription, error) {
	for _, subscription := range d.subscriptions {
		if find.CreatorID != nil && subscription.CreatorID != *find.CreatorID {
			continue
		}
		if find.CustomerID != nil && subscription.CustomerID != *find.CustomerID {
			continue
		}
		return subscription, nil
	}
	return nil, nil
}

// newTestService builds the API service on top of an in-memory store.
func newTestService(t *testing.T) (*APIV1Service, *fakeDriver) {
	t.Helper()
	driver := newFakeDriver()
	testProfile := &profile.Profile{
		Mode:                   "dev",
		Driver:                 "sqlite",
		Secret:                 "test-secret",
		PaymentsSigningSecret:  "whsec_test",
		MetricsRefreshInterval: 30 * time.Second,
	}
	st := store.New(driver, testProfile)
	collector := metrics.NewCollector(st, testProfile.MetricsRefreshInterval)
	return NewAPIV1Service(testProfile.Secret, testProfile, st, collector, nil), driver
}

// newTestContext builds an echo context for a JSON request, optionally acting
// as user.
func newTestContext(method, target, body string, user *store.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
		request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	recorder := httptest.NewRecorder()
	c := e.NewContext(request, recorder)
	if user != nil {
		c.Set(userContextKey, user)
	}
	return c, recorder
}
