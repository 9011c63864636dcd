package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reviewpulse/reviewpulse/internal/profile"
	"github.com/reviewpulse/reviewpulse/store"
)

// recordedRequest captures what the driver sent to the fake endpoint.
type recordedRequest struct {
	action  string
	table   string
	id      string
	filters map[string]any
	data    map[string]any
	header  string
}

func newFakeEndpoint(t *testing.T, respond any) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	requests := &[]recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		recorded := recordedRequest{
			action: query.Get("action"),
			table:  query.Get("table"),
			id:     query.Get("id"),
			header: r.Header.Get("X-Auth"),
		}
		if raw := query.Get("filters"); raw != "" {
			require.NoError(t, json.Unmarshal([]byte(raw), &recorded.filters))
		}
		if raw := query.Get("data"); raw != "" {
			require.NoError(t, json.Unmarshal([]byte(raw), &recorded.data))
		}
		*requests = append(*requests, recorded)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(respond))
	}))
	t.Cleanup(server.Close)
	return server, requests
}

func newTestDriver(t *testing.T, url string) store.Driver {
	t.Helper()
	driver, err := NewDriver(&profile.Profile{
		WebhookURL:        url,
		WebhookAuthHeader: "X-Auth",
		WebhookAuthToken:  "token-123",
	})
	require.NoError(t, err)
	return driver
}

func TestNewDriverRequiresURL(t *testing.T) {
	_, err := NewDriver(&profile.Profile{})
	require.Error(t, err)
}

func TestDriverHasNoLocalDatabase(t *testing.T) {
	driver := newTestDriver(t, "http://example.invalid/webhook")
	require.Nil(t, driver.GetDB())

	initialized, err := driver.IsInitialized(context.Background())
	require.NoError(t, err)
	require.True(t, initialized)
}

func TestListReviewRequests(t *testing.T) {
	responseTime := 12.5
	server, requests := newFakeEndpoint(t, []*reviewRequestRow{
		{
			ID:                  7,
			UID:                 "abc",
			CreatorID:           1,
			CreatedTs:           1700000000,
			Status:              store.ReviewRequestStatusCompleted,
			ClientFirstName:     "Dana",
			PhoneNumber:         "+15550100",
			ResponseTimeMinutes: &responseTime,
		},
	})
	driver := newTestDriver(t, server.URL)

	creatorID := int32(1)
	after := int64(1690000000)
	list, err := driver.ListReviewRequests(context.Background(), &store.FindReviewRequest{
		CreatorID:      &creatorID,
		CreatedTsAfter: &after,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "abc", list[0].UID)
	require.Equal(t, store.ReviewRequestStatusCompleted, list[0].Status)
	require.NotNil(t, list[0].ResponseTimeMinutes)

	require.Len(t, *requests, 1)
	recorded := (*requests)[0]
	require.Equal(t, "query", recorded.action)
	require.Equal(t, "review_request", recorded.table)
	require.Equal(t, "token-123", recorded.header)
	// JSON numbers decode as float64 in the untyped map.
	require.Equal(t, float64(1), recorded.filters["creator_id"])
	require.Equal(t, float64(1690000000), recorded.filters["created_ts_gte"])
}

func TestCreateReviewRequest(t *testing.T) {
	server, requests := newFakeEndpoint(t, &reviewRequestRow{ID: 9, UID: "abc", Status: store.ReviewRequestStatusSent})
	driver := newTestDriver(t, server.URL)

	providerName := "North Clinic"
	created, err := driver.CreateReviewRequest(context.Background(), &store.ReviewRequest{
		UID:             "abc",
		CreatorID:       1,
		Status:          store.ReviewRequestStatusSent,
		ClientFirstName: "Dana",
		PhoneNumber:     "+15550100",
		ProviderName:    &providerName,
	})
	require.NoError(t, err)
	require.Equal(t, int32(9), created.ID)

	recorded := (*requests)[0]
	require.Equal(t, "insert", recorded.action)
	require.Equal(t, "North Clinic", recorded.data["provider_name"])
	// Absent optional fields stay out of the payload entirely.
	require.NotContains(t, recorded.data, "physician_name")
}

func TestUpdateReviewRequest(t *testing.T) {
	server, requests := newFakeEndpoint(t, &reviewRequestRow{ID: 9, Status: store.ReviewRequestStatusClicked})
	driver := newTestDriver(t, server.URL)

	status := store.ReviewRequestStatusClicked
	updated, err := driver.UpdateReviewRequest(context.Background(), &store.UpdateReviewRequest{
		ID:     9,
		Status: &status,
	})
	require.NoError(t, err)
	require.Equal(t, store.ReviewRequestStatusClicked, updated.Status)

	recorded := (*requests)[0]
	require.Equal(t, "update", recorded.action)
	require.Equal(t, "9", recorded.id)
	require.Equal(t, store.ReviewRequestStatusClicked, recorded.data["status"])
}

func TestDeleteReviewRequest(t *testing.T) {
	server, requests := newFakeEndpoint(t, map[string]any{"ok": true})
	driver := newTestDriver(t, server.URL)

	err := driver.DeleteReviewRequest(context.Background(), &store.DeleteReviewRequest{ID: 9})
	require.NoError(t, err)
	require.Equal(t, "delete", (*requests)[0].action)
	require.Equal(t, "9", (*requests)[0].id)
}

func TestRequestFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "workflow failed", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)
	driver := newTestDriver(t, server.URL)

	_, err := driver.ListReviewRequests(context.Background(), &store.FindReviewRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}
