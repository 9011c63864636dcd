package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/reviewpulse/reviewpulse/store"
)

func TestCreateSession(t *testing.T) {
	t.Run("opens a review request alongside the session", func(t *testing.T) {
		service, driver := newTestService(t)
		driver.providers = []*store.Provider{
			{ID: 1, UID: "prov-1", CreatorID: 1, Name: "North Clinic"},
		}

		c, recorder := newTestContext(http.MethodPost, "/api/v1/sessions",
			`{"clientFirstName":"Dana","phoneNumber":"+15550100","providerUid":"prov-1"}`,
			&store.User{ID: 1})
		require.NoError(t, service.CreateSession(c))
		require.Equal(t, http.StatusOK, recorder.Code)

		response := &sessionResponse{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), response))
		require.NotEmpty(t, response.UID)
		require.NotNil(t, response.ReviewRequest)
		require.Equal(t, store.ReviewRequestStatusSent, response.ReviewRequest.Status)
		require.NotNil(t, response.ReviewRequest.ProviderName)
		require.Equal(t, "North Clinic", *response.ReviewRequest.ProviderName)

		require.Len(t, driver.sessions, 1)
		require.NotNil(t, driver.sessions[0].ProviderID)
		require.Len(t, driver.reviewRequests, 1)
	})

	t.Run("clinic mode attributes the physician", func(t *testing.T) {
		service, driver := newTestService(t)
		driver.providers = []*store.Provider{
			{ID: 1, UID: "prov-1", CreatorID: 1, Name: "Dr. Lee"},
		}

		c, recorder := newTestContext(http.MethodPost, "/api/v1/sessions",
			`{"clientFirstName":"Dana","phoneNumber":"+15550100","providerUid":"prov-1"}`,
			&store.User{ID: 1, ClinicMode: true})
		require.NoError(t, service.CreateSession(c))

		response := &sessionResponse{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), response))
		require.Nil(t, response.ReviewRequest.ProviderName)
		require.NotNil(t, response.ReviewRequest.PhysicianName)
		require.Equal(t, "Dr. Lee", *response.ReviewRequest.PhysicianName)
	})

	t.Run("unknown provider is rejected", func(t *testing.T) {
		service, _ := newTestService(t)

		c, _ := newTestContext(http.MethodPost, "/api/v1/sessions",
			`{"clientFirstName":"Dana","phoneNumber":"+15550100","providerUid":"missing"}`,
			&store.User{ID: 1})
		err := service.CreateSession(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("no provider is fine", func(t *testing.T) {
		service, driver := newTestService(t)

		c, _ := newTestContext(http.MethodPost, "/api/v1/sessions",
			`{"clientFirstName":"Dana","phoneNumber":"+15550100"}`, &store.User{ID: 1})
		require.NoError(t, service.CreateSession(c))
		require.Len(t, driver.reviewRequests, 1)
		require.Nil(t, driver.reviewRequests[0].ProviderName)
		require.Nil(t, driver.reviewRequests[0].PhysicianName)
	})
}
