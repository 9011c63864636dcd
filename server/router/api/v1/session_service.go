package v1

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/reviewpulse/reviewpulse/store"
)

type createSessionRequest struct {
	ClientFirstName string  `json:"clientFirstName"`
	PhoneNumber     string  `json:"phoneNumber"`
	ProviderUID     *string `json:"providerUid"`
}

type sessionResponse struct {
	UID           string                 `json:"uid"`
	CreatedTs     int64                  `json:"createdTs"`
	ReviewRequest *reviewRequestResponse `json:"reviewRequest"`
}

// CreateSession records one intake form submission and opens the linked
// review request that the delivery automation picks up.
func (s *APIV1Service) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	request := &createSessionRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if request.ClientFirstName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "clientFirstName is required")
	}
	if request.PhoneNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "phoneNumber is required")
	}

	var provider *store.Provider
	if request.ProviderUID != nil && *request.ProviderUID != "" {
		found, err := s.Store.GetProvider(ctx, &store.FindProvider{
			UID:       request.ProviderUID,
			CreatorID: &user.ID,
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up provider").SetInternal(err)
		}
		if found == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown provider")
		}
		provider = found
	}

	now := time.Now().Unix()
	session := &store.Session{
		UID:             uuid.NewString(),
		CreatorID:       user.ID,
		CreatedTs:       now,
		ClientFirstName: request.ClientFirstName,
		PhoneNumber:     request.PhoneNumber,
	}
	if provider != nil {
		session.ProviderID = &provider.ID
	}
	session, err := s.Store.CreateSession(ctx, session)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create session").SetInternal(err)
	}

	reviewRequest := &store.ReviewRequest{
		UID:             uuid.NewString(),
		CreatorID:       user.ID,
		CreatedTs:       now,
		UpdatedTs:       now,
		Status:          store.ReviewRequestStatusSent,
		ClientFirstName: request.ClientFirstName,
		PhoneNumber:     request.PhoneNumber,
	}
	if provider != nil {
		// Clinic accounts attribute requests to the treating physician;
		// everyone else to the provider column.
		if user.ClinicMode {
			reviewRequest.PhysicianName = &provider.Name
		} else {
			reviewRequest.ProviderName = &provider.Name
		}
	}
	reviewRequest, err = s.Store.CreateReviewRequest(ctx, reviewRequest)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create review request").SetInternal(err)
	}

	return c.JSON(http.StatusOK, &sessionResponse{
		UID:           session.UID,
		CreatedTs:     session.CreatedTs,
		ReviewRequest: toReviewRequestResponse(reviewRequest),
	})
}
