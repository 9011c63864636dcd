package v1

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/reviewpulse/reviewpulse/store"
)

type createReviewRequestRequest struct {
	ClientFirstName string  `json:"clientFirstName"`
	PhoneNumber     string  `json:"phoneNumber"`
	ProviderName    *string `json:"providerName"`
	PhysicianName   *string `json:"physicianName"`
}

type updateReviewRequestRequest struct {
	Status              *string  `json:"status"`
	ResponseTimeMinutes *float64 `json:"responseTimeMinutes"`
}

type reviewRequestResponse struct {
	UID                 string   `json:"uid"`
	CreatedTs           int64    `json:"createdTs"`
	Status              string   `json:"status"`
	ClientFirstName     string   `json:"clientFirstName"`
	PhoneNumber         string   `json:"phoneNumber"`
	ProviderName        *string  `json:"providerName"`
	PhysicianName       *string  `json:"physicianName"`
	ResponseTimeMinutes *float64 `json:"responseTimeMinutes"`
}

func toReviewRequestResponse(r *store.ReviewRequest) *reviewRequestResponse {
	return &reviewRequestResponse{
		UID:                 r.UID,
		CreatedTs:           r.CreatedTs,
		Status:              r.Status,
		ClientFirstName:     r.ClientFirstName,
		PhoneNumber:         r.PhoneNumber,
		ProviderName:        r.ProviderName,
		PhysicianName:       r.PhysicianName,
		ResponseTimeMinutes: r.ResponseTimeMinutes,
	}
}

func (s *APIV1Service) ListReviewRequests(c echo.Context) error {
	user := currentUser(c)
	find := &store.FindReviewRequest{CreatorID: &user.ID}

	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from parameter")
		}
		after := from.Unix()
		find.CreatedTsAfter = &after
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to parameter")
		}
		before := to.Unix()
		find.CreatedTsBefore = &before
	}

	list, err := s.Store.ListReviewRequests(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list review requests").SetInternal(err)
	}

	response := make([]*reviewRequestResponse, 0, len(list))
	for _, reviewRequest := range list {
		response = append(response, toReviewRequestResponse(reviewRequest))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) CreateReviewRequest(c echo.Context) error {
	user := currentUser(c)
	request := &createReviewRequestRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if request.ClientFirstName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "clientFirstName is required")
	}
	if request.PhoneNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "phoneNumber is required")
	}

	now := time.Now().Unix()
	reviewRequest, err := s.Store.CreateReviewRequest(c.Request().Context(), &store.ReviewRequest{
		UID:             uuid.NewString(),
		CreatorID:       user.ID,
		CreatedTs:       now,
		UpdatedTs:       now,
		Status:          store.ReviewRequestStatusSent,
		ClientFirstName: request.ClientFirstName,
		PhoneNumber:     request.PhoneNumber,
		ProviderName:    request.ProviderName,
		PhysicianName:   request.PhysicianName,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create review request").SetInternal(err)
	}
	return c.JSON(http.StatusOK, toReviewRequestResponse(reviewRequest))
}

func (s *APIV1Service) UpdateReviewRequest(c echo.Context) error {
	user := currentUser(c)
	request := &updateReviewRequestRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	reviewRequest, err := s.findOwnedReviewRequest(c, user.ID)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	update := &store.UpdateReviewRequest{
		ID:                  reviewRequest.ID,
		UpdatedTs:           &now,
		ResponseTimeMinutes: request.ResponseTimeMinutes,
	}
	if request.Status != nil {
		if !store.IsValidReviewRequestStatus(*request.Status) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
		}
		update.Status = request.Status

		// The upstream automation usually reports the response time along
		// with completion; when it does not, derive it from the send time.
		if *request.Status == store.ReviewRequestStatusCompleted &&
			request.ResponseTimeMinutes == nil && reviewRequest.ResponseTimeMinutes == nil {
			elapsed := float64(now-reviewRequest.CreatedTs) / 60
			update.ResponseTimeMinutes = &elapsed
		}
	}

	updated, err := s.Store.UpdateReviewRequest(c.Request().Context(), update)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update review request").SetInternal(err)
	}
	return c.JSON(http.StatusOK, toReviewRequestResponse(updated))
}

func (s *APIV1Service) DeleteReviewRequest(c echo.Context) error {
	user := currentUser(c)
	reviewRequest, err := s.findOwnedReviewRequest(c, user.ID)
	if err != nil {
		return err
	}

	if err := s.Store.DeleteReviewRequest(c.Request().Context(), &store.DeleteReviewRequest{ID: reviewRequest.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete review request").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) findOwnedReviewRequest(c echo.Context, creatorID int32) (*store.ReviewRequest, error) {
	uid := c.Param("uid")
	reviewRequest, err := s.Store.GetReviewRequest(c.Request().Context(), &store.FindReviewRequest{
		UID:       &uid,
		CreatorID: &creatorID,
	})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to find review request").SetInternal(err)
	}
	if reviewRequest == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "review request not found")
	}
	return reviewRequest, nil
}
