package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/reviewpulse/reviewpulse/server/onboarding"
)

type onboardingInputRequest struct {
	BusinessName    *string `json:"businessName"`
	GoogleReviewURL *string `json:"googleReviewUrl"`
}

func (r *onboardingInputRequest) toInput() *onboarding.Input {
	return &onboarding.Input{
		BusinessName:    r.BusinessName,
		GoogleReviewURL: r.GoogleReviewURL,
	}
}

func (s *APIV1Service) GetOnboarding(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Onboarding.StateFor(currentUser(c)))
}

func (s *APIV1Service) AdvanceOnboarding(c echo.Context) error {
	request := &onboardingInputRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	state, err := s.Onboarding.Advance(c.Request().Context(), currentUser(c), request.toInput())
	if err != nil {
		return onboardingError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func (s *APIV1Service) BackOnboarding(c echo.Context) error {
	state, err := s.Onboarding.Back(c.Request().Context(), currentUser(c))
	if err != nil {
		return onboardingError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func (s *APIV1Service) SkipOnboarding(c echo.Context) error {
	state, err := s.Onboarding.Skip(c.Request().Context(), currentUser(c))
	if err != nil {
		return onboardingError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func (s *APIV1Service) CompleteOnboarding(c echo.Context) error {
	request := &onboardingInputRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	state, err := s.Onboarding.Complete(c.Request().Context(), currentUser(c), request.toInput())
	if err != nil {
		return onboardingError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func onboardingError(err error) error {
	switch {
	case errors.Is(err, onboarding.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, onboarding.ErrBusinessNameRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update onboarding").SetInternal(err)
	}
}
