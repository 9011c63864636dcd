package v1

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/reviewpulse/reviewpulse/store"
)

type createProviderRequest struct {
	Name string `json:"name"`
}

type providerResponse struct {
	UID       string `json:"uid"`
	CreatedTs int64  `json:"createdTs"`
	Name      string `json:"name"`
}

func toProviderResponse(p *store.Provider) *providerResponse {
	return &providerResponse{
		UID:       p.UID,
		CreatedTs: p.CreatedTs,
		Name:      p.Name,
	}
}

func (s *APIV1Service) ListProviders(c echo.Context) error {
	user := currentUser(c)
	list, err := s.Store.ListProviders(c.Request().Context(), &store.FindProvider{CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list providers").SetInternal(err)
	}

	response := make([]*providerResponse, 0, len(list))
	for _, provider := range list {
		response = append(response, toProviderResponse(provider))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) CreateProvider(c echo.Context) error {
	user := currentUser(c)
	request := &createProviderRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if request.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	provider, err := s.Store.CreateProvider(c.Request().Context(), &store.Provider{
		UID:       uuid.NewString(),
		CreatorID: user.ID,
		CreatedTs: time.Now().Unix(),
		Name:      request.Name,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create provider").SetInternal(err)
	}
	return c.JSON(http.StatusOK, toProviderResponse(provider))
}

func (s *APIV1Service) DeleteProvider(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	uid := c.Param("uid")

	provider, err := s.Store.GetProvider(ctx, &store.FindProvider{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to find provider").SetInternal(err)
	}
	if provider == nil {
		return echo.NewHTTPError(http.StatusNotFound, "provider not found")
	}

	if err := s.Store.DeleteProvider(ctx, &store.DeleteProvider{ID: provider.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete provider").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}
