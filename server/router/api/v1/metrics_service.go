package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/reviewpulse/reviewpulse/server/metrics"
)

// GetMetrics serves the dashboard metrics for the authenticated account.
// The range query parameter names the window ("24h", "7d", "30d", "90d",
// "1y" or "custom"); custom ranges take RFC3339 from/to parameters.
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	user := currentUser(c)
	kind, custom, err := parseRangeQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := s.Collector.Get(c.Request().Context(), user.ID, kind, custom, time.Now())
	if err != nil {
		if errors.Is(err, metrics.ErrInvalidWindow) {
			return echo.NewHTTPError(http.StatusBadRequest, "range end precedes range start")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute metrics").SetInternal(err)
	}
	return c.JSON(http.StatusOK, result)
}

// ExportMetrics serves the CSV download of the same window.
func (s *APIV1Service) ExportMetrics(c echo.Context) error {
	user := currentUser(c)
	kind, custom, err := parseRangeQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := s.Collector.Get(c.Request().Context(), user.ID, kind, custom, time.Now())
	if err != nil {
		if errors.Is(err, metrics.ErrInvalidWindow) {
			return echo.NewHTTPError(http.StatusBadRequest, "range end precedes range start")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute metrics").SetInternal(err)
	}

	filename := fmt.Sprintf("review-requests-%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv", []byte(result.CSV(kind)))
}

// parseRangeQuery reads the range selection from query parameters. An empty
// range defaults to 7d via the resolver's fallback.
func parseRangeQuery(c echo.Context) (metrics.RangeKind, *metrics.Window, error) {
	kind := metrics.RangeKind(c.QueryParam("range"))
	if kind != metrics.RangeCustom {
		return kind, nil, nil
	}

	custom := &metrics.Window{}
	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return kind, nil, errors.Errorf("invalid from parameter %q", raw)
		}
		custom.From = from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return kind, nil, errors.Errorf("invalid to parameter %q", raw)
		}
		custom.To = to
	}
	return kind, custom, nil
}
