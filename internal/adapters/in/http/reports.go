package http

import (
	"net/http"
	"strconv"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const defaultQueueLimit = 100

// GetLogisticsQueue handles GET /api/v1/logistics/queue?limit=N.
func (s *Server) GetLogisticsQueue(c echo.Context) error {
	limit := defaultQueueLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("limit", err)
		}
		limit = n
	}

	query, err := queries.NewGetLogisticsQueueQuery(limit)
	if err != nil {
		return err
	}

	rows, err := s.h.GetLogisticsQueue.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]queueEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, queueEntry{
			OrderID:      r.OrderID.String(),
			ExternalRef:  r.ExternalRef,
			Urgent:       r.Urgent,
			Released:     r.Released,
			ShippingMode: r.ShippingMode,
			CreatedAt:    r.CreatedAt,
			ItemCount:    r.ItemCount,
			Unscanned:    r.Unscanned,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GetUpsellReport handles GET /api/v1/reports/upsell?from=RFC3339&to=RFC3339.
func (s *Server) GetUpsellReport(c echo.Context) error {
	from, err := timeParam(c, "from")
	if err != nil {
		return err
	}
	to, err := timeParam(c, "to")
	if err != nil {
		return err
	}

	query, err := queries.NewGetUpsellReportQuery(from, to)
	if err != nil {
		return err
	}

	rows, err := s.h.GetUpsellReport.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]upsellReportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, upsellReportRow{Decision: r.Decision, Count: r.Count, TotalDelta: r.TotalDelta})
	}
	return c.JSON(http.StatusOK, out)
}

func timeParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, errs.NewValueIsRequiredError(name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return t, nil
}
