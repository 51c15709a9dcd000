package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// TryFinalize handles GET /api/v1/orders/:id/finalize.
func (s *Server) TryFinalize(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewTryFinalizeQuery(id)
	if err != nil {
		return err
	}

	readiness, err := s.h.TryFinalize.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReadinessResponse(readiness))
}

// IssueCarrierLabel handles POST /api/v1/orders/:id/labels/issue. A carrier
// failure answers 502 and leaves the order InLogistics.
func (s *Server) IssueCarrierLabel(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewIssueCarrierLabelCommand(id)
	if err != nil {
		return err
	}

	o, err := s.h.IssueCarrierLabel.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderSummary(o))
}

// UploadLabel handles POST /api/v1/orders/:id/labels.
func (s *Server) UploadLabel(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req uploadLabelRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewUploadLabelCommand(id, kernel.NewUUID(), req.Reference)
	if err != nil {
		return err
	}

	o, err := s.h.UploadLabel.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderSummary(o))
}

// MarkLabelViewed handles POST /api/v1/orders/:id/labels/:labelId/viewed.
func (s *Server) MarkLabelViewed(c echo.Context) error {
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	labelID, err := uuidParam(c, "labelId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkLabelViewedCommand(orderID, labelID)
	if err != nil {
		return err
	}

	o, err := s.h.MarkLabelViewed.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderSummary(o))
}

// MarkShipped handles POST /api/v1/orders/:id/ship for manually labeled orders.
func (s *Server) MarkShipped(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkShippedCommand(id)
	if err != nil {
		return err
	}

	o, err := s.h.MarkShipped.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderSummary(o))
}
