package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/upsell"

	"github.com/labstack/echo/v4"
)

func (r upsellRequest) resolution() (upsell.Resolution, error) {
	decision, err := upsell.ParseDecision(r.Decision)
	if err != nil {
		return upsell.Resolution{}, err
	}
	if decision == upsell.Keep {
		return upsell.NewKeepResolution(), nil
	}

	target, err := kernel.NewProductRef(r.ProductID, r.ProductName, r.VariantID, r.VariantName)
	if err != nil {
		return upsell.Resolution{}, err
	}
	if decision == upsell.Upgrade {
		return upsell.NewUpgradeResolution(target, r.PriceDelta, r.CapturedAt, r.PaymentMethod)
	}
	return upsell.NewFreeUpgradeResolution(target)
}

// ResolveUpsell handles POST /api/v1/items/:id/upsell.
func (s *Server) ResolveUpsell(c echo.Context) error {
	itemID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req upsellRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	resolution, err := req.resolution()
	if err != nil {
		return err
	}

	cmd, err := commands.NewResolveUpsellCommand(itemID, operatorID(c), resolution)
	if err != nil {
		return err
	}

	res, err := s.h.ResolveUpsell.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	s.metrics.decided(resolution.Decision().String())
	if res.AutoReleased {
		s.metrics.released("auto")
	}
	return c.JSON(http.StatusOK, toUpsellResponse(res))
}

// EvaluateRelease handles POST /api/v1/orders/:id/release/evaluate.
func (s *Server) EvaluateRelease(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewEvaluateReleaseCommand(id)
	if err != nil {
		return err
	}

	outcome, err := s.h.EvaluateRelease.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	if outcome.AutoReleased {
		s.metrics.released("auto")
	}
	return c.JSON(http.StatusOK, releaseResponse{Released: outcome.Released, AutoReleased: outcome.AutoReleased})
}

// ManualRelease handles POST /api/v1/orders/:id/release. While eligible
// items await a decision it answers 423 with the pending items.
func (s *Server) ManualRelease(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewManualReleaseCommand(id)
	if err != nil {
		return err
	}

	o, err := s.h.ManualRelease.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	s.metrics.released("manual")
	return c.JSON(http.StatusOK, toOrderSummary(o))
}
