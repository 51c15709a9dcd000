package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func uuidParam(c echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param(name))
}

func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return nil
}

func operatorID(c echo.Context) string {
	return c.Request().Header.Get(OperatorHeader)
}

// CreateOrder handles POST /api/v1/orders. Re-submitting a known external
// reference returns the existing order with 200.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	mode, err := order.ParseShippingMode(req.ShippingMode)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), req.ExternalRef, req.Urgent, mode, req.CreatedAt, req.lines())
	if err != nil {
		return err
	}

	res, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, createOrderResponse{OrderID: res.OrderID.String(), Created: res.Created})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}

	res, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderDetails(res))
}

// AdvanceOrderStatus handles POST /api/v1/orders/:id/status with the next
// lifecycle status as target.
func (s *Server) AdvanceOrderStatus(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req statusRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(id, target)
	if err != nil {
		return err
	}

	o, err := s.h.AdvanceOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderSummary(o))
}

func (s *Server) CancelOrder(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(id)
	if err != nil {
		return err
	}

	o, err := s.h.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderSummary(o))
}

func (s *Server) ReturnOrder(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewReturnOrderCommand(id)
	if err != nil {
		return err
	}

	o, err := s.h.ReturnOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderSummary(o))
}

// OverrideStatus handles POST /api/v1/orders/:id/override. The operator is
// taken from the X-Operator-ID header.
func (s *Server) OverrideStatus(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req statusRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewOverrideStatusCommand(id, target, operatorID(c))
	if err != nil {
		return err
	}

	o, err := s.h.OverrideStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderSummary(o))
}

// RemoveItem handles DELETE /api/v1/orders/:id/items/:itemId.
func (s *Server) RemoveItem(c echo.Context) error {
	orderID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	itemID, err := uuidParam(c, "itemId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewRemoveItemCommand(orderID, itemID)
	if err != nil {
		return err
	}

	o, err := s.h.RemoveItem.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderSummary(o))
}
