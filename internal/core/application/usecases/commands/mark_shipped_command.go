package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkShippedCommandIsNotConstructed = errors.New(
	"MarkShippedCommand must be created via NewMarkShippedCommand constructor",
)

// MarkShippedCommand ships a manually labeled order. It succeeds only when
// every item is scanned and every uploaded label has been viewed.
type MarkShippedCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewMarkShippedCommand(orderID kernel.UUID) (MarkShippedCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkShippedCommand{}, err
	}
	return MarkShippedCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkShippedCommand) Validate() error {
	return c.guard.Validate(ErrMarkShippedCommandIsNotConstructed)
}

func (c MarkShippedCommand) OrderID() kernel.UUID { return c.orderID }

type MarkShippedCommandHandler struct {
	uowFactory OrderUoWFactory
	finalizer  services.ShipmentFinalizer
}

func NewMarkShippedCommandHandler(uowFactory OrderUoWFactory) MarkShippedCommandHandler {
	return MarkShippedCommandHandler{uowFactory: uowFactory, finalizer: services.NewShipmentFinalizer()}
}

func (h MarkShippedCommandHandler) Handle(ctx context.Context, cmd MarkShippedCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return h.finalizer.ShipManually(o, time.Now())
	})
}
