package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrReturnOrderCommandIsNotConstructed = errors.New(
	"ReturnOrderCommand must be created via NewReturnOrderCommand constructor",
)

// ReturnOrderCommand marks an order as returned. Shipped orders may be returned too.
type ReturnOrderCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewReturnOrderCommand(orderID kernel.UUID) (ReturnOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ReturnOrderCommand{}, err
	}
	return ReturnOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ReturnOrderCommand) Validate() error {
	return c.guard.Validate(ErrReturnOrderCommandIsNotConstructed)
}

func (c ReturnOrderCommand) OrderID() kernel.UUID { return c.orderID }

type ReturnOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewReturnOrderCommandHandler(uowFactory OrderUoWFactory) ReturnOrderCommandHandler {
	return ReturnOrderCommandHandler{uowFactory: uowFactory}
}

func (h ReturnOrderCommandHandler) Handle(ctx context.Context, cmd ReturnOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.Return(time.Now())
	})
}
