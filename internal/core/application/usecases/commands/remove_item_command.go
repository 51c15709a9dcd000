package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrRemoveItemCommandIsNotConstructed = errors.New(
	"RemoveItemCommand must be created via NewRemoveItemCommand constructor",
)

// RemoveItemCommand deletes one unit from an order and lowers the order total
// by its unit price. Release is not re-evaluated; operators run the release
// evaluation explicitly if they want it.
type RemoveItemCommand struct {
	orderID kernel.UUID
	itemID  kernel.UUID
	guard   guard.ConstructorGuard
}

func NewRemoveItemCommand(orderID, itemID kernel.UUID) (RemoveItemCommand, error) {
	if err := errors.Join(orderID.Validate(), itemID.Validate()); err != nil {
		return RemoveItemCommand{}, err
	}
	return RemoveItemCommand{orderID: orderID, itemID: itemID, guard: guard.NewConstructorGuard()}, nil
}

func (c RemoveItemCommand) Validate() error {
	return c.guard.Validate(ErrRemoveItemCommandIsNotConstructed)
}

func (c RemoveItemCommand) OrderID() kernel.UUID { return c.orderID }
func (c RemoveItemCommand) ItemID() kernel.UUID  { return c.itemID }

type RemoveItemCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewRemoveItemCommandHandler(uowFactory OrderUoWFactory) RemoveItemCommandHandler {
	return RemoveItemCommandHandler{uowFactory: uowFactory}
}

func (h RemoveItemCommandHandler) Handle(ctx context.Context, cmd RemoveItemCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.RemoveItem(cmd.ItemID(), time.Now())
	})
}
