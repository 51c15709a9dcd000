package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkLabelViewedCommandIsNotConstructed = errors.New(
	"MarkLabelViewedCommand must be created via NewMarkLabelViewedCommand constructor",
)

// MarkLabelViewedCommand records that the operator opened an uploaded label.
type MarkLabelViewedCommand struct {
	orderID kernel.UUID
	labelID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewMarkLabelViewedCommand(orderID, labelID kernel.UUID) (MarkLabelViewedCommand, error) {
	if err := errors.Join(orderID.Validate(), labelID.Validate()); err != nil {
		return MarkLabelViewedCommand{}, err
	}
	return MarkLabelViewedCommand{orderID: orderID, labelID: labelID, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkLabelViewedCommand) Validate() error {
	return c.guard.Validate(ErrMarkLabelViewedCommandIsNotConstructed)
}

func (c MarkLabelViewedCommand) OrderID() kernel.UUID { return c.orderID }
func (c MarkLabelViewedCommand) LabelID() kernel.UUID { return c.labelID }

type MarkLabelViewedCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewMarkLabelViewedCommandHandler(uowFactory OrderUoWFactory) MarkLabelViewedCommandHandler {
	return MarkLabelViewedCommandHandler{uowFactory: uowFactory}
}

func (h MarkLabelViewedCommandHandler) Handle(ctx context.Context, cmd MarkLabelViewedCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.MarkLabelViewed(cmd.LabelID(), time.Now())
	})
}
