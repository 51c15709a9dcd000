package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// AdvanceOrderStatusCommandHandler applies a production or logistics step.
type AdvanceOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewAdvanceOrderStatusCommandHandler(uowFactory OrderUoWFactory) AdvanceOrderStatusCommandHandler {
	return AdvanceOrderStatusCommandHandler{uowFactory: uowFactory}
}

func (h AdvanceOrderStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		now := time.Now()
		switch cmd.Target() {
		case order.InProduction:
			return o.StartProduction(now)
		case order.ReadyForLogistics:
			return o.MarkReadyForLogistics(now)
		default:
			return o.StartLogistics(now)
		}
	})
}
