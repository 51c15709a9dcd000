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

var ErrManualReleaseCommandIsNotConstructed = errors.New(
	"ManualReleaseCommand must be created via NewManualReleaseCommand constructor",
)

// ManualReleaseCommand is the operator's explicit release request.
type ManualReleaseCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewManualReleaseCommand(orderID kernel.UUID) (ManualReleaseCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ManualReleaseCommand{}, err
	}
	return ManualReleaseCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ManualReleaseCommand) Validate() error {
	return c.guard.Validate(ErrManualReleaseCommandIsNotConstructed)
}

func (c ManualReleaseCommand) OrderID() kernel.UUID { return c.orderID }

// ManualReleaseCommandHandler returns errs.BlockedError with the pending
// items while eligible items are still awaiting a decision.
type ManualReleaseCommandHandler struct {
	uowFactory OrderUoWFactory
	gate       services.ReleaseGate
}

func NewManualReleaseCommandHandler(uowFactory OrderUoWFactory) ManualReleaseCommandHandler {
	return ManualReleaseCommandHandler{uowFactory: uowFactory, gate: services.NewReleaseGate()}
}

func (h ManualReleaseCommandHandler) Handle(ctx context.Context, cmd ManualReleaseCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return h.gate.Release(o, time.Now())
	})
}
