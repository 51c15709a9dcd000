package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAdvanceOrderStatusCommandIsNotConstructed = errors.New(
	"AdvanceOrderStatusCommand must be created via NewAdvanceOrderStatusCommand constructor",
)

// AdvanceOrderStatusCommand moves an order one step along the automatic flow.
// Target must be InProduction, ReadyForLogistics or InLogistics; shipping
// goes through the finalize commands.
type AdvanceOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status

	guard guard.ConstructorGuard
}

func NewAdvanceOrderStatusCommand(orderID kernel.UUID, target order.Status) (AdvanceOrderStatusCommand, error) {
	cmd := AdvanceOrderStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(cmd.setOrderID(orderID), cmd.setTarget(target)); err != nil {
		return AdvanceOrderStatusCommand{}, err
	}

	return cmd, nil
}

func (c AdvanceOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderStatusCommandIsNotConstructed)
}

func (c AdvanceOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c AdvanceOrderStatusCommand) Target() order.Status { return c.target }

func (c *AdvanceOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *AdvanceOrderStatusCommand) setTarget(target order.Status) error {
	switch target {
	case order.InProduction, order.ReadyForLogistics, order.InLogistics:
		c.target = target
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("target", fmt.Errorf("%s is not reachable by advancing", target))
	}
}
