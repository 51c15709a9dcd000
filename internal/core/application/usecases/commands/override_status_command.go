package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrOverrideStatusCommandIsNotConstructed = errors.New(
	"OverrideStatusCommand must be created via NewOverrideStatusCommand constructor",
)

// OverrideStatusCommand forces an order into any status. It is an explicit
// operator correction and bypasses the automatic flow, except that Shipped
// still needs a released order.
type OverrideStatusCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	target     order.Status
	operatorID string

	guard guard.ConstructorGuard
}

func NewOverrideStatusCommand(orderID kernel.UUID, target order.Status, operatorID string) (OverrideStatusCommand, error) {
	var errOperator error
	if strings.TrimSpace(operatorID) == "" {
		errOperator = errs.NewValueIsRequiredError("operatorId")
	}
	if err := errors.Join(orderID.Validate(), target.Validate(), errOperator); err != nil {
		return OverrideStatusCommand{}, err
	}
	return OverrideStatusCommand{
		orderID:    orderID,
		target:     target,
		operatorID: operatorID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c OverrideStatusCommand) Validate() error {
	return c.guard.Validate(ErrOverrideStatusCommandIsNotConstructed)
}

func (c OverrideStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c OverrideStatusCommand) Target() order.Status { return c.target }
func (c OverrideStatusCommand) OperatorID() string   { return c.operatorID }

type OverrideStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewOverrideStatusCommandHandler(uowFactory OrderUoWFactory) OverrideStatusCommandHandler {
	return OverrideStatusCommandHandler{uowFactory: uowFactory}
}

func (h OverrideStatusCommandHandler) Handle(ctx context.Context, cmd OverrideStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.OverrideStatus(cmd.Target(), time.Now())
	})
}
