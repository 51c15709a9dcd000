package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrIssueCarrierLabelCommandIsNotConstructed = errors.New(
	"IssueCarrierLabelCommand must be created via NewIssueCarrierLabelCommand constructor",
)

// IssueCarrierLabelCommand requests a carrier label for a ready order and
// ships it on success.
type IssueCarrierLabelCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewIssueCarrierLabelCommand(orderID kernel.UUID) (IssueCarrierLabelCommand, error) {
	if err := orderID.Validate(); err != nil {
		return IssueCarrierLabelCommand{}, err
	}
	return IssueCarrierLabelCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c IssueCarrierLabelCommand) Validate() error {
	return c.guard.Validate(ErrIssueCarrierLabelCommandIsNotConstructed)
}

func (c IssueCarrierLabelCommand) OrderID() kernel.UUID { return c.orderID }
