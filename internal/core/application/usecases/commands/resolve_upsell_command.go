package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/upsell"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrResolveUpsellCommandIsNotConstructed = errors.New(
	"ResolveUpsellCommand must be created via NewResolveUpsellCommand constructor",
)

// ResolveUpsellCommand records the up-sell decision for one item.
//
// Example:
//
//	target, _ := kernel.NewProductRef("desk-pro", "Desk Pro", "walnut", "Walnut")
//	resolution, _ := upsell.NewUpgradeResolution(target, decimal.RequireFromString("15.00"), capturedAt, "card")
//	cmd, err := NewResolveUpsellCommand(itemID, "operator-7", resolution)
type ResolveUpsellCommand struct { //nolint:recvcheck //using for validation
	itemID     kernel.UUID
	operatorID string
	resolution upsell.Resolution

	guard guard.ConstructorGuard
}

func NewResolveUpsellCommand(itemID kernel.UUID, operatorID string, resolution upsell.Resolution) (ResolveUpsellCommand, error) {
	cmd := ResolveUpsellCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setItemID(itemID),
		cmd.setOperatorID(operatorID),
		cmd.setResolution(resolution),
	); err != nil {
		return ResolveUpsellCommand{}, err
	}

	return cmd, nil
}

func (c ResolveUpsellCommand) Validate() error {
	return c.guard.Validate(ErrResolveUpsellCommandIsNotConstructed)
}

func (c ResolveUpsellCommand) ItemID() kernel.UUID           { return c.itemID }
func (c ResolveUpsellCommand) OperatorID() string            { return c.operatorID }
func (c ResolveUpsellCommand) Resolution() upsell.Resolution { return c.resolution }

func (c *ResolveUpsellCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	c.itemID = itemID
	return nil
}

func (c *ResolveUpsellCommand) setOperatorID(operatorID string) error {
	if strings.TrimSpace(operatorID) == "" {
		return errs.NewValueIsRequiredError("operatorId")
	}
	c.operatorID = operatorID
	return nil
}

func (c *ResolveUpsellCommand) setResolution(resolution upsell.Resolution) error {
	if err := resolution.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("decision", err)
	}
	c.resolution = resolution
	return nil
}
