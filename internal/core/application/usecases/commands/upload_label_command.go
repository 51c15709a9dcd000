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

var ErrUploadLabelCommandIsNotConstructed = errors.New(
	"UploadLabelCommand must be created via NewUploadLabelCommand constructor",
)

// UploadLabelCommand attaches a label artifact, already stored elsewhere, to a
// manually labeled order.
type UploadLabelCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	labelID   kernel.UUID
	reference string

	guard guard.ConstructorGuard
}

func NewUploadLabelCommand(orderID, labelID kernel.UUID, reference string) (UploadLabelCommand, error) {
	var errRef error
	if strings.TrimSpace(reference) == "" {
		errRef = errs.NewValueIsRequiredError("reference")
	}
	if err := errors.Join(orderID.Validate(), labelID.Validate(), errRef); err != nil {
		return UploadLabelCommand{}, err
	}
	return UploadLabelCommand{
		orderID:   orderID,
		labelID:   labelID,
		reference: reference,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UploadLabelCommand) Validate() error {
	return c.guard.Validate(ErrUploadLabelCommandIsNotConstructed)
}

func (c UploadLabelCommand) OrderID() kernel.UUID { return c.orderID }
func (c UploadLabelCommand) LabelID() kernel.UUID { return c.labelID }
func (c UploadLabelCommand) Reference() string    { return c.reference }

type UploadLabelCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewUploadLabelCommandHandler(uowFactory OrderUoWFactory) UploadLabelCommandHandler {
	return UploadLabelCommandHandler{uowFactory: uowFactory}
}

func (h UploadLabelCommandHandler) Handle(ctx context.Context, cmd UploadLabelCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		_, err := o.AttachUploadedLabel(cmd.LabelID(), cmd.Reference(), time.Now())
		return err
	})
}
