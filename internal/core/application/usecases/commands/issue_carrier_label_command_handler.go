package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// IssueCarrierLabelCommandHandler runs the carrier integrated shipping path.
//
// The order is checked before the carrier is called, so no label is bought
// for an order that cannot ship. The carrier call happens outside the
// transaction; the order is then locked, checked again and shipped. A
// carrier failure is returned as errs.ExternalServiceError, leaves the order
// InLogistics and is not retried.
type IssueCarrierLabelCommandHandler struct {
	uowFactory OrderUoWFactory
	provider   ports.LabelProvider
	finalizer  services.ShipmentFinalizer
}

func NewIssueCarrierLabelCommandHandler(uowFactory OrderUoWFactory, provider ports.LabelProvider) IssueCarrierLabelCommandHandler {
	return IssueCarrierLabelCommandHandler{
		uowFactory: uowFactory,
		provider:   provider,
		finalizer:  services.NewShipmentFinalizer(),
	}
}

func (h IssueCarrierLabelCommandHandler) Handle(ctx context.Context, cmd IssueCarrierLabelCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.finalizer.CheckCarrierLabel(snapshot); err != nil {
		return nil, err
	}

	issued, err := h.provider.IssueLabel(ctx, ports.LabelRequest{
		OrderID:     snapshot.ID(),
		ExternalRef: snapshot.ExternalRef(),
		ItemCount:   len(snapshot.Items()),
		TotalValue:  snapshot.TotalValue().String(),
	})
	if err != nil {
		if !errors.Is(err, errs.ErrExternalService) {
			err = errs.NewExternalServiceError("carrier", err)
		}
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		_, shipErr := h.finalizer.ShipWithCarrierLabel(o, kernel.NewUUID(), issued.Reference, time.Now())
		return shipErr
	})
}
