package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// CreateOrderResult tells the caller which order holds the external reference.
// Created is false when the reference had already been ingested.
type CreateOrderResult struct {
	OrderID kernel.UUID
	Created bool
}

// CreateOrderCommandHandler creates orders with one item per physical unit.
// Eligible items start Awaiting an up-sell decision. Ingesting the same
// external reference twice returns the existing order instead of a copy.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	existing, err := orderRepo.GetByExternalRef(ctx, cmd.ExternalRef())
	if err == nil {
		return CreateOrderResult{OrderID: existing.ID()}, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return CreateOrderResult{}, err
	}

	items, err := cmd.buildItems()
	if err != nil {
		return CreateOrderResult{}, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.ExternalRef(), cmd.Urgent(), cmd.ShippingMode(), cmd.CreatedAt(), items)
	if err != nil {
		return CreateOrderResult{}, err
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	return CreateOrderResult{OrderID: o.ID(), Created: true}, nil
}
