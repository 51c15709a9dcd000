package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"
)

var ErrTryFinalizeQueryIsNotConstructed = errors.New(
	"TryFinalizeQuery must be created via NewTryFinalizeQuery constructor",
)

// TryFinalizeQuery reports whether an order can take its next shipping step.
type TryFinalizeQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewTryFinalizeQuery(orderID kernel.UUID) (TryFinalizeQuery, error) {
	if err := orderID.Validate(); err != nil {
		return TryFinalizeQuery{}, err
	}
	return TryFinalizeQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q TryFinalizeQuery) Validate() error {
	return q.guard.Validate(ErrTryFinalizeQueryIsNotConstructed)
}

func (q TryFinalizeQuery) OrderID() kernel.UUID { return q.orderID }

type TryFinalizeQueryHandler struct {
	reader    OrderReader
	finalizer services.ShipmentFinalizer
}

func NewTryFinalizeQueryHandler(reader OrderReader) TryFinalizeQueryHandler {
	return TryFinalizeQueryHandler{reader: reader, finalizer: services.NewShipmentFinalizer()}
}

func (h TryFinalizeQueryHandler) Handle(ctx context.Context, query TryFinalizeQuery) (services.Readiness, error) {
	if err := query.Validate(); err != nil {
		return services.Readiness{}, err
	}

	o, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return services.Readiness{}, err
	}

	return h.finalizer.TryFinalize(o)
}
