package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"
)

var ErrEvaluateReleaseCommandIsNotConstructed = errors.New(
	"EvaluateReleaseCommand must be created via NewEvaluateReleaseCommand constructor",
)

// EvaluateReleaseCommand re-runs the auto-release rule for an order.
type EvaluateReleaseCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewEvaluateReleaseCommand(orderID kernel.UUID) (EvaluateReleaseCommand, error) {
	if err := orderID.Validate(); err != nil {
		return EvaluateReleaseCommand{}, err
	}
	return EvaluateReleaseCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c EvaluateReleaseCommand) Validate() error {
	return c.guard.Validate(ErrEvaluateReleaseCommandIsNotConstructed)
}

func (c EvaluateReleaseCommand) OrderID() kernel.UUID { return c.orderID }

// EvaluateReleaseCommandHandler writes the order only when the flag flips.
type EvaluateReleaseCommandHandler struct {
	uowFactory OrderUoWFactory
	gate       services.ReleaseGate
}

func NewEvaluateReleaseCommandHandler(uowFactory OrderUoWFactory) EvaluateReleaseCommandHandler {
	return EvaluateReleaseCommandHandler{uowFactory: uowFactory, gate: services.NewReleaseGate()}
}

func (h EvaluateReleaseCommandHandler) Handle(ctx context.Context, cmd EvaluateReleaseCommand) (services.ReleaseOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return services.ReleaseOutcome{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.ReleaseOutcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return services.ReleaseOutcome{}, err
	}

	outcome, err := h.gate.Evaluate(o, time.Now())
	if err != nil {
		return services.ReleaseOutcome{}, err
	}

	if !outcome.AutoReleased {
		return outcome, nil
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return services.ReleaseOutcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.ReleaseOutcome{}, err
	}

	return outcome, nil
}
