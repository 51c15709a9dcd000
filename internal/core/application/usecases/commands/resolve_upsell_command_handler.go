package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/upsell"
	"fulfillment/internal/core/domain/services"
)

// ResolveUpsellResult carries the updated item and order figures.
type ResolveUpsellResult struct {
	OrderID      kernel.UUID
	Item         *order.Item
	TotalValue   kernel.Money
	Released     bool
	AutoReleased bool
}

// ResolveUpsellCommandHandler applies an up-sell decision and then re-runs the
// auto-release check.
//
// Within one transaction it:
//   - locks the owning order
//   - applies the decision and writes the order
//   - appends the decision to the up-sell metrics
//   - reloads the order, so the release check sees the state just written
//     and not the copy the decision was applied to
//   - evaluates auto-release and writes the order again if it flipped
//
// Any failure rolls the whole resolution back.
type ResolveUpsellCommandHandler struct {
	uowFactory UpsellUoWFactory
	gate       services.ReleaseGate
}

func NewResolveUpsellCommandHandler(uowFactory UpsellUoWFactory) ResolveUpsellCommandHandler {
	return ResolveUpsellCommandHandler{
		uowFactory: uowFactory,
		gate:       services.NewReleaseGate(),
	}
}

func (h ResolveUpsellCommandHandler) Handle(ctx context.Context, cmd ResolveUpsellCommand) (ResolveUpsellResult, error) {
	if err := cmd.Validate(); err != nil {
		return ResolveUpsellResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ResolveUpsellResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	metricRepo := uow.UpsellMetricRepository()
	now := time.Now()

	orderID, err := orderRepo.FindOrderIDByItem(ctx, cmd.ItemID())
	if err != nil {
		return ResolveUpsellResult{}, err
	}

	o, err := orderRepo.GetForUpdate(ctx, orderID)
	if err != nil {
		return ResolveUpsellResult{}, err
	}

	resolved, err := o.ResolveUpsell(cmd.ItemID(), cmd.Resolution(), now)
	if err != nil {
		return ResolveUpsellResult{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return ResolveUpsellResult{}, err
	}

	metric, err := upsell.NewMetric(
		kernel.NewUUID(),
		o.ID(),
		o.ExternalRef(),
		cmd.ItemID(),
		cmd.OperatorID(),
		resolved.From,
		resolved.Item.Product(),
		resolved.Decision,
		resolved.Delta,
		cmd.Resolution().Payment(),
		now,
	)
	if err != nil {
		return ResolveUpsellResult{}, err
	}
	if err = metricRepo.Append(ctx, metric); err != nil {
		return ResolveUpsellResult{}, err
	}

	fresh, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return ResolveUpsellResult{}, err
	}

	outcome, err := h.gate.Evaluate(fresh, now)
	if err != nil {
		return ResolveUpsellResult{}, err
	}
	if outcome.AutoReleased {
		if err = orderRepo.Update(ctx, fresh); err != nil {
			return ResolveUpsellResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return ResolveUpsellResult{}, err
	}

	item, err := fresh.Item(cmd.ItemID())
	if err != nil {
		return ResolveUpsellResult{}, err
	}

	return ResolveUpsellResult{
		OrderID:      fresh.ID(),
		Item:         item,
		TotalValue:   fresh.TotalValue(),
		Released:     outcome.Released,
		AutoReleased: outcome.AutoReleased,
	}, nil
}
