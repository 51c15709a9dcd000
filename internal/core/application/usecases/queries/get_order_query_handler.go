package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

type GetOrderQueryHandler struct {
	reader OrderReader
}

func NewGetOrderQueryHandler(reader OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return toOrderResponse(o), nil
}

func toOrderResponse(o *order.Order) GetOrderQueryResponse {
	resp := GetOrderQueryResponse{
		ID:           o.ID(),
		ExternalRef:  o.ExternalRef(),
		Status:       o.Status().String(),
		Released:     o.Released(),
		Urgent:       o.Urgent(),
		ShippingMode: o.ShippingMode().String(),
		TotalValue:   o.TotalValue().String(),
		CreatedAt:    o.CreatedAt(),
		ShippedAt:    o.ShippedAt(),
		Lines:        mergeLines(o.Items()),
		Labels:       make([]OrderLabel, 0, len(o.Labels())),
	}

	for _, l := range o.Labels() {
		resp.Labels = append(resp.Labels, OrderLabel{
			ID:        l.ID(),
			Reference: l.Reference(),
			Source:    l.Source().String(),
			CreatedAt: l.CreatedAt(),
			Viewed:    l.Viewed(),
		})
	}

	for _, item := range o.PendingUpsellItems() {
		resp.PendingUpsell = append(resp.PendingUpsell, item.ID())
	}

	return resp
}

// mergeLines keeps the item order of the aggregate. A merged line sits where
// its first unit was.
func mergeLines(items []*order.Item) []OrderLine {
	lines := make([]OrderLine, 0, len(items))
	merged := make(map[string]int)

	for _, item := range items {
		if !item.UpsellEligible() {
			key := item.Product().LineKey() + "|" + item.UnitPrice().String()
			if idx, ok := merged[key]; ok {
				lines[idx].ItemIDs = append(lines[idx].ItemIDs, item.ID())
				lines[idx].Quantity++
				if item.Scanned() {
					lines[idx].Scanned++
				}
				continue
			}
			merged[key] = len(lines)
		}

		line := OrderLine{
			ItemIDs:         []kernel.UUID{item.ID()},
			ProductID:       item.Product().ProductID(),
			ProductName:     item.Product().ProductName(),
			VariantID:       item.Product().VariantID(),
			VariantName:     item.Product().VariantName(),
			UnitPrice:       item.UnitPrice().String(),
			Quantity:        1,
			ExpectedBarcode: item.ExpectedBarcode().String(),
			UpsellEligible:  item.UpsellEligible(),
			UpsellStatus:    item.UpsellStatus().String(),
		}
		if item.Scanned() {
			line.Scanned = 1
		}
		lines = append(lines, line)
	}

	return lines
}
