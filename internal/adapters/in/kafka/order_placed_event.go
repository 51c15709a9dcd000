// Package kafka ingests orders placed on the commerce platform from a Kafka
// topic.
package kafka

import (
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderPlacedEvent is the payload of the order-placed topic.
type OrderPlacedEvent struct {
	EventID      string            `json:"eventId"`
	OrderRef     string            `json:"orderRef"`
	Urgent       bool              `json:"urgent"`
	ShippingMode string            `json:"shippingMode"`
	PlacedAt     time.Time         `json:"placedAt"`
	Lines        []OrderPlacedLine `json:"lines"`
}

type OrderPlacedLine struct {
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	VariantID      string          `json:"variantId"`
	VariantName    string          `json:"variantName"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Barcode        string          `json:"barcode"`
	UpsellEligible bool            `json:"upsellEligible"`
	Quantity       int             `json:"quantity"`
}

// dedupKey falls back to the order reference for producers that send no
// event id.
func (e OrderPlacedEvent) dedupKey() string {
	if e.EventID != "" {
		return e.EventID
	}
	return "ref:" + e.OrderRef
}

func (e OrderPlacedEvent) toCommand() (commands.CreateOrderCommand, error) {
	mode, err := order.ParseShippingMode(e.ShippingMode)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	lines := make([]commands.OrderLine, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, commands.OrderLine{
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			VariantID:       l.VariantID,
			VariantName:     l.VariantName,
			UnitPrice:       l.UnitPrice,
			ExpectedBarcode: l.Barcode,
			UpsellEligible:  l.UpsellEligible,
			Quantity:        l.Quantity,
		})
	}

	return commands.NewCreateOrderCommand(kernel.NewUUID(), e.OrderRef, e.Urgent, mode, e.PlacedAt, lines)
}
