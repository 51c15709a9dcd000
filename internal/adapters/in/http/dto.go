package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/shopspring/decimal"
)

type createOrderRequest struct {
	ExternalRef  string          `json:"externalRef"`
	Urgent       bool            `json:"urgent"`
	ShippingMode string          `json:"shippingMode"`
	CreatedAt    time.Time       `json:"createdAt"`
	Lines        []orderLineJSON `json:"lines"`
}

type orderLineJSON struct {
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	VariantID       string          `json:"variantId"`
	VariantName     string          `json:"variantName"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	ExpectedBarcode string          `json:"expectedBarcode"`
	UpsellEligible  bool            `json:"upsellEligible"`
	Quantity        int             `json:"quantity"`
}

func (r createOrderRequest) lines() []commands.OrderLine {
	out := make([]commands.OrderLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		out = append(out, commands.OrderLine{
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			VariantID:       l.VariantID,
			VariantName:     l.VariantName,
			UnitPrice:       l.UnitPrice,
			ExpectedBarcode: l.ExpectedBarcode,
			UpsellEligible:  l.UpsellEligible,
			Quantity:        l.Quantity,
		})
	}
	return out
}

type createOrderResponse struct {
	OrderID string `json:"orderId"`
	Created bool   `json:"created"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type upsellRequest struct {
	Decision      string          `json:"decision"`
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	VariantID     string          `json:"variantId"`
	VariantName   string          `json:"variantName"`
	PriceDelta    decimal.Decimal `json:"priceDelta"`
	CapturedAt    time.Time       `json:"capturedAt"`
	PaymentMethod string          `json:"paymentMethod"`
}

type upsellResponse struct {
	OrderID      string `json:"orderId"`
	ItemID       string `json:"itemId"`
	UpsellStatus string `json:"upsellStatus"`
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	VariantID    string `json:"variantId,omitempty"`
	VariantName  string `json:"variantName,omitempty"`
	UnitPrice    string `json:"unitPrice"`
	TotalValue   string `json:"totalValue"`
	Released     bool   `json:"released"`
	AutoReleased bool   `json:"autoReleased"`
}

func toUpsellResponse(res commands.ResolveUpsellResult) upsellResponse {
	product := res.Item.Product()
	return upsellResponse{
		OrderID:      res.OrderID.String(),
		ItemID:       res.Item.ID().String(),
		UpsellStatus: res.Item.UpsellStatus().String(),
		ProductID:    product.ProductID(),
		ProductName:  product.ProductName(),
		VariantID:    product.VariantID(),
		VariantName:  product.VariantName(),
		UnitPrice:    res.Item.UnitPrice().String(),
		TotalValue:   res.TotalValue.String(),
		Released:     res.Released,
		AutoReleased: res.AutoReleased,
	}
}

type releaseResponse struct {
	Released     bool `json:"released"`
	AutoReleased bool `json:"autoReleased"`
}

type barcodeRequest struct {
	Barcode string `json:"barcode"`
}

type scanResponse struct {
	OrderID string `json:"orderId"`
	ItemID  string `json:"itemId"`
}

type precheckResponse struct {
	ItemID         string `json:"itemId"`
	Matches        bool   `json:"matches"`
	AlreadyScanned bool   `json:"alreadyScanned"`
}

type uploadLabelRequest struct {
	Reference string `json:"reference"`
}

// orderSummary is returned by commands that change an order.
type orderSummary struct {
	ID           string      `json:"id"`
	ExternalRef  string      `json:"externalRef"`
	Status       string      `json:"status"`
	Released     bool        `json:"released"`
	Urgent       bool        `json:"urgent"`
	ShippingMode string      `json:"shippingMode"`
	TotalValue   string      `json:"totalValue"`
	ItemCount    int         `json:"itemCount"`
	Unscanned    int         `json:"unscanned"`
	ShippedAt    *time.Time  `json:"shippedAt,omitempty"`
	Labels       []labelJSON `json:"labels"`
}

type labelJSON struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	Viewed    bool      `json:"viewed"`
}

func toOrderSummary(o *order.Order) orderSummary {
	labels := make([]labelJSON, 0, len(o.Labels()))
	for _, l := range o.Labels() {
		labels = append(labels, labelJSON{
			ID:        l.ID().String(),
			Reference: l.Reference(),
			Source:    l.Source().String(),
			CreatedAt: l.CreatedAt(),
			Viewed:    l.Viewed(),
		})
	}

	return orderSummary{
		ID:           o.ID().String(),
		ExternalRef:  o.ExternalRef(),
		Status:       o.Status().String(),
		Released:     o.Released(),
		Urgent:       o.Urgent(),
		ShippingMode: o.ShippingMode().String(),
		TotalValue:   o.TotalValue().String(),
		ItemCount:    len(o.Items()),
		Unscanned:    o.UnscannedCount(),
		ShippedAt:    o.ShippedAt(),
		Labels:       labels,
	}
}

type orderDetails struct {
	ID            string          `json:"id"`
	ExternalRef   string          `json:"externalRef"`
	Status        string          `json:"status"`
	Released      bool            `json:"released"`
	Urgent        bool            `json:"urgent"`
	ShippingMode  string          `json:"shippingMode"`
	TotalValue    string          `json:"totalValue"`
	CreatedAt     time.Time       `json:"createdAt"`
	ShippedAt     *time.Time      `json:"shippedAt,omitempty"`
	Lines         []orderLineView `json:"lines"`
	Labels        []labelJSON     `json:"labels"`
	PendingUpsell []string        `json:"pendingUpsell"`
}

type orderLineView struct {
	ItemIDs         []string `json:"itemIds"`
	ProductID       string   `json:"productId"`
	ProductName     string   `json:"productName"`
	VariantID       string   `json:"variantId,omitempty"`
	VariantName     string   `json:"variantName,omitempty"`
	UnitPrice       string   `json:"unitPrice"`
	Quantity        int      `json:"quantity"`
	Scanned         int      `json:"scanned"`
	ExpectedBarcode string   `json:"expectedBarcode"`
	UpsellEligible  bool     `json:"upsellEligible"`
	UpsellStatus    string   `json:"upsellStatus"`
}

func toOrderDetails(r queries.GetOrderQueryResponse) orderDetails {
	lines := make([]orderLineView, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, orderLineView{
			ItemIDs:         uuidStrings(l.ItemIDs),
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			VariantID:       l.VariantID,
			VariantName:     l.VariantName,
			UnitPrice:       l.UnitPrice,
			Quantity:        l.Quantity,
			Scanned:         l.Scanned,
			ExpectedBarcode: l.ExpectedBarcode,
			UpsellEligible:  l.UpsellEligible,
			UpsellStatus:    l.UpsellStatus,
		})
	}

	labels := make([]labelJSON, 0, len(r.Labels))
	for _, l := range r.Labels {
		labels = append(labels, labelJSON{
			ID:        l.ID.String(),
			Reference: l.Reference,
			Source:    l.Source,
			CreatedAt: l.CreatedAt,
			Viewed:    l.Viewed,
		})
	}

	return orderDetails{
		ID:            r.ID.String(),
		ExternalRef:   r.ExternalRef,
		Status:        r.Status,
		Released:      r.Released,
		Urgent:        r.Urgent,
		ShippingMode:  r.ShippingMode,
		TotalValue:    r.TotalValue,
		CreatedAt:     r.CreatedAt,
		ShippedAt:     r.ShippedAt,
		Lines:         lines,
		Labels:        labels,
		PendingUpsell: uuidStrings(r.PendingUpsell),
	}
}

type readinessResponse struct {
	OrderID        string   `json:"orderId"`
	Status         string   `json:"status"`
	ShippingMode   string   `json:"shippingMode"`
	Released       bool     `json:"released"`
	Ready          bool     `json:"ready"`
	ItemCount      int      `json:"itemCount"`
	Unscanned      int      `json:"unscanned"`
	UploadedLabels int      `json:"uploadedLabels"`
	UnviewedLabels []string `json:"unviewedLabels"`
	CanIssueLabel  bool     `json:"canIssueLabel"`
	CanMarkShipped bool     `json:"canMarkShipped"`
	Blocker        string   `json:"blocker,omitempty"`
}

func toReadinessResponse(r services.Readiness) readinessResponse {
	return readinessResponse{
		OrderID:        r.OrderID.String(),
		Status:         r.Status.String(),
		ShippingMode:   r.Mode.String(),
		Released:       r.Released,
		Ready:          r.Ready,
		ItemCount:      r.ItemCount,
		Unscanned:      r.Unscanned,
		UploadedLabels: r.UploadedLabels,
		UnviewedLabels: uuidStrings(r.UnviewedLabels),
		CanIssueLabel:  r.CanIssueLabel,
		CanMarkShipped: r.CanMarkShipped,
		Blocker:        r.Blocker,
	}
}

type queueEntry struct {
	OrderID      string    `json:"orderId"`
	ExternalRef  string    `json:"externalRef"`
	Urgent       bool      `json:"urgent"`
	Released     bool      `json:"released"`
	ShippingMode string    `json:"shippingMode"`
	CreatedAt    time.Time `json:"createdAt"`
	ItemCount    int       `json:"itemCount"`
	Unscanned    int       `json:"unscanned"`
}

type upsellReportRow struct {
	Decision   string `json:"decision"`
	Count      int    `json:"count"`
	TotalDelta string `json:"totalDelta"`
}

func uuidStrings(ids []kernel.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
