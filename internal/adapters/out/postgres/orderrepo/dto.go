// Package orderrepo persists the Order aggregate across three tables: orders,
// order_items and order_labels.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Items and Labels are only used for Create and
// Preload; updates of child rows go through their own statements.
type OrderDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ExternalRef  string          `gorm:"type:varchar(128);not null;uniqueIndex"`
	Status       int             `gorm:"type:smallint;not null;index"`
	Released     bool            `gorm:"not null"`
	Urgent       bool            `gorm:"not null"`
	ShippingMode int             `gorm:"type:smallint;not null"`
	TotalValue   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	ShippedAt    *time.Time
	Items        []ItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Labels       []LabelDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one unit of an order. Position keeps the aggregate's item order.
type ItemDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position        int             `gorm:"not null"`
	ProductID       string          `gorm:"type:varchar(128);not null"`
	ProductName     string          `gorm:"type:varchar(255);not null"`
	VariantID       string          `gorm:"type:varchar(128);not null;default:''"`
	VariantName     string          `gorm:"type:varchar(255);not null;default:''"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ExpectedBarcode string          `gorm:"type:varchar(64);not null;index"`
	UpsellEligible  bool            `gorm:"not null"`
	UpsellStatus    int             `gorm:"type:smallint;not null"`
	ScannedAt       *time.Time
}

func (ItemDTO) TableName() string {
	return "order_items"
}

type LabelDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Reference string    `gorm:"type:varchar(255);not null"`
	Source    int       `gorm:"type:smallint;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ViewedAt  *time.Time
}

func (LabelDTO) TableName() string {
	return "order_labels"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for pos, item := range aggregate.Items() {
		items = append(items, itemFromDomain(orderID, pos, item))
	}

	labels := make([]LabelDTO, 0, len(aggregate.Labels()))
	for _, l := range aggregate.Labels() {
		labels = append(labels, LabelDTO{
			ID:        l.ID().Bytes(),
			OrderID:   orderID,
			Reference: l.Reference(),
			Source:    int(l.Source()),
			CreatedAt: l.CreatedAt(),
			ViewedAt:  l.ViewedAt(),
		})
	}

	return OrderDTO{
		ID:           orderID,
		ExternalRef:  aggregate.ExternalRef(),
		Status:       int(aggregate.Status()),
		Released:     aggregate.Released(),
		Urgent:       aggregate.Urgent(),
		ShippingMode: int(aggregate.ShippingMode()),
		TotalValue:   aggregate.TotalValue().Decimal(),
		CreatedAt:    aggregate.CreatedAt(),
		ShippedAt:    aggregate.ShippedAt(),
		Items:        items,
		Labels:       labels,
	}
}

func itemFromDomain(orderID uuid.UUID, pos int, item *order.Item) ItemDTO {
	product := item.Product()
	return ItemDTO{
		ID:              item.ID().Bytes(),
		OrderID:         orderID,
		Position:        pos,
		ProductID:       product.ProductID(),
		ProductName:     product.ProductName(),
		VariantID:       product.VariantID(),
		VariantName:     product.VariantName(),
		UnitPrice:       item.UnitPrice().Decimal(),
		ExpectedBarcode: item.ExpectedBarcode().String(),
		UpsellEligible:  item.UpsellEligible(),
		UpsellStatus:    int(item.UpsellStatus()),
		ScannedAt:       item.ScannedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalValue)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(id, itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	labels := make([]*order.Label, 0, len(dto.Labels))
	for _, labelDTO := range dto.Labels {
		l, labelErr := labelToDomain(labelDTO)
		if labelErr != nil {
			return nil, labelErr
		}
		labels = append(labels, l)
	}

	return order.RestoreOrder(
		id,
		dto.ExternalRef,
		order.Status(dto.Status),
		dto.Released,
		dto.Urgent,
		order.ShippingMode(dto.ShippingMode),
		dto.CreatedAt,
		total,
		dto.ShippedAt,
		items,
		labels,
	)
}

func itemToDomain(orderID kernel.UUID, dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	product, err := kernel.NewProductRef(dto.ProductID, dto.ProductName, dto.VariantID, dto.VariantName)
	if err != nil {
		return nil, err
	}

	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return nil, err
	}

	barcode, err := kernel.NewBarcode(dto.ExpectedBarcode)
	if err != nil {
		return nil, err
	}

	return order.RestoreItem(
		id,
		orderID,
		product,
		price,
		barcode,
		dto.UpsellEligible,
		order.UpsellStatus(dto.UpsellStatus),
		dto.ScannedAt,
	)
}

func labelToDomain(dto LabelDTO) (*order.Label, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreLabel(id, dto.Reference, order.LabelSource(dto.Source), dto.CreatedAt, dto.ViewedAt)
}
