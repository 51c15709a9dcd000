package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MaxUnitsPerLine caps the quantity of a single order line.
const MaxUnitsPerLine = 500

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderLine is one line of an incoming order. Quantity is expanded into that
// many single-unit items.
type OrderLine struct {
	ProductID       string
	ProductName     string
	VariantID       string
	VariantName     string
	UnitPrice       decimal.Decimal
	ExpectedBarcode string
	UpsellEligible  bool
	Quantity        int
}

type unitSpec struct {
	product  kernel.ProductRef
	price    kernel.Money
	barcode  kernel.Barcode
	eligible bool
}

// CreateOrderCommand registers an order received from the commerce platform
// or entered by an operator.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "SHOP-1001", false, order.CarrierIntegrated, time.Now(),
//	    []OrderLine{{ProductID: "desk", ProductName: "Desk", UnitPrice: decimal.NewFromInt(120),
//	        ExpectedBarcode: "400123", UpsellEligible: true, Quantity: 2}})
//	if err != nil {
//	    return fmt.Errorf("invalid order: %w", err)
//	}
//	res, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	externalRef string
	urgent      bool
	mode        order.ShippingMode
	createdAt   time.Time
	units       []unitSpec

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	orderID kernel.UUID,
	externalRef string,
	urgent bool,
	mode order.ShippingMode,
	createdAt time.Time,
	lines []OrderLine,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		urgent:    urgent,
		createdAt: createdAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}
	if createdAt.IsZero() {
		cmd.createdAt = time.Now().UTC()
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setExternalRef(externalRef),
		cmd.setMode(mode),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID             { return c.orderID }
func (c CreateOrderCommand) ExternalRef() string              { return c.externalRef }
func (c CreateOrderCommand) Urgent() bool                     { return c.urgent }
func (c CreateOrderCommand) ShippingMode() order.ShippingMode { return c.mode }
func (c CreateOrderCommand) CreatedAt() time.Time             { return c.createdAt }

// UnitCount is the number of items the order will have.
func (c CreateOrderCommand) UnitCount() int {
	return len(c.units)
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setExternalRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errs.NewValueIsRequiredError("externalRef")
	}
	c.externalRef = ref
	return nil
}

func (c *CreateOrderCommand) setMode(mode order.ShippingMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	c.mode = mode
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	var errList []error
	for i, line := range lines {
		if line.Quantity < 1 || line.Quantity > MaxUnitsPerLine {
			errList = append(errList, errs.NewValueIsOutOfRangeError(
				fmt.Sprintf("lines[%d].quantity", i), line.Quantity, 1, MaxUnitsPerLine))
			continue
		}
		product, errProduct := kernel.NewProductRef(line.ProductID, line.ProductName, line.VariantID, line.VariantName)
		price, errPrice := kernel.NewMoney(line.UnitPrice)
		barcode, errBarcode := kernel.NewBarcode(line.ExpectedBarcode)
		if err := errors.Join(errProduct, errPrice, errBarcode); err != nil {
			errList = append(errList, fmt.Errorf("lines[%d]: %w", i, err))
			continue
		}
		for range line.Quantity {
			c.units = append(c.units, unitSpec{product: product, price: price, barcode: barcode, eligible: line.UpsellEligible})
		}
	}
	return errors.Join(errList...)
}

// buildItems creates one fresh Item per unit.
func (c CreateOrderCommand) buildItems() ([]*order.Item, error) {
	items := make([]*order.Item, 0, len(c.units))
	for _, u := range c.units {
		item, err := order.NewItem(kernel.NewUUID(), u.product, u.price, u.barcode, u.eligible)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
