package kernel

import (
	"errors"

	"fulfillment/internal/pkg/errs"
)

var ErrProductRefIsNotConstructed = errors.New("ProductRef must be created via NewProductRef")

// ProductRef identifies what a line item is: a catalog product and, optionally,
// one of its variants. Names are denormalized for pending-item lists and
// reports. An empty variant ID means the product has no variant.
type ProductRef struct {
	productID     string
	productName   string
	variantID     string
	variantName   string
	isConstructed bool
}

func NewProductRef(productID, productName, variantID, variantName string) (ProductRef, error) {
	if productID == "" {
		return ProductRef{}, errs.NewValueIsRequiredError("productId")
	}
	if productName == "" {
		return ProductRef{}, errs.NewValueIsRequiredError("productName")
	}
	if variantID == "" && variantName != "" {
		return ProductRef{}, errs.NewValueIsRequiredError("variantId")
	}
	return ProductRef{
		productID:     productID,
		productName:   productName,
		variantID:     variantID,
		variantName:   variantName,
		isConstructed: true,
	}, nil
}

func (p ProductRef) ProductID() string   { return p.productID }
func (p ProductRef) ProductName() string { return p.productName }
func (p ProductRef) VariantID() string   { return p.variantID }
func (p ProductRef) VariantName() string { return p.variantName }

// HasVariant reports whether a variant is selected.
func (p ProductRef) HasVariant() bool {
	return p.variantID != ""
}

// SameLine reports whether both references point at the same product line,
// ignoring display names.
func (p ProductRef) SameLine(other ProductRef) bool {
	return p.productID == other.productID && p.variantID == other.variantID
}

// LineKey is a stable key for grouping by product line.
func (p ProductRef) LineKey() string {
	return p.productID + "|" + p.variantID
}

func (p ProductRef) Validate() error {
	if !p.isConstructed {
		return ErrProductRefIsNotConstructed
	}
	return nil
}
