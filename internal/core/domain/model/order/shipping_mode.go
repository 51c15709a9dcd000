package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// ShippingMode selects how an order leaves the warehouse.
type ShippingMode int

const (
	UnknownShippingMode ShippingMode = iota
	// CarrierIntegrated orders get their label from the carrier provider.
	CarrierIntegrated
	// ManualLabel orders ship with labels uploaded ahead of time.
	ManualLabel
)

func ParseShippingMode(name string) (ShippingMode, error) {
	switch strings.ToLower(name) {
	case "carrier", "carrierintegrated":
		return CarrierIntegrated, nil
	case "manual", "manuallabel":
		return ManualLabel, nil
	}
	return UnknownShippingMode, errs.NewValueIsInvalidErrorWithCause("shippingMode", fmt.Errorf("%q is not a known shipping mode", name))
}

func (m ShippingMode) Validate() error {
	if m != CarrierIntegrated && m != ManualLabel {
		return errs.NewValueIsInvalidErrorWithCause("shippingMode", fmt.Errorf("%d is not a valid shipping mode", m))
	}
	return nil
}

func (m ShippingMode) String() string {
	switch m {
	case CarrierIntegrated:
		return "CarrierIntegrated"
	case ManualLabel:
		return "ManualLabel"
	default:
		return "Unknown"
	}
}
