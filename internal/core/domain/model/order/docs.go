// Package order provides the Order aggregate of the fulfillment engine: the
// order itself, its one-unit-per-row Items and its shipping Labels.
//
// The package includes:
//   - Order: lifecycle, release flag, total value, domain events
//   - Status, UpsellStatus, ShippingMode, LabelSource: enum registries
//   - ReleaseAssessment: the auto and manual release rules
//
// Key business rules:
//   - Status follows Created -> InProduction -> ReadyForLogistics -> InLogistics -> Shipped
//   - Cancelled and Returned are reached by operator action only
//   - An order is auto-released only when every item is up-sell eligible and none is awaiting a decision
//   - Manual release fails with errs.BlockedError while eligible items await a decision
//   - Items are scanned only while the order is InLogistics, each at most once
//   - Shipped requires the order to be released and stamps shippedAt
package order
