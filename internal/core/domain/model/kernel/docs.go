// Package kernel holds the value objects shared by every aggregate of the
// fulfillment engine:
//   - UUID identifies orders, items, labels and ledger records
//   - Money is a non-negative amount rounded to cents
//   - Barcode carries the single matching predicate used by scanning
//   - ProductRef names a product and its optional variant
//
// All values are immutable. Their zero values are invalid and are rejected by Validate.
package kernel
