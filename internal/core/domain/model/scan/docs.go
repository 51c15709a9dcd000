// Package scan holds the barcode verification model: ranked match
// Candidates, the resulting Match and the append-only LedgerEntry.
package scan
