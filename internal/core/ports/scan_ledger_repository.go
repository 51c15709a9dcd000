package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/scan"
)

// ScanLedgerRepository finds scan candidates and stores the append-only scan ledger.
type ScanLedgerRepository interface {
	// LockCandidates returns every unscanned item of an InLogistics order that
	// expects code, and locks those item rows until the transaction ends.
	// A concurrent scan of the same code waits and then sees the claimed item
	// as scanned.
	LockCandidates(ctx context.Context, code kernel.Barcode) ([]scan.Candidate, error)

	Append(ctx context.Context, entry *scan.LedgerEntry) error

	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*scan.LedgerEntry, error)
}
