package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/scan"
	"fulfillment/internal/core/domain/services"
)

// MatchBarcodeCommandHandler is the one authoritative scan operation. Finding
// the candidates, picking the winner, marking it scanned and appending the
// ledger entry happen in a single transaction.
//
// Candidate item rows stay locked from the search until commit, so two
// operators scanning the same code never claim the same unit: the second
// one waits, then sees the first claim as scanned and either gets the next
// best unit or errs.ObjectNotFoundError.
//
// Example:
//
//	cmd, _ := NewMatchBarcodeCommand("400123", operatorID)
//	match, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // nothing in the logistics queue expects this code
//	}
type MatchBarcodeCommandHandler struct {
	uowFactory ScanUoWFactory
	matcher    services.BarcodeMatcher
}

func NewMatchBarcodeCommandHandler(uowFactory ScanUoWFactory) MatchBarcodeCommandHandler {
	return MatchBarcodeCommandHandler{
		uowFactory: uowFactory,
		matcher:    services.NewBarcodeMatcher(),
	}
}

func (h MatchBarcodeCommandHandler) Handle(ctx context.Context, cmd MatchBarcodeCommand) (scan.Match, error) {
	if err := cmd.Validate(); err != nil {
		return scan.Match{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return scan.Match{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ledgerRepo := uow.ScanLedgerRepository()
	orderRepo := uow.OrderRepository()
	now := time.Now()

	candidates, err := ledgerRepo.LockCandidates(ctx, cmd.Barcode())
	if err != nil {
		return scan.Match{}, err
	}

	winner, err := h.matcher.Select(cmd.Barcode().String(), candidates)
	if err != nil {
		return scan.Match{}, err
	}

	o, err := orderRepo.Get(ctx, winner.OrderID)
	if err != nil {
		return scan.Match{}, err
	}

	if err = o.MarkItemScanned(winner.ItemID, cmd.Barcode().String(), now); err != nil {
		return scan.Match{}, err
	}

	if err = orderRepo.UpdateItem(ctx, o, winner.ItemID); err != nil {
		return scan.Match{}, err
	}

	entry, err := scan.NewLedgerEntry(kernel.NewUUID(), winner.OrderID, winner.ItemID, cmd.Barcode(), cmd.OperatorID(), now)
	if err != nil {
		return scan.Match{}, err
	}

	if err = ledgerRepo.Append(ctx, entry); err != nil {
		return scan.Match{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return scan.Match{}, err
	}

	return scan.Match{OrderID: winner.OrderID, ItemID: winner.ItemID}, nil
}
