// Package scanrepo stores the scan ledger and locks scan candidates.
package scanrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/scan"

	"github.com/google/uuid"
)

// LedgerEntryDTO is an append-only scan record.
type LedgerEntryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Barcode    string    `gorm:"type:varchar(64);not null"`
	OperatorID string    `gorm:"type:varchar(128);not null"`
	ScannedAt  time.Time `gorm:"not null;index"`
}

func (LedgerEntryDTO) TableName() string {
	return "scan_ledger"
}

func fromDomain(entry *scan.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:         entry.ID().Bytes(),
		OrderID:    entry.OrderID().Bytes(),
		ItemID:     entry.ItemID().Bytes(),
		Barcode:    entry.Barcode().String(),
		OperatorID: entry.OperatorID(),
		ScannedAt:  entry.ScannedAt(),
	}
}

func toDomain(dto LedgerEntryDTO) (*scan.LedgerEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return nil, err
	}
	barcode, err := kernel.NewBarcode(dto.Barcode)
	if err != nil {
		return nil, err
	}

	return scan.NewLedgerEntry(id, orderID, itemID, barcode, dto.OperatorID, dto.ScannedAt)
}
