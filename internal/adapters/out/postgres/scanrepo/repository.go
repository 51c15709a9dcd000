package scanrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/scan"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormScanLedgerRepository implements ports.ScanLedgerRepository using GORM.
type GormScanLedgerRepository struct {
	db *gorm.DB
}

func NewGormScanLedgerRepository(db *gorm.DB) *GormScanLedgerRepository {
	return &GormScanLedgerRepository{db: db}
}

type lockedRow struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Urgent    bool
	CreatedAt time.Time
}

type orderStats struct {
	OrderID       uuid.UUID
	Remaining     int
	DistinctLines int
}

// LockCandidates locks the matching item rows first and reads the ranking
// facts afterwards, so the counts include any scan that committed while this
// transaction waited for the locks.
func (r *GormScanLedgerRepository) LockCandidates(ctx context.Context, code kernel.Barcode) ([]scan.Candidate, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)

	var rows []lockedRow
	err := db.Raw(`
		SELECT i.id, i.order_id, o.urgent, o.created_at
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE i.expected_barcode = ?
			AND i.scanned_at IS NULL
			AND o.status = ?
		ORDER BY i.id
		FOR UPDATE OF i
	`, code.String(), int(order.InLogistics)).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return []scan.Candidate{}, nil
	}

	orderIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		orderIDs = append(orderIDs, row.OrderID.String())
	}

	var stats []orderStats
	err = db.Raw(`
		SELECT
			order_id,
			count(*) FILTER (WHERE scanned_at IS NULL) AS remaining,
			count(DISTINCT product_id || '|' || variant_id) AS distinct_lines
		FROM order_items
		WHERE order_id = ANY(?::uuid[])
		GROUP BY order_id
	`, pq.Array(orderIDs)).Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uuid.UUID]orderStats, len(stats))
	for _, s := range stats {
		byOrder[s.OrderID] = s
	}

	candidates := make([]scan.Candidate, 0, len(rows))
	for _, row := range rows {
		itemID, idErr := kernel.UUIDFromBytes(row.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		orderID, idErr := kernel.UUIDFromBytes(row.OrderID[:])
		if idErr != nil {
			return nil, idErr
		}

		s := byOrder[row.OrderID]
		candidates = append(candidates, scan.Candidate{
			ItemID:         itemID,
			OrderID:        orderID,
			Urgent:         row.Urgent,
			OrderCreatedAt: row.CreatedAt,
			Remaining:      s.Remaining,
			DistinctLines:  s.DistinctLines,
		})
	}

	return candidates, nil
}

func (r *GormScanLedgerRepository) Append(ctx context.Context, entry *scan.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByOrder returns the ledger of an order, oldest scan first.
func (r *GormScanLedgerRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*scan.LedgerEntry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []LedgerEntryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("scanned_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*scan.LedgerEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
