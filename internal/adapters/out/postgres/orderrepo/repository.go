package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// itemUpsertColumns excludes scanned_at: scans write it through UpdateItem
// while holding only the item row lock, and an order-level write must never
// undo them.
var itemUpsertColumns = []string{
	"position",
	"product_id",
	"product_name",
	"variant_id",
	"variant_name",
	"unit_price",
	"upsell_eligible",
	"upsell_status",
}

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items and labels.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictError("order", aggregate.ExternalRef(), "external reference already exists")
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order row, upserts its items and labels and deletes
// items that were removed from the aggregate.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"status":        dto.Status,
		"released":      dto.Released,
		"urgent":        dto.Urgent,
		"shipping_mode": dto.ShippingMode,
		"total_value":   dto.TotalValue,
		"shipped_at":    dto.ShippedAt,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	if err := r.syncItems(db, dto.ID, dto.Items); err != nil {
		return err
	}

	if len(dto.Labels) > 0 {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"viewed_at"}),
		}).Create(&dto.Labels).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) syncItems(db *gorm.DB, orderID uuid.UUID, items []ItemDTO) error {
	keep := make([]string, 0, len(items))
	for _, item := range items {
		keep = append(keep, item.ID.String())
	}

	err := db.
		Where("order_id = ? AND NOT (id = ANY(?::uuid[]))", orderID, pq.Array(keep)).
		Delete(&ItemDTO{}).Error
	if err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(itemUpsertColumns),
	}).Create(&items).Error
}

// UpdateItem writes the scan state of a single item.
func (r *GormOrderRepository) UpdateItem(ctx context.Context, aggregate *order.Order, itemID kernel.UUID) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	item, err := aggregate.Item(itemID)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ItemDTO{}).
		Where("id = ? AND order_id = ?", itemID.Bytes(), aggregate.ID().Bytes()).
		Update("scanned_at", item.ScannedAt())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("item", itemID.String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate holds a row lock on the order until the transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) get(db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := withChildren(db).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetByExternalRef(ctx context.Context, externalRef string) (*order.Order, error) {
	var dto OrderDTO
	err := withChildren(r.db.WithContext(ctx)).First(&dto, "external_ref = ?", externalRef).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", externalRef)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) FindOrderIDByItem(ctx context.Context, itemID kernel.UUID) (kernel.UUID, error) {
	if err := itemID.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var item ItemDTO
	err := r.db.WithContext(ctx).Select("order_id").First(&item, "id = ?", itemID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.UUID{}, errs.NewObjectNotFoundError("item", itemID.String())
		}
		return kernel.UUID{}, err
	}

	return kernel.UUIDFromBytes(item.OrderID[:])
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Preload("Labels", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at, id") })
}
