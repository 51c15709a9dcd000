package postgres

import (
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/scanrepo"
	"fulfillment/internal/adapters/out/postgres/upsellrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table owned by the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.LabelDTO{},
		&scanrepo.LedgerEntryDTO{},
		&upsellrepo.MetricDTO{},
		&outboxrepo.MessageDTO{},
	)
}
