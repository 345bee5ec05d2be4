package mysql

import (
	"fmt"

	"sales-service/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every persistence object.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&po.SalePO{},
		&po.SaleItemPO{},
		&po.OutboxEventPO{},
	); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}
