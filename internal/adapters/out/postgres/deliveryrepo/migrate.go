package deliveryrepo

import (
	"fmt"

	"gorm.io/gorm"
)

var pointIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_deliveries_pickup_point
		ON deliveries USING gist (point(pickup_lng, pickup_lat))
		WHERE pickup_lat IS NOT NULL AND pickup_lng IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_deliveries_destination_point
		ON deliveries USING gist (point(destination_lng, destination_lat))
		WHERE destination_lat IS NOT NULL AND destination_lng IS NOT NULL`,
}

// Migrate creates or updates the delivery tables and their indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&DeliveryDTO{}, &StatusEntryDTO{}); err != nil {
		return fmt.Errorf("migrate deliveries: %w", err)
	}
	for _, stmt := range pointIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create point index: %w", err)
		}
	}
	return nil
}
