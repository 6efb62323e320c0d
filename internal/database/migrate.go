package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables for the given models.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	zap.L().Info("database migrated", zap.Int("tables", len(models)))
	return nil
}
