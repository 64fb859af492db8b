package di

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/gorm"

	authadapters "parking_control/internal/feature/auth/adapters"
	parkingspotadapters "parking_control/internal/feature/parkingspot/adapters"
	"parking_control/internal/platform/db"
)

// EnvKeyRunMigrations toggles schema migration at startup.
const EnvKeyRunMigrations = "RUN_MIGRATIONS"

// models lists every table owned by the application.
func models() []any {
	return append(authadapters.Models(), &parkingspotadapters.ParkingSpotModel{})
}

// Migrate creates or updates every table, index and join table.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// MigrationsEnabled reports whether RUN_MIGRATIONS is set to a true value.
func MigrationsEnabled() bool {
	enabled, err := strconv.ParseBool(os.Getenv(EnvKeyRunMigrations))
	return err == nil && enabled
}

// OpenDatabase connects using the environment configuration and migrates when enabled.
func OpenDatabase() (*gorm.DB, error) {
	gdb, err := db.Open(db.LoadConfigFromEnv())
	if err != nil {
		return nil, err
	}
	if MigrationsEnabled() {
		if err := Migrate(gdb); err != nil {
			return nil, err
		}
	}
	return gdb, nil
}
