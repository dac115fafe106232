package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	gormModels "pine-rivers/rangekiosk/internal/models/gorm"
)

// ConnectMirror opens the check-in mirror store. A local sqlite file is the
// default; postgres is supported where several kiosks share one mirror.
func ConnectMirror(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown mirror driver %q", driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mirror store: %w", err)
	}

	if err := conn.AutoMigrate(&gormModels.CheckinRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate mirror store: %w", err)
	}

	log.Printf("Connected to mirror store (%s)", driver)
	return conn, nil
}
