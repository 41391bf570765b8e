package database

import (
	"fmt"
	"strings"

	"catalog/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// New opens the database named by dsn and migrates the schema.
// A "sqlite://" prefix selects sqlite; anything else is handed to the postgres driver.
func New(dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	isSQLite := strings.HasPrefix(dsn, sqlitePrefix)
	if isSQLite {
		db, err = gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), cfg)
	} else {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if isSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		// sqlite allows a single writer; one connection also keeps in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Product{},
		&models.Option{},
		&models.OptionItem{},
		&models.Variant{},
		&models.Attribute{},
		&models.AttributeItem{},
		&models.User{},
		&models.Session{},
		&models.OTPChallenge{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
