// Package database wires the GORM connection for the platform backend.
// PostgreSQL is the production store; tests use in-memory SQLite through
// the same models.
package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pawfectmatch/platform-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a PostgreSQL connection, applies pool settings and runs
// auto-migration for all platform models.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	slog.Info("Database connection established")
	return db, nil
}

// ConnectSQLite opens an SQLite database (":memory:" for tests) and runs
// the same migrations as the PostgreSQL path.
func ConnectSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate auto-migrates all platform tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.FollowEdge{},
		&models.Notification{},
		&models.VerificationRequest{},
		&models.AdminEvent{},
		&models.ConfigEntry{},
	); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}
