package services

import (
	"testing"

	"github.com/pawfectmatch/platform-backend/database"
	"gorm.io/gorm"
)

// SetupSQLiteTestDB creates an in-memory SQLite database for testing and
// migrates the full platform schema. Each call returns an isolated database.
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.ConnectSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return db
}
