// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/models"
)

// New returns a migrated sqlite database stored in a temporary directory.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), logger.Discard)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewDatabase wraps New in the repository aggregate.
func NewDatabase(t testing.TB) database.Database {
	t.Helper()
	return database.New(New(t))
}
