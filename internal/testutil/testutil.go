// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/db"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
// A single connection keeps transactions serialized the way row locks do.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// CreateDirectoryTables creates the externally owned tables the directory reads.
func CreateDirectoryTables(t *testing.T, database *gorm.DB) {
	t.Helper()
	require.NoError(t, database.Exec(`CREATE TABLE IF NOT EXISTS users (id UUID PRIMARY KEY, role VARCHAR(16) NOT NULL)`).Error)
	require.NoError(t, database.Exec(`CREATE TABLE IF NOT EXISTS catalog_items (id UUID PRIMARY KEY, name TEXT NOT NULL)`).Error)
}
