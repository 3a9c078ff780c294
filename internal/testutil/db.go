// Package testutil provides shared helpers for tests that need a migrated database.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"utc-go/internal/config"
	"utc-go/internal/models"

	"gorm.io/gorm"
)

// NewDB opens a migrated sqlite database in the test's temp dir and closes it on cleanup.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	database := models.NewDatabase(config.DatabaseConfig{
		Driver:                "sqlite",
		Path:                  filepath.Join(t.TempDir(), "test.db"),
		ConnectTimeoutSeconds: 5,
		IdleTimeoutSeconds:    45,
		MaxOpenConns:          1,
	})
	ctx := context.Background()
	if err := database.AutoMigrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return database.DB()
}
