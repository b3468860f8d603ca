// Package dbtest opens throwaway in-memory SQLite databases with the production schema.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"interior-design-backend/internal/database"
	"interior-design-backend/internal/models"
)

// New returns a DatabaseClient over a fresh database private to t.
func New(t testing.TB) *database.DatabaseClient {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// Background generation writes race with test reads; one connection serialises them.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.Project{}, &models.Room{}, &models.Design{}, &models.Upload{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return database.NewDatabaseClient(db)
}
