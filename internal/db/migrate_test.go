package db

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/labelvault-backend/internal/types"
)

// The schema must migrate on sqlite as well as postgres: the test
// harness runs every service test against an in-memory sqlite database,
// so no entity tag may use dialect-specific DDL.
func TestMigratablesMigrateOnSqlite(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(Migratables()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func TestTimestampsPopulatedOnCreate(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	doc := &types.Document{
		ID:           uuid.New(),
		DocumentGUID: uuid.New(),
		SetGUID:      uuid.New(),
	}
	if err := gdb.Create(doc).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	var got types.Document
	if err := gdb.First(&got).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not populated: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}
}
