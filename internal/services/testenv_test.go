package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/labelvault-backend/internal/config"
	"github.com/yungbote/labelvault-backend/internal/db"
	"github.com/yungbote/labelvault-backend/internal/idcrypt"
	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/repos"
	"github.com/yungbote/labelvault-backend/internal/spl/parser"
	"github.com/yungbote/labelvault-backend/internal/types"
)

type testEnv struct {
	db       *gorm.DB
	bundle   *repos.Bundle
	rawDocs  RawDocumentService
	importer ImportService
	exporter ExportService
	settings config.Settings
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory
	// database.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(db.Migratables()...))
	return gdb
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithRegistry(t, nil)
}

func newTestEnvWithRegistry(t *testing.T, registry *parser.Registry) *testEnv {
	t.Helper()
	log := logger.NewNop()
	gdb := newTestDB(t)
	bundle := repos.NewBundle(gdb, log)

	codec, err := idcrypt.New("unit-test-secret")
	require.NoError(t, err)

	if registry == nil {
		registry = parser.NewDefaultRegistry(log)
	}
	settings := config.Default()

	rawDocs := NewRawDocumentService(gdb, log, bundle.RawDocument, codec)
	importer := NewImportService(gdb, log, bundle, registry, rawDocs, NewLinkResolver(log), settings)
	exporter, err := NewExportService(gdb, log, bundle, settings.Export)
	require.NoError(t, err)

	return &testEnv{
		db:       gdb,
		bundle:   bundle,
		rawDocs:  rawDocs,
		importer: importer,
		exporter: exporter,
		settings: settings,
	}
}

var errBoom = errors.New("boom")

func mustDocGUID(t *testing.T, e *testEnv) uuid.UUID {
	t.Helper()
	var doc types.Document
	require.NoError(t, e.db.First(&doc).Error)
	return doc.DocumentGUID
}

func loggerNop() *logger.Logger {
	return logger.NewNop()
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}
