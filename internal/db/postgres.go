package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/types"
	"github.com/yungbote/labelvault-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "labelvault", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

// Migratables lists every persisted entity. Shared with the sqlite-backed
// test harness so both migrate the same schema.
func Migratables() []interface{} {
	return []interface{}{
		&types.RawDocument{},
		&types.Document{},
		&types.Organization{},
		&types.OrganizationAddress{},
		&types.DocumentAuthor{},
		&types.DocumentRelationship{},
		&types.BusinessOperation{},
		&types.FacilityProductLink{},
		&types.StructuredBody{},
		&types.Section{},
		&types.SectionTextContent{},
		&types.TextList{},
		&types.TextListItem{},
		&types.TextTable{},
		&types.ObservationMedia{},
		&types.RenderedMedia{},
		&types.Product{},
		&types.ProductIdentifier{},
		&types.ActiveIngredient{},
		&types.InactiveIngredient{},
		&types.PackagingLevel{},
		&types.PackageIdentifier{},
		&types.ProductCharacteristic{},
		&types.ImportRun{},
	}
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(Migratables()...); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
