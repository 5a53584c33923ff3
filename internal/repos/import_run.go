package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/types"
)

type ImportRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.ImportRun) (*types.ImportRun, error)
	GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.ImportRun, error)
}

type importRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImportRunRepo(db *gorm.DB, baseLog *logger.Logger) ImportRunRepo {
	repoLog := baseLog.With("repo", "ImportRunRepo")
	return &importRunRepo{db: db, log: repoLog}
}

func (r *importRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.ImportRun) (*types.ImportRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *importRunRepo) GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.ImportRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ImportRun
	if err := transaction.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
