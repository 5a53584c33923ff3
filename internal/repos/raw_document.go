package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/logger"
	apperrors "github.com/yungbote/labelvault-backend/internal/pkg/errors"
	"github.com/yungbote/labelvault-backend/internal/types"
)

type RawDocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, doc *types.RawDocument) (*types.RawDocument, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RawDocument, error)
	GetActiveByHashAndGUID(ctx context.Context, tx *gorm.DB, contentHash string, documentGUID uuid.UUID) (*types.RawDocument, error)
	ArchiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.RawDocument, int64, error)
}

type rawDocumentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRawDocumentRepo(db *gorm.DB, baseLog *logger.Logger) RawDocumentRepo {
	repoLog := baseLog.With("repo", "RawDocumentRepo")
	return &rawDocumentRepo{db: db, log: repoLog}
}

func (r *rawDocumentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.RawDocument) (*types.RawDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *rawDocumentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RawDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.RawDocument
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *rawDocumentRepo) GetActiveByHashAndGUID(ctx context.Context, tx *gorm.DB, contentHash string, documentGUID uuid.UUID) (*types.RawDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.RawDocument
	if err := transaction.WithContext(ctx).
		Where("content_hash = ? AND document_guid = ? AND archived = ?", contentHash, documentGUID, false).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *rawDocumentRepo) ArchiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.RawDocument{}).
		Where("id = ?", id).
		Update("archived", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *rawDocumentRepo) ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.RawDocument, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.RawDocument{}).
		Where("archived = ?", false).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.RawDocument
	if err := transaction.WithContext(ctx).
		Where("archived = ?", false).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
