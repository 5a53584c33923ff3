package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/types"
)

type StructuredBodyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bodies []*types.StructuredBody) ([]*types.StructuredBody, error)
	GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.StructuredBody, error)
}

type structuredBodyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStructuredBodyRepo(db *gorm.DB, baseLog *logger.Logger) StructuredBodyRepo {
	repoLog := baseLog.With("repo", "StructuredBodyRepo")
	return &structuredBodyRepo{db: db, log: repoLog}
}

func (r *structuredBodyRepo) Create(ctx context.Context, tx *gorm.DB, bodies []*types.StructuredBody) ([]*types.StructuredBody, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(bodies) == 0 {
		return []*types.StructuredBody{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&bodies).Error; err != nil {
		return nil, err
	}
	return bodies, nil
}

func (r *structuredBodyRepo) GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.StructuredBody, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StructuredBody
	if err := transaction.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type SectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sections []*types.Section) ([]*types.Section, error)
	GetByStructuredBodyID(ctx context.Context, tx *gorm.DB, bodyID uuid.UUID) ([]*types.Section, error)
	GetByStructuredBodyIDs(ctx context.Context, tx *gorm.DB, bodyIDs []uuid.UUID) ([]*types.Section, error)
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	repoLog := baseLog.With("repo", "SectionRepo")
	return &sectionRepo{db: db, log: repoLog}
}

func (r *sectionRepo) Create(ctx context.Context, tx *gorm.DB, sections []*types.Section) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sections) == 0 {
		return []*types.Section{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *sectionRepo) GetByStructuredBodyID(ctx context.Context, tx *gorm.DB, bodyID uuid.UUID) ([]*types.Section, error) {
	return r.GetByStructuredBodyIDs(ctx, tx, []uuid.UUID{bodyID})
}

func (r *sectionRepo) GetByStructuredBodyIDs(ctx context.Context, tx *gorm.DB, bodyIDs []uuid.UUID) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Section
	if len(bodyIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("structured_body_id IN ?", bodyIDs).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
