package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/types"
)

type DocumentRelationshipRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rels []*types.DocumentRelationship) ([]*types.DocumentRelationship, error)
	GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.DocumentRelationship, error)
}

type documentRelationshipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRelationshipRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRelationshipRepo {
	repoLog := baseLog.With("repo", "DocumentRelationshipRepo")
	return &documentRelationshipRepo{db: db, log: repoLog}
}

func (r *documentRelationshipRepo) Create(ctx context.Context, tx *gorm.DB, rels []*types.DocumentRelationship) ([]*types.DocumentRelationship, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rels) == 0 {
		return []*types.DocumentRelationship{}, nil
	}

	if err := transaction.WithContext(ctx).
		Omit("Organization", "BusinessOperations", "FacilityProductLinks").
		Create(&rels).Error; err != nil {
		return nil, err
	}
	return rels, nil
}

func (r *documentRelationshipRepo) GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.DocumentRelationship, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DocumentRelationship
	if err := transaction.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("relationship_level ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type BusinessOperationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ops []*types.BusinessOperation) ([]*types.BusinessOperation, error)
	GetByRelationshipIDs(ctx context.Context, tx *gorm.DB, relIDs []uuid.UUID) ([]*types.BusinessOperation, error)
}

type businessOperationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBusinessOperationRepo(db *gorm.DB, baseLog *logger.Logger) BusinessOperationRepo {
	repoLog := baseLog.With("repo", "BusinessOperationRepo")
	return &businessOperationRepo{db: db, log: repoLog}
}

func (r *businessOperationRepo) Create(ctx context.Context, tx *gorm.DB, ops []*types.BusinessOperation) ([]*types.BusinessOperation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ops) == 0 {
		return []*types.BusinessOperation{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}

func (r *businessOperationRepo) GetByRelationshipIDs(ctx context.Context, tx *gorm.DB, relIDs []uuid.UUID) ([]*types.BusinessOperation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.BusinessOperation
	if len(relIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("document_relationship_id IN ?", relIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type FacilityProductLinkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, links []*types.FacilityProductLink) ([]*types.FacilityProductLink, error)
	GetByRelationshipIDs(ctx context.Context, tx *gorm.DB, relIDs []uuid.UUID) ([]*types.FacilityProductLink, error)
	GetUnresolvedByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.FacilityProductLink, error)
	SaveAll(ctx context.Context, tx *gorm.DB, links []*types.FacilityProductLink) error
}

type facilityProductLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFacilityProductLinkRepo(db *gorm.DB, baseLog *logger.Logger) FacilityProductLinkRepo {
	repoLog := baseLog.With("repo", "FacilityProductLinkRepo")
	return &facilityProductLinkRepo{db: db, log: repoLog}
}

func (r *facilityProductLinkRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.FacilityProductLink) ([]*types.FacilityProductLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(links) == 0 {
		return []*types.FacilityProductLink{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *facilityProductLinkRepo) GetByRelationshipIDs(ctx context.Context, tx *gorm.DB, relIDs []uuid.UUID) ([]*types.FacilityProductLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FacilityProductLink
	if len(relIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("document_relationship_id IN ?", relIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetUnresolvedByDocumentID returns links scoped to a document through
// their owning relationship that are still unresolved and carry a raw
// product name or code to match on.
func (r *facilityProductLinkRepo) GetUnresolvedByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.FacilityProductLink, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FacilityProductLink
	if err := transaction.WithContext(ctx).
		Joins("JOIN document_relationship ON document_relationship.id = facility_product_link.document_relationship_id").
		Where("document_relationship.document_id = ?", documentID).
		Where("facility_product_link.is_resolved = ?", false).
		Where("facility_product_link.product_name_or_code <> ''").
		Order("facility_product_link.created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *facilityProductLinkRepo) SaveAll(ctx context.Context, tx *gorm.DB, links []*types.FacilityProductLink) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(links) == 0 {
		return nil
	}

	for _, link := range links {
		if err := transaction.WithContext(ctx).Save(link).Error; err != nil {
			return err
		}
	}
	return nil
}
