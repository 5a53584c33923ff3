package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/types"
)

type OrganizationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, orgs []*types.Organization) ([]*types.Organization, error)
	CreateAddresses(ctx context.Context, tx *gorm.DB, addrs []*types.OrganizationAddress) ([]*types.OrganizationAddress, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Organization, error)
	GetAddressesByOrganizationIDs(ctx context.Context, tx *gorm.DB, orgIDs []uuid.UUID) ([]*types.OrganizationAddress, error)
}

type organizationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrganizationRepo(db *gorm.DB, baseLog *logger.Logger) OrganizationRepo {
	repoLog := baseLog.With("repo", "OrganizationRepo")
	return &organizationRepo{db: db, log: repoLog}
}

func (r *organizationRepo) Create(ctx context.Context, tx *gorm.DB, orgs []*types.Organization) ([]*types.Organization, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(orgs) == 0 {
		return []*types.Organization{}, nil
	}

	if err := transaction.WithContext(ctx).Omit("Addresses").Create(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *organizationRepo) CreateAddresses(ctx context.Context, tx *gorm.DB, addrs []*types.OrganizationAddress) ([]*types.OrganizationAddress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(addrs) == 0 {
		return []*types.OrganizationAddress{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&addrs).Error; err != nil {
		return nil, err
	}
	return addrs, nil
}

func (r *organizationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Organization, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Organization
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *organizationRepo) GetAddressesByOrganizationIDs(ctx context.Context, tx *gorm.DB, orgIDs []uuid.UUID) ([]*types.OrganizationAddress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.OrganizationAddress
	if len(orgIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("organization_id IN ?", orgIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type DocumentAuthorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, authors []*types.DocumentAuthor) ([]*types.DocumentAuthor, error)
	GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.DocumentAuthor, error)
}

type documentAuthorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentAuthorRepo(db *gorm.DB, baseLog *logger.Logger) DocumentAuthorRepo {
	repoLog := baseLog.With("repo", "DocumentAuthorRepo")
	return &documentAuthorRepo{db: db, log: repoLog}
}

func (r *documentAuthorRepo) Create(ctx context.Context, tx *gorm.DB, authors []*types.DocumentAuthor) ([]*types.DocumentAuthor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(authors) == 0 {
		return []*types.DocumentAuthor{}, nil
	}

	if err := transaction.WithContext(ctx).Omit("Organization").Create(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *documentAuthorRepo) GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.DocumentAuthor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DocumentAuthor
	if err := transaction.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
