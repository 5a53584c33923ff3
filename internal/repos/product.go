package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/types"
)

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error)
	GetBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.Product, error)
	GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.Product, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	repoLog := baseLog.With("repo", "ProductRepo")
	return &productRepo{db: db, log: repoLog}
}

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(products) == 0 {
		return []*types.Product{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) GetBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Product
	if len(sectionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("section_id IN ?", sectionIDs).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByDocumentID walks product -> section -> structured_body to scope
// products by document. Used by the deferred resolver, which runs after
// all sections of the document have been parsed.
func (r *productRepo) GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Product
	if err := transaction.WithContext(ctx).
		Joins("JOIN section ON section.id = product.section_id").
		Joins("JOIN structured_body ON structured_body.id = section.structured_body_id").
		Where("structured_body.document_id = ?", documentID).
		Order("product.created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type ProductIdentifierRepo interface {
	Create(ctx context.Context, tx *gorm.DB, identifiers []*types.ProductIdentifier) ([]*types.ProductIdentifier, error)
	GetByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.ProductIdentifier, error)
	GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.ProductIdentifier, error)
}

type productIdentifierRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductIdentifierRepo(db *gorm.DB, baseLog *logger.Logger) ProductIdentifierRepo {
	repoLog := baseLog.With("repo", "ProductIdentifierRepo")
	return &productIdentifierRepo{db: db, log: repoLog}
}

func (r *productIdentifierRepo) Create(ctx context.Context, tx *gorm.DB, identifiers []*types.ProductIdentifier) ([]*types.ProductIdentifier, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(identifiers) == 0 {
		return []*types.ProductIdentifier{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&identifiers).Error; err != nil {
		return nil, err
	}
	return identifiers, nil
}

func (r *productIdentifierRepo) GetByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.ProductIdentifier, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProductIdentifier
	if len(productIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productIdentifierRepo) GetByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) ([]*types.ProductIdentifier, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProductIdentifier
	if err := transaction.WithContext(ctx).
		Joins("JOIN product ON product.id = product_identifier.product_id").
		Joins("JOIN section ON section.id = product.section_id").
		Joins("JOIN structured_body ON structured_body.id = section.structured_body_id").
		Where("structured_body.document_id = ?", documentID).
		Order("product_identifier.created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type IngredientRepo interface {
	CreateActive(ctx context.Context, tx *gorm.DB, ingredients []*types.ActiveIngredient) ([]*types.ActiveIngredient, error)
	CreateInactive(ctx context.Context, tx *gorm.DB, ingredients []*types.InactiveIngredient) ([]*types.InactiveIngredient, error)
	GetActiveByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.ActiveIngredient, error)
	GetInactiveByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.InactiveIngredient, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	repoLog := baseLog.With("repo", "IngredientRepo")
	return &ingredientRepo{db: db, log: repoLog}
}

func (r *ingredientRepo) CreateActive(ctx context.Context, tx *gorm.DB, ingredients []*types.ActiveIngredient) ([]*types.ActiveIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ingredients) == 0 {
		return []*types.ActiveIngredient{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepo) CreateInactive(ctx context.Context, tx *gorm.DB, ingredients []*types.InactiveIngredient) ([]*types.InactiveIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ingredients) == 0 {
		return []*types.InactiveIngredient{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepo) GetActiveByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.ActiveIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ActiveIngredient
	if len(productIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ingredientRepo) GetInactiveByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.InactiveIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.InactiveIngredient
	if len(productIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type PackagingRepo interface {
	CreateLevels(ctx context.Context, tx *gorm.DB, levels []*types.PackagingLevel) ([]*types.PackagingLevel, error)
	CreateIdentifiers(ctx context.Context, tx *gorm.DB, identifiers []*types.PackageIdentifier) ([]*types.PackageIdentifier, error)
	GetLevelsByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.PackagingLevel, error)
	GetLevelsByParentIDs(ctx context.Context, tx *gorm.DB, parentIDs []uuid.UUID) ([]*types.PackagingLevel, error)
	GetIdentifiersByLevelIDs(ctx context.Context, tx *gorm.DB, levelIDs []uuid.UUID) ([]*types.PackageIdentifier, error)
}

type packagingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPackagingRepo(db *gorm.DB, baseLog *logger.Logger) PackagingRepo {
	repoLog := baseLog.With("repo", "PackagingRepo")
	return &packagingRepo{db: db, log: repoLog}
}

func (r *packagingRepo) CreateLevels(ctx context.Context, tx *gorm.DB, levels []*types.PackagingLevel) ([]*types.PackagingLevel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(levels) == 0 {
		return []*types.PackagingLevel{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *packagingRepo) CreateIdentifiers(ctx context.Context, tx *gorm.DB, identifiers []*types.PackageIdentifier) ([]*types.PackageIdentifier, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(identifiers) == 0 {
		return []*types.PackageIdentifier{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&identifiers).Error; err != nil {
		return nil, err
	}
	return identifiers, nil
}

func (r *packagingRepo) GetLevelsByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.PackagingLevel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PackagingLevel
	if len(productIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *packagingRepo) GetLevelsByParentIDs(ctx context.Context, tx *gorm.DB, parentIDs []uuid.UUID) ([]*types.PackagingLevel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PackagingLevel
	if len(parentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("parent_packaging_id IN ?", parentIDs).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *packagingRepo) GetIdentifiersByLevelIDs(ctx context.Context, tx *gorm.DB, levelIDs []uuid.UUID) ([]*types.PackageIdentifier, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PackageIdentifier
	if len(levelIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("packaging_level_id IN ?", levelIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type CharacteristicRepo interface {
	Create(ctx context.Context, tx *gorm.DB, characteristics []*types.ProductCharacteristic) ([]*types.ProductCharacteristic, error)
	GetByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.ProductCharacteristic, error)
}

type characteristicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCharacteristicRepo(db *gorm.DB, baseLog *logger.Logger) CharacteristicRepo {
	repoLog := baseLog.With("repo", "CharacteristicRepo")
	return &characteristicRepo{db: db, log: repoLog}
}

func (r *characteristicRepo) Create(ctx context.Context, tx *gorm.DB, characteristics []*types.ProductCharacteristic) ([]*types.ProductCharacteristic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(characteristics) == 0 {
		return []*types.ProductCharacteristic{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&characteristics).Error; err != nil {
		return nil, err
	}
	return characteristics, nil
}

func (r *characteristicRepo) GetByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.ProductCharacteristic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProductCharacteristic
	if len(productIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
