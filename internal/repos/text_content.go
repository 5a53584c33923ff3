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

type SectionTextContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contents []*types.SectionTextContent) ([]*types.SectionTextContent, error)
	GetBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.SectionTextContent, error)
	CreateLists(ctx context.Context, tx *gorm.DB, lists []*types.TextList) ([]*types.TextList, error)
	CreateListItems(ctx context.Context, tx *gorm.DB, items []*types.TextListItem) ([]*types.TextListItem, error)
	CreateTables(ctx context.Context, tx *gorm.DB, tables []*types.TextTable) ([]*types.TextTable, error)
	GetListsByContentIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.TextList, error)
	GetListItemsByListIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) ([]*types.TextListItem, error)
	GetTablesByContentIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.TextTable, error)
}

type sectionTextContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionTextContentRepo(db *gorm.DB, baseLog *logger.Logger) SectionTextContentRepo {
	repoLog := baseLog.With("repo", "SectionTextContentRepo")
	return &sectionTextContentRepo{db: db, log: repoLog}
}

func (r *sectionTextContentRepo) Create(ctx context.Context, tx *gorm.DB, contents []*types.SectionTextContent) ([]*types.SectionTextContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(contents) == 0 {
		return []*types.SectionTextContent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *sectionTextContentRepo) GetBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.SectionTextContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SectionTextContent
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

func (r *sectionTextContentRepo) CreateLists(ctx context.Context, tx *gorm.DB, lists []*types.TextList) ([]*types.TextList, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lists) == 0 {
		return []*types.TextList{}, nil
	}

	if err := transaction.WithContext(ctx).Omit("Items").Create(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *sectionTextContentRepo) CreateListItems(ctx context.Context, tx *gorm.DB, items []*types.TextListItem) ([]*types.TextListItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(items) == 0 {
		return []*types.TextListItem{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *sectionTextContentRepo) CreateTables(ctx context.Context, tx *gorm.DB, tables []*types.TextTable) ([]*types.TextTable, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(tables) == 0 {
		return []*types.TextTable{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *sectionTextContentRepo) GetListsByContentIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.TextList, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TextList
	if len(contentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("section_text_content_id IN ?", contentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sectionTextContentRepo) GetListItemsByListIDs(ctx context.Context, tx *gorm.DB, listIDs []uuid.UUID) ([]*types.TextListItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TextListItem
	if len(listIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("text_list_id IN ?", listIDs).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sectionTextContentRepo) GetTablesByContentIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.TextTable, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TextTable
	if len(contentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("section_text_content_id IN ?", contentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type ObservationMediaRepo interface {
	Create(ctx context.Context, tx *gorm.DB, media []*types.ObservationMedia) ([]*types.ObservationMedia, error)
	GetBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.ObservationMedia, error)
	GetByMediaIDForDocument(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, mediaID string) (*types.ObservationMedia, error)
}

type observationMediaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewObservationMediaRepo(db *gorm.DB, baseLog *logger.Logger) ObservationMediaRepo {
	repoLog := baseLog.With("repo", "ObservationMediaRepo")
	return &observationMediaRepo{db: db, log: repoLog}
}

func (r *observationMediaRepo) Create(ctx context.Context, tx *gorm.DB, media []*types.ObservationMedia) ([]*types.ObservationMedia, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(media) == 0 {
		return []*types.ObservationMedia{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

func (r *observationMediaRepo) GetBySectionIDs(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID) ([]*types.ObservationMedia, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ObservationMedia
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

// GetByMediaIDForDocument finds an observation media by its document-local
// XML id anywhere in the given document, crossing section boundaries.
func (r *observationMediaRepo) GetByMediaIDForDocument(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, mediaID string) (*types.ObservationMedia, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ObservationMedia
	if err := transaction.WithContext(ctx).
		Joins("JOIN section ON section.id = observation_media.section_id").
		Joins("JOIN structured_body ON structured_body.id = section.structured_body_id").
		Where("structured_body.document_id = ?", documentID).
		Where("observation_media.media_id = ?", mediaID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

type RenderedMediaRepo interface {
	Create(ctx context.Context, tx *gorm.DB, joins []*types.RenderedMedia) ([]*types.RenderedMedia, error)
	GetByContentIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.RenderedMedia, error)
}

type renderedMediaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRenderedMediaRepo(db *gorm.DB, baseLog *logger.Logger) RenderedMediaRepo {
	repoLog := baseLog.With("repo", "RenderedMediaRepo")
	return &renderedMediaRepo{db: db, log: repoLog}
}

func (r *renderedMediaRepo) Create(ctx context.Context, tx *gorm.DB, joins []*types.RenderedMedia) ([]*types.RenderedMedia, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(joins) == 0 {
		return []*types.RenderedMedia{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&joins).Error; err != nil {
		return nil, err
	}
	return joins, nil
}

func (r *renderedMediaRepo) GetByContentIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.RenderedMedia, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.RenderedMedia
	if len(contentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("section_text_content_id IN ?", contentIDs).
		Order("sequence_in_content ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
