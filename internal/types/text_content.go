package types

import (
	"time"

	"github.com/google/uuid"
)

// Content type discriminators for SectionTextContent.
const (
	ContentTypeParagraph  = "Paragraph"
	ContentTypeList       = "List"
	ContentTypeTable      = "Table"
	ContentTypeMultiMedia = "MultiMedia"
	ContentTypeTolerance  = "ToleranceSpecification"
)

// SectionTextContent is one ordered narrative block inside a section. The
// raw inner markup is kept verbatim in ContentText; lists and tables
// additionally get decomposed child rows.
type SectionTextContent struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID      uuid.UUID `gorm:"type:uuid;column:section_id;not null;index" json:"section_id"`
	ContentType    string    `gorm:"column:content_type;not null" json:"content_type"`
	ContentText    string    `gorm:"column:content_text;type:text" json:"content_text"`
	StyleCode      string    `gorm:"column:style_code" json:"style_code"`
	SequenceNumber int       `gorm:"column:sequence_number;not null" json:"sequence_number"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (SectionTextContent) TableName() string { return "section_text_content" }

type TextList struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SectionTextContentID uuid.UUID      `gorm:"type:uuid;column:section_text_content_id;not null;index" json:"section_text_content_id"`
	ListType             string         `gorm:"column:list_type;not null;default:'unordered'" json:"list_type"`
	StyleCode            string         `gorm:"column:style_code" json:"style_code"`
	Items                []TextListItem `gorm:"foreignKey:TextListID;references:ID" json:"items,omitempty"`
	CreatedAt            time.Time      `gorm:"not null" json:"created_at"`
}

func (TextList) TableName() string { return "text_list" }

type TextListItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TextListID     uuid.UUID `gorm:"type:uuid;column:text_list_id;not null;index" json:"text_list_id"`
	ItemText       string    `gorm:"column:item_text;type:text" json:"item_text"`
	SequenceNumber int       `gorm:"column:sequence_number;not null" json:"sequence_number"`
}

func (TextListItem) TableName() string { return "text_list_item" }

type TextTable struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SectionTextContentID uuid.UUID `gorm:"type:uuid;column:section_text_content_id;not null;index" json:"section_text_content_id"`
	Caption              string    `gorm:"column:caption" json:"caption"`
	TableMarkup          string    `gorm:"column:table_markup;type:text" json:"table_markup"`
	CreatedAt            time.Time `gorm:"not null" json:"created_at"`
}

func (TextTable) TableName() string { return "text_table" }

// ObservationMedia is a multimedia definition inside a section. MediaID is
// the document-local XML id (the target of renderMultiMedia references).
type ObservationMedia struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID       uuid.UUID `gorm:"type:uuid;column:section_id;not null;index" json:"section_id"`
	MediaID         string    `gorm:"column:media_id;not null;index" json:"media_id"`
	DescriptionText string    `gorm:"column:description_text" json:"description_text"`
	MediaType       string    `gorm:"column:media_type" json:"media_type"`
	FileName        string    `gorm:"column:file_name" json:"file_name"`
	SequenceNumber  int       `gorm:"column:sequence_number;not null" json:"sequence_number"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (ObservationMedia) TableName() string { return "observation_media" }

// RenderedMedia records that a text block references an observation media
// at a given position. The referencedObject attribute is reconstructed from
// this join on export, not stored on the text block itself.
type RenderedMedia struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SectionTextContentID uuid.UUID  `gorm:"type:uuid;column:section_text_content_id;not null;index" json:"section_text_content_id"`
	ObservationMediaID   *uuid.UUID `gorm:"type:uuid;column:observation_media_id;index" json:"observation_media_id,omitempty"`
	ReferencedMediaID    string     `gorm:"column:referenced_media_id" json:"referenced_media_id"`
	SequenceInContent    int        `gorm:"column:sequence_in_content;not null" json:"sequence_in_content"`
	CreatedAt            time.Time  `gorm:"not null" json:"created_at"`
}

func (RenderedMedia) TableName() string { return "rendered_media" }
