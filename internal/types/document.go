package types

import (
	"time"

	"github.com/google/uuid"
)

// Document is the root regulatory document. Identity fields are immutable;
// a new version is a new row sharing the same set GUID with a higher
// version number.
type Document struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentGUID    uuid.UUID `gorm:"type:uuid;column:document_guid;not null;uniqueIndex" json:"document_guid"`
	SetGUID         uuid.UUID `gorm:"type:uuid;column:set_guid;not null;index" json:"set_guid"`
	VersionNumber   int       `gorm:"column:version_number;not null;default:1" json:"version_number"`
	Title           string    `gorm:"column:title" json:"title"`
	DocumentCode    string    `gorm:"column:document_code" json:"document_code"`
	CodeSystem      string    `gorm:"column:code_system" json:"code_system"`
	CodeDisplayName string    `gorm:"column:code_display_name" json:"code_display_name"`
	EffectiveTime   string    `gorm:"column:effective_time" json:"effective_time"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Document) TableName() string { return "document" }
