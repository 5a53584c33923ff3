package types

import (
	"time"

	"github.com/google/uuid"
)

// RawDocument is the content-addressed copy of an original SPL submission.
// At most one non-archived row may exist per (content_hash, document_guid)
// pair; archival is the only deletion mechanism.
type RawDocument struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentGUID uuid.UUID  `gorm:"type:uuid;column:document_guid;not null;uniqueIndex:idx_raw_document_hash_guid,where:archived = false" json:"document_guid"`
	RawXML       string     `gorm:"column:raw_xml;type:text;not null" json:"raw_xml"`
	ContentHash  string     `gorm:"column:content_hash;not null;uniqueIndex:idx_raw_document_hash_guid,where:archived = false" json:"content_hash"`
	Archived     bool       `gorm:"column:archived;not null;default:false" json:"archived"`
	OwnerID      *uuid.UUID `gorm:"type:uuid;column:owner_id;index" json:"owner_id,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
}

func (RawDocument) TableName() string { return "raw_document" }
