package types

import (
	"time"

	"github.com/google/uuid"
)

type StructuredBody struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID     uuid.UUID `gorm:"type:uuid;column:document_id;not null;index" json:"document_id"`
	SequenceNumber int       `gorm:"column:sequence_number;not null;default:1" json:"sequence_number"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (StructuredBody) TableName() string { return "structured_body" }

// Section is one labeling section. Nesting is parent/child via
// ParentSectionID; construction order guarantees a parent row exists before
// any of its children, so the tree is acyclic without a runtime cycle
// check. SequenceNumber is the stable position within the parent scope.
type Section struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StructuredBodyID uuid.UUID  `gorm:"type:uuid;column:structured_body_id;not null;index" json:"structured_body_id"`
	ParentSectionID  *uuid.UUID `gorm:"type:uuid;column:parent_section_id;index" json:"parent_section_id,omitempty"`
	SectionGUID      uuid.UUID  `gorm:"type:uuid;column:section_guid;not null" json:"section_guid"`
	SectionCode      string     `gorm:"column:section_code" json:"section_code"`
	CodeSystem       string     `gorm:"column:code_system" json:"code_system"`
	CodeDisplayName  string     `gorm:"column:code_display_name" json:"code_display_name"`
	Title            string     `gorm:"column:title" json:"title"`
	EffectiveTime    string     `gorm:"column:effective_time" json:"effective_time"`
	SequenceNumber   int        `gorm:"column:sequence_number;not null" json:"sequence_number"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
}

func (Section) TableName() string { return "section" }
