package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ImportRun is the audit record of one import orchestrator invocation.
type ImportRun struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FileLabel  string         `gorm:"column:file_label;not null" json:"file_label"`
	DocumentID *uuid.UUID     `gorm:"type:uuid;column:document_id;index" json:"document_id,omitempty"`
	Success    bool           `gorm:"column:success;not null;default:false" json:"success"`
	Message    string         `gorm:"column:message;type:text" json:"message"`
	Stats      datatypes.JSON `gorm:"column:stats;type:jsonb" json:"stats"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

func (ImportRun) TableName() string { return "import_run" }
