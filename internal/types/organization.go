package types

import (
	"time"

	"github.com/google/uuid"
)

// Organization is one node of the authoring/marketing organization tree.
// Child establishments point at their parent via ParentOrganizationID.
type Organization struct {
	ID                   uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	ParentOrganizationID *uuid.UUID            `gorm:"type:uuid;column:parent_organization_id;index" json:"parent_organization_id,omitempty"`
	Name                 string                `gorm:"column:name;not null;index" json:"name"`
	IdentifierValue      string                `gorm:"column:identifier_value" json:"identifier_value"`
	IdentifierSystem     string                `gorm:"column:identifier_system" json:"identifier_system"`
	Addresses            []OrganizationAddress `gorm:"foreignKey:OrganizationID;references:ID" json:"addresses,omitempty"`
	CreatedAt            time.Time             `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time             `gorm:"not null" json:"updated_at"`
}

func (Organization) TableName() string { return "organization" }

type OrganizationAddress struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;column:organization_id;not null;index" json:"organization_id"`
	StreetLine1    string    `gorm:"column:street_line_1" json:"street_line_1"`
	StreetLine2    string    `gorm:"column:street_line_2" json:"street_line_2"`
	City           string    `gorm:"column:city" json:"city"`
	State          string    `gorm:"column:state" json:"state"`
	PostalCode     string    `gorm:"column:postal_code" json:"postal_code"`
	Country        string    `gorm:"column:country" json:"country"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (OrganizationAddress) TableName() string { return "organization_address" }

// DocumentAuthor joins a document to an authoring organization.
type DocumentAuthor struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID     uuid.UUID     `gorm:"type:uuid;column:document_id;not null;index" json:"document_id"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;column:organization_id;not null;index" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
	AuthorType     string        `gorm:"column:author_type;not null;default:'Labeler'" json:"author_type"`
	SequenceNumber int           `gorm:"column:sequence_number;not null;default:1" json:"sequence_number"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
}

func (DocumentAuthor) TableName() string { return "document_author" }
