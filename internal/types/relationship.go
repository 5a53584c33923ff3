package types

import (
	"time"

	"github.com/google/uuid"
)

// DocumentRelationship links a document to an organization acting in a
// given role (labeler, registrant, establishment, ...). Business operations
// and facility-product links hang off the relationship, not the
// organization, because the same organization can play different roles in
// different documents.
type DocumentRelationship struct {
	ID                   uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID           uuid.UUID             `gorm:"type:uuid;column:document_id;not null;index" json:"document_id"`
	OrganizationID       uuid.UUID             `gorm:"type:uuid;column:organization_id;not null;index" json:"organization_id"`
	Organization         *Organization         `gorm:"foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
	RelationshipType     string                `gorm:"column:relationship_type;not null" json:"relationship_type"`
	RelationshipLevel    int                   `gorm:"column:relationship_level;not null;default:1" json:"relationship_level"`
	BusinessOperations   []BusinessOperation   `gorm:"foreignKey:DocumentRelationshipID;references:ID" json:"business_operations,omitempty"`
	FacilityProductLinks []FacilityProductLink `gorm:"foreignKey:DocumentRelationshipID;references:ID" json:"facility_product_links,omitempty"`
	CreatedAt            time.Time             `gorm:"not null" json:"created_at"`
}

func (DocumentRelationship) TableName() string { return "document_relationship" }

type BusinessOperation struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentRelationshipID uuid.UUID `gorm:"type:uuid;column:document_relationship_id;not null;index" json:"document_relationship_id"`
	OperationCode          string    `gorm:"column:operation_code;not null" json:"operation_code"`
	OperationCodeSystem    string    `gorm:"column:operation_code_system" json:"operation_code_system"`
	OperationDisplayName   string    `gorm:"column:operation_display_name" json:"operation_display_name"`
	CreatedAt              time.Time `gorm:"not null" json:"created_at"`
}

func (BusinessOperation) TableName() string { return "business_operation" }

// FacilityProductLink records that a facility-role relationship references
// a product. The product may not exist yet when the link is parsed; the
// deferred resolver fills ProductID/ProductIdentifierID later, flips
// IsResolved and clears the transient ProductNameOrCode. Unresolved links
// keep their raw value for diagnostic visibility and are never deleted.
type FacilityProductLink struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentRelationshipID uuid.UUID  `gorm:"type:uuid;column:document_relationship_id;not null;index" json:"document_relationship_id"`
	ProductID              *uuid.UUID `gorm:"type:uuid;column:product_id;index" json:"product_id,omitempty"`
	ProductIdentifierID    *uuid.UUID `gorm:"type:uuid;column:product_identifier_id" json:"product_identifier_id,omitempty"`
	ProductNameOrCode      string     `gorm:"column:product_name_or_code" json:"product_name_or_code"`
	IsResolved             bool       `gorm:"column:is_resolved;not null;default:false" json:"is_resolved"`
	CreatedAt              time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"not null" json:"updated_at"`
}

func (FacilityProductLink) TableName() string { return "facility_product_link" }
