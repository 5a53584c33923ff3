package types

import (
	"time"

	"github.com/google/uuid"
)

// Product is one marketed product parsed from a section subject.
type Product struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID       uuid.UUID `gorm:"type:uuid;column:section_id;not null;index" json:"section_id"`
	Name            string    `gorm:"column:name;not null;index" json:"name"`
	NameSuffix      string    `gorm:"column:name_suffix" json:"name_suffix"`
	GenericName     string    `gorm:"column:generic_name" json:"generic_name"`
	FormCode        string    `gorm:"column:form_code" json:"form_code"`
	FormCodeSystem  string    `gorm:"column:form_code_system" json:"form_code_system"`
	FormDisplayName string    `gorm:"column:form_display_name" json:"form_display_name"`
	DescriptionText string    `gorm:"column:description_text" json:"description_text"`
	SequenceNumber  int       `gorm:"column:sequence_number;not null" json:"sequence_number"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (Product) TableName() string { return "product" }

// ProductIdentifier is an NDC-style business identifier for a product.
type ProductIdentifier struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID        uuid.UUID `gorm:"type:uuid;column:product_id;not null;index" json:"product_id"`
	IdentifierValue  string    `gorm:"column:identifier_value;not null;index" json:"identifier_value"`
	IdentifierSystem string    `gorm:"column:identifier_system" json:"identifier_system"`
	IdentifierType   string    `gorm:"column:identifier_type;not null;default:'NDC'" json:"identifier_type"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
}

func (ProductIdentifier) TableName() string { return "product_identifier" }

type ActiveIngredient struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID              uuid.UUID `gorm:"type:uuid;column:product_id;not null;index" json:"product_id"`
	SubstanceName          string    `gorm:"column:substance_name;not null" json:"substance_name"`
	SubstanceCode          string    `gorm:"column:substance_code" json:"substance_code"`
	SubstanceCodeSystem    string    `gorm:"column:substance_code_system" json:"substance_code_system"`
	ReferenceSubstanceName string    `gorm:"column:reference_substance_name" json:"reference_substance_name"`
	StrengthNumerator      string    `gorm:"column:strength_numerator" json:"strength_numerator"`
	StrengthNumeratorUnit  string    `gorm:"column:strength_numerator_unit" json:"strength_numerator_unit"`
	StrengthDenominator    string    `gorm:"column:strength_denominator" json:"strength_denominator"`
	StrengthDenomUnit      string    `gorm:"column:strength_denom_unit" json:"strength_denom_unit"`
	SequenceNumber         int       `gorm:"column:sequence_number;not null" json:"sequence_number"`
	CreatedAt              time.Time `gorm:"not null" json:"created_at"`
}

func (ActiveIngredient) TableName() string { return "active_ingredient" }

type InactiveIngredient struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID           uuid.UUID `gorm:"type:uuid;column:product_id;not null;index" json:"product_id"`
	SubstanceName       string    `gorm:"column:substance_name;not null" json:"substance_name"`
	SubstanceCode       string    `gorm:"column:substance_code" json:"substance_code"`
	SubstanceCodeSystem string    `gorm:"column:substance_code_system" json:"substance_code_system"`
	SequenceNumber      int       `gorm:"column:sequence_number;not null" json:"sequence_number"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
}

func (InactiveIngredient) TableName() string { return "inactive_ingredient" }

// PackagingLevel is one level of the packaging nesting. Top-level rows hang
// off the product; inner levels point at their parent level.
type PackagingLevel struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID             *uuid.UUID `gorm:"type:uuid;column:product_id;index" json:"product_id,omitempty"`
	ParentPackagingID     *uuid.UUID `gorm:"type:uuid;column:parent_packaging_id;index" json:"parent_packaging_id,omitempty"`
	QuantityValue         string     `gorm:"column:quantity_value" json:"quantity_value"`
	QuantityUnit          string     `gorm:"column:quantity_unit" json:"quantity_unit"`
	PackageFormCode       string     `gorm:"column:package_form_code" json:"package_form_code"`
	PackageFormCodeSystem string     `gorm:"column:package_form_code_system" json:"package_form_code_system"`
	PackageFormName       string     `gorm:"column:package_form_name" json:"package_form_name"`
	SequenceNumber        int        `gorm:"column:sequence_number;not null" json:"sequence_number"`
	CreatedAt             time.Time  `gorm:"not null" json:"created_at"`
}

func (PackagingLevel) TableName() string { return "packaging_level" }

type PackageIdentifier struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PackagingLevelID uuid.UUID `gorm:"type:uuid;column:packaging_level_id;not null;index" json:"packaging_level_id"`
	IdentifierValue  string    `gorm:"column:identifier_value;not null" json:"identifier_value"`
	IdentifierSystem string    `gorm:"column:identifier_system" json:"identifier_system"`
	IdentifierType   string    `gorm:"column:identifier_type;not null;default:'NDCPackage'" json:"identifier_type"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
}

func (PackageIdentifier) TableName() string { return "package_identifier" }

// ProductCharacteristic holds coded product characteristics (color, shape,
// size, imprint, ...). ValueType mirrors the HL7 xsi:type of the value.
type ProductCharacteristic struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID            uuid.UUID `gorm:"type:uuid;column:product_id;not null;index" json:"product_id"`
	CharacteristicCode   string    `gorm:"column:characteristic_code;not null" json:"characteristic_code"`
	CharacteristicSystem string    `gorm:"column:characteristic_system" json:"characteristic_system"`
	ValueType            string    `gorm:"column:value_type" json:"value_type"`
	ValueText            string    `gorm:"column:value_text" json:"value_text"`
	ValueCode            string    `gorm:"column:value_code" json:"value_code"`
	ValueCodeSystem      string    `gorm:"column:value_code_system" json:"value_code_system"`
	ValueDisplayName     string    `gorm:"column:value_display_name" json:"value_display_name"`
	ValueUnit            string    `gorm:"column:value_unit" json:"value_unit"`
	SequenceNumber       int       `gorm:"column:sequence_number;not null" json:"sequence_number"`
	CreatedAt            time.Time `gorm:"not null" json:"created_at"`
}

func (ProductCharacteristic) TableName() string { return "product_characteristic" }
