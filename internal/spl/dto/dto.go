// Package dto holds the read-side document graph handed from the retrieval
// gateway to the export pipeline. These values mirror the persisted
// entities but are plain in-memory structs: child collections are fully
// materialized, ordered, and never written back.
package dto

import "github.com/google/uuid"

type Document struct {
	ID              uuid.UUID
	DocumentGUID    uuid.UUID
	SetGUID         uuid.UUID
	VersionNumber   int
	Title           string
	DocumentCode    string
	CodeSystem      string
	CodeDisplayName string
	EffectiveTime   string

	Authors          []*Author
	Relationships    []*Relationship
	StructuredBodies []*StructuredBody
}

type Author struct {
	AuthorType     string
	SequenceNumber int
	Organization   *Organization
}

type Organization struct {
	ID                   uuid.UUID
	ParentOrganizationID *uuid.UUID
	Name                 string
	IdentifierValue      string
	IdentifierSystem     string
	Addresses            []*Address
}

type Address struct {
	StreetLine1 string
	StreetLine2 string
	City        string
	State       string
	PostalCode  string
	Country     string
}

type Relationship struct {
	ID                   uuid.UUID
	RelationshipType     string
	RelationshipLevel    int
	Organization         *Organization
	BusinessOperations   []*BusinessOperation
	FacilityProductLinks []*FacilityProductLink
}

type BusinessOperation struct {
	OperationCode        string
	OperationCodeSystem  string
	OperationDisplayName string
}

type FacilityProductLink struct {
	ID                uuid.UUID
	ProductID         *uuid.UUID
	ProductNameOrCode string
	IsResolved        bool
}

type StructuredBody struct {
	ID             uuid.UUID
	SequenceNumber int
	// Sections is the flat, document-ordered arena. Nesting is expressed
	// through ParentSectionID; the view model factory derives the tree
	// from it without pointer cycles.
	Sections []*Section
}

type Section struct {
	ID              uuid.UUID
	ParentSectionID *uuid.UUID
	SectionGUID     uuid.UUID
	SectionCode     string
	CodeSystem      string
	CodeDisplayName string
	Title           string
	EffectiveTime   string
	SequenceNumber  int

	TextContents []*TextContent
	Products     []*Product
	Media        []*ObservationMedia
}

type TextContent struct {
	ID             uuid.UUID
	ContentType    string
	ContentText    string
	StyleCode      string
	SequenceNumber int

	List       *TextList
	Table      *TextTable
	MediaJoins []*RenderedMedia
}

type TextList struct {
	ListType  string
	StyleCode string
	Items     []string
}

type TextTable struct {
	Caption     string
	TableMarkup string
}

type ObservationMedia struct {
	ID              uuid.UUID
	MediaID         string
	DescriptionText string
	MediaType       string
	FileName        string
	SequenceNumber  int
}

type RenderedMedia struct {
	ObservationMediaID *uuid.UUID
	ReferencedMediaID  string
	SequenceInContent  int
}

type Product struct {
	ID              uuid.UUID
	Name            string
	NameSuffix      string
	GenericName     string
	FormCode        string
	FormCodeSystem  string
	FormDisplayName string
	DescriptionText string
	SequenceNumber  int

	Identifiers         []*ProductIdentifier
	ActiveIngredients   []*ActiveIngredient
	InactiveIngredients []*InactiveIngredient
	Packaging           []*PackagingLevel
	Characteristics     []*Characteristic
}

type ProductIdentifier struct {
	IdentifierValue  string
	IdentifierSystem string
	IdentifierType   string
}

type ActiveIngredient struct {
	SubstanceName          string
	SubstanceCode          string
	SubstanceCodeSystem    string
	ReferenceSubstanceName string
	StrengthNumerator      string
	StrengthNumeratorUnit  string
	StrengthDenominator    string
	StrengthDenomUnit      string
	SequenceNumber         int
}

type InactiveIngredient struct {
	SubstanceName       string
	SubstanceCode       string
	SubstanceCodeSystem string
	SequenceNumber      int
}

type PackagingLevel struct {
	ID                    uuid.UUID
	QuantityValue         string
	QuantityUnit          string
	PackageFormCode       string
	PackageFormCodeSystem string
	PackageFormName       string
	SequenceNumber        int

	Identifiers []*PackageIdentifier
	Children    []*PackagingLevel
}

type PackageIdentifier struct {
	IdentifierValue  string
	IdentifierSystem string
	IdentifierType   string
}

type Characteristic struct {
	CharacteristicCode   string
	CharacteristicSystem string
	ValueType            string
	ValueText            string
	ValueCode            string
	ValueCodeSystem      string
	ValueDisplayName     string
	ValueUnit            string
	SequenceNumber       int
}
