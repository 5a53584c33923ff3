package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/logger"
)

// Bundle groups every repo behind one handle so the parse context and the
// orchestrators do not need a dozen constructor parameters each.
type Bundle struct {
	RawDocument        RawDocumentRepo
	Document           DocumentRepo
	Organization       OrganizationRepo
	DocumentAuthor     DocumentAuthorRepo
	Relationship       DocumentRelationshipRepo
	BusinessOperation  BusinessOperationRepo
	FacilityLink       FacilityProductLinkRepo
	StructuredBody     StructuredBodyRepo
	Section            SectionRepo
	TextContent        SectionTextContentRepo
	ObservationMedia   ObservationMediaRepo
	RenderedMedia      RenderedMediaRepo
	Product            ProductRepo
	ProductIdentifier  ProductIdentifierRepo
	Ingredient         IngredientRepo
	Packaging          PackagingRepo
	Characteristic     CharacteristicRepo
	ImportRun          ImportRunRepo
}

func NewBundle(db *gorm.DB, baseLog *logger.Logger) *Bundle {
	return &Bundle{
		RawDocument:       NewRawDocumentRepo(db, baseLog),
		Document:          NewDocumentRepo(db, baseLog),
		Organization:      NewOrganizationRepo(db, baseLog),
		DocumentAuthor:    NewDocumentAuthorRepo(db, baseLog),
		Relationship:      NewDocumentRelationshipRepo(db, baseLog),
		BusinessOperation: NewBusinessOperationRepo(db, baseLog),
		FacilityLink:      NewFacilityProductLinkRepo(db, baseLog),
		StructuredBody:    NewStructuredBodyRepo(db, baseLog),
		Section:           NewSectionRepo(db, baseLog),
		TextContent:       NewSectionTextContentRepo(db, baseLog),
		ObservationMedia:  NewObservationMediaRepo(db, baseLog),
		RenderedMedia:     NewRenderedMediaRepo(db, baseLog),
		Product:           NewProductRepo(db, baseLog),
		ProductIdentifier: NewProductIdentifierRepo(db, baseLog),
		Ingredient:        NewIngredientRepo(db, baseLog),
		Packaging:         NewPackagingRepo(db, baseLog),
		Characteristic:    NewCharacteristicRepo(db, baseLog),
		ImportRun:         NewImportRunRepo(db, baseLog),
	}
}
