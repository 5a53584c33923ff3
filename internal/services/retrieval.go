package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/repos"
	"github.com/yungbote/labelvault-backend/internal/spl/dto"
	"github.com/yungbote/labelvault-backend/internal/types"
)

// RetrievalService reconstitutes a persisted document graph into its DTO
// form. The batched flag selects set-based IN loading of child
// collections versus one query per parent; the resulting graph is
// identical either way, only the query count differs.
type RetrievalService interface {
	GetDocument(ctx context.Context, instanceGUID uuid.UUID) (*dto.Document, error)
}

type retrievalService struct {
	db      *gorm.DB
	log     *logger.Logger
	repos   *repos.Bundle
	batched bool
}

func NewRetrievalService(db *gorm.DB, baseLog *logger.Logger, bundle *repos.Bundle, batched bool) RetrievalService {
	serviceLog := baseLog.With("service", "RetrievalService")
	return &retrievalService{db: db, log: serviceLog, repos: bundle, batched: batched}
}

func (s *retrievalService) GetDocument(ctx context.Context, instanceGUID uuid.UUID) (*dto.Document, error) {
	docRow, err := s.repos.Document.GetByDocumentGUID(ctx, nil, instanceGUID)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", instanceGUID, err)
	}

	doc := &dto.Document{
		ID:              docRow.ID,
		DocumentGUID:    docRow.DocumentGUID,
		SetGUID:         docRow.SetGUID,
		VersionNumber:   docRow.VersionNumber,
		Title:           docRow.Title,
		DocumentCode:    docRow.DocumentCode,
		CodeSystem:      docRow.CodeSystem,
		CodeDisplayName: docRow.CodeDisplayName,
		EffectiveTime:   docRow.EffectiveTime,
	}

	if err := s.loadAuthors(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.loadRelationships(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.loadStructuredBodies(ctx, doc); err != nil {
		return nil, err
	}

	s.log.Debug("Retrieved document graph",
		"document_guid", instanceGUID,
		"bodies", len(doc.StructuredBodies),
		"authors", len(doc.Authors))
	return doc, nil
}

func (s *retrievalService) loadOrganization(ctx context.Context, orgID uuid.UUID) (*dto.Organization, error) {
	orgs, err := s.repos.Organization.GetByIDs(ctx, nil, []uuid.UUID{orgID})
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, nil
	}
	return s.toOrganizationDTO(ctx, orgs[0])
}

func (s *retrievalService) toOrganizationDTO(ctx context.Context, org *types.Organization) (*dto.Organization, error) {
	out := &dto.Organization{
		ID:                   org.ID,
		ParentOrganizationID: org.ParentOrganizationID,
		Name:                 org.Name,
		IdentifierValue:      org.IdentifierValue,
		IdentifierSystem:     org.IdentifierSystem,
	}
	addrs, err := s.repos.Organization.GetAddressesByOrganizationIDs(ctx, nil, []uuid.UUID{org.ID})
	if err != nil {
		return nil, err
	}
	for _, a := range addrs {
		out.Addresses = append(out.Addresses, &dto.Address{
			StreetLine1: a.StreetLine1,
			StreetLine2: a.StreetLine2,
			City:        a.City,
			State:       a.State,
			PostalCode:  a.PostalCode,
			Country:     a.Country,
		})
	}
	return out, nil
}

func (s *retrievalService) loadAuthors(ctx context.Context, doc *dto.Document) error {
	authors, err := s.repos.DocumentAuthor.GetByDocumentID(ctx, nil, doc.ID)
	if err != nil {
		return fmt.Errorf("load authors: %w", err)
	}
	for _, a := range authors {
		org, err := s.loadOrganization(ctx, a.OrganizationID)
		if err != nil {
			return fmt.Errorf("load author organization: %w", err)
		}
		doc.Authors = append(doc.Authors, &dto.Author{
			AuthorType:     a.AuthorType,
			SequenceNumber: a.SequenceNumber,
			Organization:   org,
		})
	}
	return nil
}

func (s *retrievalService) loadRelationships(ctx context.Context, doc *dto.Document) error {
	rels, err := s.repos.Relationship.GetByDocumentID(ctx, nil, doc.ID)
	if err != nil {
		return fmt.Errorf("load relationships: %w", err)
	}
	if len(rels) == 0 {
		return nil
	}

	relIDs := make([]uuid.UUID, 0, len(rels))
	for _, rel := range rels {
		relIDs = append(relIDs, rel.ID)
	}

	opsByRel := map[uuid.UUID][]*types.BusinessOperation{}
	linksByRel := map[uuid.UUID][]*types.FacilityProductLink{}
	if s.batched {
		ops, err := s.repos.BusinessOperation.GetByRelationshipIDs(ctx, nil, relIDs)
		if err != nil {
			return fmt.Errorf("load business operations: %w", err)
		}
		for _, op := range ops {
			opsByRel[op.DocumentRelationshipID] = append(opsByRel[op.DocumentRelationshipID], op)
		}
		links, err := s.repos.FacilityLink.GetByRelationshipIDs(ctx, nil, relIDs)
		if err != nil {
			return fmt.Errorf("load facility links: %w", err)
		}
		for _, link := range links {
			linksByRel[link.DocumentRelationshipID] = append(linksByRel[link.DocumentRelationshipID], link)
		}
	} else {
		for _, relID := range relIDs {
			ops, err := s.repos.BusinessOperation.GetByRelationshipIDs(ctx, nil, []uuid.UUID{relID})
			if err != nil {
				return fmt.Errorf("load business operations: %w", err)
			}
			opsByRel[relID] = ops
			links, err := s.repos.FacilityLink.GetByRelationshipIDs(ctx, nil, []uuid.UUID{relID})
			if err != nil {
				return fmt.Errorf("load facility links: %w", err)
			}
			linksByRel[relID] = links
		}
	}

	for _, rel := range rels {
		org, err := s.loadOrganization(ctx, rel.OrganizationID)
		if err != nil {
			return fmt.Errorf("load relationship organization: %w", err)
		}
		out := &dto.Relationship{
			ID:                rel.ID,
			RelationshipType:  rel.RelationshipType,
			RelationshipLevel: rel.RelationshipLevel,
			Organization:      org,
		}
		for _, op := range opsByRel[rel.ID] {
			out.BusinessOperations = append(out.BusinessOperations, &dto.BusinessOperation{
				OperationCode:        op.OperationCode,
				OperationCodeSystem:  op.OperationCodeSystem,
				OperationDisplayName: op.OperationDisplayName,
			})
		}
		for _, link := range linksByRel[rel.ID] {
			out.FacilityProductLinks = append(out.FacilityProductLinks, &dto.FacilityProductLink{
				ID:                link.ID,
				ProductID:         link.ProductID,
				ProductNameOrCode: link.ProductNameOrCode,
				IsResolved:        link.IsResolved,
			})
		}
		doc.Relationships = append(doc.Relationships, out)
	}
	return nil
}

func (s *retrievalService) loadStructuredBodies(ctx context.Context, doc *dto.Document) error {
	bodies, err := s.repos.StructuredBody.GetByDocumentID(ctx, nil, doc.ID)
	if err != nil {
		return fmt.Errorf("load structured bodies: %w", err)
	}

	for _, body := range bodies {
		out := &dto.StructuredBody{ID: body.ID, SequenceNumber: body.SequenceNumber}
		sections, err := s.repos.Section.GetByStructuredBodyID(ctx, nil, body.ID)
		if err != nil {
			return fmt.Errorf("load sections: %w", err)
		}
		if err := s.loadSectionChildren(ctx, doc, out, sections); err != nil {
			return err
		}
		doc.StructuredBodies = append(doc.StructuredBodies, out)
	}
	return nil
}

func (s *retrievalService) loadSectionChildren(ctx context.Context, doc *dto.Document, body *dto.StructuredBody, sections []*types.Section) error {
	if len(sections) == 0 {
		return nil
	}

	sectionIDs := make([]uuid.UUID, 0, len(sections))
	for _, sec := range sections {
		sectionIDs = append(sectionIDs, sec.ID)
	}

	idBatches := [][]uuid.UUID{sectionIDs}
	if !s.batched {
		idBatches = idBatches[:0]
		for _, id := range sectionIDs {
			idBatches = append(idBatches, []uuid.UUID{id})
		}
	}

	contentsBySection := map[uuid.UUID][]*types.SectionTextContent{}
	mediaBySection := map[uuid.UUID][]*types.ObservationMedia{}
	productsBySection := map[uuid.UUID][]*types.Product{}
	for _, batch := range idBatches {
		contents, err := s.repos.TextContent.GetBySectionIDs(ctx, nil, batch)
		if err != nil {
			return fmt.Errorf("load text contents: %w", err)
		}
		for _, c := range contents {
			contentsBySection[c.SectionID] = append(contentsBySection[c.SectionID], c)
		}
		media, err := s.repos.ObservationMedia.GetBySectionIDs(ctx, nil, batch)
		if err != nil {
			return fmt.Errorf("load observation media: %w", err)
		}
		for _, m := range media {
			mediaBySection[m.SectionID] = append(mediaBySection[m.SectionID], m)
		}
		products, err := s.repos.Product.GetBySectionIDs(ctx, nil, batch)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		for _, p := range products {
			productsBySection[p.SectionID] = append(productsBySection[p.SectionID], p)
		}
	}

	for _, sec := range sections {
		out := &dto.Section{
			ID:              sec.ID,
			ParentSectionID: sec.ParentSectionID,
			SectionGUID:     sec.SectionGUID,
			SectionCode:     sec.SectionCode,
			CodeSystem:      sec.CodeSystem,
			CodeDisplayName: sec.CodeDisplayName,
			Title:           sec.Title,
			EffectiveTime:   sec.EffectiveTime,
			SequenceNumber:  sec.SequenceNumber,
		}
		for _, m := range mediaBySection[sec.ID] {
			out.Media = append(out.Media, &dto.ObservationMedia{
				ID:              m.ID,
				MediaID:         m.MediaID,
				DescriptionText: m.DescriptionText,
				MediaType:       m.MediaType,
				FileName:        m.FileName,
				SequenceNumber:  m.SequenceNumber,
			})
		}
		if err := s.loadTextContents(ctx, out, contentsBySection[sec.ID]); err != nil {
			return err
		}
		if err := s.loadProducts(ctx, out, productsBySection[sec.ID]); err != nil {
			return err
		}
		body.Sections = append(body.Sections, out)
	}
	return nil
}

func (s *retrievalService) loadTextContents(ctx context.Context, section *dto.Section, contents []*types.SectionTextContent) error {
	if len(contents) == 0 {
		return nil
	}
	contentIDs := make([]uuid.UUID, 0, len(contents))
	for _, c := range contents {
		contentIDs = append(contentIDs, c.ID)
	}

	lists, err := s.repos.TextContent.GetListsByContentIDs(ctx, nil, contentIDs)
	if err != nil {
		return fmt.Errorf("load text lists: %w", err)
	}
	listByContent := map[uuid.UUID]*types.TextList{}
	listIDs := make([]uuid.UUID, 0, len(lists))
	for _, l := range lists {
		listByContent[l.SectionTextContentID] = l
		listIDs = append(listIDs, l.ID)
	}
	items, err := s.repos.TextContent.GetListItemsByListIDs(ctx, nil, listIDs)
	if err != nil {
		return fmt.Errorf("load list items: %w", err)
	}
	itemsByList := map[uuid.UUID][]string{}
	for _, item := range items {
		itemsByList[item.TextListID] = append(itemsByList[item.TextListID], item.ItemText)
	}

	tables, err := s.repos.TextContent.GetTablesByContentIDs(ctx, nil, contentIDs)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	tableByContent := map[uuid.UUID]*types.TextTable{}
	for _, t := range tables {
		tableByContent[t.SectionTextContentID] = t
	}

	joins, err := s.repos.RenderedMedia.GetByContentIDs(ctx, nil, contentIDs)
	if err != nil {
		return fmt.Errorf("load rendered media: %w", err)
	}
	joinsByContent := map[uuid.UUID][]*types.RenderedMedia{}
	for _, j := range joins {
		joinsByContent[j.SectionTextContentID] = append(joinsByContent[j.SectionTextContentID], j)
	}

	for _, c := range contents {
		out := &dto.TextContent{
			ID:             c.ID,
			ContentType:    c.ContentType,
			ContentText:    c.ContentText,
			StyleCode:      c.StyleCode,
			SequenceNumber: c.SequenceNumber,
		}
		if l := listByContent[c.ID]; l != nil {
			out.List = &dto.TextList{ListType: l.ListType, StyleCode: l.StyleCode, Items: itemsByList[l.ID]}
		}
		if t := tableByContent[c.ID]; t != nil {
			out.Table = &dto.TextTable{Caption: t.Caption, TableMarkup: t.TableMarkup}
		}
		for _, j := range joinsByContent[c.ID] {
			out.MediaJoins = append(out.MediaJoins, &dto.RenderedMedia{
				ObservationMediaID: j.ObservationMediaID,
				ReferencedMediaID:  j.ReferencedMediaID,
				SequenceInContent:  j.SequenceInContent,
			})
		}
		section.TextContents = append(section.TextContents, out)
	}
	return nil
}

func (s *retrievalService) loadProducts(ctx context.Context, section *dto.Section, products []*types.Product) error {
	if len(products) == 0 {
		return nil
	}
	productIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	identifiers, err := s.repos.ProductIdentifier.GetByProductIDs(ctx, nil, productIDs)
	if err != nil {
		return fmt.Errorf("load product identifiers: %w", err)
	}
	identsByProduct := map[uuid.UUID][]*types.ProductIdentifier{}
	for _, ident := range identifiers {
		identsByProduct[ident.ProductID] = append(identsByProduct[ident.ProductID], ident)
	}

	actives, err := s.repos.Ingredient.GetActiveByProductIDs(ctx, nil, productIDs)
	if err != nil {
		return fmt.Errorf("load active ingredients: %w", err)
	}
	activesByProduct := map[uuid.UUID][]*types.ActiveIngredient{}
	for _, a := range actives {
		activesByProduct[a.ProductID] = append(activesByProduct[a.ProductID], a)
	}

	inactives, err := s.repos.Ingredient.GetInactiveByProductIDs(ctx, nil, productIDs)
	if err != nil {
		return fmt.Errorf("load inactive ingredients: %w", err)
	}
	inactivesByProduct := map[uuid.UUID][]*types.InactiveIngredient{}
	for _, a := range inactives {
		inactivesByProduct[a.ProductID] = append(inactivesByProduct[a.ProductID], a)
	}

	chars, err := s.repos.Characteristic.GetByProductIDs(ctx, nil, productIDs)
	if err != nil {
		return fmt.Errorf("load characteristics: %w", err)
	}
	charsByProduct := map[uuid.UUID][]*types.ProductCharacteristic{}
	for _, c := range chars {
		charsByProduct[c.ProductID] = append(charsByProduct[c.ProductID], c)
	}

	for _, p := range products {
		out := &dto.Product{
			ID:              p.ID,
			Name:            p.Name,
			NameSuffix:      p.NameSuffix,
			GenericName:     p.GenericName,
			FormCode:        p.FormCode,
			FormCodeSystem:  p.FormCodeSystem,
			FormDisplayName: p.FormDisplayName,
			DescriptionText: p.DescriptionText,
			SequenceNumber:  p.SequenceNumber,
		}
		for _, ident := range identsByProduct[p.ID] {
			out.Identifiers = append(out.Identifiers, &dto.ProductIdentifier{
				IdentifierValue:  ident.IdentifierValue,
				IdentifierSystem: ident.IdentifierSystem,
				IdentifierType:   ident.IdentifierType,
			})
		}
		for _, a := range activesByProduct[p.ID] {
			out.ActiveIngredients = append(out.ActiveIngredients, &dto.ActiveIngredient{
				SubstanceName:          a.SubstanceName,
				SubstanceCode:          a.SubstanceCode,
				SubstanceCodeSystem:    a.SubstanceCodeSystem,
				ReferenceSubstanceName: a.ReferenceSubstanceName,
				StrengthNumerator:      a.StrengthNumerator,
				StrengthNumeratorUnit:  a.StrengthNumeratorUnit,
				StrengthDenominator:    a.StrengthDenominator,
				StrengthDenomUnit:      a.StrengthDenomUnit,
				SequenceNumber:         a.SequenceNumber,
			})
		}
		for _, a := range inactivesByProduct[p.ID] {
			out.InactiveIngredients = append(out.InactiveIngredients, &dto.InactiveIngredient{
				SubstanceName:       a.SubstanceName,
				SubstanceCode:       a.SubstanceCode,
				SubstanceCodeSystem: a.SubstanceCodeSystem,
				SequenceNumber:      a.SequenceNumber,
			})
		}
		for _, c := range charsByProduct[p.ID] {
			out.Characteristics = append(out.Characteristics, &dto.Characteristic{
				CharacteristicCode:   c.CharacteristicCode,
				CharacteristicSystem: c.CharacteristicSystem,
				ValueType:            c.ValueType,
				ValueText:            c.ValueText,
				ValueCode:            c.ValueCode,
				ValueCodeSystem:      c.ValueCodeSystem,
				ValueDisplayName:     c.ValueDisplayName,
				ValueUnit:            c.ValueUnit,
				SequenceNumber:       c.SequenceNumber,
			})
		}
		packs, err := s.loadPackaging(ctx, p.ID)
		if err != nil {
			return err
		}
		out.Packaging = packs
		section.Products = append(section.Products, out)
	}
	return nil
}

// loadPackaging materializes the packaging nesting level by level.
func (s *retrievalService) loadPackaging(ctx context.Context, productID uuid.UUID) ([]*dto.PackagingLevel, error) {
	top, err := s.repos.Packaging.GetLevelsByProductIDs(ctx, nil, []uuid.UUID{productID})
	if err != nil {
		return nil, fmt.Errorf("load packaging levels: %w", err)
	}
	var out []*dto.PackagingLevel
	for _, level := range top {
		node, err := s.toPackagingDTO(ctx, level)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func (s *retrievalService) toPackagingDTO(ctx context.Context, level *types.PackagingLevel) (*dto.PackagingLevel, error) {
	node := &dto.PackagingLevel{
		ID:                    level.ID,
		QuantityValue:         level.QuantityValue,
		QuantityUnit:          level.QuantityUnit,
		PackageFormCode:       level.PackageFormCode,
		PackageFormCodeSystem: level.PackageFormCodeSystem,
		PackageFormName:       level.PackageFormName,
		SequenceNumber:        level.SequenceNumber,
	}
	idents, err := s.repos.Packaging.GetIdentifiersByLevelIDs(ctx, nil, []uuid.UUID{level.ID})
	if err != nil {
		return nil, fmt.Errorf("load package identifiers: %w", err)
	}
	for _, ident := range idents {
		node.Identifiers = append(node.Identifiers, &dto.PackageIdentifier{
			IdentifierValue:  ident.IdentifierValue,
			IdentifierSystem: ident.IdentifierSystem,
			IdentifierType:   ident.IdentifierType,
		})
	}
	children, err := s.repos.Packaging.GetLevelsByParentIDs(ctx, nil, []uuid.UUID{level.ID})
	if err != nil {
		return nil, fmt.Errorf("load nested packaging: %w", err)
	}
	for _, child := range children {
		childNode, err := s.toPackagingDTO(ctx, child)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}
