package parser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/types"
)

// authorParser walks <author>/<assignedEntity>/<representedOrganization>:
// the labeler organization, its nested establishments, their business
// operations and any product references those operations carry. Product
// references always become unresolved facility-product links here; the
// products themselves live in the structuredBody subtree, which is parsed
// later.
type authorParser struct {
	log *logger.Logger
}

func NewAuthorParser(baseLog *logger.Logger) ElementParser {
	return &authorParser{log: baseLog.With("parser", "author")}
}

func (p *authorParser) Parse(ctx context.Context, el *etree.Element, pctx *Context, progress ProgressFunc) error {
	progress.Report("parsing author")

	if pctx.Document == nil {
		return fmt.Errorf("author subtree reached without a document")
	}

	orgEl := findRepresentedOrganization(el)
	if orgEl == nil {
		pctx.Result.AddError("author", fmt.Errorf("no representedOrganization found"))
		return nil
	}

	labeler, err := p.persistOrganization(ctx, pctx, orgEl, nil)
	if err != nil {
		pctx.Result.AddError("author", err)
		return nil
	}
	pctx.AuthorOrgs = append(pctx.AuthorOrgs, labeler)

	author := &types.DocumentAuthor{
		ID:             uuid.New(),
		DocumentID:     pctx.Document.ID,
		OrganizationID: labeler.ID,
		AuthorType:     "Labeler",
		SequenceNumber: len(pctx.AuthorOrgs),
		CreatedAt:      time.Now(),
	}
	if _, err := pctx.Repos.DocumentAuthor.Create(ctx, pctx.Tx, []*types.DocumentAuthor{author}); err != nil {
		pctx.Result.AddError("author", fmt.Errorf("persist document author: %w", err))
		return nil
	}

	labelerRel, err := p.persistRelationship(ctx, pctx, labeler, "Labeler", 1)
	if err != nil {
		pctx.Result.AddError("author", err)
		return nil
	}
	if err := p.parseOperations(ctx, pctx, orgEl.Parent(), labelerRel); err != nil {
		pctx.Result.AddError("author", err)
	}

	// Nested establishments: assignedEntity chains under the labeler.
	for _, nested := range orgEl.SelectElements("assignedEntity") {
		facility := nested.SelectElement("assignedOrganization")
		if facility == nil {
			continue
		}
		org, err := p.persistOrganization(ctx, pctx, facility, &labeler.ID)
		if err != nil {
			pctx.Result.AddError("author", err)
			continue
		}
		rel, err := p.persistRelationship(ctx, pctx, org, "Establishment", 2)
		if err != nil {
			pctx.Result.AddError("author", err)
			continue
		}
		if err := p.parseOperations(ctx, pctx, nested, rel); err != nil {
			pctx.Result.AddError("author", err)
		}
	}

	p.log.Info("Parsed author subtree", "labeler", labeler.Name)
	return nil
}

// findRepresentedOrganization tolerates the assignedEntity wrapper being
// present or absent.
func findRepresentedOrganization(el *etree.Element) *etree.Element {
	if org := el.FindElement("assignedEntity/representedOrganization"); org != nil {
		return org
	}
	return el.SelectElement("representedOrganization")
}

func (p *authorParser) persistOrganization(ctx context.Context, pctx *Context, orgEl *etree.Element, parentID *uuid.UUID) (*types.Organization, error) {
	name := childText(orgEl, "name")
	if name == "" {
		return nil, fmt.Errorf("organization without a name")
	}

	org := &types.Organization{
		ID:                   uuid.New(),
		ParentOrganizationID: parentID,
		Name:                 name,
		IdentifierValue:      attrValue(orgEl, "id", "extension"),
		IdentifierSystem:     attrValue(orgEl, "id", "root"),
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	if _, err := pctx.Repos.Organization.Create(ctx, pctx.Tx, []*types.Organization{org}); err != nil {
		return nil, fmt.Errorf("persist organization %q: %w", name, err)
	}

	var addrs []*types.OrganizationAddress
	for _, addrEl := range orgEl.SelectElements("addr") {
		lines := addrEl.SelectElements("streetAddressLine")
		addr := &types.OrganizationAddress{
			ID:             uuid.New(),
			OrganizationID: org.ID,
			City:           childText(addrEl, "city"),
			State:          childText(addrEl, "state"),
			PostalCode:     childText(addrEl, "postalCode"),
			Country:        childText(addrEl, "country"),
			CreatedAt:      time.Now(),
		}
		if len(lines) > 0 {
			addr.StreetLine1 = strings.TrimSpace(lines[0].Text())
		}
		if len(lines) > 1 {
			addr.StreetLine2 = strings.TrimSpace(lines[1].Text())
		}
		addrs = append(addrs, addr)
	}
	if _, err := pctx.Repos.Organization.CreateAddresses(ctx, pctx.Tx, addrs); err != nil {
		return nil, fmt.Errorf("persist addresses for %q: %w", name, err)
	}

	pctx.Result.Increment("organizations", 1)
	return org, nil
}

func (p *authorParser) persistRelationship(ctx context.Context, pctx *Context, org *types.Organization, relType string, level int) (*types.DocumentRelationship, error) {
	rel := &types.DocumentRelationship{
		ID:                uuid.New(),
		DocumentID:        pctx.Document.ID,
		OrganizationID:    org.ID,
		RelationshipType:  relType,
		RelationshipLevel: level,
		CreatedAt:         time.Now(),
	}
	if _, err := pctx.Repos.Relationship.Create(ctx, pctx.Tx, []*types.DocumentRelationship{rel}); err != nil {
		return nil, fmt.Errorf("persist %s relationship for %q: %w", relType, org.Name, err)
	}
	pctx.Result.Increment("relationships", 1)
	return rel, nil
}

// parseOperations reads performance/actDefinition entries under an
// assignedEntity: the business operation code plus any product the
// operation is declared for.
func (p *authorParser) parseOperations(ctx context.Context, pctx *Context, scope *etree.Element, rel *types.DocumentRelationship) error {
	if scope == nil {
		return nil
	}

	var ops []*types.BusinessOperation
	var links []*types.FacilityProductLink
	for _, perf := range scope.SelectElements("performance") {
		actDef := perf.SelectElement("actDefinition")
		if actDef == nil {
			continue
		}
		code := childCode(actDef, "code")
		if code.Code != "" {
			ops = append(ops, &types.BusinessOperation{
				ID:                     uuid.New(),
				DocumentRelationshipID: rel.ID,
				OperationCode:          code.Code,
				OperationCodeSystem:    code.CodeSystem,
				OperationDisplayName:   code.DisplayName,
				CreatedAt:              time.Now(),
			})
		}

		for _, prodEl := range actDef.SelectElements("product") {
			ref := productReference(prodEl)
			if ref == "" {
				continue
			}
			links = append(links, &types.FacilityProductLink{
				ID:                     uuid.New(),
				DocumentRelationshipID: rel.ID,
				ProductNameOrCode:      ref,
				IsResolved:             false,
				CreatedAt:              time.Now(),
				UpdatedAt:              time.Now(),
			})
		}
	}

	if _, err := pctx.Repos.BusinessOperation.Create(ctx, pctx.Tx, ops); err != nil {
		return fmt.Errorf("persist business operations: %w", err)
	}
	if _, err := pctx.Repos.FacilityLink.Create(ctx, pctx.Tx, links); err != nil {
		return fmt.Errorf("persist facility product links: %w", err)
	}
	pctx.Result.Increment("business_operations", len(ops))
	pctx.Result.Increment("facility_product_links", len(links))
	return nil
}

// productReference extracts the identifier code or free-text name a
// facility operation references. Code wins over name when both appear.
func productReference(prodEl *etree.Element) string {
	kind := prodEl.FindElement("manufacturedProduct/manufacturedMaterialKind/kindOfMaterialKind")
	if kind != nil {
		if code := strings.TrimSpace(kind.SelectAttrValue("code", "")); code != "" {
			return code
		}
		if name := childText(kind, "name"); name != "" {
			return name
		}
	}
	if name := childText(prodEl, "name"); name != "" {
		return name
	}
	return ""
}
