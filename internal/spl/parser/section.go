package parser

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/types"
)

// The section parser is composed of five narrower capabilities, each
// independently substitutable. The defaults cover the standard SPL
// section shape; a caller can swap any one of them (for instance a
// stricter indexer) without touching the rest.

// SectionIndexer extracts the section's identity fields into the entity.
type SectionIndexer interface {
	Index(el *etree.Element, section *types.Section)
}

// SectionContentParser parses the <text> block into ordered content rows.
// mediaByID maps the section's already-persisted observation media by
// their document-local XML id.
type SectionContentParser interface {
	ParseContent(ctx context.Context, el *etree.Element, pctx *Context, section *types.Section, mediaByID map[string]uuid.UUID) error
}

// SectionMediaParser parses component/observationMedia definitions.
type SectionMediaParser interface {
	ParseMedia(ctx context.Context, el *etree.Element, pctx *Context, section *types.Section) (map[string]uuid.UUID, error)
}

// SectionHierarchyParser recurses into nested component/section children.
type SectionHierarchyParser interface {
	ParseChildren(ctx context.Context, el *etree.Element, pctx *Context, parent *types.Section, recurse *SectionParser) error
}

// SectionToleranceParser parses subject2/specification tolerance
// declarations attached to the section.
type SectionToleranceParser interface {
	ParseTolerances(ctx context.Context, el *etree.Element, pctx *Context, section *types.Section, nextSeq int) (int, error)
}

// SectionParser drives one <section> subtree: identity, media, narrative
// content, products, tolerances, then child sections depth-first.
type SectionParser struct {
	log       *logger.Logger
	indexer   SectionIndexer
	media     SectionMediaParser
	content   SectionContentParser
	hierarchy SectionHierarchyParser
	tolerance SectionToleranceParser
	products  *ProductParser
}

func NewSectionParser(baseLog *logger.Logger) *SectionParser {
	return &SectionParser{
		log:       baseLog.With("parser", "section"),
		indexer:   &defaultSectionIndexer{},
		media:     &defaultMediaParser{},
		content:   NewTextContentParser(baseLog),
		hierarchy: &defaultHierarchyParser{},
		tolerance: &defaultToleranceParser{},
		products:  NewProductParser(baseLog),
	}
}

// WithIndexer and friends replace individual capabilities.
func (p *SectionParser) WithIndexer(i SectionIndexer) *SectionParser     { p.indexer = i; return p }
func (p *SectionParser) WithMedia(m SectionMediaParser) *SectionParser   { p.media = m; return p }
func (p *SectionParser) WithContent(c SectionContentParser) *SectionParser {
	p.content = c
	return p
}
func (p *SectionParser) WithHierarchy(h SectionHierarchyParser) *SectionParser {
	p.hierarchy = h
	return p
}
func (p *SectionParser) WithTolerance(t SectionToleranceParser) *SectionParser {
	p.tolerance = t
	return p
}

func (p *SectionParser) Parse(ctx context.Context, el *etree.Element, pctx *Context, bodyID uuid.UUID, parentID *uuid.UUID, seq int) error {
	section := &types.Section{
		ID:               uuid.New(),
		StructuredBodyID: bodyID,
		ParentSectionID:  parentID,
		SequenceNumber:   seq,
		CreatedAt:        time.Now(),
	}
	p.indexer.Index(el, section)

	if _, err := pctx.Repos.Section.Create(ctx, pctx.Tx, []*types.Section{section}); err != nil {
		return fmt.Errorf("persist section: %w", err)
	}
	pctx.Result.Increment("sections", 1)

	// Media first so narrative references can link to it in-row.
	mediaByID, err := p.media.ParseMedia(ctx, el, pctx, section)
	if err != nil {
		pctx.Result.AddError("section media", err)
		mediaByID = map[string]uuid.UUID{}
	}

	if textEl := el.SelectElement("text"); textEl != nil {
		if err := p.content.ParseContent(ctx, textEl, pctx, section, mediaByID); err != nil {
			pctx.Result.AddError("section text", err)
		}
	}

	prodSeq := 0
	for _, subj := range el.SelectElements("subject") {
		prodEl := subj.SelectElement("manufacturedProduct")
		if prodEl == nil {
			continue
		}
		// Some documents wrap the product element once more.
		if inner := prodEl.SelectElement("manufacturedProduct"); inner != nil {
			prodEl = inner
		}
		prodSeq++
		if err := p.products.Parse(ctx, prodEl, pctx, section, prodSeq); err != nil {
			pctx.Result.AddError("section product", err)
		}
	}

	if _, err := p.tolerance.ParseTolerances(ctx, el, pctx, section, 0); err != nil {
		pctx.Result.AddError("section tolerance", err)
	}

	if err := p.hierarchy.ParseChildren(ctx, el, pctx, section, p); err != nil {
		pctx.Result.AddError("section children", err)
	}

	return nil
}

type defaultSectionIndexer struct{}

func (defaultSectionIndexer) Index(el *etree.Element, section *types.Section) {
	if guid, ok := attrGUID(el.SelectElement("id"), "root"); ok {
		section.SectionGUID = guid
	} else {
		section.SectionGUID = uuid.New()
	}
	code := childCode(el, "code")
	section.SectionCode = code.Code
	section.CodeSystem = code.CodeSystem
	section.CodeDisplayName = code.DisplayName
	section.Title = childText(el, "title")
	section.EffectiveTime = attrValue(el, "effectiveTime", "value")
}

type defaultMediaParser struct{}

func (defaultMediaParser) ParseMedia(ctx context.Context, el *etree.Element, pctx *Context, section *types.Section) (map[string]uuid.UUID, error) {
	byID := map[string]uuid.UUID{}
	var rows []*types.ObservationMedia
	seq := 0
	for _, comp := range el.SelectElements("component") {
		mediaEl := comp.SelectElement("observationMedia")
		if mediaEl == nil {
			continue
		}
		seq++
		row := &types.ObservationMedia{
			ID:              uuid.New(),
			SectionID:       section.ID,
			MediaID:         mediaEl.SelectAttrValue("ID", ""),
			DescriptionText: childText(mediaEl, "text"),
			MediaType:       attrValue(mediaEl, "value", "mediaType"),
			SequenceNumber:  seq,
			CreatedAt:       time.Now(),
		}
		if valueEl := mediaEl.SelectElement("value"); valueEl != nil {
			row.FileName = attrValue(valueEl, "reference", "value")
		}
		rows = append(rows, row)
		if row.MediaID != "" {
			byID[row.MediaID] = row.ID
		}
	}
	if _, err := pctx.Repos.ObservationMedia.Create(ctx, pctx.Tx, rows); err != nil {
		return byID, fmt.Errorf("persist observation media: %w", err)
	}
	pctx.Result.Increment("observation_media", len(rows))
	return byID, nil
}

type defaultHierarchyParser struct{}

func (defaultHierarchyParser) ParseChildren(ctx context.Context, el *etree.Element, pctx *Context, parent *types.Section, recurse *SectionParser) error {
	seq := 0
	for _, comp := range el.SelectElements("component") {
		childEl := comp.SelectElement("section")
		if childEl == nil {
			continue
		}
		seq++
		if err := recurse.Parse(ctx, childEl, pctx, parent.StructuredBodyID, &parent.ID, seq); err != nil {
			pctx.Result.AddError(fmt.Sprintf("subsection[%d]", seq), err)
		}
	}
	return nil
}

type defaultToleranceParser struct{}

// ParseTolerances stores subject2/specification declarations as ordered
// content rows so round-tripped documents keep them. They have no richer
// relational decomposition today.
func (defaultToleranceParser) ParseTolerances(ctx context.Context, el *etree.Element, pctx *Context, section *types.Section, nextSeq int) (int, error) {
	var rows []*types.SectionTextContent
	for _, subj := range el.SelectElements("subject2") {
		spec := subj.SelectElement("specification")
		if spec == nil {
			continue
		}
		nextSeq++
		code := childCode(spec, "code")
		rows = append(rows, &types.SectionTextContent{
			ID:             uuid.New(),
			SectionID:      section.ID,
			ContentType:    types.ContentTypeTolerance,
			ContentText:    innerXML(spec),
			StyleCode:      code.Code,
			SequenceNumber: 10000 + nextSeq,
			CreatedAt:      time.Now(),
		})
	}
	if _, err := pctx.Repos.TextContent.Create(ctx, pctx.Tx, rows); err != nil {
		return nextSeq, fmt.Errorf("persist tolerance specifications: %w", err)
	}
	pctx.Result.Increment("tolerance_specifications", len(rows))
	return nextSeq, nil
}
