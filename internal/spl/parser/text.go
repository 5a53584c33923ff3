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

// TextContentParser decomposes a section's <text> block into ordered
// content rows: paragraphs, lists (with item rows), tables and
// renderMultiMedia references. The multimedia referencedObject attribute
// is not kept on the content row; it becomes a RenderedMedia join so the
// export side reconstructs it relationally.
type TextContentParser struct {
	log *logger.Logger
}

func NewTextContentParser(baseLog *logger.Logger) *TextContentParser {
	return &TextContentParser{log: baseLog.With("parser", "text")}
}

func (p *TextContentParser) ParseContent(ctx context.Context, textEl *etree.Element, pctx *Context, section *types.Section, mediaByID map[string]uuid.UUID) error {
	seq := 0
	for _, child := range textEl.ChildElements() {
		seq++
		switch child.Tag {
		case "paragraph":
			if err := p.persistParagraph(ctx, pctx, section, child, seq, mediaByID); err != nil {
				return err
			}
		case "list":
			if err := p.persistList(ctx, pctx, section, child, seq); err != nil {
				return err
			}
		case "table":
			if err := p.persistTable(ctx, pctx, section, child, seq); err != nil {
				return err
			}
		case "renderMultiMedia":
			if err := p.persistMultiMedia(ctx, pctx, section, child, seq, mediaByID); err != nil {
				return err
			}
		default:
			// Unknown block kinds keep their markup verbatim so the
			// round trip does not drop them.
			if err := p.persistBlock(ctx, pctx, section, types.ContentTypeParagraph, innerXML(child), child.SelectAttrValue("styleCode", ""), seq); err != nil {
				return err
			}
		}
	}
	pctx.Result.Increment("text_contents", seq)
	return nil
}

func (p *TextContentParser) persistBlock(ctx context.Context, pctx *Context, section *types.Section, contentType, text, style string, seq int) error {
	row := &types.SectionTextContent{
		ID:             uuid.New(),
		SectionID:      section.ID,
		ContentType:    contentType,
		ContentText:    text,
		StyleCode:      style,
		SequenceNumber: seq,
		CreatedAt:      time.Now(),
	}
	if _, err := pctx.Repos.TextContent.Create(ctx, pctx.Tx, []*types.SectionTextContent{row}); err != nil {
		return fmt.Errorf("persist %s content: %w", contentType, err)
	}
	return nil
}

func (p *TextContentParser) persistParagraph(ctx context.Context, pctx *Context, section *types.Section, el *etree.Element, seq int, mediaByID map[string]uuid.UUID) error {
	row := &types.SectionTextContent{
		ID:             uuid.New(),
		SectionID:      section.ID,
		ContentType:    types.ContentTypeParagraph,
		ContentText:    innerXML(el),
		StyleCode:      el.SelectAttrValue("styleCode", ""),
		SequenceNumber: seq,
		CreatedAt:      time.Now(),
	}
	if _, err := pctx.Repos.TextContent.Create(ctx, pctx.Tx, []*types.SectionTextContent{row}); err != nil {
		return fmt.Errorf("persist paragraph: %w", err)
	}

	// Inline multimedia references inside the paragraph become joins on
	// the paragraph row, in their in-content order.
	var joins []*types.RenderedMedia
	for i, mm := range el.SelectElements("renderMultiMedia") {
		joins = append(joins, newRenderedMedia(row.ID, mm, i+1, mediaByID))
	}
	if _, err := pctx.Repos.RenderedMedia.Create(ctx, pctx.Tx, joins); err != nil {
		return fmt.Errorf("persist paragraph media joins: %w", err)
	}
	return nil
}

func (p *TextContentParser) persistList(ctx context.Context, pctx *Context, section *types.Section, el *etree.Element, seq int) error {
	row := &types.SectionTextContent{
		ID:             uuid.New(),
		SectionID:      section.ID,
		ContentType:    types.ContentTypeList,
		ContentText:    innerXML(el),
		StyleCode:      el.SelectAttrValue("styleCode", ""),
		SequenceNumber: seq,
		CreatedAt:      time.Now(),
	}
	if _, err := pctx.Repos.TextContent.Create(ctx, pctx.Tx, []*types.SectionTextContent{row}); err != nil {
		return fmt.Errorf("persist list: %w", err)
	}

	listType := "unordered"
	if strings.EqualFold(el.SelectAttrValue("listType", ""), "ordered") {
		listType = "ordered"
	}
	list := &types.TextList{
		ID:                   uuid.New(),
		SectionTextContentID: row.ID,
		ListType:             listType,
		StyleCode:            el.SelectAttrValue("styleCode", ""),
		CreatedAt:            time.Now(),
	}
	if _, err := pctx.Repos.TextContent.CreateLists(ctx, pctx.Tx, []*types.TextList{list}); err != nil {
		return fmt.Errorf("persist list row: %w", err)
	}

	var items []*types.TextListItem
	for i, itemEl := range el.SelectElements("item") {
		items = append(items, &types.TextListItem{
			ID:             uuid.New(),
			TextListID:     list.ID,
			ItemText:       innerXML(itemEl),
			SequenceNumber: i + 1,
		})
	}
	if _, err := pctx.Repos.TextContent.CreateListItems(ctx, pctx.Tx, items); err != nil {
		return fmt.Errorf("persist list items: %w", err)
	}
	return nil
}

func (p *TextContentParser) persistTable(ctx context.Context, pctx *Context, section *types.Section, el *etree.Element, seq int) error {
	row := &types.SectionTextContent{
		ID:             uuid.New(),
		SectionID:      section.ID,
		ContentType:    types.ContentTypeTable,
		ContentText:    innerXML(el),
		SequenceNumber: seq,
		CreatedAt:      time.Now(),
	}
	if _, err := pctx.Repos.TextContent.Create(ctx, pctx.Tx, []*types.SectionTextContent{row}); err != nil {
		return fmt.Errorf("persist table: %w", err)
	}

	table := &types.TextTable{
		ID:                   uuid.New(),
		SectionTextContentID: row.ID,
		Caption:              childText(el, "caption"),
		TableMarkup:          innerXML(el),
		CreatedAt:            time.Now(),
	}
	if _, err := pctx.Repos.TextContent.CreateTables(ctx, pctx.Tx, []*types.TextTable{table}); err != nil {
		return fmt.Errorf("persist table row: %w", err)
	}
	return nil
}

func (p *TextContentParser) persistMultiMedia(ctx context.Context, pctx *Context, section *types.Section, el *etree.Element, seq int, mediaByID map[string]uuid.UUID) error {
	row := &types.SectionTextContent{
		ID:             uuid.New(),
		SectionID:      section.ID,
		ContentType:    types.ContentTypeMultiMedia,
		ContentText:    "",
		SequenceNumber: seq,
		CreatedAt:      time.Now(),
	}
	if _, err := pctx.Repos.TextContent.Create(ctx, pctx.Tx, []*types.SectionTextContent{row}); err != nil {
		return fmt.Errorf("persist multimedia block: %w", err)
	}

	join := newRenderedMedia(row.ID, el, 1, mediaByID)
	if _, err := pctx.Repos.RenderedMedia.Create(ctx, pctx.Tx, []*types.RenderedMedia{join}); err != nil {
		return fmt.Errorf("persist multimedia join: %w", err)
	}
	return nil
}

func newRenderedMedia(contentID uuid.UUID, mm *etree.Element, seq int, mediaByID map[string]uuid.UUID) *types.RenderedMedia {
	ref := strings.TrimSpace(mm.SelectAttrValue("referencedObject", ""))
	join := &types.RenderedMedia{
		ID:                   uuid.New(),
		SectionTextContentID: contentID,
		ReferencedMediaID:    ref,
		SequenceInContent:    seq,
		CreatedAt:            time.Now(),
	}
	if id, ok := mediaByID[ref]; ok {
		mediaID := id
		join.ObservationMediaID = &mediaID
	}
	return join
}
