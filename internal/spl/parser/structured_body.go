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

// structuredBodyParser handles <component>/<structuredBody>: it creates
// the body row and walks its component/section children in document order
// through the composed section parser. Section failures accumulate; they
// do not stop sibling sections.
type structuredBodyParser struct {
	log      *logger.Logger
	sections *SectionParser
}

func NewStructuredBodyParser(baseLog *logger.Logger, sections *SectionParser) ElementParser {
	return &structuredBodyParser{
		log:      baseLog.With("parser", "structuredBody"),
		sections: sections,
	}
}

func (p *structuredBodyParser) Parse(ctx context.Context, el *etree.Element, pctx *Context, progress ProgressFunc) error {
	progress.Report("parsing structuredBody")

	if pctx.Document == nil {
		return fmt.Errorf("structuredBody subtree reached without a document")
	}

	body := &types.StructuredBody{
		ID:             uuid.New(),
		DocumentID:     pctx.Document.ID,
		SequenceNumber: pctx.Result.Counts["structured_bodies"] + 1,
		CreatedAt:      time.Now(),
	}
	if _, err := pctx.Repos.StructuredBody.Create(ctx, pctx.Tx, []*types.StructuredBody{body}); err != nil {
		pctx.Result.AddError("structuredBody", fmt.Errorf("persist structured body: %w", err))
		return nil
	}
	pctx.StructuredBody = body
	pctx.Result.Increment("structured_bodies", 1)

	seq := 0
	for _, comp := range el.SelectElements("component") {
		sectionEl := comp.SelectElement("section")
		if sectionEl == nil {
			continue
		}
		seq++
		if err := p.sections.Parse(ctx, sectionEl, pctx, body.ID, nil, seq); err != nil {
			pctx.Result.AddError(fmt.Sprintf("section[%d]", seq), err)
		}
	}

	p.log.Info("Parsed structured body", "sections", seq)
	return nil
}
