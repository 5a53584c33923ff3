package render

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/spl/dto"
	"github.com/yungbote/labelvault-backend/internal/types"
)

// SectionPreparer enhances one section context in place: narrative
// blocks through the text-content service, tolerance rows split out, and
// products through the product service. The export orchestrator calls it
// depth-first so children are always enhanced before their parents.
type SectionPreparer struct {
	log      *logger.Logger
	contents *TextContentPreparer
	products *ProductPreparer
}

func NewSectionPreparer(baseLog *logger.Logger, contents *TextContentPreparer, products *ProductPreparer) *SectionPreparer {
	return &SectionPreparer{
		log:      baseLog.With("render", "section"),
		contents: contents,
		products: products,
	}
}

func (p *SectionPreparer) Enhance(ctx context.Context, documentID uuid.UUID, sc *SectionContext) {
	narrative, tolerances := splitTolerances(sc.Section.TextContents)
	sc.Contents = p.contents.Prepare(ctx, documentID, narrative, sc.Section.Media)
	sc.Tolerances = tolerances
	sc.Products = p.products.Prepare(sc.Section.Products)
}

func splitTolerances(contents []*dto.TextContent) (narrative, tolerances []*dto.TextContent) {
	ordered := make([]*dto.TextContent, len(contents))
	copy(ordered, contents)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceNumber < ordered[j].SequenceNumber
	})
	for _, c := range ordered {
		if c.ContentType == types.ContentTypeTolerance {
			tolerances = append(tolerances, c)
		} else {
			narrative = append(narrative, c)
		}
	}
	return narrative, tolerances
}
