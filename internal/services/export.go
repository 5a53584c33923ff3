package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/config"
	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/repos"
	"github.com/yungbote/labelvault-backend/internal/spl/dto"
	"github.com/yungbote/labelvault-backend/internal/spl/render"
)

// ExportService drives the export pipeline: retrieve the document graph,
// prepare authors and every structured body bottom-up, render the
// GenerateSpl template and optionally minify the output. Export errors
// are logged with the document identifier and returned; nothing is
// swallowed here.
type ExportService interface {
	ExportDocument(ctx context.Context, instanceGUID uuid.UUID, minify bool) (string, error)
}

type exportService struct {
	log       *logger.Logger
	retrieval RetrievalService
	authors   *render.AuthorPreparer
	factory   *render.StructuredBodyViewModelFactory
	sections  *render.SectionPreparer
	renderer  render.Renderer
}

func NewExportService(db *gorm.DB, baseLog *logger.Logger, bundle *repos.Bundle, settings config.ExportSettings) (ExportService, error) {
	renderer, err := render.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	lookup := func(ctx context.Context, documentID uuid.UUID, mediaID string) (string, error) {
		row, err := bundle.ObservationMedia.GetByMediaIDForDocument(ctx, nil, documentID, mediaID)
		if err != nil {
			return "", err
		}
		return row.MediaID, nil
	}
	contents := render.NewTextContentPreparer(baseLog, lookup)
	return &exportService{
		log:       baseLog.With("service", "ExportService"),
		retrieval: NewRetrievalService(db, baseLog, bundle, settings.BatchedChildLoading),
		authors:   render.NewAuthorPreparer(baseLog),
		factory:   render.NewStructuredBodyViewModelFactory(baseLog),
		sections:  render.NewSectionPreparer(baseLog, contents, render.NewProductPreparer(baseLog)),
		renderer:  renderer,
	}, nil
}

func (s *exportService) ExportDocument(ctx context.Context, instanceGUID uuid.UUID, minify bool) (string, error) {
	doc, err := s.retrieval.GetDocument(ctx, instanceGUID)
	if err != nil {
		s.log.Error("Export retrieval failed", "document_guid", instanceGUID, "error", err)
		return "", err
	}

	authors := s.authors.Prepare(doc.Authors, doc.Relationships, productLabels(doc))

	bodies := make([]*render.StructuredBodyViewModel, 0, len(doc.StructuredBodies))
	for _, body := range doc.StructuredBodies {
		vm := s.factory.Create(body)
		s.enhanceBody(ctx, doc.ID, vm)
		bodies = append(bodies, vm)
	}

	model := render.PrepareDocument(doc, authors, bodies)
	out, err := s.renderer.Render(render.TemplateGenerateSpl, model)
	if err != nil {
		s.log.Error("Export render failed", "document_guid", instanceGUID, "error", err)
		return "", fmt.Errorf("render document %s: %w", instanceGUID, err)
	}

	if minify {
		out, err = render.Minify(out)
		if err != nil {
			s.log.Error("Export minify failed", "document_guid", instanceGUID, "error", err)
			return "", fmt.Errorf("minify document %s: %w", instanceGUID, err)
		}
	}

	s.log.Info("Exported document", "document_guid", instanceGUID, "minified", minify, "bytes", len(out))
	return out, nil
}

// enhanceBody fills every section context: standalone contexts directly,
// hierarchical trees depth-first with children before parents, then a
// sweep over the unified collection for anything not yet covered.
func (s *exportService) enhanceBody(ctx context.Context, documentID uuid.UUID, vm *render.StructuredBodyViewModel) {
	seen := map[uuid.UUID]bool{}
	for _, sc := range vm.StandaloneSectionContexts {
		s.enhanceSection(ctx, documentID, sc, seen)
	}
	for _, sc := range vm.HierarchicalSectionContexts {
		s.enhanceSection(ctx, documentID, sc, seen)
	}
	for _, sc := range vm.AllSectionContexts {
		s.enhanceSection(ctx, documentID, sc, seen)
	}
}

func (s *exportService) enhanceSection(ctx context.Context, documentID uuid.UUID, sc *render.SectionContext, seen map[uuid.UUID]bool) {
	if seen[sc.Section.ID] {
		return
	}
	for _, child := range sc.HierarchicalChildren {
		s.enhanceSection(ctx, documentID, child, seen)
	}
	s.sections.Enhance(ctx, documentID, sc)
	seen[sc.Section.ID] = true
}

// productLabels maps each product to the value a facility link emits for
// it: the first business identifier when one exists, the name otherwise.
func productLabels(doc *dto.Document) map[uuid.UUID]string {
	labels := map[uuid.UUID]string{}
	for _, body := range doc.StructuredBodies {
		for _, section := range body.Sections {
			for _, product := range section.Products {
				label := product.Name
				if len(product.Identifiers) > 0 && product.Identifiers[0].IdentifierValue != "" {
					label = product.Identifiers[0].IdentifierValue
				}
				labels[product.ID] = label
			}
		}
	}
	return labels
}
