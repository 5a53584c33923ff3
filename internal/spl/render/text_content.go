// Package render turns the retrieved document graph into template-ready
// rendering values. Each preparation service copies its DTO subtree and
// adds derived fields; persisted data is never mutated on the way out.
package render

import (
	"context"
	"regexp"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/spl/dto"
	"github.com/yungbote/labelvault-backend/internal/types"
)

// MediaLookupFunc resolves a document-local media id to its public media
// code through the persistence layer. Used when a text block references
// media defined in a disjoint part of the document.
type MediaLookupFunc func(ctx context.Context, documentID uuid.UUID, mediaID string) (string, error)

// MediaInput is the shared input handed to every resolution stage.
type MediaInput struct {
	DocumentID   uuid.UUID
	Content      *dto.TextContent
	SectionMedia []*dto.ObservationMedia
}

// MediaStage is one resolution strategy. The second return reports
// whether the stage produced an answer; later stages run only when the
// earlier ones did not.
type MediaStage func(ctx context.Context, in *MediaInput) ([]string, bool)

// TextContentRendering wraps one narrative block with the discriminator
// flags and resolved media references the template consumes.
type TextContentRendering struct {
	Content         *dto.TextContent
	IsParagraph     bool
	IsList          bool
	IsTable         bool
	IsMultiMedia    bool
	MediaReferences []string
}

// TextContentPreparer prepares a section's narrative blocks. Multimedia
// references are resolved through an ordered stage chain because media
// definitions and their textual references are not guaranteed to live in
// the same section subtree.
type TextContentPreparer struct {
	log    *logger.Logger
	stages []MediaStage
}

func NewTextContentPreparer(baseLog *logger.Logger, lookup MediaLookupFunc) *TextContentPreparer {
	p := &TextContentPreparer{log: baseLog.With("render", "text_content")}
	p.stages = []MediaStage{
		stageJoinedMedia,
		stageFirstAvailableMedia,
		stagePersistedMedia(lookup),
		stageLiteralReference,
	}
	return p
}

// WithStages replaces the resolution chain, mainly for tests that need a
// deterministic subset.
func (p *TextContentPreparer) WithStages(stages ...MediaStage) *TextContentPreparer {
	p.stages = stages
	return p
}

func (p *TextContentPreparer) Prepare(ctx context.Context, documentID uuid.UUID, contents []*dto.TextContent, sectionMedia []*dto.ObservationMedia) []*TextContentRendering {
	out := make([]*TextContentRendering, 0, len(contents))
	for _, c := range contents {
		r := &TextContentRendering{
			Content:      c,
			IsParagraph:  c.ContentType == types.ContentTypeParagraph,
			IsList:       c.ContentType == types.ContentTypeList,
			IsTable:      c.ContentType == types.ContentTypeTable,
			IsMultiMedia: c.ContentType == types.ContentTypeMultiMedia,
		}
		if r.IsMultiMedia || len(c.MediaJoins) > 0 {
			r.MediaReferences = p.resolveMedia(ctx, &MediaInput{
				DocumentID:   documentID,
				Content:      c,
				SectionMedia: sectionMedia,
			})
			if len(r.MediaReferences) == 0 {
				p.log.Warn("Unresolvable multimedia reference",
					"document_id", documentID,
					"content_id", c.ID)
			}
		}
		out = append(out, r)
	}
	return out
}

func (p *TextContentPreparer) resolveMedia(ctx context.Context, in *MediaInput) []string {
	for _, stage := range p.stages {
		if refs, ok := stage(ctx, in); ok {
			return refs
		}
	}
	return nil
}

// stageJoinedMedia matches the block's media joins, in sequence order,
// against the section's own observation media.
func stageJoinedMedia(_ context.Context, in *MediaInput) ([]string, bool) {
	joins := orderedJoins(in.Content)
	if len(joins) == 0 {
		return nil, false
	}
	codeByRow := map[uuid.UUID]string{}
	codeByMediaID := map[string]string{}
	for _, m := range in.SectionMedia {
		codeByRow[m.ID] = m.MediaID
		if m.MediaID != "" {
			codeByMediaID[m.MediaID] = m.MediaID
		}
	}
	var refs []string
	for _, j := range joins {
		if j.ObservationMediaID != nil {
			if code, ok := codeByRow[*j.ObservationMediaID]; ok && code != "" {
				refs = append(refs, code)
				continue
			}
		}
		if code, ok := codeByMediaID[j.ReferencedMediaID]; ok {
			refs = append(refs, code)
		}
	}
	return refs, len(refs) > 0
}

// stageFirstAvailableMedia covers multimedia blocks that recorded no
// joins at all: the first media item in the section stands in.
func stageFirstAvailableMedia(_ context.Context, in *MediaInput) ([]string, bool) {
	if in.Content.ContentType != types.ContentTypeMultiMedia || len(in.Content.MediaJoins) > 0 {
		return nil, false
	}
	for _, m := range in.SectionMedia {
		if m.MediaID != "" {
			return []string{m.MediaID}, true
		}
	}
	return nil, false
}

// stagePersistedMedia queries storage for joins whose referenced media
// lives outside the section passed in context.
func stagePersistedMedia(lookup MediaLookupFunc) MediaStage {
	return func(ctx context.Context, in *MediaInput) ([]string, bool) {
		if lookup == nil {
			return nil, false
		}
		var refs []string
		for _, j := range orderedJoins(in.Content) {
			if j.ReferencedMediaID == "" {
				continue
			}
			code, err := lookup(ctx, in.DocumentID, j.ReferencedMediaID)
			if err != nil || code == "" {
				continue
			}
			refs = append(refs, code)
		}
		return refs, len(refs) > 0
	}
}

var referencedObjectPattern = regexp.MustCompile(`referencedObject="([^"]+)"`)

// stageLiteralReference is the last resort: scrape referencedObject
// attribute values straight out of the stored markup.
func stageLiteralReference(_ context.Context, in *MediaInput) ([]string, bool) {
	matches := referencedObjectPattern.FindAllStringSubmatch(in.Content.ContentText, -1)
	if len(matches) == 0 {
		return nil, false
	}
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs, true
}

func orderedJoins(c *dto.TextContent) []*dto.RenderedMedia {
	joins := make([]*dto.RenderedMedia, len(c.MediaJoins))
	copy(joins, c.MediaJoins)
	sort.SliceStable(joins, func(i, j int) bool {
		return joins[i].SequenceInContent < joins[j].SequenceInContent
	})
	return joins
}
