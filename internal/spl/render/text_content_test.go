package render

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/spl/dto"
	"github.com/yungbote/labelvault-backend/internal/types"
)

func mediaRow(mediaID string) *dto.ObservationMedia {
	return &dto.ObservationMedia{ID: uuid.New(), MediaID: mediaID}
}

func TestStageJoinedMediaOrdersBySequence(t *testing.T) {
	first := mediaRow("MM1")
	second := mediaRow("MM2")
	content := &dto.TextContent{
		ContentType: types.ContentTypeMultiMedia,
		MediaJoins: []*dto.RenderedMedia{
			{ObservationMediaID: &second.ID, SequenceInContent: 2},
			{ObservationMediaID: &first.ID, SequenceInContent: 1},
		},
	}

	refs, ok := stageJoinedMedia(context.Background(), &MediaInput{
		Content:      content,
		SectionMedia: []*dto.ObservationMedia{first, second},
	})
	if !ok {
		t.Fatalf("stage did not resolve")
	}
	want := []string{"MM1", "MM2"}
	if !reflect.DeepEqual(refs, want) {
		t.Fatalf("refs: want=%v got=%v", want, refs)
	}
}

func TestStageJoinedMediaMatchesByReferencedID(t *testing.T) {
	content := &dto.TextContent{
		ContentType: types.ContentTypeMultiMedia,
		MediaJoins:  []*dto.RenderedMedia{{ReferencedMediaID: "MM9"}},
	}
	refs, ok := stageJoinedMedia(context.Background(), &MediaInput{
		Content:      content,
		SectionMedia: []*dto.ObservationMedia{mediaRow("MM9")},
	})
	if !ok || len(refs) != 1 || refs[0] != "MM9" {
		t.Fatalf("want [MM9] got=%v ok=%v", refs, ok)
	}
}

func TestStageJoinedMediaSkipsWhenNoJoins(t *testing.T) {
	content := &dto.TextContent{ContentType: types.ContentTypeMultiMedia}
	if _, ok := stageJoinedMedia(context.Background(), &MediaInput{Content: content}); ok {
		t.Fatalf("stage resolved with no joins")
	}
}

func TestStageFirstAvailableMediaFallsBack(t *testing.T) {
	content := &dto.TextContent{ContentType: types.ContentTypeMultiMedia}
	refs, ok := stageFirstAvailableMedia(context.Background(), &MediaInput{
		Content:      content,
		SectionMedia: []*dto.ObservationMedia{mediaRow(""), mediaRow("MM3")},
	})
	if !ok || len(refs) != 1 || refs[0] != "MM3" {
		t.Fatalf("want [MM3] got=%v ok=%v", refs, ok)
	}
}

func TestStageFirstAvailableMediaIgnoresJoinedContent(t *testing.T) {
	content := &dto.TextContent{
		ContentType: types.ContentTypeMultiMedia,
		MediaJoins:  []*dto.RenderedMedia{{ReferencedMediaID: "MM1"}},
	}
	if _, ok := stageFirstAvailableMedia(context.Background(), &MediaInput{Content: content}); ok {
		t.Fatalf("stage resolved content that has joins")
	}
}

func TestStagePersistedMediaUsesLookup(t *testing.T) {
	docID := uuid.New()
	var gotMediaID string
	stage := stagePersistedMedia(func(_ context.Context, documentID uuid.UUID, mediaID string) (string, error) {
		if documentID != docID {
			t.Fatalf("document id: want=%s got=%s", docID, documentID)
		}
		gotMediaID = mediaID
		return "MM7", nil
	})

	content := &dto.TextContent{
		ContentType: types.ContentTypeMultiMedia,
		MediaJoins:  []*dto.RenderedMedia{{ReferencedMediaID: "MM7"}},
	}
	refs, ok := stage(context.Background(), &MediaInput{DocumentID: docID, Content: content})
	if !ok || len(refs) != 1 || refs[0] != "MM7" {
		t.Fatalf("want [MM7] got=%v ok=%v", refs, ok)
	}
	if gotMediaID != "MM7" {
		t.Fatalf("lookup media id: want=MM7 got=%s", gotMediaID)
	}
}

func TestStagePersistedMediaToleratesLookupErrors(t *testing.T) {
	stage := stagePersistedMedia(func(context.Context, uuid.UUID, string) (string, error) {
		return "", errors.New("not found")
	})
	content := &dto.TextContent{
		ContentType: types.ContentTypeMultiMedia,
		MediaJoins:  []*dto.RenderedMedia{{ReferencedMediaID: "MM7"}},
	}
	if _, ok := stage(context.Background(), &MediaInput{Content: content}); ok {
		t.Fatalf("stage resolved despite lookup failure")
	}
}

func TestStageLiteralReferenceScrapesMarkup(t *testing.T) {
	content := &dto.TextContent{
		ContentType: types.ContentTypeMultiMedia,
		ContentText: `<renderMultiMedia referencedObject="MM4"/><renderMultiMedia referencedObject="MM5"/>`,
	}
	refs, ok := stageLiteralReference(context.Background(), &MediaInput{Content: content})
	if !ok {
		t.Fatalf("stage did not resolve")
	}
	want := []string{"MM4", "MM5"}
	if !reflect.DeepEqual(refs, want) {
		t.Fatalf("refs: want=%v got=%v", want, refs)
	}
}

func TestPrepareStopsAtFirstResolvingStage(t *testing.T) {
	var order []string
	miss := func(name string) MediaStage {
		return func(context.Context, *MediaInput) ([]string, bool) {
			order = append(order, name)
			return nil, false
		}
	}
	hit := func(name string) MediaStage {
		return func(context.Context, *MediaInput) ([]string, bool) {
			order = append(order, name)
			return []string{"MM1"}, true
		}
	}

	p := NewTextContentPreparer(logger.NewNop(), nil).
		WithStages(miss("first"), hit("second"), miss("third"))

	out := p.Prepare(context.Background(), uuid.New(), []*dto.TextContent{
		{ContentType: types.ContentTypeMultiMedia},
	}, nil)

	wantOrder := []string{"first", "second"}
	if !reflect.DeepEqual(order, wantOrder) {
		t.Fatalf("stage order: want=%v got=%v", wantOrder, order)
	}
	if len(out) != 1 || !reflect.DeepEqual(out[0].MediaReferences, []string{"MM1"}) {
		t.Fatalf("unexpected renderings: %+v", out)
	}
}

func TestPrepareSkipsResolutionForPlainContent(t *testing.T) {
	called := false
	p := NewTextContentPreparer(logger.NewNop(), nil).
		WithStages(func(context.Context, *MediaInput) ([]string, bool) {
			called = true
			return nil, false
		})

	out := p.Prepare(context.Background(), uuid.New(), []*dto.TextContent{
		{ContentType: types.ContentTypeParagraph, ContentText: "hello"},
	}, nil)

	if called {
		t.Fatalf("resolution ran for a plain paragraph")
	}
	if len(out) != 1 || !out[0].IsParagraph || out[0].IsMultiMedia {
		t.Fatalf("unexpected flags: %+v", out[0])
	}
}

func TestPrepareFlagsContentTypes(t *testing.T) {
	p := NewTextContentPreparer(logger.NewNop(), nil)
	out := p.Prepare(context.Background(), uuid.New(), []*dto.TextContent{
		{ContentType: types.ContentTypeParagraph},
		{ContentType: types.ContentTypeList},
		{ContentType: types.ContentTypeTable},
	}, nil)

	if !out[0].IsParagraph || out[0].IsList {
		t.Fatalf("paragraph flags wrong: %+v", out[0])
	}
	if !out[1].IsList {
		t.Fatalf("list flag wrong: %+v", out[1])
	}
	if !out[2].IsTable {
		t.Fatalf("table flag wrong: %+v", out[2])
	}
}
