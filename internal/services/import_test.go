package services

import (
	"context"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/labelvault-backend/internal/spl/parser"
	"github.com/yungbote/labelvault-backend/internal/types"
)

const widgetDoc = `<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="urn:hl7-org:v3">
  <id root="11111111-1111-1111-1111-111111111111"/>
  <code code="34391-3" codeSystem="2.16.840.1.113883.6.1" displayName="HUMAN PRESCRIPTION DRUG LABEL"/>
  <title>Widget Label</title>
  <effectiveTime value="20240101"/>
  <setId root="22222222-2222-2222-2222-222222222222"/>
  <versionNumber value="1"/>
  <author>
    <assignedEntity>
      <representedOrganization>
        <id extension="123456789" root="1.3.6.1.4.1.519.1"/>
        <name>ACME</name>
      </representedOrganization>
    </assignedEntity>
  </author>
  <component>
    <structuredBody>
      <component>
        <section>
          <id root="33333333-3333-3333-3333-333333333333"/>
          <code code="34067-9" codeSystem="2.16.840.1.113883.6.1"/>
          <title>Indications</title>
          <text>
            <paragraph>Take as directed.</paragraph>
          </text>
          <subject>
            <manufacturedProduct>
              <manufacturedProduct>
                <code code="12345-678-90" codeSystem="2.16.840.1.113883.6.69"/>
                <name>Widget 10mg</name>
              </manufacturedProduct>
            </manufacturedProduct>
          </subject>
        </section>
      </component>
    </structuredBody>
  </component>
</document>`

func TestImportEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result := env.importer.ImportFile(ctx, widgetDoc, "widget.xml", nil)
	require.True(t, result.Success, "import failed: %s", result.Message)
	require.Empty(t, result.Errors)

	require.EqualValues(t, 1, env.count(t, &types.Document{}))
	require.EqualValues(t, 1, env.count(t, &types.Organization{}))
	require.EqualValues(t, 1, env.count(t, &types.Section{}))
	require.EqualValues(t, 1, env.count(t, &types.Product{}))
	require.EqualValues(t, 1, env.count(t, &types.RawDocument{}))

	var unresolved int64
	require.NoError(t, env.db.Model(&types.FacilityProductLink{}).
		Where("is_resolved = ?", false).Count(&unresolved).Error)
	require.Zero(t, unresolved)

	doc, err := env.bundle.Document.GetByDocumentGUID(ctx, nil,
		uuid.MustParse("11111111-1111-1111-1111-111111111111"))
	require.NoError(t, err)
	require.Equal(t, 1, doc.VersionNumber)
	require.Equal(t, "Widget Label", doc.Title)

	xmlText, err := env.exporter.ExportDocument(ctx, doc.DocumentGUID, false)
	require.NoError(t, err)
	require.Contains(t, xmlText, "ACME")
	require.Contains(t, xmlText, "Widget 10mg")
	require.Contains(t, xmlText, "12345-678-90")
}

func TestImportDuplicateSubmissionSkipped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.importer.ImportFile(ctx, widgetDoc, "widget.xml", nil)
	require.True(t, first.Success, first.Message)

	second := env.importer.ImportFile(ctx, widgetDoc, "widget.xml", nil)
	require.True(t, second.Success, second.Message)
	require.Contains(t, second.Message, "duplicate")

	require.EqualValues(t, 1, env.count(t, &types.RawDocument{}))
	require.EqualValues(t, 1, env.count(t, &types.Document{}))
}

func TestImportDuplicateDetectionIgnoresLineEndings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.importer.ImportFile(ctx, widgetDoc, "widget.xml", nil)
	require.True(t, first.Success, first.Message)

	crlf := strings.ReplaceAll(widgetDoc, "\n", "\r\n") + "\r\n"
	second := env.importer.ImportFile(ctx, crlf, "widget-crlf.xml", nil)
	require.True(t, second.Success, second.Message)
	require.Contains(t, second.Message, "duplicate")
	require.EqualValues(t, 1, env.count(t, &types.RawDocument{}))
}

func TestImportRejectsMalformedInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		xml  string
	}{
		{"not xml", "this is not xml at all <<<"},
		{"wrong root", "<labels><document/></labels>"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			result := env.importer.ImportFile(ctx, tc.xml, tc.name, nil)
			require.False(t, result.Success)
			require.EqualValues(t, 0, env.count(t, &types.Document{}))
		})
	}
}

// stubParser counts invocations and optionally fails.
type stubParser struct {
	calls int
	err   error
}

func (s *stubParser) Parse(_ context.Context, _ *etree.Element, _ *parser.Context, _ parser.ProgressFunc) error {
	s.calls++
	return s.err
}

func TestImportMandatoryDocumentFailureShortCircuits(t *testing.T) {
	log := loggerNop()
	registry := parser.NewRegistry(log)
	docStub := &stubParser{err: errBoom}
	authorStub := &stubParser{}
	bodyStub := &stubParser{}
	registry.Register("document", docStub)
	registry.Register("author", authorStub)
	registry.Register("structuredBody", bodyStub)

	env := newTestEnvWithRegistry(t, registry)
	result := env.importer.ImportFile(context.Background(), widgetDoc, "widget.xml", nil)

	require.False(t, result.Success)
	require.Equal(t, 1, docStub.calls)
	require.Zero(t, authorStub.calls, "author parser ran after mandatory failure")
	require.Zero(t, bodyStub.calls, "structuredBody parser ran after mandatory failure")
	require.EqualValues(t, 0, env.count(t, &types.Document{}))
}

func TestImportOptionalSubtreeErrorsAccumulate(t *testing.T) {
	log := loggerNop()
	registry := parser.NewRegistry(log)
	registry.Register("document", parser.NewDocumentParser(log))
	registry.Register("author", &stubParser{err: errBoom})
	registry.Register("structuredBody", parser.NewStructuredBodyParser(log, parser.NewSectionParser(log)))

	env := newTestEnvWithRegistry(t, registry)
	result := env.importer.ImportFile(context.Background(), widgetDoc, "widget.xml", nil)

	// The failed author subtree marks the run, but the rest of the walk
	// still happened inside the same committed transaction.
	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	require.EqualValues(t, 1, env.count(t, &types.Document{}))
	require.EqualValues(t, 1, env.count(t, &types.Section{}))
	require.EqualValues(t, 1, env.count(t, &types.Product{}))
	require.EqualValues(t, 0, env.count(t, &types.Organization{}))
}

func TestImportRunRecorded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result := env.importer.ImportFile(ctx, widgetDoc, "widget.xml", nil)
	require.True(t, result.Success, result.Message)

	var runs []*types.ImportRun
	require.NoError(t, env.db.Find(&runs).Error)
	require.Len(t, runs, 1)
	require.True(t, runs[0].Success)
	require.Equal(t, "widget.xml", runs[0].FileLabel)
	require.Contains(t, string(runs[0].Stats), "sections")
}

func TestImportProgressMilestones(t *testing.T) {
	env := newTestEnv(t)

	var milestones []string
	result := env.importer.ImportFile(context.Background(), widgetDoc, "widget.xml", func(m string) {
		milestones = append(milestones, m)
	})
	require.True(t, result.Success, result.Message)

	joined := strings.Join(milestones, "\n")
	for _, want := range []string{"starting import", "parsing document", "parsing author", "parsing structuredBody", "resolving links"} {
		require.Contains(t, joined, want)
	}
}
