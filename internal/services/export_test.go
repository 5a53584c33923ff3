package services

import (
	"context"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/labelvault-backend/internal/logger"
)

const orderedSectionsDoc = `<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="urn:hl7-org:v3">
  <id root="66666666-6666-6666-6666-666666666666"/>
  <code code="34391-3" codeSystem="2.16.840.1.113883.6.1"/>
  <setId root="77777777-7777-7777-7777-777777777777"/>
  <versionNumber value="2"/>
  <author>
    <assignedEntity>
      <representedOrganization>
        <name>ACME</name>
      </representedOrganization>
    </assignedEntity>
  </author>
  <component>
    <structuredBody>
      <component>
        <section>
          <code code="s1" codeSystem="cs"/>
          <title>Alpha</title>
          <text><paragraph>first</paragraph></text>
        </section>
      </component>
      <component>
        <section>
          <code code="s2" codeSystem="cs"/>
          <title>Beta</title>
          <text><paragraph>second</paragraph></text>
          <component>
            <section>
              <code code="s2a" codeSystem="cs"/>
              <title>Beta Child</title>
              <text><paragraph>nested</paragraph></text>
            </section>
          </component>
        </section>
      </component>
      <component>
        <section>
          <code code="s3" codeSystem="cs"/>
          <title>Gamma</title>
          <text><paragraph>third</paragraph></text>
        </section>
      </component>
    </structuredBody>
  </component>
</document>`

func TestExportPreservesSectionOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result := env.importer.ImportFile(ctx, orderedSectionsDoc, "ordered.xml", nil)
	require.True(t, result.Success, result.Message)

	xmlText, err := env.exporter.ExportDocument(ctx, mustDocGUID(t, env), false)
	require.NoError(t, err)

	alpha := strings.Index(xmlText, "Alpha")
	beta := strings.Index(xmlText, "Beta")
	gamma := strings.Index(xmlText, "Gamma")
	require.True(t, alpha >= 0 && beta >= 0 && gamma >= 0, "missing section titles in export")
	require.Less(t, alpha, beta, "Alpha must precede Beta")
	require.Less(t, beta, gamma, "Beta must precede Gamma")
}

func TestExportNestsChildSections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result := env.importer.ImportFile(ctx, orderedSectionsDoc, "ordered.xml", nil)
	require.True(t, result.Success, result.Message)

	xmlText, err := env.exporter.ExportDocument(ctx, mustDocGUID(t, env), false)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xmlText))

	child := doc.FindElement("//section/component/section/title")
	require.NotNil(t, child, "nested section missing from export")
	require.Equal(t, "Beta Child", child.Text())

	// The nested section must not also appear at the top level.
	topTitles := map[string]bool{}
	for _, el := range doc.FindElements("document/component/structuredBody/component/section/title") {
		topTitles[el.Text()] = true
	}
	require.False(t, topTitles["Beta Child"], "nested section duplicated at top level")
	require.True(t, topTitles["Alpha"] && topTitles["Beta"] && topTitles["Gamma"])
}

func TestExportMinifiedKeepsContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result := env.importer.ImportFile(ctx, widgetDoc, "widget.xml", nil)
	require.True(t, result.Success, result.Message)
	guid := mustDocGUID(t, env)

	pretty, err := env.exporter.ExportDocument(ctx, guid, false)
	require.NoError(t, err)
	minified, err := env.exporter.ExportDocument(ctx, guid, true)
	require.NoError(t, err)

	require.Less(t, len(minified), len(pretty))
	for _, want := range []string{"ACME", "Widget 10mg", "12345-678-90", "Take as directed."} {
		require.Contains(t, minified, want)
	}
	require.NotContains(t, minified, "\n  ")
}

func TestRetrievalBatchedMatchesSequential(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result := env.importer.ImportFile(ctx, orderedSectionsDoc, "ordered.xml", nil)
	require.True(t, result.Success, result.Message)
	guid := mustDocGUID(t, env)

	log := logger.NewNop()
	batched := NewRetrievalService(env.db, log, env.bundle, true)
	sequential := NewRetrievalService(env.db, log, env.bundle, false)

	fromBatched, err := batched.GetDocument(ctx, guid)
	require.NoError(t, err)
	fromSequential, err := sequential.GetDocument(ctx, guid)
	require.NoError(t, err)

	require.Equal(t, fromSequential, fromBatched)
}

const labelerOperationsDoc = `<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="urn:hl7-org:v3">
  <id root="88888888-8888-8888-8888-888888888888"/>
  <code code="34391-3" codeSystem="2.16.840.1.113883.6.1"/>
  <setId root="88888888-8888-8888-8888-888888888889"/>
  <versionNumber value="1"/>
  <author>
    <assignedEntity>
      <representedOrganization>
        <name>ACME</name>
        <assignedEntity>
          <assignedOrganization>
            <name>ACME Plant One</name>
          </assignedOrganization>
          <performance>
            <actDefinition>
              <code code="C43360" codeSystem="2.16.840.1.113883.3.26.1.1" displayName="manufacture"/>
            </actDefinition>
          </performance>
        </assignedEntity>
      </representedOrganization>
      <performance>
        <actDefinition>
          <code code="C73330" codeSystem="2.16.840.1.113883.3.26.1.1" displayName="relabel"/>
        </actDefinition>
      </performance>
    </assignedEntity>
  </author>
  <component>
    <structuredBody>
      <component>
        <section>
          <code code="48780-1" codeSystem="2.16.840.1.113883.6.1"/>
          <text><paragraph>listing</paragraph></text>
        </section>
      </component>
    </structuredBody>
  </component>
</document>`

func TestExportKeepsLabelerOperations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result := env.importer.ImportFile(ctx, labelerOperationsDoc, "ops.xml", nil)
	require.True(t, result.Success, result.Message)

	xmlText, err := env.exporter.ExportDocument(ctx, mustDocGUID(t, env), false)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xmlText))

	// The labeler operation sits on the author assignedEntity, the
	// establishment operation on the nested assignedEntity. Both survive
	// the round trip.
	labelerOp := doc.FindElement("document/author/assignedEntity/performance/actDefinition/code")
	require.NotNil(t, labelerOp, "labeler operation missing from export")
	require.Equal(t, "C73330", labelerOp.SelectAttrValue("code", ""))

	plantOp := doc.FindElement("//representedOrganization/assignedEntity/performance/actDefinition/code")
	require.NotNil(t, plantOp, "establishment operation missing from export")
	require.Equal(t, "C43360", plantOp.SelectAttrValue("code", ""))
}

func TestExportEscapesEntityText(t *testing.T) {
	src := strings.Replace(widgetDoc,
		"<paragraph>Take as directed.</paragraph>",
		"<paragraph>dose &lt;10 mg of AT&amp;T brand</paragraph>", 1)

	env := newTestEnv(t)
	ctx := context.Background()

	result := env.importer.ImportFile(ctx, src, "widget.xml", nil)
	require.True(t, result.Success, result.Message)
	guid := mustDocGUID(t, env)

	xmlText, err := env.exporter.ExportDocument(ctx, guid, false)
	require.NoError(t, err)
	require.Contains(t, xmlText, "dose &lt;10 mg of AT&amp;T brand")

	// The output must stay parseable, which also keeps minify working.
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xmlText))
	para := doc.FindElement("//paragraph")
	require.NotNil(t, para)
	require.Equal(t, "dose <10 mg of AT&T brand", para.Text())

	minified, err := env.exporter.ExportDocument(ctx, guid, true)
	require.NoError(t, err)
	require.Contains(t, minified, "dose &lt;10 mg of AT&amp;T brand")
}

func TestExportUnknownDocumentFails(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.exporter.ExportDocument(context.Background(), uuid.MustParse("99999999-9999-9999-9999-999999999999"), false)
	require.Error(t, err)
}
