package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/labelvault-backend/internal/types"
)

// facilityDoc wires an establishment under the labeler whose operation
// references a product by the given code or name.
func facilityDoc(productRef string, products string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="urn:hl7-org:v3">
  <id root="44444444-4444-4444-4444-444444444444"/>
  <code code="34391-3" codeSystem="2.16.840.1.113883.6.1"/>
  <setId root="55555555-5555-5555-5555-555555555555"/>
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
              <product>
                <manufacturedProduct>
                  <manufacturedMaterialKind>
                    <kindOfMaterialKind code="%s"/>
                  </manufacturedMaterialKind>
                </manufacturedProduct>
              </product>
            </actDefinition>
          </performance>
        </assignedEntity>
      </representedOrganization>
    </assignedEntity>
  </author>
  <component>
    <structuredBody>
      <component>
        <section>
          <code code="48780-1" codeSystem="2.16.840.1.113883.6.1"/>
          %s
        </section>
      </component>
    </structuredBody>
  </component>
</document>`, productRef, products)
}

func productXML(name, code string) string {
	identifier := ""
	if code != "" {
		identifier = fmt.Sprintf(`<code code="%s" codeSystem="2.16.840.1.113883.6.69"/>`, code)
	}
	return fmt.Sprintf(`<subject>
            <manufacturedProduct>
              <manufacturedProduct>
                %s
                <name>%s</name>
              </manufacturedProduct>
            </manufacturedProduct>
          </subject>`, identifier, name)
}

func TestResolverPrefersIdentifierOverName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// One product is literally named "ACME-100"; another carries it as a
	// business identifier. The identifier match must win.
	doc := facilityDoc("ACME-100", productXML("ACME-100", "")+productXML("Widget", "ACME-100"))
	result := env.importer.ImportFile(ctx, doc, "facility.xml", nil)
	require.True(t, result.Success, result.Message)
	require.Equal(t, 1, result.ResolvedLinks)

	var links []*types.FacilityProductLink
	require.NoError(t, env.db.Find(&links).Error)
	require.Len(t, links, 1)
	require.True(t, links[0].IsResolved)
	require.NotNil(t, links[0].ProductID)
	require.NotNil(t, links[0].ProductIdentifierID, "identifier match must record the identifier row")
	require.Empty(t, links[0].ProductNameOrCode)

	var widget types.Product
	require.NoError(t, env.db.Where("name = ?", "Widget").First(&widget).Error)
	require.Equal(t, widget.ID, *links[0].ProductID)
}

func TestResolverMostRecentIdentifierWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Two products share the identifier value; the later insert must win.
	doc := facilityDoc("DUP-1", productXML("First", "DUP-1")+productXML("Second", "DUP-1"))
	result := env.importer.ImportFile(ctx, doc, "dup.xml", nil)
	require.True(t, result.Success, result.Message)
	require.Equal(t, 1, result.ResolvedLinks)

	var links []*types.FacilityProductLink
	require.NoError(t, env.db.Find(&links).Error)
	require.Len(t, links, 1)
	require.NotNil(t, links[0].ProductID)

	var second types.Product
	require.NoError(t, env.db.Where("name = ?", "Second").First(&second).Error)
	require.Equal(t, second.ID, *links[0].ProductID)
}

func TestResolverFallsBackToName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc := facilityDoc("Widget", productXML("Widget", "99999-000-11"))
	result := env.importer.ImportFile(ctx, doc, "byname.xml", nil)
	require.True(t, result.Success, result.Message)
	require.Equal(t, 1, result.ResolvedLinks)

	var links []*types.FacilityProductLink
	require.NoError(t, env.db.Find(&links).Error)
	require.Len(t, links, 1)
	require.True(t, links[0].IsResolved)
	require.NotNil(t, links[0].ProductID)
	require.Nil(t, links[0].ProductIdentifierID, "name match records no identifier")
}

func TestUnresolvedLinkStaysVisible(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc := facilityDoc("NO-SUCH-PRODUCT", productXML("Widget", "99999-000-11"))
	result := env.importer.ImportFile(ctx, doc, "unresolved.xml", nil)
	require.True(t, result.Success, result.Message)
	require.Zero(t, result.ResolvedLinks)

	var links []*types.FacilityProductLink
	require.NoError(t, env.db.Find(&links).Error)
	require.Len(t, links, 1)
	require.False(t, links[0].IsResolved)
	require.Equal(t, "NO-SUCH-PRODUCT", links[0].ProductNameOrCode)

	// The raw reference also survives into the export.
	xmlText, err := env.exporter.ExportDocument(ctx, mustDocGUID(t, env), false)
	require.NoError(t, err)
	require.Contains(t, xmlText, "NO-SUCH-PRODUCT")
}
