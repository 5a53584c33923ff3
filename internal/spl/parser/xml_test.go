package parser

import (
	"testing"

	"github.com/beevik/etree"
)

func element(t *testing.T, fragment string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(fragment); err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return doc.Root()
}

func TestInnerXMLReEscapesCharData(t *testing.T) {
	// etree decodes entities on read; serialization must put them back or
	// the stored markup is no longer valid XML content.
	el := element(t, `<paragraph>dose &lt;10 mg of AT&amp;T brand</paragraph>`)
	got := innerXML(el)
	want := "dose &lt;10 mg of AT&amp;T brand"
	if got != want {
		t.Fatalf("innerXML: want=%q got=%q", want, got)
	}
}

func TestInnerXMLKeepsMixedContent(t *testing.T) {
	el := element(t, `<text>before <content styleCode="bold">A &amp; B</content> after</text>`)
	got := innerXML(el)
	want := `before <content styleCode="bold">A &amp; B</content> after`
	if got != want {
		t.Fatalf("innerXML: want=%q got=%q", want, got)
	}
}

func TestInnerXMLRoundTripsThroughReparse(t *testing.T) {
	el := element(t, `<paragraph>5 &lt; 10 &amp;&amp; 10 &gt; 5</paragraph>`)
	wrapped := "<paragraph>" + innerXML(el) + "</paragraph>"

	reparsed := etree.NewDocument()
	if err := reparsed.ReadFromString(wrapped); err != nil {
		t.Fatalf("serialized content not parseable: %v", err)
	}
	if got := reparsed.Root().Text(); got != "5 < 10 && 10 > 5" {
		t.Fatalf("round trip text: want=%q got=%q", "5 < 10 && 10 > 5", got)
	}
}

func TestInnerXMLNilElement(t *testing.T) {
	if got := innerXML(nil); got != "" {
		t.Fatalf("want empty string, got=%q", got)
	}
}
