package render

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func TestMinifyStripsInterElementWhitespace(t *testing.T) {
	in := `<document>
  <id root="abc"/>
  <component>
    <section>
      <title>Alpha</title>
    </section>
  </component>
</document>`

	out, err := Minify(in)
	if err != nil {
		t.Fatalf("minify: %v", err)
	}
	if strings.Contains(out, "\n") {
		t.Fatalf("newlines survived minification: %q", out)
	}
	if !strings.Contains(out, "<title>Alpha</title>") {
		t.Fatalf("element text lost: %q", out)
	}
}

func TestMinifyKeepsMixedContentWhitespace(t *testing.T) {
	in := `<section>
  <text>
    <paragraph>Take   as  directed.</paragraph>
  </text>
</section>`

	out, err := Minify(in)
	if err != nil {
		t.Fatalf("minify: %v", err)
	}
	if !strings.Contains(out, "Take   as  directed.") {
		t.Fatalf("character data altered: %q", out)
	}
}

func TestMinifyIsContentPreserving(t *testing.T) {
	in := `<document>
  <code code="34391-3" displayName="LABEL"/>
  <title>Widget Label</title>
  <component>
    <section>
      <text><paragraph>one</paragraph><paragraph>two</paragraph></text>
    </section>
  </component>
</document>`

	out, err := Minify(in)
	if err != nil {
		t.Fatalf("minify: %v", err)
	}

	before := etree.NewDocument()
	if err := before.ReadFromString(in); err != nil {
		t.Fatalf("parse input: %v", err)
	}
	after := etree.NewDocument()
	if err := after.ReadFromString(out); err != nil {
		t.Fatalf("parse output: %v", err)
	}

	checks := []struct {
		path string
		attr string
	}{
		{path: "document/code", attr: "code"},
		{path: "document/code", attr: "displayName"},
	}
	for _, c := range checks {
		b := before.FindElement(c.path)
		a := after.FindElement(c.path)
		if a == nil || b == nil {
			t.Fatalf("element %s missing after minify", c.path)
		}
		if a.SelectAttrValue(c.attr, "") != b.SelectAttrValue(c.attr, "") {
			t.Fatalf("attribute %s@%s changed", c.path, c.attr)
		}
	}

	wantParas := len(before.FindElements("//paragraph"))
	gotParas := len(after.FindElements("//paragraph"))
	if wantParas != gotParas {
		t.Fatalf("paragraph count: want=%d got=%d", wantParas, gotParas)
	}
	if got := after.FindElement("document/title").Text(); got != "Widget Label" {
		t.Fatalf("title: want=Widget Label got=%s", got)
	}
}

func TestMinifyRejectsMalformedInput(t *testing.T) {
	if _, err := Minify("<unclosed>"); err == nil {
		t.Fatalf("expected error for malformed input")
	}
}
