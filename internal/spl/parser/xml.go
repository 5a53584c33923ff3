package parser

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// Small etree helpers shared by the element parsers. SPL uses a default
// HL7 namespace; etree keeps local names in Tag, so lookups below are by
// local name.

type codedValue struct {
	Code        string
	CodeSystem  string
	DisplayName string
}

func parseCode(el *etree.Element) codedValue {
	if el == nil {
		return codedValue{}
	}
	return codedValue{
		Code:        el.SelectAttrValue("code", ""),
		CodeSystem:  el.SelectAttrValue("codeSystem", ""),
		DisplayName: el.SelectAttrValue("displayName", ""),
	}
}

func childCode(parent *etree.Element, tag string) codedValue {
	if parent == nil {
		return codedValue{}
	}
	return parseCode(parent.SelectElement(tag))
}

func attrGUID(el *etree.Element, attr string) (uuid.UUID, bool) {
	if el == nil {
		return uuid.Nil, false
	}
	raw := strings.TrimSpace(el.SelectAttrValue(attr, ""))
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func childText(parent *etree.Element, tag string) string {
	if parent == nil {
		return ""
	}
	child := parent.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

func attrValue(parent *etree.Element, tag, attr string) string {
	if parent == nil {
		return ""
	}
	child := parent.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.SelectAttrValue(attr, ""))
}

func attrInt(parent *etree.Element, tag, attr string, fallback int) int {
	raw := attrValue(parent, tag, attr)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// charDataEscaper re-escapes text nodes on serialization. etree decodes
// entity references on read, so raw CharData must not be written back
// verbatim or `&` and `<` leak into the output unescaped.
var charDataEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// innerXML serializes the children of an element (elements, text, mixed
// content) without the surrounding start/end tags. The result is valid
// XML content: element children keep their own escaping through etree,
// text children are escaped here.
func innerXML(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var sb strings.Builder
	for _, child := range el.Child {
		switch node := child.(type) {
		case *etree.Element:
			sub := etree.NewDocument()
			sub.AddChild(node.Copy())
			s, err := sub.WriteToString()
			if err == nil {
				sb.WriteString(strings.TrimSpace(s))
			}
		case *etree.CharData:
			sb.WriteString(charDataEscaper.Replace(node.Data))
		}
	}
	return strings.TrimSpace(sb.String())
}
