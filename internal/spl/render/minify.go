package render

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Minify removes insignificant whitespace from rendered XML. Whitespace
// is insignificant only between sibling elements; character data in
// mixed-content elements is left untouched, so the transform is content
// preserving under re-parsing.
func Minify(xmlText string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlText); err != nil {
		return "", fmt.Errorf("unable to re-parse rendered output: %w", err)
	}
	if root := doc.Root(); root != nil {
		stripInterElementWhitespace(root)
	}
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("unable to serialize minified output: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func stripInterElementWhitespace(el *etree.Element) {
	hasElementChild := len(el.ChildElements()) > 0
	if hasElementChild {
		for i := len(el.Child) - 1; i >= 0; i-- {
			cd, ok := el.Child[i].(*etree.CharData)
			if ok && strings.TrimSpace(cd.Data) == "" {
				el.RemoveChildAt(i)
			}
		}
	}
	for _, child := range el.ChildElements() {
		stripInterElementWhitespace(child)
	}
}
