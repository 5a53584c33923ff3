package parser

import (
	"context"
	"strings"

	"github.com/beevik/etree"

	"github.com/yungbote/labelvault-backend/internal/logger"
)

// ElementParser consumes one XML subtree plus the shared parse context.
// Implementations report recoverable problems through pctx.Result and
// return an error only when the subtree is unusable.
type ElementParser interface {
	Parse(ctx context.Context, el *etree.Element, pctx *Context, progress ProgressFunc) error
}

// Registry maps a normalized element name to the parser responsible for
// it. New element kinds are supported by registering a parser under their
// tag; the orchestrator never switches on concrete types.
type Registry struct {
	parsers map[string]ElementParser
	log     *logger.Logger
}

func NewRegistry(baseLog *logger.Logger) *Registry {
	return &Registry{
		parsers: map[string]ElementParser{},
		log:     baseLog.With("component", "ParserRegistry"),
	}
}

// NewDefaultRegistry returns a registry populated with the built-in
// parsers for document, author and structuredBody.
func NewDefaultRegistry(baseLog *logger.Logger) *Registry {
	r := NewRegistry(baseLog)
	r.Register("document", NewDocumentParser(baseLog))
	r.Register("author", NewAuthorParser(baseLog))
	r.Register("structuredBody", NewStructuredBodyParser(baseLog, NewSectionParser(baseLog)))
	return r
}

func (r *Registry) Register(elementName string, p ElementParser) {
	key := strings.ToLower(strings.TrimSpace(elementName))
	if _, exists := r.parsers[key]; exists {
		r.log.Warn("Replacing registered element parser", "element", key)
	}
	r.parsers[key] = p
}

func (r *Registry) Lookup(elementName string) (ElementParser, bool) {
	p, ok := r.parsers[strings.ToLower(strings.TrimSpace(elementName))]
	return p, ok
}
