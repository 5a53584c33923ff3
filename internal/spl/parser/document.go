package parser

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/types"
)

// documentParser handles the root <document> element: identity (instance
// GUID, set GUID, version), type code and title. Its success is mandatory
// for the rest of the import, so unlike the optional parsers it returns
// errors instead of accumulating them.
type documentParser struct {
	log *logger.Logger
}

func NewDocumentParser(baseLog *logger.Logger) ElementParser {
	return &documentParser{log: baseLog.With("parser", "document")}
}

func (p *documentParser) Parse(ctx context.Context, el *etree.Element, pctx *Context, progress ProgressFunc) error {
	progress.Report("parsing document")

	instanceGUID, ok := attrGUID(el.SelectElement("id"), "root")
	if !ok {
		return fmt.Errorf("document is missing a valid id/@root GUID")
	}
	setGUID, ok := attrGUID(el.SelectElement("setId"), "root")
	if !ok {
		// Single-version submissions occasionally omit setId; the
		// instance GUID then identifies the version family.
		setGUID = instanceGUID
	}

	code := childCode(el, "code")
	doc := &types.Document{
		ID:              uuid.New(),
		DocumentGUID:    instanceGUID,
		SetGUID:         setGUID,
		VersionNumber:   attrInt(el, "versionNumber", "value", 1),
		Title:           childText(el, "title"),
		DocumentCode:    code.Code,
		CodeSystem:      code.CodeSystem,
		CodeDisplayName: code.DisplayName,
		EffectiveTime:   attrValue(el, "effectiveTime", "value"),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if _, err := pctx.Repos.Document.Create(ctx, pctx.Tx, doc); err != nil {
		return fmt.Errorf("persist document %s: %w", instanceGUID, err)
	}

	pctx.Document = doc
	pctx.Result.Increment("documents", 1)
	p.log.Info("Parsed document root", "document_guid", instanceGUID, "version", doc.VersionNumber)
	return nil
}
