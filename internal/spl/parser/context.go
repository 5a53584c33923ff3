package parser

import (
	"github.com/beevik/etree"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/config"
	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/repos"
	"github.com/yungbote/labelvault-backend/internal/types"
)

// ProgressFunc is the one-way milestone sink handed in by the caller. It
// may be nil; Report is the nil-safe way to invoke it.
type ProgressFunc func(milestone string)

func (f ProgressFunc) Report(milestone string) {
	if f != nil {
		f(milestone)
	}
}

// Context is the per-import mutable scope. It carries the transaction
// handle the whole file writes through, the shared result accumulator, the
// feature toggles read before the scope was opened, and the parent
// entities descendant parsers need. One Context never outlives its import.
type Context struct {
	Tx       *gorm.DB
	Log      *logger.Logger
	Repos    *repos.Bundle
	Result   *Result
	Settings config.ImportSettings

	Root *etree.Element

	// Parents created earlier in the fixed walk order. Document is set by
	// the document parser and is non-nil for author/structuredBody work.
	Document       *types.Document
	AuthorOrgs     []*types.Organization
	StructuredBody *types.StructuredBody
}
