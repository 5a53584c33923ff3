package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/config"
	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/repos"
	"github.com/yungbote/labelvault-backend/internal/spl/parser"
	"github.com/yungbote/labelvault-backend/internal/types"
)

// ImportService is the top-level import orchestrator: one call imports
// one file inside one transaction. It never returns an error; every
// failure mode is folded into the returned result.
type ImportService interface {
	ImportFile(ctx context.Context, xmlText, fileLabel string, progress parser.ProgressFunc) *parser.Result
}

type importService struct {
	db       *gorm.DB
	log      *logger.Logger
	repos    *repos.Bundle
	registry *parser.Registry
	rawDocs  RawDocumentService
	resolver LinkResolver
	settings config.Settings
}

func NewImportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	bundle *repos.Bundle,
	registry *parser.Registry,
	rawDocs RawDocumentService,
	resolver LinkResolver,
	settings config.Settings,
) ImportService {
	serviceLog := baseLog.With("service", "ImportService")
	return &importService{
		db:       db,
		log:      serviceLog,
		repos:    bundle,
		registry: registry,
		rawDocs:  rawDocs,
		resolver: resolver,
		settings: settings,
	}
}

func (s *importService) ImportFile(ctx context.Context, xmlText, fileLabel string, progress parser.ProgressFunc) (result *parser.Result) {
	log := s.log.With("file", fileLabel)
	result = parser.NewResult()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Import panicked", "panic", rec)
			result.AddError("import", fmt.Errorf("unexpected failure: %v", rec))
			result.Finalize(fileLabel)
		}
	}()

	progress.Report("starting import")

	// Structural validation happens before any persistence scope exists:
	// malformed input creates nothing.
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlText); err != nil {
		log.Warn("Rejecting malformed XML", "error", err)
		result.AddError("xml", fmt.Errorf("malformed XML: %w", err))
		result.Finalize(fileLabel)
		return result
	}
	root := doc.Root()
	if root == nil || root.Tag != "document" {
		result.AddError("xml", fmt.Errorf("root element must be <document>"))
		result.Finalize(fileLabel)
		return result
	}

	// Dedup check against the content-addressed store. An instance GUID
	// is required for identity; documents without one fail later in the
	// document parser anyway.
	if instanceGUID, err := rootInstanceGUID(root); err == nil {
		dup, err := s.rawDocs.IsDuplicate(ctx, nil, xmlText, instanceGUID)
		if err != nil {
			log.Warn("Duplicate check failed, continuing with import", "error", err)
		} else if dup {
			log.Info("Skipping duplicate submission", "document_guid", instanceGUID)
			result.Success = true
			result.Message = fmt.Sprintf("skipped %s: duplicate submission for %s", fileLabel, instanceGUID)
			return result
		}
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		scope := tx
		if s.settings.Import.BulkWrite {
			scope = tx.Session(&gorm.Session{CreateBatchSize: 200})
		}

		pctx := &parser.Context{
			Tx:       scope,
			Log:      log,
			Repos:    s.repos,
			Result:   result,
			Settings: s.settings.Import,
			Root:     root,
		}

		if s.settings.Import.UseStagingTables {
			// Staging mode runs the walk inside a nested scope
			// (savepoint); releasing it merges the writes into the file
			// transaction in one step.
			return scope.Transaction(func(staging *gorm.DB) error {
				pctx.Tx = staging
				return s.runPhases(ctx, xmlText, root, pctx, progress)
			})
		}
		// Errors accumulated from optional subtrees do not roll the file
		// back; only mandatory failures and unexpected errors do.
		return s.runPhases(ctx, xmlText, root, pctx, progress)
	})
	if txErr != nil {
		log.Error("Import transaction failed", "error", txErr)
		result.AddError("import", txErr)
	}

	result.Finalize(fileLabel)
	s.recordRun(ctx, fileLabel, result)
	log.Info("Import finished", "success", result.Success, "errors", len(result.Errors))
	return result
}

// runPhases walks the fixed top-level order: document, author,
// component/structuredBody, then deferred link resolution. The document
// phase is mandatory; the rest accumulate.
func (s *importService) runPhases(ctx context.Context, xmlText string, root *etree.Element, pctx *parser.Context, progress parser.ProgressFunc) error {
	docParser, ok := s.registry.Lookup("document")
	if !ok {
		return fmt.Errorf("no parser registered for document")
	}
	if err := docParser.Parse(ctx, root, pctx, progress); err != nil {
		return fmt.Errorf("document: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("import cancelled: %w", err)
	}

	if authorEl := root.SelectElement("author"); authorEl != nil {
		if authorParser, ok := s.registry.Lookup("author"); ok {
			if err := authorParser.Parse(ctx, authorEl, pctx, progress); err != nil {
				pctx.Result.AddError("author", err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("import cancelled: %w", err)
	}

	if bodyEl := root.FindElement("component/structuredBody"); bodyEl != nil {
		if bodyParser, ok := s.registry.Lookup("structuredBody"); ok {
			if err := bodyParser.Parse(ctx, bodyEl, pctx, progress); err != nil {
				pctx.Result.AddError("structuredBody", err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("import cancelled: %w", err)
	}

	progress.Report("resolving links")
	resolved, err := s.resolver.ResolveDeferredLinks(ctx, pctx)
	if err != nil {
		pctx.Result.AddError("resolve links", err)
		return nil
	}
	pctx.Result.ResolvedLinks = resolved

	// Store the raw payload once the file is structurally accepted. The
	// original text is hashed, not a re-serialization, so the dedup check
	// on the next submission sees the same fingerprint.
	if pctx.Document != nil {
		if _, err := s.rawDocs.GetOrCreate(ctx, pctx.Tx, xmlText, pctx.Document.DocumentGUID, nil); err != nil {
			pctx.Result.AddError("raw document", err)
		}
	}
	return nil
}

func (s *importService) recordRun(ctx context.Context, fileLabel string, result *parser.Result) {
	stats, err := json.Marshal(result.Counts)
	if err != nil {
		stats = []byte("{}")
	}
	run := &types.ImportRun{
		ID:        uuid.New(),
		FileLabel: fileLabel,
		Success:   result.Success,
		Message:   result.Message,
		Stats:     datatypes.JSON(stats),
		CreatedAt: time.Now(),
	}
	if _, err := s.repos.ImportRun.Create(ctx, nil, run); err != nil {
		s.log.Warn("Failed to record import run", "file", fileLabel, "error", err)
	}
}

func rootInstanceGUID(root *etree.Element) (uuid.UUID, error) {
	idEl := root.SelectElement("id")
	if idEl == nil {
		return uuid.Nil, fmt.Errorf("document has no id element")
	}
	return uuid.Parse(idEl.SelectAttrValue("root", ""))
}

