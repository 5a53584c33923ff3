package services

import (
	"context"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/spl/parser"
	"github.com/yungbote/labelvault-backend/internal/types"
)

// LinkResolver is the deferred cross-reference pass. Facility-product
// links are created unresolved during the author walk because the
// referenced products live in the structuredBody subtree, parsed later.
// After the structural walk, this resolves each link by exact identifier
// value first, then by exact product name. Identifier matches always win;
// among several identifier matches the most recently inserted wins.
type LinkResolver interface {
	ResolveDeferredLinks(ctx context.Context, pctx *parser.Context) (int, error)
}

type linkResolver struct {
	log *logger.Logger
}

func NewLinkResolver(baseLog *logger.Logger) LinkResolver {
	return &linkResolver{log: baseLog.With("service", "LinkResolver")}
}

func (r *linkResolver) ResolveDeferredLinks(ctx context.Context, pctx *parser.Context) (int, error) {
	if pctx.Document == nil {
		return 0, nil
	}

	links, err := pctx.Repos.FacilityLink.GetUnresolvedByDocumentID(ctx, pctx.Tx, pctx.Document.ID)
	if err != nil {
		return 0, err
	}
	if len(links) == 0 {
		return 0, nil
	}

	identifiers, err := pctx.Repos.ProductIdentifier.GetByDocumentID(ctx, pctx.Tx, pctx.Document.ID)
	if err != nil {
		return 0, err
	}
	products, err := pctx.Repos.Product.GetByDocumentID(ctx, pctx.Tx, pctx.Document.ID)
	if err != nil {
		return 0, err
	}

	// Later inserts overwrite earlier ones, so a map keyed by value gives
	// the most-recently-created row per identifier value.
	identifierByValue := make(map[string]*types.ProductIdentifier, len(identifiers))
	for _, ident := range identifiers {
		identifierByValue[ident.IdentifierValue] = ident
	}
	productByName := make(map[string]*types.Product, len(products))
	for _, prod := range products {
		if _, seen := productByName[prod.Name]; !seen {
			productByName[prod.Name] = prod
		}
	}

	resolved := 0
	var mutated []*types.FacilityProductLink
	for _, link := range links {
		ref := link.ProductNameOrCode

		if ident, ok := identifierByValue[ref]; ok {
			productID := ident.ProductID
			identID := ident.ID
			link.ProductID = &productID
			link.ProductIdentifierID = &identID
			link.IsResolved = true
			link.ProductNameOrCode = ""
			mutated = append(mutated, link)
			resolved++
			continue
		}

		if prod, ok := productByName[ref]; ok {
			productID := prod.ID
			link.ProductID = &productID
			link.IsResolved = true
			link.ProductNameOrCode = ""
			mutated = append(mutated, link)
			resolved++
			continue
		}

		r.log.Warn("Facility product link left unresolved", "link_id", link.ID, "reference", ref)
	}

	if err := pctx.Repos.FacilityLink.SaveAll(ctx, pctx.Tx, mutated); err != nil {
		return 0, err
	}

	r.log.Info("Deferred link resolution finished",
		"document_id", pctx.Document.ID,
		"resolved", resolved,
		"unresolved", len(links)-resolved)
	return resolved, nil
}
