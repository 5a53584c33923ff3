package render

import (
	"github.com/google/uuid"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/spl/dto"
)

type FacilityLinkRendering struct {
	Link *dto.FacilityProductLink
	// ProductLabel is the identifier or name emitted for the referenced
	// product. Unresolved links keep their raw parsed value so they stay
	// visible in the output.
	ProductLabel string
}

type OrganizationRendering struct {
	Organization         *dto.Organization
	BusinessOperations   []*dto.BusinessOperation
	FacilityProductLinks []*FacilityLinkRendering
	ChildOrganizations   []*OrganizationRendering
	HasOperations        bool
}

type AuthorRendering struct {
	Author       *dto.Author
	Organization *OrganizationRendering
}

// AuthorPreparer builds the hierarchical author rendering. Business
// operations and facility-product links are flattened across all of the
// document's relationships up front, then attached to whichever
// organization node each relationship points at.
type AuthorPreparer struct {
	log *logger.Logger
}

func NewAuthorPreparer(baseLog *logger.Logger) *AuthorPreparer {
	return &AuthorPreparer{log: baseLog.With("render", "author")}
}

func (p *AuthorPreparer) Prepare(authors []*dto.Author, relationships []*dto.Relationship, productLabels map[uuid.UUID]string) []*AuthorRendering {
	opsByOrg := map[uuid.UUID][]*dto.BusinessOperation{}
	linksByOrg := map[uuid.UUID][]*FacilityLinkRendering{}
	for _, rel := range relationships {
		if rel.Organization == nil {
			continue
		}
		orgID := rel.Organization.ID
		opsByOrg[orgID] = append(opsByOrg[orgID], rel.BusinessOperations...)
		for _, link := range rel.FacilityProductLinks {
			linksByOrg[orgID] = append(linksByOrg[orgID], &FacilityLinkRendering{
				Link:         link,
				ProductLabel: labelForLink(link, productLabels),
			})
		}
	}

	out := make([]*AuthorRendering, 0, len(authors))
	for _, author := range authors {
		if author.Organization == nil {
			continue
		}
		root := p.newOrganizationRendering(author.Organization, opsByOrg, linksByOrg)
		for _, rel := range relationships {
			org := rel.Organization
			if org == nil || org.ParentOrganizationID == nil || *org.ParentOrganizationID != author.Organization.ID {
				continue
			}
			root.ChildOrganizations = append(root.ChildOrganizations,
				p.newOrganizationRendering(org, opsByOrg, linksByOrg))
		}
		out = append(out, &AuthorRendering{Author: author, Organization: root})
	}
	return out
}

func (p *AuthorPreparer) newOrganizationRendering(org *dto.Organization, opsByOrg map[uuid.UUID][]*dto.BusinessOperation, linksByOrg map[uuid.UUID][]*FacilityLinkRendering) *OrganizationRendering {
	r := &OrganizationRendering{
		Organization:         org,
		BusinessOperations:   opsByOrg[org.ID],
		FacilityProductLinks: linksByOrg[org.ID],
	}
	r.HasOperations = len(r.BusinessOperations) > 0 || len(r.FacilityProductLinks) > 0
	return r
}

func labelForLink(link *dto.FacilityProductLink, productLabels map[uuid.UUID]string) string {
	if link.IsResolved && link.ProductID != nil {
		if label, ok := productLabels[*link.ProductID]; ok && label != "" {
			return label
		}
	}
	return link.ProductNameOrCode
}
