package render

import (
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/spl/dto"
)

// SectionContext is one section in rendering form. Contents, Tolerances
// and Products stay nil until the enhancement pass fills them in.
type SectionContext struct {
	Section              *dto.Section
	IsStandalone         bool
	IsRoot               bool
	HierarchicalChildren []*SectionContext
	HasChildren          bool
	Contents             []*TextContentRendering
	Tolerances           []*dto.TextContent
	Products             []*ProductRendering
}

// StructuredBodyViewModel partitions a body's sections into standalone
// versus hierarchical groupings. AllSectionContexts is the union in
// original document order; every entry carries its IsStandalone tag so
// downstream passes never re-derive the partition.
type StructuredBodyViewModel struct {
	ID                          uuid.UUID
	SequenceNumber              int
	StandaloneSectionContexts   []*SectionContext
	HierarchicalSectionContexts []*SectionContext
	AllSectionContexts          []*SectionContext
	HasStandaloneSections       bool
	HasHierarchicalSections     bool
}

type StructuredBodyViewModelFactory struct {
	log *logger.Logger
}

func NewStructuredBodyViewModelFactory(baseLog *logger.Logger) *StructuredBodyViewModelFactory {
	return &StructuredBodyViewModelFactory{log: baseLog.With("render", "view_model")}
}

func (f *StructuredBodyViewModelFactory) Create(body *dto.StructuredBody) *StructuredBodyViewModel {
	vm := &StructuredBodyViewModel{ID: body.ID, SequenceNumber: body.SequenceNumber}

	byID := make(map[uuid.UUID]*SectionContext, len(body.Sections))
	all := make([]*SectionContext, 0, len(body.Sections))
	for _, sec := range body.Sections {
		sc := &SectionContext{Section: sec, IsRoot: sec.ParentSectionID == nil}
		byID[sec.ID] = sc
		all = append(all, sc)
	}

	// Nesting participation decides the partition: a section is
	// hierarchical once it has a parent or at least one child.
	participates := map[uuid.UUID]bool{}
	roots := make([]*SectionContext, 0, len(all))
	for _, sc := range all {
		parentID := sc.Section.ParentSectionID
		if parentID == nil {
			roots = append(roots, sc)
			continue
		}
		parent, ok := byID[*parentID]
		if !ok {
			// Orphaned parent reference; treat the section as a root.
			sc.IsRoot = true
			roots = append(roots, sc)
			f.log.Warn("Section references unknown parent",
				"section_id", sc.Section.ID, "parent_id", *parentID)
			continue
		}
		parent.HierarchicalChildren = append(parent.HierarchicalChildren, sc)
		parent.HasChildren = true
		participates[parent.Section.ID] = true
		participates[sc.Section.ID] = true
	}

	// SequenceNumber orders siblings under one parent, so a single global
	// sort cannot reproduce document order once nesting exists. A
	// depth-first walk does: roots by sequence, each immediately followed
	// by its subtree, siblings by sequence at every level.
	sortBySequence(roots)
	for _, root := range roots {
		appendDepthFirst(&vm.AllSectionContexts, root)
	}

	for _, sc := range vm.AllSectionContexts {
		sc.IsStandalone = !participates[sc.Section.ID]
		if sc.IsStandalone {
			vm.StandaloneSectionContexts = append(vm.StandaloneSectionContexts, sc)
		} else if sc.IsRoot {
			vm.HierarchicalSectionContexts = append(vm.HierarchicalSectionContexts, sc)
		}
	}
	vm.HasStandaloneSections = len(vm.StandaloneSectionContexts) > 0
	vm.HasHierarchicalSections = len(vm.HierarchicalSectionContexts) > 0
	return vm
}

func sortBySequence(scs []*SectionContext) {
	sort.SliceStable(scs, func(i, j int) bool {
		return scs[i].Section.SequenceNumber < scs[j].Section.SequenceNumber
	})
}

func appendDepthFirst(out *[]*SectionContext, sc *SectionContext) {
	*out = append(*out, sc)
	sortBySequence(sc.HierarchicalChildren)
	for _, child := range sc.HierarchicalChildren {
		appendDepthFirst(out, child)
	}
}

// DocumentRendering is the single model value handed to the template.
type DocumentRendering struct {
	Document *dto.Document
	Authors  []*AuthorRendering
	Bodies   []*StructuredBodyViewModel
}

func PrepareDocument(doc *dto.Document, authors []*AuthorRendering, bodies []*StructuredBodyViewModel) *DocumentRendering {
	ordered := make([]*StructuredBodyViewModel, len(bodies))
	copy(ordered, bodies)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceNumber < ordered[j].SequenceNumber
	})
	return &DocumentRendering{Document: doc, Authors: authors, Bodies: ordered}
}
