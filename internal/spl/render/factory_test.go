package render

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/spl/dto"
)

func section(title string, seq int, parent *uuid.UUID) *dto.Section {
	return &dto.Section{
		ID:              uuid.New(),
		ParentSectionID: parent,
		Title:           title,
		SequenceNumber:  seq,
	}
}

func TestFactoryPartitionsStandaloneAndHierarchical(t *testing.T) {
	root := section("Root", 2, nil)
	child := section("Child", 3, &root.ID)
	lone := section("Lone", 1, nil)

	vm := NewStructuredBodyViewModelFactory(logger.NewNop()).Create(&dto.StructuredBody{
		ID:       uuid.New(),
		Sections: []*dto.Section{root, child, lone},
	})

	if len(vm.StandaloneSectionContexts) != 1 || vm.StandaloneSectionContexts[0].Section.Title != "Lone" {
		t.Fatalf("standalone partition wrong: %+v", vm.StandaloneSectionContexts)
	}
	if len(vm.HierarchicalSectionContexts) != 1 || vm.HierarchicalSectionContexts[0].Section.Title != "Root" {
		t.Fatalf("hierarchical partition wrong: %+v", vm.HierarchicalSectionContexts)
	}
	if !vm.HasStandaloneSections || !vm.HasHierarchicalSections {
		t.Fatalf("partition flags: standalone=%v hierarchical=%v",
			vm.HasStandaloneSections, vm.HasHierarchicalSections)
	}

	rootCtx := vm.HierarchicalSectionContexts[0]
	if !rootCtx.HasChildren || len(rootCtx.HierarchicalChildren) != 1 {
		t.Fatalf("root children wrong: %+v", rootCtx)
	}
	if got := rootCtx.HierarchicalChildren[0].Section.Title; got != "Child" {
		t.Fatalf("child title: want=Child got=%s", got)
	}
}

func TestFactoryKeepsDocumentOrderInAllSections(t *testing.T) {
	root := section("Root", 20, nil)
	child := section("Child", 30, &root.ID)
	lone := section("Lone", 10, nil)

	// Deliberately shuffled input; SequenceNumber decides the order.
	vm := NewStructuredBodyViewModelFactory(logger.NewNop()).Create(&dto.StructuredBody{
		ID:       uuid.New(),
		Sections: []*dto.Section{child, lone, root},
	})

	if len(vm.AllSectionContexts) != 3 {
		t.Fatalf("all sections: want=3 got=%d", len(vm.AllSectionContexts))
	}
	wantTitles := []string{"Lone", "Root", "Child"}
	for i, want := range wantTitles {
		if got := vm.AllSectionContexts[i].Section.Title; got != want {
			t.Fatalf("position %d: want=%s got=%s", i, want, got)
		}
	}

	// Tags travel with the union so no caller re-derives the partition.
	if !vm.AllSectionContexts[0].IsStandalone {
		t.Fatalf("Lone should be standalone")
	}
	if vm.AllSectionContexts[1].IsStandalone || !vm.AllSectionContexts[1].IsRoot {
		t.Fatalf("Root tags wrong: %+v", vm.AllSectionContexts[1])
	}
	if vm.AllSectionContexts[2].IsStandalone || vm.AllSectionContexts[2].IsRoot {
		t.Fatalf("Child tags wrong: %+v", vm.AllSectionContexts[2])
	}
}

func TestFactoryOrdersNestedSectionsAfterParents(t *testing.T) {
	// Sequence numbers restart per parent, so the nested section shares
	// its number with the first root. Document order still puts it after
	// its parent.
	first := section("First", 1, nil)
	second := section("Second", 2, nil)
	nested := section("Nested", 1, &second.ID)
	deep := section("Deep", 1, &nested.ID)

	vm := NewStructuredBodyViewModelFactory(logger.NewNop()).Create(&dto.StructuredBody{
		ID:       uuid.New(),
		Sections: []*dto.Section{nested, deep, second, first},
	})

	wantTitles := []string{"First", "Second", "Nested", "Deep"}
	if len(vm.AllSectionContexts) != len(wantTitles) {
		t.Fatalf("all sections: want=%d got=%d", len(wantTitles), len(vm.AllSectionContexts))
	}
	for i, want := range wantTitles {
		if got := vm.AllSectionContexts[i].Section.Title; got != want {
			t.Fatalf("position %d: want=%s got=%s", i, want, got)
		}
	}
}

func TestFactoryTreatsOrphanParentAsRoot(t *testing.T) {
	missing := uuid.New()
	orphan := section("Orphan", 1, &missing)

	vm := NewStructuredBodyViewModelFactory(logger.NewNop()).Create(&dto.StructuredBody{
		ID:       uuid.New(),
		Sections: []*dto.Section{orphan},
	})

	if len(vm.StandaloneSectionContexts) != 1 {
		t.Fatalf("orphan not standalone: %+v", vm)
	}
	sc := vm.StandaloneSectionContexts[0]
	if !sc.IsRoot || !sc.IsStandalone {
		t.Fatalf("orphan tags: root=%v standalone=%v", sc.IsRoot, sc.IsStandalone)
	}
}

func TestPrepareDocumentOrdersBodies(t *testing.T) {
	second := &StructuredBodyViewModel{ID: uuid.New(), SequenceNumber: 2}
	first := &StructuredBodyViewModel{ID: uuid.New(), SequenceNumber: 1}

	dr := PrepareDocument(&dto.Document{}, nil, []*StructuredBodyViewModel{second, first})
	if len(dr.Bodies) != 2 || dr.Bodies[0] != first || dr.Bodies[1] != second {
		t.Fatalf("bodies not ordered by sequence: %+v", dr.Bodies)
	}
}
