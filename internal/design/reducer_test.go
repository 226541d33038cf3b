package design_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"masquerade/internal/catalog"
	"masquerade/internal/design"
	"masquerade/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newReducer(clock *fakeClock) *design.Reducer {
	return design.NewReducer(
		design.WithClock(clock.Now),
		design.WithIDGenerator(seqIDs()),
	)
}

func threeRegionLayout() domain.LayoutDefinition {
	l, ok := catalog.MustNew().LookupLayout("header-right-sidebar")
	if !ok {
		panic("layout missing")
	}
	return l
}

func el(id string) domain.CanvasElement {
	return domain.CanvasElement{ID: id, ComponentID: "rich-text", Type: "rich-text", Name: id, Properties: domain.Properties{}}
}

func intPtr(i int) *int { return &i }

// stateWith builds a state holding a design whose regions hold the given
// element ids.
func stateWith(t *testing.T, regions map[string][]string) (design.State, *design.Reducer, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.UnixMilli(1_000)}
	r := newReducer(clock)
	d := &domain.PageDesign{
		ID:       "d1",
		Name:     "Test",
		PageType: domain.PageTypeRecord,
		Layout:   threeRegionLayout(),
		Regions:  map[string][]domain.CanvasElement{},
		Metadata: domain.DesignMetadata{CreatedAt: 1_000, UpdatedAt: 1_000, Version: 1},
	}
	for region, ids := range regions {
		for _, id := range ids {
			d.Regions[region] = append(d.Regions[region], el(id))
		}
	}
	s := r.Reduce(design.NewState(false), design.LoadDesign{Design: d})
	clock.Advance(time.Second)
	return s, r, clock
}

func ids(els []domain.CanvasElement) []string {
	out := []string{}
	for _, e := range els {
		out = append(out, e.ID)
	}
	return out
}

func checkOrder(t *testing.T, d *domain.PageDesign) {
	t.Helper()
	for region, els := range d.Regions {
		for i, e := range els {
			if e.Order != i {
				t.Errorf("region %s: element %s has order %d at index %d", region, e.ID, e.Order, i)
			}
		}
	}
}

// ─── Boot state ───────────────────────────────────────────────

func TestNewState(t *testing.T) {
	first := design.NewState(true)
	if !first.Wizard.Open || first.Wizard.Step != 1 {
		t.Fatalf("first visit should open the wizard at step 1, got %+v", first.Wizard)
	}
	again := design.NewState(false)
	if again.Wizard.Open {
		t.Fatal("returning visit should not open the wizard")
	}
	if again.UI.PaletteTab != domain.CategoryStandard || again.UI.ActiveNavTab != "Home" || again.UI.SearchQuery != "" {
		t.Fatalf("unexpected ui defaults: %+v", again.UI)
	}
	if again.Design != nil {
		t.Fatal("boot state has no design")
	}
}

// ─── Wizard ───────────────────────────────────────────────────

func TestWizard_CompleteCreatesDesign(t *testing.T) {
	clock := &fakeClock{t: time.UnixMilli(5_000)}
	r := newReducer(clock)
	s := design.NewState(false)

	s = r.Reduce(s, design.WizardSelectPageType{PageType: domain.PageTypeRecord})
	s = r.Reduce(s, design.WizardSelectObject{Object: domain.SalesforceObject{Kind: domain.ObjectStandard, Name: "Account", APIName: "Account"}})
	s = r.Reduce(s, design.WizardSelectLayout{Layout: threeRegionLayout()})
	if s.Wizard.Step != 3 {
		t.Fatalf("step = %d, want 3", s.Wizard.Step)
	}
	s = r.Reduce(s, design.WizardComplete{})

	if s.Design == nil {
		t.Fatal("expected a design")
	}
	want := map[string][]domain.CanvasElement{"header": {}, "main": {}, "sidebar": {}}
	if diff := cmp.Diff(want, s.Design.Regions); diff != "" {
		t.Errorf("regions mismatch (-want +got):\n%s", diff)
	}
	if s.Design.ObjectName != "Account" || s.Design.Name != "Account Page" {
		t.Errorf("got object %q name %q", s.Design.ObjectName, s.Design.Name)
	}
	if diff := cmp.Diff(domain.DesignMetadata{CreatedAt: 5_000, UpdatedAt: 5_000, Version: 1}, s.Design.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if s.Design.ID != "id-1" {
		t.Errorf("id = %q, want generated id", s.Design.ID)
	}
	if s.Wizard.Open || s.Wizard.PageType != "" || s.Wizard.Object != nil || s.Wizard.Layout != nil {
		t.Errorf("wizard should be closed and reset: %+v", s.Wizard)
	}
}

func TestWizard_CompleteRequiresSelections(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := design.NewReducer(design.WithLogger(zap.New(core)))

	s := design.NewState(true)
	s = r.Reduce(s, design.WizardSelectPageType{PageType: domain.PageTypeRecord})
	s = r.Reduce(s, design.WizardSelectObject{Object: domain.SalesforceObject{Name: "Account", APIName: "Account"}})

	got := r.Reduce(s, design.WizardComplete{})
	if got.Design != nil {
		t.Fatal("complete without layout must not create a design")
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("state changed (-want +got):\n%s", diff)
	}
	if logs.Len() != 1 {
		t.Errorf("expected one error log, got %d", logs.Len())
	}
}

func TestWizard_CustomObjectsSurviveReopen(t *testing.T) {
	r := design.NewReducer()
	s := design.NewState(true)

	custom, err := design.NewCustomObject("Project", "", "", "")
	if err != nil {
		t.Fatal(err)
	}

	// not yet on the object step
	s = r.Reduce(s, design.WizardAddCustomObject{Object: custom})
	if len(s.Wizard.CustomObjects) != 0 {
		t.Fatal("custom object accepted outside step 2")
	}

	s = r.Reduce(s, design.WizardSelectPageType{PageType: domain.PageTypeRecord})
	s = r.Reduce(s, design.WizardAddCustomObject{Object: custom})
	s = r.Reduce(s, design.WizardAddCustomObject{Object: custom})
	if len(s.Wizard.CustomObjects) != 1 {
		t.Fatalf("custom objects = %d, want 1", len(s.Wizard.CustomObjects))
	}

	s = r.Reduce(s, design.WizardClose{})
	s = r.Reduce(s, design.WizardOpen{})
	if s.Wizard.PageType != "" || s.Wizard.Step != 1 {
		t.Errorf("reopen should reset selections: %+v", s.Wizard)
	}
	if len(s.Wizard.CustomObjects) != 1 || s.Wizard.CustomObjects[0].APIName != "Project__c" {
		t.Errorf("custom objects lost: %+v", s.Wizard.CustomObjects)
	}
}

func TestWizard_SetStepOnlyGoesBack(t *testing.T) {
	r := design.NewReducer()
	s := design.NewState(true)
	s = r.Reduce(s, design.WizardSelectPageType{PageType: domain.PageTypeApp})

	if got := r.Reduce(s, design.WizardSetStep{Step: 3}); got.Wizard.Step != 2 {
		t.Errorf("forward jump allowed: step %d", got.Wizard.Step)
	}
	if got := r.Reduce(s, design.WizardSetStep{Step: 0}); got.Wizard.Step != 2 {
		t.Errorf("step 0 allowed")
	}
	if got := r.Reduce(s, design.WizardSetStep{Step: 1}); got.Wizard.Step != 1 {
		t.Errorf("back navigation refused")
	}
}

func TestWizard_UnknownPageTypeIgnored(t *testing.T) {
	r := design.NewReducer()
	s := design.NewState(true)
	got := r.Reduce(s, design.WizardSelectPageType{PageType: "portal"})
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("state changed:\n%s", diff)
	}
}

// ─── Elements ─────────────────────────────────────────────────

func TestRemoveElement_Renumbers(t *testing.T) {
	s, r, _ := stateWith(t, map[string][]string{"main": {"A", "B"}})
	s = r.Reduce(s, design.SelectElement{ElementID: "A"})

	s = r.Reduce(s, design.RemoveElement{ElementID: "A"})

	mainEls := s.Design.Regions["main"]
	if diff := cmp.Diff([]string{"B"}, ids(mainEls)); diff != "" {
		t.Fatalf("main mismatch:\n%s", diff)
	}
	if mainEls[0].Order != 0 {
		t.Errorf("B.order = %d, want 0", mainEls[0].Order)
	}
	if s.Selection.ElementID != "" {
		t.Error("removing the selected element should clear the selection")
	}
}

func TestMoveElement_AcrossRegions(t *testing.T) {
	s, r, _ := stateWith(t, map[string][]string{"main": {"A"}})

	s = r.Reduce(s, design.MoveElement{ElementID: "A", ToRegionID: "sidebar", ToIndex: 0})

	if len(s.Design.Regions["main"]) != 0 {
		t.Errorf("main = %v, want empty", ids(s.Design.Regions["main"]))
	}
	if diff := cmp.Diff([]string{"A"}, ids(s.Design.Regions["sidebar"])); diff != "" {
		t.Errorf("sidebar mismatch:\n%s", diff)
	}
	checkOrder(t, s.Design)
}

func TestMoveElement_WithinRegion(t *testing.T) {
	s, r, _ := stateWith(t, map[string][]string{"main": {"A", "B", "C"}})

	s = r.Reduce(s, design.MoveElement{ElementID: "A", ToRegionID: "main", ToIndex: 99})

	if diff := cmp.Diff([]string{"B", "C", "A"}, ids(s.Design.Regions["main"])); diff != "" {
		t.Errorf("main mismatch:\n%s", diff)
	}
	checkOrder(t, s.Design)
}

func TestAddElement(t *testing.T) {
	s, r, clock := stateWith(t, map[string][]string{"main": {"A", "B"}})
	before := s.Design.Metadata.UpdatedAt

	s = r.Reduce(s, design.AddElement{RegionID: "main", Element: el("X"), Index: intPtr(1)})
	s = r.Reduce(s, design.AddElement{RegionID: "main", Element: el("Y")})
	s = r.Reduce(s, design.AddElement{RegionID: "main", Element: el("Z"), Index: intPtr(-4)})

	if diff := cmp.Diff([]string{"Z", "A", "X", "B", "Y"}, ids(s.Design.Regions["main"])); diff != "" {
		t.Errorf("main mismatch:\n%s", diff)
	}
	checkOrder(t, s.Design)
	if s.Design.Metadata.UpdatedAt != clock.Now().UnixMilli() || s.Design.Metadata.UpdatedAt <= before {
		t.Errorf("updatedAt not bumped: %d", s.Design.Metadata.UpdatedAt)
	}
}

func TestAddElement_GeneratesMissingID(t *testing.T) {
	s, r, _ := stateWith(t, nil)
	e := el("")
	s = r.Reduce(s, design.AddElement{RegionID: "header", Element: e})
	if got := s.Design.Regions["header"][0].ID; got == "" {
		t.Fatal("element id not generated")
	}
}

func TestAddElement_RejectsDuplicateAndFullRegion(t *testing.T) {
	s, r, _ := stateWith(t, map[string][]string{"main": {"A"}})

	if got := r.Reduce(s, design.AddElement{RegionID: "sidebar", Element: el("A")}); !cmp.Equal(s, got) {
		t.Error("duplicate id accepted")
	}

	c := catalog.MustNew()
	capped, _ := c.LookupLayout("header-two-column")
	s = r.Reduce(s, design.ChangeLayout{Layout: capped})
	s = r.Reduce(s, design.AddElement{RegionID: "header", Element: el("H1")})
	s = r.Reduce(s, design.AddElement{RegionID: "header", Element: el("H2")})
	full := r.Reduce(s, design.AddElement{RegionID: "header", Element: el("H3")})
	if !cmp.Equal(s, full) {
		t.Error("insert into a full region accepted")
	}
	moved := r.Reduce(s, design.MoveElement{ElementID: "A", ToRegionID: "header", ToIndex: 0})
	if !cmp.Equal(s, moved) {
		t.Error("move into a full region accepted")
	}
}

func TestUpdateElement_MergesIntoFreshMap(t *testing.T) {
	s, r, _ := stateWith(t, map[string][]string{"main": {"A"}})
	s = r.Reduce(s, design.UpdateElement{ElementID: "A", Properties: domain.Properties{"content": "hi", "title": "T"}})
	prev := s

	s = r.Reduce(s, design.UpdateElement{ElementID: "A", Properties: domain.Properties{"content": "bye", "title": nil}})

	want := domain.Properties{"content": "bye", "title": nil}
	if diff := cmp.Diff(want, s.Design.Regions["main"][0].Properties); diff != "" {
		t.Errorf("properties mismatch:\n%s", diff)
	}
	if got := prev.Design.Regions["main"][0].Properties["content"]; got != "hi" {
		t.Errorf("previous state edited in place: content = %v", got)
	}
}

func TestUpdateElement_NilValueKeepsKey(t *testing.T) {
	s, r, _ := stateWith(t, map[string][]string{"main": {"A"}})
	s = r.Reduce(s, design.UpdateElement{ElementID: "A", Properties: domain.Properties{"label": "x", "size": "small"}})
	s = r.Reduce(s, design.UpdateElement{ElementID: "A", Properties: domain.Properties{"label": nil}})

	props := s.Design.Regions["main"][0].Properties
	v, ok := props["label"]
	if !ok {
		t.Fatal("label was dropped by a nil update")
	}
	if v != nil {
		t.Errorf("label = %v, want nil", v)
	}
	if props["size"] != "small" {
		t.Errorf("size = %v, untouched keys must survive", props["size"])
	}
}

func TestUpdateElement_AllMatchingRegions(t *testing.T) {
	// LoadDesign does not deduplicate, so a corrupt document can carry the
	// same id twice; updates reach every copy.
	s, r, _ := stateWith(t, map[string][]string{"main": {"A"}, "sidebar": {"A"}})
	s = r.Reduce(s, design.UpdateElement{ElementID: "A", Properties: domain.Properties{"k": 1}})
	for _, region := range []string{"main", "sidebar"} {
		if s.Design.Regions[region][0].Properties["k"] != 1 {
			t.Errorf("%s copy not updated", region)
		}
	}
}

func TestReorderElements(t *testing.T) {
	s, r, _ := stateWith(t, map[string][]string{"main": {"A", "B", "C"}})

	s = r.Reduce(s, design.ReorderElements{RegionID: "main", ElementIDs: []string{"C", "A", "B"}})
	if diff := cmp.Diff([]string{"C", "A", "B"}, ids(s.Design.Regions["main"])); diff != "" {
		t.Errorf("main mismatch:\n%s", diff)
	}
	checkOrder(t, s.Design)

	for _, bad := range [][]string{{"C", "A"}, {"C", "A", "A"}, {"C", "A", "Q"}} {
		if got := r.Reduce(s, design.ReorderElements{RegionID: "main", ElementIDs: bad}); !cmp.Equal(s, got) {
			t.Errorf("non-permutation %v accepted", bad)
		}
	}
}

func TestChangeLayout_MovesOrphansToFirstRegion(t *testing.T) {
	s, r, _ := stateWith(t, map[string][]string{"header": {"H"}, "main": {"A", "B"}, "sidebar": {"S"}})
	c := catalog.MustNew()
	single, _ := c.LookupLayout("one-region")

	s = r.Reduce(s, design.ChangeLayout{Layout: single})

	if diff := cmp.Diff([]string{"main"}, s.Design.RegionKeys()); diff != "" {
		t.Fatalf("region keys mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B", "H", "S"}, ids(s.Design.Regions["main"])); diff != "" {
		t.Errorf("main mismatch:\n%s", diff)
	}
	checkOrder(t, s.Design)
}

func TestLoadTemplate(t *testing.T) {
	c := catalog.MustNew()
	tpl, _ := c.Template("sales-account-record")
	r := design.NewReducer(design.WithIDGenerator(seqIDs()), design.WithClock(func() time.Time { return time.UnixMilli(42) }))

	s := r.Reduce(design.NewState(false), design.LoadTemplate{Template: tpl})

	if s.Design.TemplateID != "sales-account-record" || s.Design.ObjectName != "Account" {
		t.Fatalf("design = %+v", s.Design)
	}
	if got := s.Design.ElementCount(); got != len(tpl.DefaultComponents) {
		t.Errorf("elements = %d, want %d", got, len(tpl.DefaultComponents))
	}
	checkOrder(t, s.Design)

	// Editing the design must not leak into the catalog's template.
	first := s.Design.Regions[tpl.DefaultComponents[0].RegionID][0]
	first.Properties["injected"] = true
	again, _ := c.Template("sales-account-record")
	if _, leaked := again.DefaultComponents[0].Properties["injected"]; leaked {
		t.Error("template properties shared with design")
	}
}

// ─── Properties ───────────────────────────────────────────────

func TestMissingReferencesAreNoOps(t *testing.T) {
	s, r, _ := stateWith(t, map[string][]string{"main": {"A"}})

	actions := []design.Action{
		design.RemoveElement{ElementID: "nope"},
		design.UpdateElement{ElementID: "nope", Properties: domain.Properties{"x": 1}},
		design.MoveElement{ElementID: "nope", ToRegionID: "main"},
		design.MoveElement{ElementID: "A", ToRegionID: "nowhere"},
		design.AddElement{RegionID: "nowhere", Element: el("Q")},
		design.ReorderElements{RegionID: "nowhere"},
	}
	for _, a := range actions {
		got := r.Reduce(s, a)
		if diff := cmp.Diff(s, got); diff != "" {
			t.Errorf("%s changed state:\n%s", a.Type(), diff)
		}
	}
}

func TestNoDesignIsNoOp(t *testing.T) {
	r := design.NewReducer()
	s := design.NewState(false)
	for _, a := range []design.Action{
		design.AddElement{RegionID: "main", Element: el("A")},
		design.RemoveElement{ElementID: "A"},
		design.RenameDesign{Name: "x"},
		design.ChangeLayout{Layout: threeRegionLayout()},
	} {
		if got := r.Reduce(s, a); got.Design != nil {
			t.Errorf("%s created a design", a.Type())
		}
	}
}

func TestUpdatedAtIsMonotonic(t *testing.T) {
	s, r, clock := stateWith(t, map[string][]string{"main": {"A", "B"}})
	created := s.Design.Metadata.CreatedAt
	last := s.Design.Metadata.UpdatedAt

	clock.Advance(-time.Hour)
	steps := []design.Action{
		design.RenameDesign{Name: "Skewed"},
		design.AddElement{RegionID: "sidebar", Element: el("C")},
		design.MoveElement{ElementID: "A", ToRegionID: "header", ToIndex: 0},
		design.RemoveElement{ElementID: "B"},
	}
	for _, a := range steps {
		s = r.Reduce(s, a)
		if s.Design.Metadata.UpdatedAt < last {
			t.Fatalf("%s: updatedAt went back from %d to %d", a.Type(), last, s.Design.Metadata.UpdatedAt)
		}
		if s.Design.Metadata.CreatedAt != created {
			t.Fatalf("%s: createdAt changed", a.Type())
		}
		last = s.Design.Metadata.UpdatedAt
		checkOrder(t, s.Design)
	}
}

func TestMoveConservesElements(t *testing.T) {
	s, r, _ := stateWith(t, map[string][]string{"header": {"H"}, "main": {"A", "B"}, "sidebar": {"S"}})
	total := s.Design.ElementCount()

	s = r.Reduce(s, design.MoveElement{ElementID: "B", ToRegionID: "sidebar", ToIndex: 1})
	if s.Design.ElementCount() != total {
		t.Fatalf("element count %d, want %d", s.Design.ElementCount(), total)
	}
	if len(s.Design.Regions["main"]) != 1 || len(s.Design.Regions["sidebar"]) != 2 {
		t.Errorf("unexpected region sizes: main %d sidebar %d", len(s.Design.Regions["main"]), len(s.Design.Regions["sidebar"]))
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s, r, _ := stateWith(t, map[string][]string{"main": {"A", "B"}, "sidebar": {"S"}})
	snapshot := s.Design.Clone()

	r.Reduce(s, design.AddElement{RegionID: "main", Element: el("X"), Index: intPtr(0)})
	r.Reduce(s, design.MoveElement{ElementID: "A", ToRegionID: "sidebar", ToIndex: 0})
	r.Reduce(s, design.RemoveElement{ElementID: "S"})
	r.Reduce(s, design.UpdateElement{ElementID: "B", Properties: domain.Properties{"x": 1}})
	r.Reduce(s, design.RenameDesign{Name: "changed"})

	if diff := cmp.Diff(snapshot, s.Design); diff != "" {
		t.Errorf("input design mutated:\n%s", diff)
	}
}

// ─── Drag & UI ────────────────────────────────────────────────

func TestDragLifecycle(t *testing.T) {
	r := design.NewReducer()
	s := design.NewState(false)
	comp := domain.PaletteComponent{ID: "flow", Type: "flow", Name: "Flow"}

	s = r.Reduce(s, design.DragStart{Component: comp})
	s = r.Reduce(s, design.SetDragOver{RegionID: "main", Index: intPtr(2)})
	if !s.Drag.Dragging || s.Selection.DragOverRegionID != "main" || *s.Selection.DropIndex != 2 {
		t.Fatalf("drag state = %+v / %+v", s.Drag, s.Selection)
	}
	s = r.Reduce(s, design.DragEnd{})
	if s.Drag.Dragging || s.Drag.Component != nil || s.Selection.DragOverRegionID != "" || s.Selection.DropIndex != nil {
		t.Errorf("drag end left state behind: %+v / %+v", s.Drag, s.Selection)
	}
}

func TestUIActions(t *testing.T) {
	r := design.NewReducer()
	s := design.NewState(false)

	s = r.Reduce(s, design.SetPaletteTab{Tab: domain.CategoryBase})
	s = r.Reduce(s, design.SetPaletteTab{Tab: "other"})
	s = r.Reduce(s, design.SetSearchQuery{Query: "card"})
	s = r.Reduce(s, design.SetActiveNavTab{Tab: "Designs"})

	want := design.UIState{PaletteTab: domain.CategoryBase, SearchQuery: "card", ActiveNavTab: "Designs"}
	if diff := cmp.Diff(want, s.UI); diff != "" {
		t.Errorf("ui mismatch:\n%s", diff)
	}
}
