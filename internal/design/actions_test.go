package design_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"masquerade/internal/design"
	"masquerade/internal/domain"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		in   string
		want design.Action
	}{
		{`{"type":"WIZARD_OPEN"}`, design.WizardOpen{}},
		{`{"type":"WIZARD_SET_STEP","step":2}`, design.WizardSetStep{Step: 2}},
		{`{"type":"WIZARD_SELECT_PAGE_TYPE","pageType":"record"}`, design.WizardSelectPageType{PageType: domain.PageTypeRecord}},
		{`{"type":"REMOVE_ELEMENT","elementId":"e1"}`, design.RemoveElement{ElementID: "e1"}},
		{`{"type":"MOVE_ELEMENT","elementId":"e1","toRegionId":"sidebar","toIndex":3}`, design.MoveElement{ElementID: "e1", ToRegionID: "sidebar", ToIndex: 3}},
		{`{"type":"UPDATE_ELEMENT","elementId":"e1","properties":{"title":"Hi","rows":5}}`,
			design.UpdateElement{ElementID: "e1", Properties: domain.Properties{"title": "Hi", "rows": 5.0}}},
		{`{"type":"ADD_ELEMENT","regionId":"main","element":{"id":"e2","componentId":"card","type":"card","name":"Card","properties":{},"order":0},"index":1}`,
			design.AddElement{RegionID: "main", Element: domain.CanvasElement{ID: "e2", ComponentID: "card", Type: "card", Name: "Card", Properties: domain.Properties{}}, Index: intPtr(1)}},
		{`{"type":"SET_LAYOUT","layout":{"id":"x","name":"X","description":"","gridColumns":12,"regions":[{"id":"main","name":"Main","type":"main","gridColumn":"1 / 13","emptyPlaceholder":""}]}}`,
			design.ChangeLayout{Layout: domain.LayoutDefinition{ID: "x", Name: "X", GridColumns: 12, Regions: []domain.RegionDefinition{
				{ID: "main", Name: "Main", Type: domain.RegionMain, Column: domain.Track{Start: 1, End: 13}},
			}}}},
		{`{"type":"SET_DRAG_OVER","regionId":"main","index":null}`, design.SetDragOver{RegionID: "main"}},
	}
	for _, tt := range tests {
		got, err := design.DecodeAction([]byte(tt.in))
		if err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestDecodeAction_Errors(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"type":"LAUNCH_ROCKET"}`,
		`{}`,
		`{"type":"WIZARD_SET_STEP","step":"two"}`,
	} {
		if _, err := design.DecodeAction([]byte(in)); err == nil {
			t.Errorf("%s: expected error", in)
		}
	}
}

func TestEncodeAction_RoundTrip(t *testing.T) {
	for _, a := range []design.Action{
		design.DragEnd{},
		design.RenameDesign{Name: "Account Page"},
		design.ReorderElements{RegionID: "main", ElementIDs: []string{"b", "a"}},
	} {
		b, err := design.EncodeAction(a)
		if err != nil {
			t.Fatal(err)
		}
		got, err := design.DecodeAction(b)
		if err != nil {
			t.Fatalf("%s: %v", b, err)
		}
		if diff := cmp.Diff(a, got); diff != "" {
			t.Errorf("round trip of %s:\n%s", a.Type(), diff)
		}
	}
}
