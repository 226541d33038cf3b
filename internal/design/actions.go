package design

import (
	"encoding/json"
	"fmt"

	"masquerade/internal/domain"
)

// Action is one state transition request. The concrete types below are the
// complete set; Type returns the wire name used in JSON envelopes.
type Action interface {
	Type() string
}

const (
	TypeWizardOpen            = "WIZARD_OPEN"
	TypeWizardClose           = "WIZARD_CLOSE"
	TypeWizardSetStep         = "WIZARD_SET_STEP"
	TypeWizardSelectPageType  = "WIZARD_SELECT_PAGE_TYPE"
	TypeWizardSelectObject    = "WIZARD_SELECT_OBJECT"
	TypeWizardSelectLayout    = "WIZARD_SELECT_LAYOUT"
	TypeWizardAddCustomObject = "WIZARD_ADD_CUSTOM_OBJECT"
	TypeWizardComplete        = "WIZARD_COMPLETE"

	TypeNewDesign       = "NEW_DESIGN"
	TypeLoadDesign      = "LOAD_DESIGN"
	TypeLoadTemplate    = "LOAD_TEMPLATE"
	TypeSetPageType     = "SET_PAGE_TYPE"
	TypeChangeLayout    = "SET_LAYOUT"
	TypeAddElement      = "ADD_ELEMENT"
	TypeRemoveElement   = "REMOVE_ELEMENT"
	TypeUpdateElement   = "UPDATE_ELEMENT"
	TypeMoveElement     = "MOVE_ELEMENT"
	TypeReorderElements = "REORDER_ELEMENTS"
	TypeRenameDesign    = "RENAME_DESIGN"
	TypeClearDesign     = "CLEAR_DESIGN"

	TypeSelectElement   = "SELECT_ELEMENT"
	TypeSetDragOver     = "SET_DRAG_OVER"
	TypeDragStart       = "DRAG_START"
	TypeDragEnd         = "DRAG_END"
	TypeSetPaletteTab   = "SET_PALETTE_TAB"
	TypeSetSearchQuery  = "SET_SEARCH_QUERY"
	TypeSetActiveNavTab = "SET_ACTIVE_NAV_TAB"
)

// ── Wizard ─────────────────────────────────────────────────

type WizardOpen struct{}

type WizardClose struct{}

type WizardSetStep struct {
	Step int `json:"step"`
}

type WizardSelectPageType struct {
	PageType domain.PageType `json:"pageType"`
}

type WizardSelectObject struct {
	Object domain.SalesforceObject `json:"object"`
}

type WizardSelectLayout struct {
	Layout domain.LayoutDefinition `json:"layout"`
}

type WizardAddCustomObject struct {
	Object domain.SalesforceObject `json:"customObject"`
}

type WizardComplete struct{}

// ── Design ─────────────────────────────────────────────────

type NewDesign struct{}

type LoadDesign struct {
	Design *domain.PageDesign `json:"design"`
}

type LoadTemplate struct {
	Template domain.PageTemplate `json:"template"`
}

// SetPageType retargets the open design at another page type and,
// optionally, another object.
type SetPageType struct {
	PageType domain.PageType          `json:"pageType"`
	Object   *domain.SalesforceObject `json:"objectName,omitempty"`
}

type ChangeLayout struct {
	Layout domain.LayoutDefinition `json:"layout"`
}

// AddElement inserts Element into a region. A nil Index appends.
type AddElement struct {
	RegionID string               `json:"regionId"`
	Element  domain.CanvasElement `json:"element"`
	Index    *int                 `json:"index,omitempty"`
}

type RemoveElement struct {
	ElementID string `json:"elementId"`
}

// UpdateElement merges Properties into the element's bag. A nil value
// removes the key.
type UpdateElement struct {
	ElementID  string            `json:"elementId"`
	Properties domain.Properties `json:"properties"`
}

type MoveElement struct {
	ElementID  string `json:"elementId"`
	ToRegionID string `json:"toRegionId"`
	ToIndex    int    `json:"toIndex"`
}

type ReorderElements struct {
	RegionID   string   `json:"regionId"`
	ElementIDs []string `json:"elementIds"`
}

type RenameDesign struct {
	Name string `json:"name"`
}

type ClearDesign struct{}

// ── Selection, drag, UI ────────────────────────────────────

// SelectElement selects an element; an empty id clears the selection.
type SelectElement struct {
	ElementID string `json:"elementId"`
}

type SetDragOver struct {
	RegionID string `json:"regionId"`
	Index    *int   `json:"index"`
}

type DragStart struct {
	Component domain.PaletteComponent `json:"component"`
}

type DragEnd struct{}

type SetPaletteTab struct {
	Tab domain.ComponentCategory `json:"tab"`
}

type SetSearchQuery struct {
	Query string `json:"query"`
}

type SetActiveNavTab struct {
	Tab string `json:"tab"`
}

func (WizardOpen) Type() string            { return TypeWizardOpen }
func (WizardClose) Type() string           { return TypeWizardClose }
func (WizardSetStep) Type() string         { return TypeWizardSetStep }
func (WizardSelectPageType) Type() string  { return TypeWizardSelectPageType }
func (WizardSelectObject) Type() string    { return TypeWizardSelectObject }
func (WizardSelectLayout) Type() string    { return TypeWizardSelectLayout }
func (WizardAddCustomObject) Type() string { return TypeWizardAddCustomObject }
func (WizardComplete) Type() string        { return TypeWizardComplete }
func (NewDesign) Type() string             { return TypeNewDesign }
func (LoadDesign) Type() string            { return TypeLoadDesign }
func (LoadTemplate) Type() string          { return TypeLoadTemplate }
func (SetPageType) Type() string           { return TypeSetPageType }
func (ChangeLayout) Type() string          { return TypeChangeLayout }
func (AddElement) Type() string            { return TypeAddElement }
func (RemoveElement) Type() string         { return TypeRemoveElement }
func (UpdateElement) Type() string         { return TypeUpdateElement }
func (MoveElement) Type() string           { return TypeMoveElement }
func (ReorderElements) Type() string       { return TypeReorderElements }
func (RenameDesign) Type() string          { return TypeRenameDesign }
func (ClearDesign) Type() string           { return TypeClearDesign }
func (SelectElement) Type() string         { return TypeSelectElement }
func (SetDragOver) Type() string           { return TypeSetDragOver }
func (DragStart) Type() string             { return TypeDragStart }
func (DragEnd) Type() string               { return TypeDragEnd }
func (SetPaletteTab) Type() string         { return TypeSetPaletteTab }
func (SetSearchQuery) Type() string        { return TypeSetSearchQuery }
func (SetActiveNavTab) Type() string       { return TypeSetActiveNavTab }

var decoders = map[string]func([]byte) (Action, error){
	TypeWizardOpen:            decodeAs[WizardOpen],
	TypeWizardClose:           decodeAs[WizardClose],
	TypeWizardSetStep:         decodeAs[WizardSetStep],
	TypeWizardSelectPageType:  decodeAs[WizardSelectPageType],
	TypeWizardSelectObject:    decodeAs[WizardSelectObject],
	TypeWizardSelectLayout:    decodeAs[WizardSelectLayout],
	TypeWizardAddCustomObject: decodeAs[WizardAddCustomObject],
	TypeWizardComplete:        decodeAs[WizardComplete],
	TypeNewDesign:             decodeAs[NewDesign],
	TypeLoadDesign:            decodeAs[LoadDesign],
	TypeLoadTemplate:          decodeAs[LoadTemplate],
	TypeSetPageType:           decodeAs[SetPageType],
	TypeChangeLayout:          decodeAs[ChangeLayout],
	TypeAddElement:            decodeAs[AddElement],
	TypeRemoveElement:         decodeAs[RemoveElement],
	TypeUpdateElement:         decodeAs[UpdateElement],
	TypeMoveElement:           decodeAs[MoveElement],
	TypeReorderElements:       decodeAs[ReorderElements],
	TypeRenameDesign:          decodeAs[RenameDesign],
	TypeClearDesign:           decodeAs[ClearDesign],
	TypeSelectElement:         decodeAs[SelectElement],
	TypeSetDragOver:           decodeAs[SetDragOver],
	TypeDragStart:             decodeAs[DragStart],
	TypeDragEnd:               decodeAs[DragEnd],
	TypeSetPaletteTab:         decodeAs[SetPaletteTab],
	TypeSetSearchQuery:        decodeAs[SetSearchQuery],
	TypeSetActiveNavTab:       decodeAs[SetActiveNavTab],
}

func decodeAs[T Action](data []byte) (Action, error) {
	var a T
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return a, nil
}

// DecodeAction parses a {"type": "...", ...} envelope into its Action.
func DecodeAction(data []byte) (Action, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	dec, ok := decoders[head.Type]
	if !ok {
		return nil, fmt.Errorf("decode action: unknown type %q", head.Type)
	}
	a, err := dec(data)
	if err != nil {
		return nil, fmt.Errorf("decode action %s: %w", head.Type, err)
	}
	return a, nil
}

// EncodeAction is the inverse of DecodeAction.
func EncodeAction(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode action %s: %w", a.Type(), err)
	}
	head := fmt.Sprintf(`{"type":%q`, a.Type())
	if len(body) <= 2 {
		return []byte(head + "}"), nil
	}
	return append([]byte(head+","), body[1:]...), nil
}
