// Package design holds the page builder's session state and the reducer that
// evolves it one action at a time.
package design

import "masquerade/internal/domain"

type WizardState struct {
	Open          bool                      `json:"isOpen"`
	Step          int                       `json:"currentStep"`
	PageType      domain.PageType           `json:"selectedPageType,omitempty"`
	Object        *domain.SalesforceObject  `json:"selectedObject,omitempty"`
	Layout        *domain.LayoutDefinition  `json:"selectedLayout,omitempty"`
	CustomObjects []domain.SalesforceObject `json:"customObjects"`
}

type Selection struct {
	ElementID        string `json:"selectedElementId,omitempty"`
	DragOverRegionID string `json:"dragOverRegionId,omitempty"`
	DropIndex        *int   `json:"dropIndex,omitempty"`
}

type DragState struct {
	Dragging  bool                     `json:"isDragging"`
	Component *domain.PaletteComponent `json:"draggedComponent,omitempty"`
}

type UIState struct {
	PaletteTab   domain.ComponentCategory `json:"paletteTab"`
	SearchQuery  string                   `json:"searchQuery"`
	ActiveNavTab string                   `json:"activeNavTab"`
}

// State is the whole editor session. Values are never edited in place by the
// reducer; every transition produces a new State.
type State struct {
	Design    *domain.PageDesign `json:"design"`
	Wizard    WizardState        `json:"wizard"`
	Selection Selection          `json:"selection"`
	Drag      DragState          `json:"drag"`
	UI        UIState            `json:"ui"`
}

const DefaultNavTab = "Home"

// NewState is the boot state. First-time users land in the wizard.
func NewState(isFirstVisit bool) State {
	return State{
		Wizard: WizardState{
			Open:          isFirstVisit,
			Step:          1,
			CustomObjects: []domain.SalesforceObject{},
		},
		UI: UIState{
			PaletteTab:   domain.CategoryStandard,
			ActiveNavTab: DefaultNavTab,
		},
	}
}

// resetWizard returns the default wizard with the custom objects carried over.
func resetWizard(w WizardState, open bool) WizardState {
	return WizardState{
		Open:          open,
		Step:          1,
		CustomObjects: w.CustomObjects,
	}
}
