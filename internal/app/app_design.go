package app

// ─────────────────────────────────────────────────────────────
// Design handlers: thin delegates to DesignService and the catalog
// ─────────────────────────────────────────────────────────────

import (
	"masquerade/internal/design"
	"masquerade/internal/domain"
	"masquerade/internal/storage"
)

// ── Session ────────────────────────────────────────────────

func (a *App) GetState() design.State {
	return a.core.Designs.State()
}

// Dispatch applies a {"type": ...} action from the frontend.
func (a *App) Dispatch(actionJSON string) (design.State, error) {
	return a.core.Designs.DispatchJSON(a.ctx, []byte(actionJSON))
}

// DropComponent places a palette component. A negative index appends.
func (a *App) DropComponent(componentID, regionID string, index int) (design.State, error) {
	var at *int
	if index >= 0 {
		at = &index
	}
	return a.core.Designs.DropComponent(a.ctx, componentID, regionID, at)
}

func (a *App) UpdateProperties(elementID string, props domain.Properties) (design.State, error) {
	return a.core.Designs.UpdateProperties(a.ctx, elementID, props)
}

// CreateCustomObject validates the wizard's new-object form and adds it.
func (a *App) CreateCustomObject(label, pluralLabel, apiName, description string) (design.State, error) {
	obj, err := design.NewCustomObject(label, pluralLabel, apiName, description)
	if err != nil {
		return design.State{}, err
	}
	return a.core.Designs.AddCustomObject(a.ctx, obj)
}

func (a *App) CompleteFirstVisit() error {
	return a.core.Designs.MarkVisited()
}

// ── Persistence ────────────────────────────────────────────

func (a *App) SaveDesign() (*domain.SavedDesign, error) {
	return a.core.Designs.Save(a.ctx)
}

func (a *App) OpenDesign(id string) (design.State, error) {
	return a.core.Designs.Open(a.ctx, id)
}

func (a *App) ListDesigns() ([]domain.SavedDesign, error) {
	list, err := a.core.Designs.List()
	if list == nil {
		list = []domain.SavedDesign{}
	}
	return list, err
}

func (a *App) DeleteDesign(id string) error {
	return a.core.Designs.Delete(a.ctx, id)
}

// ── Templates ──────────────────────────────────────────────

func (a *App) CreateFromTemplate(templateID string) (design.State, error) {
	return a.core.Designs.CreateFromTemplate(a.ctx, templateID)
}

func (a *App) SaveAsTemplate(name, category string) (*domain.SavedTemplate, error) {
	return a.core.Designs.SaveAsTemplate(name, category)
}

func (a *App) ListUserTemplates() ([]domain.SavedTemplate, error) {
	list, err := a.core.Designs.UserTemplates()
	if list == nil {
		list = []domain.SavedTemplate{}
	}
	return list, err
}

func (a *App) CreateFromUserTemplate(id string) (design.State, error) {
	return a.core.Designs.CreateFromUserTemplate(a.ctx, id)
}

func (a *App) DeleteUserTemplate(id string) error {
	return a.core.Designs.DeleteUserTemplate(id)
}

// ── History ────────────────────────────────────────────────

func (a *App) Checkpoint(label string) (*storage.HistoryNode, error) {
	return a.core.Designs.Checkpoint(label)
}

func (a *App) RestoreCheckpoint(nodeID string) (design.State, error) {
	return a.core.Designs.Restore(a.ctx, nodeID)
}

func (a *App) LoadHistory(designID string) (*storage.HistoryTree, error) {
	return a.core.Designs.History(designID)
}

// ── Catalog ────────────────────────────────────────────────

func (a *App) ListLayouts() []domain.LayoutDefinition {
	return a.core.Catalog.ListLayouts()
}

func (a *App) ListTemplates() []domain.PageTemplate {
	return a.core.Catalog.Templates()
}

func (a *App) PageTypes() []domain.PageTypeOption {
	return a.core.Catalog.PageTypes()
}

// SearchPalette backs the palette search box of the given tab.
func (a *App) SearchPalette(tab string, query string) []domain.PaletteComponent {
	out := a.core.Catalog.SearchPalette(domain.ComponentCategory(tab), query)
	if out == nil {
		out = []domain.PaletteComponent{}
	}
	return out
}

// SearchObjects backs the wizard's object step, including the session's
// custom objects.
func (a *App) SearchObjects(query string) []domain.SalesforceObject {
	return a.core.Catalog.SearchObjects(query, a.core.Designs.State().Wizard.CustomObjects)
}

// ComponentSchema returns the property schema of a component, nil for
// components without one.
func (a *App) ComponentSchema(componentID string) *domain.ComponentSchema {
	s, ok := a.core.Catalog.ComponentSchema(componentID)
	if !ok {
		return nil
	}
	return &s
}
