package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"masquerade/internal/catalog"
	"masquerade/internal/design"
	"masquerade/internal/domain"
	"masquerade/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Design Service: the editing session
// ─────────────────────────────────────────────────────────────

// DesignService owns the single editing session. Every change goes through
// the reducer under one lock; the resulting state is pushed to the frontend.
type DesignService struct {
	mu      sync.Mutex
	state   design.State
	reducer *design.Reducer

	catalog   *catalog.Catalog
	designs   domain.DesignStore
	templates domain.TemplateStore
	history   *storage.HistoryStore
	settings  *storage.SettingsStore
	emitter   EventEmitter
	log       *zap.Logger
	now       func() time.Time
}

// DesignServiceDeps groups the collaborators of a DesignService.
type DesignServiceDeps struct {
	Catalog   *catalog.Catalog
	Reducer   *design.Reducer
	Designs   domain.DesignStore
	Templates domain.TemplateStore
	History   *storage.HistoryStore
	Settings  *storage.SettingsStore
	Emitter   EventEmitter
	Logger    *zap.Logger
}

// NewDesignService boots a session. The wizard opens on the first visit,
// as recorded in settings.
func NewDesignService(deps DesignServiceDeps) (*DesignService, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Emitter == nil {
		deps.Emitter = nopEmitter{}
	}
	if deps.Reducer == nil {
		deps.Reducer = design.NewReducer(design.WithLogger(deps.Logger))
	}

	firstVisit := false
	if deps.Settings != nil {
		visited, err := deps.Settings.HasVisited()
		if err != nil {
			return nil, fmt.Errorf("read first-visit flag: %w", err)
		}
		firstVisit = !visited
	}

	return &DesignService{
		state:     design.NewState(firstVisit),
		reducer:   deps.Reducer,
		catalog:   deps.Catalog,
		designs:   deps.Designs,
		templates: deps.Templates,
		history:   deps.History,
		settings:  deps.Settings,
		emitter:   deps.Emitter,
		log:       deps.Logger.Named("design"),
		now:       time.Now,
	}, nil
}

// State returns the current session state.
func (s *DesignService) State() design.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies an action and emits the new state.
func (s *DesignService) Dispatch(ctx context.Context, a design.Action) design.State {
	s.mu.Lock()
	next := s.reducer.Reduce(s.state, a)
	s.state = next
	s.mu.Unlock()

	s.emitter.Emit(ctx, EventDesignState, next)
	return next
}

// DispatchJSON decodes a {"type": ...} action envelope and dispatches it.
func (s *DesignService) DispatchJSON(ctx context.Context, raw []byte) (design.State, error) {
	a, err := design.DecodeAction(raw)
	if err != nil {
		return design.State{}, err
	}
	return s.Dispatch(ctx, a), nil
}

// DropComponent turns a palette entry into an element with its schema
// defaults and adds it to a region, ending the drag.
func (s *DesignService) DropComponent(ctx context.Context, componentID, regionID string, index *int) (design.State, error) {
	comp, ok := s.catalog.PaletteComponent(componentID)
	if !ok {
		return design.State{}, fmt.Errorf("component %s: %w", componentID, domain.ErrNotFound)
	}
	if s.State().Design == nil {
		return design.State{}, domain.ErrNoDesign
	}

	el := design.NewElement(comp, uuid.NewString())
	el.Properties = s.catalog.DefaultProperties(componentID)
	if err := s.catalog.ValidateProperties(componentID, el.Properties, false); err != nil {
		return design.State{}, fmt.Errorf("default properties: %w", err)
	}

	st := s.Dispatch(ctx, design.AddElement{RegionID: regionID, Element: el, Index: index})
	st = s.Dispatch(ctx, design.DragEnd{})
	if st.Design == nil {
		return st, domain.ErrNoDesign
	}
	if got, _, ok := st.Design.FindElement(el.ID); !ok || got != regionID {
		return st, fmt.Errorf("region %s did not accept %s", regionID, componentID)
	}
	return st, nil
}

// UpdateProperties validates a partial property bag against the element's
// component schema, then merges it.
func (s *DesignService) UpdateProperties(ctx context.Context, elementID string, props domain.Properties) (design.State, error) {
	d := s.State().Design
	if d == nil {
		return design.State{}, domain.ErrNoDesign
	}
	regionID, idx, ok := d.FindElement(elementID)
	if !ok {
		return design.State{}, fmt.Errorf("element %s: %w", elementID, domain.ErrNotFound)
	}
	componentID := d.Regions[regionID][idx].ComponentID
	if err := s.catalog.ValidateProperties(componentID, props, true); err != nil {
		return design.State{}, err
	}
	return s.Dispatch(ctx, design.UpdateElement{ElementID: elementID, Properties: props}), nil
}

// AddCustomObject registers a custom object for the session. Objects can
// only be added on the wizard's object step, so the wizard is moved there
// first; when it had to be opened it is closed again afterwards.
func (s *DesignService) AddCustomObject(ctx context.Context, obj domain.SalesforceObject) (design.State, error) {
	st := s.State()
	if hasObject(st.Wizard.CustomObjects, obj.APIName) {
		return st, fmt.Errorf("custom object %s already exists", obj.APIName)
	}

	opened := false
	if !st.Wizard.Open {
		s.Dispatch(ctx, design.WizardOpen{})
		opened = true
	}
	if st.Wizard.Step != 2 || opened {
		pt := st.Wizard.PageType
		if !pt.Valid() {
			pt = domain.PageTypeRecord
		}
		s.Dispatch(ctx, design.WizardSelectPageType{PageType: pt})
	}
	st = s.Dispatch(ctx, design.WizardAddCustomObject{Object: obj})
	if opened {
		st = s.Dispatch(ctx, design.WizardClose{})
	}

	if !hasObject(st.Wizard.CustomObjects, obj.APIName) {
		return st, fmt.Errorf("custom object %s was not added", obj.APIName)
	}
	return st, nil
}

func hasObject(objs []domain.SalesforceObject, apiName string) bool {
	for _, o := range objs {
		if o.APIName == apiName {
			return true
		}
	}
	return false
}

// CreateFromTemplate starts a design from a built-in or loaded template.
func (s *DesignService) CreateFromTemplate(ctx context.Context, templateID string) (design.State, error) {
	tpl, ok := s.catalog.Template(templateID)
	if !ok {
		return design.State{}, fmt.Errorf("template %s: %w", templateID, domain.ErrNotFound)
	}
	return s.Dispatch(ctx, design.LoadTemplate{Template: tpl}), nil
}

// ── Persistence ────────────────────────────────────────────

// Save writes the open design to the store.
func (s *DesignService) Save(ctx context.Context) (*domain.SavedDesign, error) {
	d := s.State().Design
	if d == nil {
		return nil, domain.ErrNoDesign
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode design: %w", err)
	}
	saved := &domain.SavedDesign{
		ID:        d.ID,
		Name:      d.Name,
		Data:      string(data),
		Thumbnail: d.Metadata.Thumbnail,
	}
	if err := s.designs.SaveDesign(saved); err != nil {
		return nil, err
	}
	s.log.Info("design saved", zap.String("id", saved.ID), zap.Int("elements", d.ElementCount()))
	s.emitter.Emit(ctx, EventDesignSaved, saved)
	return saved, nil
}

// Open loads a saved design into the session.
func (s *DesignService) Open(ctx context.Context, id string) (design.State, error) {
	saved, err := s.designs.GetDesign(id)
	if err != nil {
		return design.State{}, err
	}
	if saved == nil {
		return design.State{}, fmt.Errorf("design %s: %w", id, domain.ErrNotFound)
	}
	d, err := decodeDesign(saved.Data)
	if err != nil {
		return design.State{}, err
	}
	return s.Dispatch(ctx, design.LoadDesign{Design: d}), nil
}

func (s *DesignService) List() ([]domain.SavedDesign, error) {
	return s.designs.ListDesigns()
}

// Delete removes a saved design. The session is cleared when it was open.
func (s *DesignService) Delete(ctx context.Context, id string) error {
	if err := s.designs.DeleteDesign(id); err != nil {
		return err
	}
	if d := s.State().Design; d != nil && d.ID == id {
		s.Dispatch(ctx, design.ClearDesign{})
	}
	s.emitter.Emit(ctx, EventDesignDeleted, id)
	return nil
}

// MarkVisited records that the user has been through the wizard once.
func (s *DesignService) MarkVisited() error {
	if s.settings == nil {
		return nil
	}
	return s.settings.MarkVisited()
}

// ── User templates ─────────────────────────────────────────

// SaveAsTemplate stores the open design as a reusable user template.
func (s *DesignService) SaveAsTemplate(name, category string) (*domain.SavedTemplate, error) {
	if s.templates == nil {
		return nil, errors.New("user templates are not available")
	}
	d := s.State().Design
	if d == nil {
		return nil, domain.ErrNoDesign
	}
	if name == "" {
		name = d.Name
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	t := &domain.SavedTemplate{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		Data:      string(data),
		Thumbnail: d.Metadata.Thumbnail,
	}
	if err := s.templates.SaveTemplate(t); err != nil {
		return nil, err
	}
	s.log.Info("template saved", zap.String("id", t.ID), zap.String("from", d.ID))
	return t, nil
}

func (s *DesignService) UserTemplates() ([]domain.SavedTemplate, error) {
	if s.templates == nil {
		return nil, nil
	}
	return s.templates.ListTemplates()
}

func (s *DesignService) DeleteUserTemplate(id string) error {
	if s.templates == nil {
		return nil
	}
	return s.templates.DeleteTemplate(id)
}

// CreateFromUserTemplate opens a copy of a user template as a new, unsaved
// design. Element ids are kept; they only need to be unique per design.
func (s *DesignService) CreateFromUserTemplate(ctx context.Context, id string) (design.State, error) {
	list, err := s.UserTemplates()
	if err != nil {
		return design.State{}, err
	}
	for _, t := range list {
		if t.ID != id {
			continue
		}
		d, err := decodeDesign(t.Data)
		if err != nil {
			return design.State{}, err
		}
		now := s.now().UnixMilli()
		d.ID = uuid.NewString()
		d.Name = t.Name
		d.Metadata = domain.DesignMetadata{CreatedAt: now, UpdatedAt: now, Version: 1}
		return s.Dispatch(ctx, design.LoadDesign{Design: d}), nil
	}
	return design.State{}, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
}

// ── History ────────────────────────────────────────────────

// Checkpoint snapshots the open design under the current history node.
func (s *DesignService) Checkpoint(label string) (*storage.HistoryNode, error) {
	d := s.State().Design
	if d == nil {
		return nil, domain.ErrNoDesign
	}
	tree, err := s.history.LoadTree(d.ID)
	if err != nil {
		return nil, err
	}
	parent := ""
	if tree != nil {
		parent = tree.CurrentID
	}
	snapshot, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode checkpoint: %w", err)
	}
	return s.history.PushNode(d.ID, uuid.NewString(), parent, label, string(snapshot))
}

// Restore loads a checkpoint into the session and makes it current.
func (s *DesignService) Restore(ctx context.Context, nodeID string) (design.State, error) {
	n, err := s.history.Node(nodeID)
	if err != nil {
		return design.State{}, err
	}
	if n == nil {
		return design.State{}, fmt.Errorf("checkpoint %s: %w", nodeID, domain.ErrNotFound)
	}
	d, err := decodeDesign(n.Snapshot)
	if err != nil {
		return design.State{}, err
	}
	if err := s.history.GoTo(n.DesignID, n.ID); err != nil {
		return design.State{}, err
	}
	return s.Dispatch(ctx, design.LoadDesign{Design: d}), nil
}

// History returns the checkpoint tree of a design, nil when it has none.
func (s *DesignService) History(designID string) (*storage.HistoryTree, error) {
	return s.history.LoadTree(designID)
}

func decodeDesign(data string) (*domain.PageDesign, error) {
	var d domain.PageDesign
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("decode design: %w", err)
	}
	return &d, nil
}
