package design

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"masquerade/internal/domain"
)

// Reducer computes the next State for an action. Apart from the injected
// clock, id generator and logger it has no side effects, and it never edits
// the State it is given.
type Reducer struct {
	now   func() time.Time
	newID func() string
	log   *zap.Logger
}

type Option func(*Reducer)

func WithClock(now func() time.Time) Option {
	return func(r *Reducer) { r.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(r *Reducer) { r.newID = gen }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Reducer) { r.log = l }
}

func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{
		now:   time.Now,
		newID: uuid.NewString,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce applies a to s. Actions that cannot apply (no design, unknown ids,
// full regions) return s unchanged.
func (r *Reducer) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case WizardOpen, NewDesign:
		s.Wizard = resetWizard(s.Wizard, true)
		return s

	case WizardClose:
		s.Wizard = resetWizard(s.Wizard, false)
		return s

	case WizardSetStep:
		if a.Step < 1 || a.Step > s.Wizard.Step {
			return r.ignore(s, a, "step out of range")
		}
		s.Wizard.Step = a.Step
		return s

	case WizardSelectPageType:
		if !a.PageType.Valid() {
			return r.ignore(s, a, "unknown page type")
		}
		s.Wizard.PageType = a.PageType
		s.Wizard.Step = 2
		return s

	case WizardSelectObject:
		if a.Object.APIName == "" {
			return r.ignore(s, a, "object has no api name")
		}
		obj := a.Object
		s.Wizard.Object = &obj
		s.Wizard.Step = 3
		return s

	case WizardSelectLayout:
		if len(a.Layout.Regions) == 0 {
			return r.ignore(s, a, "layout has no regions")
		}
		l := a.Layout
		l.Regions = slices.Clone(a.Layout.Regions)
		s.Wizard.Layout = &l
		return s

	case WizardAddCustomObject:
		return r.addCustomObject(s, a)

	case WizardComplete:
		return r.completeWizard(s)

	case LoadDesign:
		return r.loadDesign(s, a)

	case LoadTemplate:
		return r.loadTemplate(s, a)

	case ClearDesign:
		s.Design = nil
		s.Selection = Selection{}
		return s

	case SelectElement:
		s.Selection.ElementID = a.ElementID
		return s

	case SetDragOver:
		s.Selection.DragOverRegionID = a.RegionID
		s.Selection.DropIndex = a.Index
		return s

	case DragStart:
		c := a.Component
		s.Drag = DragState{Dragging: true, Component: &c}
		return s

	case DragEnd:
		s.Drag = DragState{}
		s.Selection.DragOverRegionID = ""
		s.Selection.DropIndex = nil
		return s

	case SetPaletteTab:
		if !a.Tab.Valid() {
			return r.ignore(s, a, "unknown palette tab")
		}
		s.UI.PaletteTab = a.Tab
		return s

	case SetSearchQuery:
		s.UI.SearchQuery = a.Query
		return s

	case SetActiveNavTab:
		s.UI.ActiveNavTab = a.Tab
		return s
	}

	if s.Design == nil {
		return r.ignore(s, a, "no design")
	}

	switch a := a.(type) {
	case AddElement:
		return r.addElement(s, a)
	case RemoveElement:
		return r.removeElement(s, a)
	case UpdateElement:
		return r.updateElement(s, a)
	case MoveElement:
		return r.moveElement(s, a)
	case ReorderElements:
		return r.reorderElements(s, a)
	case ChangeLayout:
		return r.changeLayout(s, a)
	case SetPageType:
		return r.setPageType(s, a)
	case RenameDesign:
		d := r.edit(s.Design)
		d.Name = a.Name
		s.Design = d
		return s
	}

	r.log.Warn("unhandled action", zap.String("action", actionName(a)))
	return s
}

func actionName(a Action) string {
	if a == nil {
		return "<nil>"
	}
	return a.Type()
}

func (r *Reducer) ignore(s State, a Action, reason string) State {
	r.log.Debug("action ignored", zap.String("action", actionName(a)), zap.String("reason", reason))
	return s
}

// edit returns a copy of d ready for mutation: the region map is fresh but
// element slices are still shared, so callers must replace any slice they
// change. updatedAt is bumped and never moves backwards.
func (r *Reducer) edit(d *domain.PageDesign) *domain.PageDesign {
	out := *d
	out.Regions = d.ShallowRegions()
	out.Metadata.UpdatedAt = max(r.now().UnixMilli(), d.Metadata.UpdatedAt)
	return &out
}

// renumbered copies els with order set to the slice position.
func renumbered(els []domain.CanvasElement) []domain.CanvasElement {
	out := slices.Clone(els)
	if out == nil {
		out = []domain.CanvasElement{}
	}
	for i := range out {
		out[i].Order = i
	}
	return out
}

func clampIndex(i, n int) int {
	return min(max(i, 0), n)
}

// accepts reports whether region id can take one more element. Keys that
// are not part of the layout have no cap.
func accepts(d *domain.PageDesign, regionID string) bool {
	def, ok := d.Layout.Region(regionID)
	if !ok {
		return true
	}
	return def.Accepts(len(d.Regions[regionID]))
}

func emptyRegions(l domain.LayoutDefinition) map[string][]domain.CanvasElement {
	regions := make(map[string][]domain.CanvasElement, len(l.Regions))
	for _, reg := range l.Regions {
		regions[reg.ID] = []domain.CanvasElement{}
	}
	return regions
}

func cloneLayout(l domain.LayoutDefinition) domain.LayoutDefinition {
	l.Regions = slices.Clone(l.Regions)
	return l
}

// ── Wizard ─────────────────────────────────────────────────

func (r *Reducer) addCustomObject(s State, a WizardAddCustomObject) State {
	if !s.Wizard.Open || s.Wizard.Step != 2 {
		return r.ignore(s, a, "wizard not on object step")
	}
	obj := a.Object
	if (obj.Label == "" && obj.Name == "") || obj.APIName == "" {
		return r.ignore(s, a, "custom object needs label and api name")
	}
	if obj.Name == "" {
		obj.Name = obj.Label
	}
	if obj.Label == "" {
		obj.Label = obj.Name
	}
	obj.Kind = domain.ObjectCustom
	if slices.ContainsFunc(s.Wizard.CustomObjects, func(o domain.SalesforceObject) bool { return o.APIName == obj.APIName }) {
		return r.ignore(s, a, "duplicate api name")
	}
	s.Wizard.CustomObjects = append(slices.Clip(s.Wizard.CustomObjects), obj)
	return s
}

func (r *Reducer) completeWizard(s State) State {
	w := s.Wizard
	if w.PageType == "" || w.Object == nil || w.Layout == nil {
		r.log.Error("cannot complete wizard: missing required selections",
			zap.Bool("pageType", w.PageType != ""),
			zap.Bool("object", w.Object != nil),
			zap.Bool("layout", w.Layout != nil))
		return s
	}

	now := r.now().UnixMilli()
	s.Design = &domain.PageDesign{
		ID:         r.newID(),
		Name:       w.Object.Name + " Page",
		PageType:   w.PageType,
		ObjectName: w.Object.APIName,
		Layout:     cloneLayout(*w.Layout),
		Regions:    emptyRegions(*w.Layout),
		Metadata: domain.DesignMetadata{
			CreatedAt: now,
			UpdatedAt: now,
			Version:   1,
		},
	}
	s.Wizard = resetWizard(w, false)
	s.Selection = Selection{}
	r.log.Info("design created", zap.String("id", s.Design.ID), zap.String("object", s.Design.ObjectName))
	return s
}

// ── Design lifecycle ───────────────────────────────────────

func (r *Reducer) loadDesign(s State, a LoadDesign) State {
	if a.Design == nil {
		return r.ignore(s, a, "nil design")
	}
	d := a.Design.Clone()
	if d.Regions == nil {
		d.Regions = make(map[string][]domain.CanvasElement)
	}
	for _, reg := range d.Layout.Regions {
		if _, ok := d.Regions[reg.ID]; !ok {
			d.Regions[reg.ID] = []domain.CanvasElement{}
		}
	}
	for k, els := range d.Regions {
		d.Regions[k] = renumbered(els)
	}
	s.Design = d
	s.Selection = Selection{}
	return s
}

func (r *Reducer) loadTemplate(s State, a LoadTemplate) State {
	t := a.Template
	if len(t.Layout.Regions) == 0 {
		return r.ignore(s, a, "template has no layout")
	}

	regions := emptyRegions(t.Layout)
	for _, c := range t.DefaultComponents {
		if _, ok := regions[c.RegionID]; !ok {
			continue
		}
		typ := c.Type
		if typ == "" {
			typ = c.ComponentID
		}
		regions[c.RegionID] = append(regions[c.RegionID], domain.CanvasElement{
			ID:          r.newID(),
			ComponentID: c.ComponentID,
			Type:        typ,
			Name:        c.Name,
			Properties:  c.Properties.Clone(),
		})
	}
	for k, els := range regions {
		regions[k] = renumbered(els)
	}

	now := r.now().UnixMilli()
	s.Design = &domain.PageDesign{
		ID:         r.newID(),
		Name:       t.Name,
		PageType:   t.PageType,
		ObjectName: t.ObjectName,
		TemplateID: t.ID,
		Layout:     cloneLayout(t.Layout),
		Regions:    regions,
		Metadata: domain.DesignMetadata{
			CreatedAt: now,
			UpdatedAt: now,
			Thumbnail: t.Thumbnail,
			Version:   1,
		},
	}
	s.Selection = Selection{}
	return s
}

func (r *Reducer) setPageType(s State, a SetPageType) State {
	if !a.PageType.Valid() {
		return r.ignore(s, a, "unknown page type")
	}
	d := r.edit(s.Design)
	d.PageType = a.PageType
	if a.Object != nil {
		d.ObjectName = a.Object.APIName
	}
	s.Design = d
	return s
}

// changeLayout swaps the layout. Regions that survive keep their elements;
// elements of regions that disappear move, in order, to the end of the new
// layout's first region.
func (r *Reducer) changeLayout(s State, a ChangeLayout) State {
	if len(a.Layout.Regions) == 0 {
		return r.ignore(s, a, "layout has no regions")
	}
	old := s.Design
	d := r.edit(old)
	d.Layout = cloneLayout(a.Layout)
	d.Regions = emptyRegions(a.Layout)

	var orphans []domain.CanvasElement
	for _, key := range old.RegionKeys() {
		if _, ok := d.Regions[key]; ok {
			d.Regions[key] = old.Regions[key]
			continue
		}
		orphans = append(orphans, old.Regions[key]...)
	}
	first := a.Layout.Regions[0].ID
	d.Regions[first] = slices.Concat(d.Regions[first], orphans)
	for k, els := range d.Regions {
		d.Regions[k] = renumbered(els)
	}
	s.Design = d
	return s
}

// ── Elements ───────────────────────────────────────────────

func (r *Reducer) addElement(s State, a AddElement) State {
	d := s.Design
	els, ok := d.Regions[a.RegionID]
	if !ok {
		return r.ignore(s, a, "unknown region")
	}
	el := a.Element
	if el.ID == "" {
		el.ID = r.newID()
	}
	if _, _, dup := d.FindElement(el.ID); dup {
		return r.ignore(s, a, "duplicate element id")
	}
	if !accepts(d, a.RegionID) {
		return r.ignore(s, a, "region full")
	}
	el.Properties = el.Properties.Clone()

	at := len(els)
	if a.Index != nil {
		at = clampIndex(*a.Index, len(els))
	}
	next := r.edit(d)
	next.Regions[a.RegionID] = renumbered(slices.Insert(slices.Clone(els), at, el))
	s.Design = next
	return s
}

func (r *Reducer) removeElement(s State, a RemoveElement) State {
	regionID, idx, ok := s.Design.FindElement(a.ElementID)
	if !ok {
		return r.ignore(s, a, "unknown element")
	}
	d := r.edit(s.Design)
	d.Regions[regionID] = renumbered(slices.Delete(slices.Clone(d.Regions[regionID]), idx, idx+1))
	s.Design = d
	if s.Selection.ElementID == a.ElementID {
		s.Selection.ElementID = ""
	}
	return s
}

// updateElement merges into every element carrying the id, in any region.
func (r *Reducer) updateElement(s State, a UpdateElement) State {
	if _, _, ok := s.Design.FindElement(a.ElementID); !ok {
		return r.ignore(s, a, "unknown element")
	}
	d := r.edit(s.Design)
	for key, els := range d.Regions {
		if !slices.ContainsFunc(els, func(el domain.CanvasElement) bool { return el.ID == a.ElementID }) {
			continue
		}
		out := slices.Clone(els)
		for i, el := range out {
			if el.ID != a.ElementID {
				continue
			}
			props := el.Properties.Clone()
			// shallow merge: a nil value is stored, not treated as a delete
			for k, v := range a.Properties {
				props[k] = v
			}
			out[i].Properties = props
		}
		d.Regions[key] = out
	}
	s.Design = d
	return s
}

func (r *Reducer) moveElement(s State, a MoveElement) State {
	from, idx, ok := s.Design.FindElement(a.ElementID)
	if !ok {
		return r.ignore(s, a, "unknown element")
	}
	if _, ok := s.Design.Regions[a.ToRegionID]; !ok {
		return r.ignore(s, a, "unknown destination region")
	}
	if from != a.ToRegionID && !accepts(s.Design, a.ToRegionID) {
		return r.ignore(s, a, "destination full")
	}

	d := r.edit(s.Design)
	src := slices.Clone(d.Regions[from])
	el := src[idx]
	src = slices.Delete(src, idx, idx+1)
	d.Regions[from] = renumbered(src)

	dst := slices.Clone(d.Regions[a.ToRegionID])
	dst = slices.Insert(dst, clampIndex(a.ToIndex, len(dst)), el)
	d.Regions[a.ToRegionID] = renumbered(dst)
	s.Design = d
	return s
}

func (r *Reducer) reorderElements(s State, a ReorderElements) State {
	els, ok := s.Design.Regions[a.RegionID]
	if !ok {
		return r.ignore(s, a, "unknown region")
	}
	if len(a.ElementIDs) != len(els) {
		return r.ignore(s, a, "not a permutation")
	}
	byID := make(map[string]domain.CanvasElement, len(els))
	for _, el := range els {
		byID[el.ID] = el
	}
	out := make([]domain.CanvasElement, 0, len(els))
	for _, id := range a.ElementIDs {
		el, ok := byID[id]
		if !ok {
			return r.ignore(s, a, "not a permutation")
		}
		delete(byID, id)
		out = append(out, el)
	}
	d := r.edit(s.Design)
	d.Regions[a.RegionID] = renumbered(out)
	s.Design = d
	return s
}
