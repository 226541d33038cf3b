package mcpserver

import (
	"context"
	"errors"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"masquerade/internal/design"
	"masquerade/internal/domain"
)

func (s *Server) registerDesignTools() {
	// ── get_design_state ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_design_state",
		mcp.WithDescription("Summarize the open design: regions and the elements placed in them"),
	), s.handleGetDesignState)

	// ── add_custom_object ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_custom_object",
		mcp.WithDescription("Define a custom object that create_design can then target"),
		mcp.WithString("label", mcp.Description("Singular label, e.g. Invoice"), mcp.Required()),
		mcp.WithString("pluralLabel", mcp.Description("Plural label; derived from the label when empty")),
		mcp.WithString("apiName", mcp.Description("API name ending in __c; derived from the label when empty")),
		mcp.WithString("description", mcp.Description("What the object stores")),
	), s.handleAddCustomObject)

	// ── create_design ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_design",
		mcp.WithDescription("Create a new empty design, replacing the open one. Runs the page wizard in one step."),
		mcp.WithString("pageType",
			mcp.Description("Kind of page"),
			mcp.Enum("record", "app", "home"),
			mcp.Required(),
		),
		mcp.WithString("objectApiName",
			mcp.Description("Object the page is for: a standard object like Account, or a custom object API name"),
			mcp.Required(),
		),
		mcp.WithString("layoutId",
			mcp.Description("Layout id from list_layouts"),
			mcp.Required(),
		),
	), s.handleCreateDesign)

	// ── create_from_template ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_from_template",
		mcp.WithDescription("Create a new design from a template, with its components pre-placed"),
		mcp.WithString("templateId", mcp.Description("Template id from list_templates"), mcp.Required()),
	), s.handleCreateFromTemplate)

	// ── add_component ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_component",
		mcp.WithDescription("Place a palette component into a region of the open design with its default properties"),
		mcp.WithString("componentId", mcp.Description("Palette component id"), mcp.Required()),
		mcp.WithString("regionId", mcp.Description("Target region id"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Insert position in the region; appends when omitted")),
	), s.handleAddComponent)

	// ── move_element ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_element",
		mcp.WithDescription("Move an element to a position in the same or another region"),
		mcp.WithString("elementId", mcp.Description("Element to move"), mcp.Required()),
		mcp.WithString("toRegionId", mcp.Description("Destination region"), mcp.Required()),
		mcp.WithNumber("toIndex", mcp.Description("Destination position"), mcp.Required()),
	), s.handleMoveElement)

	// ── remove_element ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("remove_element",
		mcp.WithDescription("Remove an element from the open design"),
		mcp.WithString("elementId", mcp.Description("Element to remove"), mcp.Required()),
	), s.handleRemoveElement)

	// ── update_element ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_element",
		mcp.WithDescription("Merge properties into an element. Values are checked against the component schema; null is stored as null."),
		mcp.WithString("elementId", mcp.Description("Element to update"), mcp.Required()),
		mcp.WithString("properties", mcp.Description(`JSON object, e.g. {"title": "Open Cases", "rowCount": 5}`), mcp.Required()),
	), s.handleUpdateElement)

	// ── rename_design ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("rename_design",
		mcp.WithDescription("Rename the open design"),
		mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
	), s.handleRenameDesign)

	// ── checkpoint_design ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("checkpoint_design",
		mcp.WithDescription("Record a named checkpoint of the open design that the user can restore later"),
		mcp.WithString("label", mcp.Description("Checkpoint label"), mcp.Required()),
	), s.handleCheckpointDesign)

	// ── dispatch ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("dispatch",
		mcp.WithDescription(`Apply a raw editor action, e.g. {"type": "REORDER_ELEMENTS", "regionId": "main", "elementIds": ["a", "b"]}`),
		mcp.WithString("action", mcp.Description("Action JSON: a type field plus the action's own fields"), mcp.Required()),
	), s.handleDispatch)
}

// ── Summaries ──────────────────────────────────────────────

type elementSummary struct {
	ID          string            `json:"id"`
	ComponentID string            `json:"componentId"`
	Name        string            `json:"name"`
	Order       int               `json:"order"`
	Properties  domain.Properties `json:"properties"`
}

type regionSummary struct {
	ID       string           `json:"id"`
	Name     string           `json:"name,omitempty"`
	Max      int              `json:"maxComponents,omitempty"`
	Elements []elementSummary `json:"elements"`
}

type designSummary struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	PageType   domain.PageType `json:"pageType"`
	ObjectName string          `json:"objectName,omitempty"`
	LayoutID   string          `json:"layoutId"`
	Regions    []regionSummary `json:"regions"`
	Selected   string          `json:"selectedElementId,omitempty"`
}

func summarizeDesign(st design.State) *designSummary {
	d := st.Design
	if d == nil {
		return nil
	}
	out := &designSummary{
		ID:         d.ID,
		Name:       d.Name,
		PageType:   d.PageType,
		ObjectName: d.ObjectName,
		LayoutID:   d.Layout.ID,
		Selected:   st.Selection.ElementID,
	}
	for _, key := range d.RegionKeys() {
		r := regionSummary{ID: key, Elements: []elementSummary{}}
		if def, ok := d.Layout.Region(key); ok {
			r.Name = def.Name
			r.Max = def.MaxComponents
		}
		for _, el := range d.Regions[key] {
			r.Elements = append(r.Elements, elementSummary{
				ID:          el.ID,
				ComponentID: el.ComponentID,
				Name:        el.Name,
				Order:       el.Order,
				Properties:  el.Properties,
			})
		}
		out.Regions = append(out.Regions, r)
	}
	return out
}

// designResult reports the open design, or an error when there is none.
func designResult(st design.State) (*mcp.CallToolResult, error) {
	sum := summarizeDesign(st)
	if sum == nil {
		return errorResult("no design is open; use create_design, create_from_template or open_design"), nil
	}
	return jsonResult(sum)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleGetDesignState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return designResult(s.designs.State())
}

func (s *Server) handleAddCustomObject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	obj, err := design.NewCustomObject(
		req.GetString("label", ""),
		req.GetString("pluralLabel", ""),
		req.GetString("apiName", ""),
		req.GetString("description", ""),
	)
	if err != nil {
		return errorResult("%v", err), nil
	}
	if _, ok := s.resolveObject(obj.APIName); ok {
		return errorResult("object %s already exists", obj.APIName), nil
	}
	if _, err := s.designs.AddCustomObject(ctx, obj); err != nil {
		return errorResult("%v", err), nil
	}
	return jsonResult(obj)
}

// resolveObject finds a standard object or a custom one defined in this
// session.
func (s *Server) resolveObject(apiName string) (domain.SalesforceObject, bool) {
	if o, ok := s.catalog.StandardObject(apiName); ok {
		return o, true
	}
	custom := s.designs.State().Wizard.CustomObjects
	i := slices.IndexFunc(custom, func(o domain.SalesforceObject) bool { return o.APIName == apiName })
	if i < 0 {
		return domain.SalesforceObject{}, false
	}
	return custom[i], true
}

func (s *Server) handleCreateDesign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageType := domain.PageType(req.GetString("pageType", ""))
	if !pageType.Valid() {
		return errorResult("unknown page type %q", pageType), nil
	}
	objName := req.GetString("objectApiName", "")
	obj, ok := s.resolveObject(objName)
	if !ok {
		return errorResult("unknown object %q; add it with add_custom_object first", objName), nil
	}
	layoutID := req.GetString("layoutId", "")
	layout, ok := s.catalog.LookupLayout(layoutID)
	if !ok {
		return errorResult("unknown layout %q", layoutID), nil
	}

	var before string
	if d := s.designs.State().Design; d != nil {
		before = d.ID
	}
	s.designs.Dispatch(ctx, design.WizardOpen{})
	s.designs.Dispatch(ctx, design.WizardSelectPageType{PageType: pageType})
	s.designs.Dispatch(ctx, design.WizardSelectObject{Object: obj})
	s.designs.Dispatch(ctx, design.WizardSelectLayout{Layout: layout})
	st := s.designs.Dispatch(ctx, design.WizardComplete{})
	if st.Design == nil || st.Design.ID == before {
		return errorResult("wizard did not complete"), nil
	}
	if err := s.designs.MarkVisited(); err != nil {
		s.log.Warn("mark visited failed", zap.Error(err))
	}
	s.log.Info("design created", zap.String("id", st.Design.ID), zap.String("layout", layoutID))
	return designResult(st)
}

func (s *Server) handleCreateFromTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.designs.CreateFromTemplate(ctx, req.GetString("templateId", ""))
	if err != nil {
		return errorResult("%v", err), nil
	}
	return designResult(st)
}

func (s *Server) handleAddComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	componentID := req.GetString("componentId", "")
	regionID := req.GetString("regionId", "")
	st, err := s.designs.DropComponent(ctx, componentID, regionID, optionalIndex(req, "index"))
	if err != nil {
		return errorResult("%v", err), nil
	}
	return designResult(st)
}

func (s *Server) handleMoveElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	elementID := req.GetString("elementId", "")
	toRegion := req.GetString("toRegionId", "")
	toIndex := req.GetInt("toIndex", 0)

	d := s.designs.State().Design
	if d == nil {
		return errorResult("%v", domain.ErrNoDesign), nil
	}
	if _, _, ok := d.FindElement(elementID); !ok {
		return errorResult("element %s not found", elementID), nil
	}

	st := s.designs.Dispatch(ctx, design.MoveElement{ElementID: elementID, ToRegionID: toRegion, ToIndex: toIndex})
	if region, _, ok := st.Design.FindElement(elementID); !ok || region != toRegion {
		return errorResult("region %s did not accept element %s", toRegion, elementID), nil
	}
	return designResult(st)
}

func (s *Server) handleRemoveElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	elementID := req.GetString("elementId", "")
	d := s.designs.State().Design
	if d == nil {
		return errorResult("%v", domain.ErrNoDesign), nil
	}
	if _, _, ok := d.FindElement(elementID); !ok {
		return errorResult("element %s not found", elementID), nil
	}
	return designResult(s.designs.Dispatch(ctx, design.RemoveElement{ElementID: elementID}))
}

func (s *Server) handleUpdateElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var props domain.Properties
	if err := parseJSON(req.GetString("properties", ""), &props); err != nil {
		return errorResult("properties must be a JSON object: %v", err), nil
	}
	st, err := s.designs.UpdateProperties(ctx, req.GetString("elementId", ""), props)
	if err != nil {
		return errorResult("%v", err), nil
	}
	return designResult(st)
}

func (s *Server) handleRenameDesign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}
	if s.designs.State().Design == nil {
		return errorResult("%v", domain.ErrNoDesign), nil
	}
	return designResult(s.designs.Dispatch(ctx, design.RenameDesign{Name: name}))
}

func (s *Server) handleCheckpointDesign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := s.designs.Checkpoint(req.GetString("label", ""))
	if err != nil {
		return errorResult("%v", err), nil
	}
	return jsonResult(map[string]string{"checkpointId": node.ID, "designId": node.DesignID, "label": node.Label})
}

func (s *Server) handleDispatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.designs.DispatchJSON(ctx, []byte(req.GetString("action", "")))
	if err != nil {
		return errorResult("invalid action: %v", err), nil
	}
	if st.Design == nil {
		return jsonResult(map[string]any{"design": nil, "wizard": st.Wizard})
	}
	return designResult(st)
}

// isMissing reports lookups that failed because the target does not exist.
func isMissing(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
