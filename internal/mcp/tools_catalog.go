package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"masquerade/internal/domain"
)

func (s *Server) registerCatalogTools() {
	// ── list_layouts ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_layouts",
		mcp.WithDescription("List the page layouts offered by the creation wizard, in display order"),
	), s.handleListLayouts)

	// ── list_templates ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List built-in and installed page templates"),
		mcp.WithString("category",
			mcp.Description("Optional template category filter"),
			mcp.Enum("sales", "service", "experience", "blank"),
		),
		mcp.WithString("pageType",
			mcp.Description("Optional page type filter"),
			mcp.Enum("record", "app", "home"),
		),
	), s.handleListTemplates)

	// ── list_components ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_components",
		mcp.WithDescription("List palette components of one tab, optionally filtered by a search query"),
		mcp.WithString("tab",
			mcp.Description("Palette tab (default standard)"),
			mcp.Enum("standard", "base", "custom"),
		),
		mcp.WithString("query",
			mcp.Description("Case-insensitive name filter; near misses are matched when nothing contains it"),
		),
	), s.handleListComponents)

	// ── get_component_schema ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_component_schema",
		mcp.WithDescription("Get a component's property schema and default properties"),
		mcp.WithString("componentId",
			mcp.Description("Palette component id, e.g. related-list"),
			mcp.Required(),
		),
	), s.handleGetComponentSchema)
}

type layoutSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Regions     []string `json:"regions"`
}

func summarizeLayouts(ls []domain.LayoutDefinition) []layoutSummary {
	out := make([]layoutSummary, 0, len(ls))
	for _, l := range ls {
		out = append(out, layoutSummary{ID: l.ID, Name: l.Name, Description: l.Description, Regions: l.RegionIDs()})
	}
	return out
}

func (s *Server) handleListLayouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(summarizeLayouts(s.catalog.ListLayouts()))
}

type templateSummary struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Category    domain.TemplateCategory `json:"category"`
	PageType    domain.PageType         `json:"pageType"`
	ObjectName  string                  `json:"objectName,omitempty"`
	Layout      string                  `json:"layoutId"`
	Components  int                     `json:"componentCount"`
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := domain.TemplateCategory(req.GetString("category", ""))
	pageType := domain.PageType(req.GetString("pageType", ""))

	out := []templateSummary{}
	for _, t := range s.catalog.Templates() {
		if category != "" && t.Category != category {
			continue
		}
		if pageType != "" && t.PageType != pageType {
			continue
		}
		out = append(out, templateSummary{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Category:    t.Category,
			PageType:    t.PageType,
			ObjectName:  t.ObjectName,
			Layout:      t.Layout.ID,
			Components:  len(t.DefaultComponents),
		})
	}
	return jsonResult(out)
}

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tab := domain.ComponentCategory(req.GetString("tab", string(domain.CategoryStandard)))
	if !tab.Valid() {
		return errorResult("unknown palette tab %q", tab), nil
	}
	found := s.catalog.SearchPalette(tab, req.GetString("query", ""))
	if found == nil {
		found = []domain.PaletteComponent{}
	}
	return jsonResult(found)
}

func (s *Server) handleGetComponentSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("componentId", "")
	comp, ok := s.catalog.PaletteComponent(id)
	if !ok {
		return errorResult("unknown component %q", id), nil
	}
	schema, ok := s.catalog.ComponentSchema(id)
	if !ok {
		// No schema: the bag is free-form.
		return jsonResult(map[string]any{"component": comp, "properties": []any{}, "defaults": domain.Properties{}})
	}
	return jsonResult(map[string]any{
		"component":  comp,
		"properties": schema.Properties,
		"defaults":   s.catalog.DefaultProperties(id),
	})
}
