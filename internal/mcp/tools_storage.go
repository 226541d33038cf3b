package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

func (s *Server) registerStorageTools() {
	// ── save_design ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_design",
		mcp.WithDescription("Save the open design so it shows up in the user's design list"),
	), s.handleSaveDesign)

	// ── list_saved_designs ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_saved_designs",
		mcp.WithDescription("List saved designs, oldest update first"),
	), s.handleListSavedDesigns)

	// ── open_design ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_design",
		mcp.WithDescription("Open a saved design for editing, replacing the open one"),
		mcp.WithString("designId", mcp.Description("Saved design id"), mcp.Required()),
	), s.handleOpenDesign)

	// ── export_design ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_design",
		mcp.WithDescription("Write a saved design to a .masquerade.json file in the export directory"),
		mcp.WithString("designId", mcp.Description("Saved design id"), mcp.Required()),
	), s.handleExportDesign)

	// ── delete_design (requires approval) ──────────────
	s.mcp.AddTool(mcp.NewTool("delete_design",
		mcp.WithDescription("Delete a saved design. The user must approve this in the app."),
		mcp.WithString("designId", mcp.Description("Saved design id"), mcp.Required()),
	), s.handleDeleteDesign)
}

type savedSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

func (s *Server) handleSaveDesign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	saved, err := s.designs.Save(ctx)
	if err != nil {
		return errorResult("%v", err), nil
	}
	return textResult(fmt.Sprintf("Saved %q (%s)", saved.Name, saved.ID)), nil
}

func (s *Server) handleListSavedDesigns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.designs.List()
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	out := make([]savedSummary, 0, len(list))
	for _, d := range list {
		out = append(out, savedSummary{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt})
	}
	return jsonResult(out)
}

func (s *Server) handleOpenDesign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("designId", "")
	st, err := s.designs.Open(ctx, id)
	if isMissing(err) {
		return errorResult("design %s not found", id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open design: %w", err)
	}
	return designResult(st)
}

func (s *Server) handleExportDesign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.export == "" {
		return errorResult("no export directory is configured"), nil
	}
	id := req.GetString("designId", "")
	path, err := s.exporter.ExportFile(id, s.export)
	if isMissing(err) {
		return errorResult("design %s not found", id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("export design: %w", err)
	}
	return textResult("Exported to " + path), nil
}

func (s *Server) handleDeleteDesign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("designId", "")
	var name string
	list, err := s.designs.List()
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	for _, d := range list {
		if d.ID == id {
			name = d.Name
		}
	}
	if name == "" {
		return errorResult("design %s not found", id), nil
	}

	desc := fmt.Sprintf("Delete design %q", name)
	meta := fmt.Sprintf(`{"designId": %q}`, id)
	approved, err := s.approval.Request(ctx, "delete_design", desc, meta)
	if err != nil || !approved {
		s.log.Info("delete rejected", zap.String("id", id), zap.Error(err))
		return textResult("Action rejected by user"), nil
	}

	if err := s.designs.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete design: %w", err)
	}
	return textResult(fmt.Sprintf("Deleted %q", name)), nil
}
