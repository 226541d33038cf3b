package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	layoutsURI      = "masquerade://layouts"
	designURI       = "masquerade://design"
	layoutURIPrefix = "masquerade://layout/"
)

func (s *Server) registerResources() {
	// ── masquerade://layouts ───────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		layoutsURI,
		"Page Layouts",
		mcp.WithResourceDescription("Layouts offered by the creation wizard, in display order"),
		mcp.WithMIMEType("application/json"),
	), s.handleLayoutsResource)

	// ── masquerade://design ────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		designURI,
		"Open Design",
		mcp.WithResourceDescription("The design currently open in the editor"),
		mcp.WithMIMEType("application/json"),
	), s.handleDesignResource)

	// ── masquerade://layout/{layoutId} ─────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			layoutURIPrefix+"{layoutId}",
			"Layout Definition",
			mcp.WithTemplateDescription("Full grid definition of one layout"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleLayoutResource,
	)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleLayoutsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(layoutsURI, s.catalog.ListLayouts())
}

func (s *Server) handleDesignResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(designURI, summarizeDesign(s.designs.State()))
}

func (s *Server) handleLayoutResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := strings.TrimPrefix(uri, layoutURIPrefix)
	if id == uri || id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("could not extract layoutId from URI: %s", uri)
	}
	l, ok := s.catalog.LookupLayout(id)
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", id)
	}
	return jsonContents(uri, l)
}
