package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("record_page",
		mcp.WithPromptDescription("Guide through building a record page for an object"),
		mcp.WithArgument("object",
			mcp.ArgumentDescription("Object API name, e.g. Account or Invoice__c"),
			mcp.RequiredArgument(),
		),
	), s.handleRecordPagePrompt)
}

func (s *Server) handleRecordPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	object := req.Params.Arguments["object"]
	if object == "" {
		return nil, fmt.Errorf("object is required")
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a record page for %s", object),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a record page for the %[1]s object. Follow these steps:

1. Check list_templates with pageType "record" for a template that fits %[1]s and use create_from_template if one does.
2. Otherwise call list_layouts, pick a layout with a header, and run create_design with pageType "record", objectApiName "%[1]s" and that layout. If %[1]s ends in __c, call add_custom_object first.
3. Put a rich-text summary in the header region, related-list and list-view components in the main region, and chatter-feed or todays-tasks in the sidebar. Use list_components to find ids and add_component to place them.
4. Tune each element with update_element. Read get_component_schema first so values match the allowed options and ranges.
5. Rename the design to something descriptive and call save_design.

Respect each region's maxComponents. Check get_design_state after each change.`, object),
				},
			},
		},
	}, nil
}
