package app

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	mcpserver "masquerade/internal/mcp"
)

// nopEmitter drops events in MCP-only mode, where there is no frontend.
type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, string, any) {}

// NewMCPServer builds the MCP server over core for standalone use. Approvals
// go through the mcp_approvals table so a running GUI can answer them.
func NewMCPServer(core *Core) *mcpserver.Server {
	return mcpserver.New(mcpserver.Deps{
		Emitter:    nopEmitter{},
		Designs:    core.Designs,
		Exporter:   core.Exporter,
		Catalog:    core.Catalog,
		ExportDir:  filepath.Join(core.Config.Data.Dir, "exports"),
		Logger:     core.Log,
		ApprovalDB: core.DB.Conn(),
	})
}

// ServeMCP runs the page builder as a standalone MCP server on stdin/stdout
// with no GUI, until the client disconnects.
func ServeMCP(core *Core) error {
	if err := core.StartBackground(); err != nil {
		return err
	}
	core.Log.Info("serving mcp on stdio", zap.String("data", core.Config.Data.Dir))
	return NewMCPServer(core).ServeStdio()
}
