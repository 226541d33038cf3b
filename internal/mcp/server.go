package mcpserver

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"masquerade/internal/catalog"
	"masquerade/internal/service"
)

// Server exposes the page builder to AI agents: tools that drive the
// editing session, resources for the catalog and the open design, and a
// prompt for building record pages.
type Server struct {
	mcp      *server.MCPServer
	approval *ApprovalQueue

	designs  *service.DesignService
	exporter *service.ExportService
	catalog  *catalog.Catalog
	export   string
	log      *zap.Logger
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter   EventEmitter
	Designs   *service.DesignService
	Exporter  *service.ExportService
	Catalog   *catalog.Catalog
	ExportDir string
	Logger    *zap.Logger
	// ApprovalDB switches approvals to the mcp_approvals table (standalone mode).
	ApprovalDB *sql.DB
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	approval := NewApprovalQueue(deps.Emitter, log)
	if deps.ApprovalDB != nil {
		approval.SetDB(deps.ApprovalDB)
	}

	s := &Server{
		approval: approval,
		designs:  deps.Designs,
		exporter: deps.Exporter,
		catalog:  deps.Catalog,
		export:   deps.ExportDir,
		log:      log.Named("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"masquerade-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerCatalogTools()
	s.registerDesignTools()
	s.registerStorageTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio serves MCP on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.log.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// Approvals exposes the queue, mainly so callers can tune its timeout.
func (s *Server) Approvals() *ApprovalQueue {
	return s.approval
}
