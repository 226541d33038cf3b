package app

import (
	"context"
	"sync"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	mcpserver "masquerade/internal/mcp"
	"masquerade/internal/service"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx     context.Context
	core    *Core
	emitter *wailsEmitter
	watcher *designWatcher
	log     *zap.Logger
}

// wailsEmitter forwards service events to the frontend. Services may emit
// from their own goroutines, so the Wails context captured at startup is
// used instead of the caller's. Events before startup are dropped.
type wailsEmitter struct {
	mu  sync.RWMutex
	ctx context.Context
}

func (e *wailsEmitter) Emit(_ context.Context, event string, data any) {
	e.mu.RLock()
	ctx := e.ctx
	e.mu.RUnlock()
	if ctx != nil {
		wailsRuntime.EventsEmit(ctx, event, data)
	}
}

func (e *wailsEmitter) attach(ctx context.Context) {
	e.mu.Lock()
	e.ctx = ctx
	e.mu.Unlock()
}

// NewEmitter returns the emitter the GUI's Core must be built with.
func NewEmitter() service.EventEmitter {
	return &wailsEmitter{}
}

// New creates the App around an already built Core. The Core must have been
// created with the emitter from NewEmitter.
func New(core *Core, emitter service.EventEmitter) *App {
	we, _ := emitter.(*wailsEmitter)
	if we == nil {
		we = &wailsEmitter{}
	}
	return &App{core: core, emitter: we, log: core.Log.Named("app")}
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	a.emitter.attach(ctx)

	if err := a.core.StartBackground(); err != nil {
		a.log.Error("background jobs", zap.Error(err))
		wailsRuntime.LogFatalf(ctx, "Failed to start background jobs: %v", err)
		return
	}

	a.watcher = newDesignWatcher(a.core.Store.Fingerprint, a.core.DB.Conn(), a.emitter, a.core.Log)
	a.watcher.Start(ctx)

	// Push the boot state so a first visit lands in the wizard.
	a.emitter.Emit(ctx, service.EventDesignState, a.core.Designs.State())
	a.log.Info("started", zap.String("data", a.core.Config.Data.Dir))
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if w, h := wailsRuntime.WindowGetSize(ctx); w > 0 && h > 0 {
		if err := a.core.Window.SaveWindowSize(w, h); err != nil {
			a.log.Warn("save window size", zap.Error(err))
		}
	}
	a.core.Close()
}

// ============================================================
// MCP approvals
// ============================================================

// ApproveMCPAction approves a destructive action requested by the
// standalone MCP server.
func (a *App) ApproveMCPAction(actionID string) error {
	return mcpserver.ResolveApproval(a.ctx, a.core.DB.Conn(), actionID, true)
}

// RejectMCPAction rejects a destructive action requested by the standalone
// MCP server.
func (a *App) RejectMCPAction(actionID string) error {
	return mcpserver.ResolveApproval(a.ctx, a.core.DB.Conn(), actionID, false)
}

// PendingMCPActions lists approvals still waiting, for a frontend that
// reloaded while one was open.
func (a *App) PendingMCPActions() ([]mcpserver.PendingAction, error) {
	return mcpserver.PendingApprovals(a.ctx, a.core.DB.Conn())
}
