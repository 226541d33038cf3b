package app

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	mcpserver "masquerade/internal/mcp"
	"masquerade/internal/service"
)

// designWatcher polls the database for changes made by another process,
// such as the standalone MCP server, and tells the frontend: the saved
// design list changed, or an approval is waiting.
type designWatcher struct {
	fingerprint func() (string, error)
	db          *sql.DB
	emitter     service.EventEmitter
	log         *zap.Logger
	interval    time.Duration

	mu      sync.Mutex
	last    string
	emitted map[string]bool // approval ids already shown

	cancel context.CancelFunc
	done   chan struct{}
}

func newDesignWatcher(fingerprint func() (string, error), db *sql.DB, emitter service.EventEmitter, log *zap.Logger) *designWatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &designWatcher{
		fingerprint: fingerprint,
		db:          db,
		emitter:     emitter,
		log:         log.Named("watcher"),
		interval:    2 * time.Second,
		emitted:     map[string]bool{},
	}
}

// Start begins the polling loop. Should be called once on app startup.
func (w *designWatcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.pollLoop(ctx)
}

// Stop terminates the polling loop and waits for it to exit.
func (w *designWatcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel = nil
}

func (w *designWatcher) pollLoop(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.check(ctx)
	for {
		select {
		case <-ticker.C:
			w.check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *designWatcher) check(ctx context.Context) {
	w.checkDesigns(ctx)
	w.checkApprovals(ctx)
}

// checkDesigns emits designs:changed when the fingerprint moves. The first
// reading only sets the baseline.
func (w *designWatcher) checkDesigns(ctx context.Context) {
	fp, err := w.fingerprint()
	if err != nil {
		w.log.Debug("fingerprint failed", zap.Error(err))
		return
	}
	w.mu.Lock()
	changed := w.last != "" && w.last != fp
	w.last = fp
	w.mu.Unlock()

	if changed {
		w.emitter.Emit(ctx, service.EventDesignsChanged, map[string]string{"fingerprint": fp})
	}
}

// checkApprovals surfaces each pending standalone approval once and forgets
// the ones that were resolved.
func (w *designWatcher) checkApprovals(ctx context.Context) {
	pending, err := mcpserver.PendingApprovals(ctx, w.db)
	if err != nil {
		w.log.Debug("approval poll failed", zap.Error(err))
		return
	}

	seen := make(map[string]bool, len(pending))
	var fresh []mcpserver.PendingAction
	w.mu.Lock()
	for _, p := range pending {
		seen[p.ID] = true
		if !w.emitted[p.ID] {
			w.emitted[p.ID] = true
			fresh = append(fresh, p)
		}
	}
	for id := range w.emitted {
		if !seen[id] {
			delete(w.emitted, id)
		}
	}
	w.mu.Unlock()

	for _, p := range fresh {
		w.emitter.Emit(ctx, mcpserver.EventApprovalRequired, p)
	}
}
