package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"masquerade/internal/catalog"
	"masquerade/internal/service"
	"masquerade/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Shared fixtures
// ─────────────────────────────────────────────────────────────

type env struct {
	db       *storage.DB
	designs  *storage.DesignStore
	history  *storage.HistoryStore
	settings *storage.SettingsStore
	remotes  *storage.RemoteStore
	catalog  *catalog.Catalog
	emitter  *service.MockEmitter
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "masquerade.db"), filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cat, err := catalog.New()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return &env{
		db:       db,
		designs:  storage.NewDesignStore(db),
		history:  storage.NewHistoryStore(db),
		settings: storage.NewSettingsStore(db),
		remotes:  storage.NewRemoteStore(db),
		catalog:  cat,
		emitter:  &service.MockEmitter{},
	}
}

// ─────────────────────────────────────────────────────────────
// RunningJobsGuard tests
// ─────────────────────────────────────────────────────────────

func TestRunningGuard_TryLock(t *testing.T) {
	var g service.ExportedRunningGuard

	if !g.TryLock("backup") {
		t.Fatal("expected first TryLock to succeed")
	}
	if g.TryLock("backup") {
		t.Fatal("expected second TryLock for same key to fail")
	}
	if !g.TryLock("/inbox/a.masquerade.json") {
		t.Fatal("expected TryLock for different key to succeed")
	}
	g.Unlock("backup")
	g.Unlock("/inbox/a.masquerade.json")

	if !g.TryLock("backup") {
		t.Fatal("expected TryLock to succeed after unlock")
	}
	g.Unlock("backup")
}

func TestRunningGuard_WaitAll(t *testing.T) {
	var g service.ExportedRunningGuard

	if !g.TryLock("job-a") {
		t.Fatal("expected lock to succeed")
	}

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		g.WaitAll(ctx)
		close(done)
	}()

	go func() {
		time.Sleep(20 * time.Millisecond)
		g.Unlock("job-a")
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("WaitAll timed out")
	}
}

// ─────────────────────────────────────────────────────────────
// MockEmitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_Named(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	m.Emit(ctx, service.EventDesignState, "first")
	m.Emit(ctx, service.EventDesignSaved, nil)
	m.Emit(ctx, service.EventDesignState, "second")

	if len(m.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(m.Events))
	}
	states := m.Named(service.EventDesignState)
	if len(states) != 2 || states[1].Data != "second" {
		t.Errorf("Named = %+v", states)
	}
}
