package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	mcpserver "masquerade/internal/mcp"
	"masquerade/internal/service"
	"masquerade/internal/storage"
)

type fakeFingerprint struct {
	mu sync.Mutex
	fp string
}

func (f *fakeFingerprint) set(fp string) {
	f.mu.Lock()
	f.fp = fp
	f.mu.Unlock()
}

func (f *fakeFingerprint) get() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fp, nil
}

func TestDesignWatcher(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "masquerade.db"), filepath.Join(dir, "data"))
	require.NoError(t, err)
	defer db.Close()

	fp := &fakeFingerprint{fp: "1:100"}
	emitter := &service.MockEmitter{}
	w := newDesignWatcher(fp.get, db.Conn(), emitter, nil)
	w.interval = 10 * time.Millisecond
	w.Start(context.Background())
	defer w.Stop()

	// The first reading is only a baseline.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, emitter.Named(service.EventDesignsChanged))

	fp.set("2:200")
	require.Eventually(t, func() bool {
		return len(emitter.Named(service.EventDesignsChanged)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err = db.Conn().Exec(`INSERT INTO mcp_approvals (id, tool, description) VALUES ('a1', 'delete_design', 'Delete "x"')`)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return len(emitter.Named(mcpserver.EventApprovalRequired)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Still pending: not shown twice.
	time.Sleep(50 * time.Millisecond)
	got := emitter.Named(mcpserver.EventApprovalRequired)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].Data.(mcpserver.PendingAction).ID)

	require.NoError(t, mcpserver.ResolveApproval(context.Background(), db.Conn(), "a1", true))
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.emitted) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDesignWatcher_StopWithoutStart(t *testing.T) {
	w := newDesignWatcher(func() (string, error) { return "", nil }, nil, &service.MockEmitter{}, nil)
	w.Stop()
}
