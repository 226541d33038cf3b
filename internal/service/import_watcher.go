package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// importDebounce lets a writer finish before the file is read.
const importDebounce = 300 * time.Millisecond

// ImportWatcher imports exported designs dropped into a folder.
type ImportWatcher struct {
	dir      string
	exporter *ExportService
	emitter  EventEmitter
	log      *zap.Logger
	running  runningJobsGuard
	debounce time.Duration

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}

	mu       sync.Mutex
	timers   map[string]*time.Timer
	inflight sync.WaitGroup // one per armed timer, including fired ones
}

// NewImportWatcher creates the drop folder if needed and starts watching it.
func NewImportWatcher(dir string, exporter *ExportService, emitter EventEmitter, log *zap.Logger) (*ImportWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create import dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &ImportWatcher{
		dir:      dir,
		exporter: exporter,
		emitter:  emitter,
		log:      log.Named("import"),
		debounce: importDebounce,
		watcher:  watcher,
		cancel:   cancel,
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}
	go w.loop(ctx)
	w.log.Info("watching drop folder", zap.String("dir", dir))
	return w, nil
}

func (w *ImportWatcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(event.Name, exportSuffix) {
				continue
			}
			w.schedule(ctx, event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// schedule debounces bursts of events for the same path.
func (w *ImportWatcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok && t.Stop() {
		w.inflight.Done()
	}
	w.inflight.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		defer w.inflight.Done()
		w.mu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		w.mu.Unlock()
		w.importFile(ctx, path)
	})
	w.timers[path] = t
}

func (w *ImportWatcher) importFile(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	abs, _ := filepath.Abs(path)
	if !w.running.TryLock(abs) {
		return
	}
	defer w.running.Unlock(abs)

	d, err := w.exporter.ImportFile(abs)
	if err != nil {
		w.log.Warn("import failed", zap.String("path", abs), zap.Error(err))
		return
	}
	w.emitter.Emit(ctx, EventDesignImported, d)
}

// Close stops watching and waits for in-flight imports.
func (w *ImportWatcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	<-w.done

	w.mu.Lock()
	for p, t := range w.timers {
		if t.Stop() {
			w.inflight.Done()
		}
		delete(w.timers, p)
	}
	w.mu.Unlock()

	// callbacks that already fired may still be importing
	w.inflight.Wait()
	return err
}
