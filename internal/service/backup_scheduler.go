package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const backupJob = "backup"

// ErrBackupRunning is returned by RunNow while another backup is in progress.
var ErrBackupRunning = errors.New("backup already running")

// BackupResult describes one completed backup.
type BackupResult struct {
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
}

// BackupScheduler periodically exports every saved design into a
// timestamped directory under root.
type BackupScheduler struct {
	root     string
	exporter *ExportService
	emitter  EventEmitter
	log      *zap.Logger
	now      func() time.Time

	running runningJobsGuard
	cron    *cron.Cron
	cancel  context.CancelFunc
}

func NewBackupScheduler(root string, exporter *ExportService, emitter EventEmitter, log *zap.Logger) *BackupScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if emitter == nil {
		emitter = nopEmitter{}
	}
	return &BackupScheduler{
		root:     root,
		exporter: exporter,
		emitter:  emitter,
		log:      log.Named("backup"),
		now:      time.Now,
	}
}

// Start schedules backups with a cron spec such as "@every 30m".
func (b *BackupScheduler) Start(spec string) error {
	if b.cron != nil {
		return fmt.Errorf("backup scheduler already started")
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := b.RunNow(ctx); err != nil && !errors.Is(err, ErrBackupRunning) {
			b.log.Error("scheduled backup failed", zap.Error(err))
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	c.Start()
	b.cron, b.cancel = c, cancel
	b.log.Info("backups scheduled", zap.String("schedule", spec), zap.String("root", b.root))
	return nil
}

// RunNow performs a backup immediately. Overlapping runs are refused.
func (b *BackupScheduler) RunNow(ctx context.Context) (*BackupResult, error) {
	if !b.running.TryLock(backupJob) {
		return nil, ErrBackupRunning
	}
	defer b.running.Unlock(backupJob)

	dir := filepath.Join(b.root, b.now().UTC().Format("20060102-150405"))
	files, err := b.exporter.ExportAll(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	res := &BackupResult{Dir: dir, Files: files}
	b.log.Info("backup written", zap.String("dir", dir), zap.Int("designs", len(files)))
	b.emitter.Emit(ctx, EventBackupDone, res)
	return res, nil
}

// Stop halts the schedule and waits for a running backup to finish.
func (b *BackupScheduler) Stop() {
	if b.cron != nil {
		<-b.cron.Stop().Done()
		b.cancel()
		b.cron = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	b.running.WaitAll(ctx)
}
