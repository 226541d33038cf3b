package app

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"masquerade/internal/catalog"
	"masquerade/internal/config"
	"masquerade/internal/domain"
	"masquerade/internal/secret"
	"masquerade/internal/service"
	"masquerade/internal/shapes"
	"masquerade/internal/storage"
)

// Core is the wiring shared by the GUI, the standalone MCP server and the
// CLI commands: storage, catalog and services, built once from config.
type Core struct {
	Config config.Config
	Log    *zap.Logger

	DB        *storage.DB
	Store     *storage.DesignStore
	Catalog   *catalog.Catalog
	Shapes    *shapes.Registry
	Designs   *service.DesignService
	Exporter  *service.ExportService
	Sharing   *service.SharingService
	Window    *service.WindowSettingsService
	Backups   *service.BackupScheduler
	importer  *service.ImportWatcher
	emitter   service.EventEmitter
	templates string
}

// NewCore opens the database and builds every service. Background jobs are
// not started; see StartBackground.
func NewCore(cfg config.Config, log *zap.Logger, emitter service.EventEmitter) (*Core, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if emitter == nil {
		emitter = nopEmitter{}
	}

	db, err := storage.New(cfg.Database.Path, cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	cat, err := catalog.New()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	templateDir := filepath.Join(cfg.Data.Dir, "templates")
	n, err := cat.LoadTemplateDir(templateDir)
	if err != nil {
		// A bad pack should not keep the app from starting.
		log.Warn("template packs skipped", zap.String("dir", templateDir), zap.Error(err))
	} else if n > 0 {
		log.Info("template packs loaded", zap.Int("templates", n))
	}

	secrets, err := secret.New(cfg.Secrets.Backend)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open secret store: %w", err)
	}

	store := storage.NewDesignStore(db)
	settings := storage.NewSettingsStore(db)

	designs, err := service.NewDesignService(service.DesignServiceDeps{
		Catalog:   cat,
		Designs:   store,
		Templates: storage.NewTemplateStore(db),
		History:   storage.NewHistoryStore(db),
		Settings:  settings,
		Emitter:   emitter,
		Logger:    log,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	exporter := service.NewExportService(store, log)

	c := &Core{
		Config:    cfg,
		Log:       log,
		DB:        db,
		Store:     store,
		Catalog:   cat,
		Shapes:    shapes.NewDefaultRegistry(),
		Designs:   designs,
		Exporter:  exporter,
		Sharing:   service.NewSharingService(storage.NewRemoteStore(db), store, secrets, emitter, log),
		Window:    service.NewWindowSettingsService(settings),
		Backups:   service.NewBackupScheduler(cfg.Backup.Dir, exporter, emitter, log),
		emitter:   emitter,
		templates: templateDir,
	}

	if r := configuredRemote(cfg.Remote); r != nil {
		if err := c.Sharing.EnsureConfigured(*r); err != nil {
			log.Warn("configured remote not recorded", zap.Error(err))
		}
	}
	return c, nil
}

// configuredRemote maps the config file's remote section, nil when unset.
func configuredRemote(rc config.RemoteConfig) *domain.RemoteConnection {
	if rc.Driver == "" {
		return nil
	}
	return &domain.RemoteConnection{
		Name:     "Team",
		Driver:   domain.RemoteDriver(rc.Driver),
		Host:     rc.Host,
		Port:     rc.Port,
		Database: rc.Database,
		Username: rc.Username,
		SSLMode:  rc.SSLMode,
		URI:      rc.URI,
	}
}

// StartBackground starts the import watcher and the backup schedule when
// they are enabled.
func (c *Core) StartBackground() error {
	if c.Config.Import.Enabled && c.Config.Import.Dir != "" {
		w, err := service.NewImportWatcher(c.Config.Import.Dir, c.Exporter, c.emitter, c.Log)
		if err != nil {
			return fmt.Errorf("start import watcher: %w", err)
		}
		c.importer = w
	}
	if c.Config.Backup.Enabled {
		if err := c.Backups.Start(c.Config.Backup.Schedule); err != nil {
			return fmt.Errorf("start backups: %w", err)
		}
	}
	return nil
}

// Close stops background work and closes the database.
func (c *Core) Close() {
	if c.importer != nil {
		if err := c.importer.Close(); err != nil {
			c.Log.Warn("close import watcher", zap.Error(err))
		}
	}
	c.Backups.Stop()
	c.Sharing.Close()
	if err := c.DB.Close(); err != nil {
		c.Log.Warn("close database", zap.Error(err))
	}
	c.Log.Sync()
}
