package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"masquerade/internal/config"
	"masquerade/internal/domain"
	"masquerade/internal/service"
	"masquerade/internal/shapes"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Data:     config.DataConfig{Dir: filepath.Join(dir, "data")},
		Database: config.DatabaseConfig{Path: filepath.Join(dir, "masquerade.db")},
		Log:      config.LogConfig{Level: "debug"},
		Import:   config.ImportConfig{Dir: filepath.Join(dir, "inbox")},
		Backup:   config.BackupConfig{Schedule: "@every 1h", Dir: filepath.Join(dir, "backups")},
		Secrets:  config.SecretsConfig{Backend: "memory"},
	}
}

func newTestCore(t *testing.T, cfg config.Config) *Core {
	t.Helper()
	core, err := NewCore(cfg, nil, &service.MockEmitter{})
	require.NoError(t, err)
	return core
}

// newTestApp builds an App without the Wails runtime; events are dropped
// because the emitter is never attached.
func newTestApp(t *testing.T) *App {
	t.Helper()
	emitter := NewEmitter()
	core, err := NewCore(testConfig(t), nil, emitter)
	require.NoError(t, err)
	t.Cleanup(core.Close)
	a := New(core, emitter)
	a.ctx = context.Background()
	return a
}

func TestNewCore(t *testing.T) {
	core := newTestCore(t, testConfig(t))
	defer core.Close()

	assert.Len(t, core.Catalog.ListLayouts(), 5)
	assert.NotEmpty(t, core.Shapes.All())
	assert.True(t, core.Designs.State().Wizard.Open, "a fresh database is a first visit")

	remotes, err := core.Sharing.ListRemotes()
	require.NoError(t, err)
	assert.Empty(t, remotes)
}

func TestNewCore_ConfiguredRemote(t *testing.T) {
	cfg := testConfig(t)
	cfg.Remote = config.RemoteConfig{Driver: "sqlite", Database: filepath.Join(t.TempDir(), "team.db")}

	core := newTestCore(t, cfg)
	remotes, err := core.Sharing.ListRemotes()
	require.NoError(t, err)
	require.Len(t, remotes, 1)
	assert.Equal(t, service.ConfiguredRemoteID, remotes[0].ID)
	assert.Equal(t, domain.RemoteSQLite, remotes[0].Driver)
	core.Close()

	// Reopening keeps the single record.
	core = newTestCore(t, cfg)
	defer core.Close()
	remotes, err = core.Sharing.ListRemotes()
	require.NoError(t, err)
	assert.Len(t, remotes, 1)
}

func TestNewCore_BadSecretBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Secrets.Backend = "vault"
	_, err := NewCore(cfg, nil, nil)
	assert.Error(t, err)
}

func TestCore_Background(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := testConfig(t)
	cfg.Import.Enabled = true
	cfg.Backup.Enabled = true
	core := newTestCore(t, cfg)

	require.NoError(t, core.StartBackground())
	assert.DirExists(t, cfg.Import.Dir)
	core.Close()
}

func TestCore_BadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backup.Enabled = true
	cfg.Backup.Schedule = "whenever"
	core := newTestCore(t, cfg)
	defer core.Close()

	assert.Error(t, core.StartBackground())
}

func TestApp_DesignBindings(t *testing.T) {
	a := newTestApp(t)

	st, err := a.CreateFromTemplate("sales-account-record")
	require.NoError(t, err)
	require.NotNil(t, st.Design)
	before := len(st.Design.Regions["main"])

	st, err = a.DropComponent("rich-text", "main", -1)
	require.NoError(t, err)
	mainEls := st.Design.Regions["main"]
	require.Len(t, mainEls, before+1)
	assert.Equal(t, "rich-text", mainEls[len(mainEls)-1].ComponentID)

	st, err = a.Dispatch(`{"type":"RENAME_DESIGN","name":"Renamed"}`)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", a.GetState().Design.Name)

	saved, err := a.SaveDesign()
	require.NoError(t, err)
	list, err := a.ListDesigns()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)

	_, err = a.Dispatch(`{not json`)
	assert.Error(t, err)
}

func TestApp_CatalogBindings(t *testing.T) {
	a := newTestApp(t)

	assert.Len(t, a.ListLayouts(), 5)
	assert.Len(t, a.SearchPalette("base", ""), 8)
	assert.NotNil(t, a.SearchPalette("custom", ""))
	assert.NotNil(t, a.ComponentSchema("related-list"))
	assert.Nil(t, a.ComponentSchema("nope"))

	_, err := a.CreateCustomObject("Zephyr", "Zephyrs", "Zephyr__c", "")
	require.NoError(t, err)
	found := a.SearchObjects("zephyr")
	require.NotEmpty(t, found)
	assert.Equal(t, "Zephyr__c", found[0].APIName)
}

func TestApp_ShapeFields(t *testing.T) {
	a := newTestApp(t)

	fields, err := a.ShapeFields("slds-button", domain.Properties{"label": "Go", "w": 120.0, "h": 32.0})
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, "h", fields[0].Key)
	assert.Equal(t, "w", fields[1].Key)
	assert.Equal(t, shapes.GroupProperties, fields[2].Group)

	_, err = a.ShapeFields("nope", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApp_WindowSize(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.SaveWindowSize(1600, 1000))
	assert.Equal(t, service.WindowSize{Width: 1600, Height: 1000}, a.LoadWindowSize())

	require.NoError(t, a.SaveWindowSize(200, 100))
	assert.Equal(t, service.WindowSize{Width: 1440, Height: 900}, a.LoadWindowSize())
}
