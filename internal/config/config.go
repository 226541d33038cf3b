package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Import   ImportConfig   `mapstructure:"import"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
	MCP      MCPConfig      `mapstructure:"mcp"`
}

// DataConfig is the root for exports and other files the app writes.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// ImportConfig controls the drop folder watched for exported designs.
type ImportConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

type BackupConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"` // robfig/cron spec
	Dir      string `mapstructure:"dir"`
}

// RemoteConfig is the default team repository. The password is never read
// from here; it lives in the secret store.
type RemoteConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	SSLMode  string `mapstructure:"sslmode"`
	URI      string `mapstructure:"uri"`
}

type SecretsConfig struct {
	Backend string `mapstructure:"backend"`
}

type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DefaultPath is $XDG_CONFIG_HOME/masquerade/config.toml, or the
// MASQUERADE_CONFIG override.
func DefaultPath() string {
	if p := os.Getenv("MASQUERADE_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "masquerade", "config.toml")
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".local", "share", "masquerade")

	v.SetDefault("data.dir", dataDir)
	v.SetDefault("database.path", filepath.Join(dataDir, "masquerade.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("import.enabled", true)
	v.SetDefault("import.dir", filepath.Join(dataDir, "inbox"))
	v.SetDefault("backup.enabled", true)
	v.SetDefault("backup.schedule", "@every 30m")
	v.SetDefault("backup.dir", filepath.Join(dataDir, "backups"))
	v.SetDefault("remote.driver", "")
	v.SetDefault("remote.host", "")
	v.SetDefault("remote.port", 0)
	v.SetDefault("remote.database", "")
	v.SetDefault("remote.username", "")
	v.SetDefault("remote.sslmode", "disable")
	v.SetDefault("remote.uri", "")
	v.SetDefault("secrets.backend", "")
	v.SetDefault("mcp.enabled", true)
}

// Load reads configuration from path (DefaultPath when empty) and the
// environment. A missing file is not an error. Env var overrides use the
// prefix MASQUERADE_, e.g. MASQUERADE_BACKUP_SCHEDULE.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetEnvPrefix("MASQUERADE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes cfg to path (DefaultPath when empty), creating the directory.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("data.dir", cfg.Data.Dir)
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.development", cfg.Log.Development)
	v.Set("import.enabled", cfg.Import.Enabled)
	v.Set("import.dir", cfg.Import.Dir)
	v.Set("backup.enabled", cfg.Backup.Enabled)
	v.Set("backup.schedule", cfg.Backup.Schedule)
	v.Set("backup.dir", cfg.Backup.Dir)
	v.Set("remote.driver", cfg.Remote.Driver)
	v.Set("remote.host", cfg.Remote.Host)
	v.Set("remote.port", cfg.Remote.Port)
	v.Set("remote.database", cfg.Remote.Database)
	v.Set("remote.username", cfg.Remote.Username)
	v.Set("remote.sslmode", cfg.Remote.SSLMode)
	v.Set("remote.uri", cfg.Remote.URI)
	v.Set("secrets.backend", cfg.Secrets.Backend)
	v.Set("mcp.enabled", cfg.MCP.Enabled)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
