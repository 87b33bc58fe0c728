package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backend names accepted by the "backend" setting.
const (
	BackendDiskv    = "diskv"
	BackendAppwrite = "appwrite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// PathConfig is the part of the configuration the diskv ledger needs.
type PathConfig interface {
	BasePath() string
}

// Config is the resolved caltrack configuration.
type Config struct {
	Backend  string         `mapstructure:"backend"`
	Path     string         `mapstructure:"path"`
	Goal     int            `mapstructure:"goal"`
	PageSize int            `mapstructure:"page_size"`
	Appwrite AppwriteConfig `mapstructure:"appwrite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Log      LogConfig      `mapstructure:"log"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string
}

// AppwriteConfig addresses a collection on an Appwrite server.
type AppwriteConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	Project    string        `mapstructure:"project"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Key        string        `mapstructure:"key"`
	TimeField  string        `mapstructure:"time_field"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// PostgresConfig addresses the PostgreSQL ledger table.
type PostgresConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// LogConfig controls the diagnostics logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// BasePath implements PathConfig.
func (c *Config) BasePath() string {
	return c.Path
}

// SetDefaults registers every key so environment overrides resolve even when
// no config file exists.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("path", "~/.caltrack.db")
	v.SetDefault("goal", 2000)
	v.SetDefault("page_size", 10)

	v.SetDefault("appwrite.endpoint", "https://cloud.appwrite.io/v1")
	v.SetDefault("appwrite.project", "")
	v.SetDefault("appwrite.database", "")
	v.SetDefault("appwrite.collection", "")
	v.SetDefault("appwrite.key", "")
	v.SetDefault("appwrite.time_field", "recordedAt")
	v.SetDefault("appwrite.timeout", 15*time.Second)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.table", "calorie_entries")

	v.SetDefault("log.level", "error")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// LoadConfig reads .caltrack.yaml from $CALTRACK_CONFIG_PATH, the working
// directory or $HOME, layered under CALTRACK_* environment variables. A .env
// file in the working directory is loaded into the environment first.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("store: load .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.SetConfigName(".caltrack") // .yaml is implicit
	v.SetEnvPrefix("CALTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("CALTRACK_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("store: decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	path, err := homedir.Expand(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("store: expand path %q: %w", cfg.Path, err)
	}
	cfg.Path = path
	if cfg.Log.File != "" {
		if cfg.Log.File, err = homedir.Expand(cfg.Log.File); err != nil {
			return nil, fmt.Errorf("store: expand log file %q: %w", cfg.Log.File, err)
		}
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	return cfg, nil
}
