package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	DatabaseMongo    = "mongodb"
	DatabaseBolt     = "bolt"
	DatabasePostgres = "postgres"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
	NodeID   int64  `yaml:"node_id"`
}

type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds the document store settings.
// URL is a mongodb URI, a bolt file path or a postgres DSN depending on Type.
type DatabaseConfig struct {
	Type string `yaml:"type"`
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

// Configured reports whether both required store values are present.
func (d DatabaseConfig) Configured() bool {
	return strings.TrimSpace(d.URL) != "" && strings.TrimSpace(d.Name) != ""
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type ImportConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	Workers      int           `yaml:"workers"`
	FeedURL      string        `yaml:"feed_url"`
	FeedSchedule string        `yaml:"feed_schedule"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system"`
	Web      WebConfig      `yaml:"web"`
	Database DatabaseConfig `yaml:"database"`
	Logger   LogConfig      `yaml:"logger"`
	Importer ImportConfig   `yaml:"importer"`
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

// DefaultAppConfig returns the configuration used when no file is given.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "CatalogAPI",
			Location: "UTC",
			Workdir:  "/var/catalog",
			NodeID:   1,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Database: DatabaseConfig{
			Type: DatabaseMongo,
		},
		Logger: LogConfig{
			Mode:     "development",
			Filename: "/var/catalog/logs/catalog.log",
		},
		Importer: ImportConfig{
			Timeout: 30 * time.Second,
			Workers: 8,
		},
	}
}

// LoadConfig reads the yaml file at path (if any) over the defaults and then
// applies environment overrides.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	setEnvValue(cfg)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	c.Database.Type = strings.ToLower(strings.TrimSpace(c.Database.Type))
	if c.Database.Type == "" {
		c.Database.Type = DatabaseMongo
	}
	if c.Web.Port <= 0 {
		c.Web.Port = 8000
	}
	if c.Importer.Timeout <= 0 {
		c.Importer.Timeout = 30 * time.Second
	}
	if c.Importer.Workers <= 0 {
		c.Importer.Workers = 8
	}
	if c.System.NodeID <= 0 {
		c.System.NodeID = 1
	}
	if c.System.Location == "" {
		c.System.Location = "UTC"
	}
}

func setEnvValue(cfg *AppConfig) {
	setEnvString("DATABASE_URL", &cfg.Database.URL)
	setEnvString("DATABASE_NAME", &cfg.Database.Name)
	setEnvString("DATABASE_TYPE", &cfg.Database.Type)
	setEnvInt("PORT", &cfg.Web.Port)
	setEnvString("CATALOG_WEB_HOST", &cfg.Web.Host)
	setEnvString("CATALOG_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvString("CATALOG_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBool("CATALOG_DEBUG", &cfg.System.Debug)
	setEnvString("CATALOG_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBool("CATALOG_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvString("CATALOG_IMPORT_FEED_URL", &cfg.Importer.FeedURL)
	setEnvString("CATALOG_IMPORT_FEED_SCHEDULE", &cfg.Importer.FeedSchedule)
	setEnvInt("CATALOG_IMPORT_WORKERS", &cfg.Importer.Workers)
	if v := os.Getenv("CATALOG_IMPORT_TIMEOUT"); v != "" {
		if d, err := cast.ToDurationE(v); err == nil {
			cfg.Importer.Timeout = d
		}
	}
}

func setEnvString(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvInt(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		if i, err := cast.ToIntE(v); err == nil {
			*val = i
		}
	}
}

func setEnvBool(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			*val = b
		}
	}
}
