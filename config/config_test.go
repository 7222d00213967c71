package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_NAME", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DatabaseMongo, cfg.Database.Type)
	assert.Equal(t, 8000, cfg.Web.Port)
	assert.Equal(t, 30*time.Second, cfg.Importer.Timeout)
	assert.Equal(t, 8, cfg.Importer.Workers)
	assert.False(t, cfg.Database.Configured())
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_NAME", "")
	configPath := filepath.Join(t.TempDir(), "catalog.yml")
	content := `system:
  workdir: /tmp/catalog
web:
  port: 9090
database:
  type: Bolt
  url: /tmp/catalog/catalog.db
  name: catalog
importer:
  timeout: 5s
  feed_url: http://feed.local/products.json
  feed_schedule: "@every 1h"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, DatabaseBolt, cfg.Database.Type)
	assert.True(t, cfg.Database.Configured())
	assert.Equal(t, 5*time.Second, cfg.Importer.Timeout)
	assert.Equal(t, "@every 1h", cfg.Importer.FeedSchedule)
	assert.Equal(t, "/tmp/catalog/logs", cfg.GetLogDir())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "mongodb://localhost:27017")
	t.Setenv("DATABASE_NAME", "odnamestaj")
	t.Setenv("PORT", "8181")
	t.Setenv("CATALOG_IMPORT_TIMEOUT", "12s")
	t.Setenv("CATALOG_DEBUG", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URL)
	assert.Equal(t, "odnamestaj", cfg.Database.Name)
	assert.True(t, cfg.Database.Configured())
	assert.Equal(t, 8181, cfg.Web.Port)
	assert.Equal(t, 12*time.Second, cfg.Importer.Timeout)
	assert.True(t, cfg.System.Debug)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestDatabaseConfigured(t *testing.T) {
	assert.False(t, DatabaseConfig{URL: "mongodb://x"}.Configured())
	assert.False(t, DatabaseConfig{Name: "db"}.Configured())
	assert.False(t, DatabaseConfig{URL: "  ", Name: "db"}.Configured())
	assert.True(t, DatabaseConfig{URL: "mongodb://x", Name: "db"}.Configured())
}
