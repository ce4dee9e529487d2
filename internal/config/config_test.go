package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "user:pass@tcp(localhost:3306)/bakehouse?parseTime=true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL())
	assert.False(t, cfg.Production())
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
addr: ":9090"
log_level: debug
database:
  dsn: file-dsn
redis:
  addr: localhost:6379
session:
  ttl_minutes: 60
notify:
  url: http://notify.local/api/notifications
`), 0o644))

	t.Setenv("ADDR", ":7070")
	t.Setenv("DATABASE_DSN", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, ":7070", cfg.Addr, "environment beats file")
	assert.Equal(t, "file-dsn", cfg.Database.DSN)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.SessionTTL())
	assert.Equal(t, "http://notify.local/api/notifications", cfg.Notify.URL)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	t.Setenv("DATABASE_DSN", "env-dsn")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-dsn", cfg.Database.DSN)
}
