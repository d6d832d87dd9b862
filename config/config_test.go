package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "cinema_wallet", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, int32(5), cfg.Database.MinConns)

	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.DB)

	assert.Equal(t, int64(64), cfg.Bus.Buffer)

	assert.Equal(t, "http://localhost:9000", cfg.Show.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Show.Timeout)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090
  mode: "release"
database:
  host: "db.example.com"
  port: 5433
  user: "appuser"
  password: "secret123"
  dbname: "testdb"
  sslmode: "require"
redis:
  host: "redis.example.com"
  port: 6380
  password: "redispwd"
  db: 2
bus:
  buffer: 128
show:
  base_url: "http://shows.internal:8080"
  timeout: "3s"
log:
  level: "debug"
  pretty: true
`)
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, "secret123", cfg.Database.Password)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, int64(128), cfg.Bus.Buffer)
	assert.Equal(t, "http://shows.internal:8080", cfg.Show.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Show.Timeout)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CW_DATABASE_HOST", "env-db-host")
	t.Setenv("CW_SHOW_BASE_URL", "http://env-shows:8080")
	t.Setenv("CW_BUS_BUFFER", "256")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-db-host", cfg.Database.Host)
	assert.Equal(t, "http://env-shows:8080", cfg.Show.BaseURL)
	assert.Equal(t, int64(256), cfg.Bus.Buffer)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "u",
		Password: "p",
		DBName:   "wallets",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://u:p@localhost:5432/wallets?sslmode=disable", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "redis", Port: 6380}
	assert.Equal(t, "redis:6380", r.Addr())
}
