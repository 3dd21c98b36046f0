package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir into an empty dir so a developer's .env never leaks into tests.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("API_URL", "")
	t.Setenv("ACCESSISCAN_API_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:4000", cfg.Engine.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval())
	assert.Equal(t, 60*time.Second, cfg.EngineTimeout())
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
engine:
  baseURL: http://engine.internal:4000
  pollIntervalMS: 500
database:
  driver: postgres
  host: db
  user: scan
  password: secret
  name: history
`), 0o600))

	t.Setenv("ACCESSISCAN_API_URL", "http://override:4000")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "http://override:4000", cfg.Engine.BaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "host=db port=5432 user=scan password=secret dbname=history sslmode=disable", cfg.PostgresDSN())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENAI_MODEL=gpt-4o-mini\n"), 0o600))
	t.Setenv("OPENAI_MODEL", "")
	os.Unsetenv("OPENAI_MODEL")

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
}

func TestLoad_InvalidPort(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("PORT", "eighty")
	_, err := Load(filepath.Join(dir, "config.yaml"))
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	var cfg Config
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Host = "db"
	cfg.Database.Name = "scans"
	assert.Equal(t, "u:p@tcp(db:3306)/scans?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}
