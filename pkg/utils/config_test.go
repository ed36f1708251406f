package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no stray .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdirForTest(t, dir)
	t.Setenv("CONFIG_PATH", "")
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"127.0.0.1"}, cfg.Server.TrustedProxies)
	assert.Equal(t, "", cfg.DB.DSN)
	assert.Equal(t, "https://api.mangadex.org", cfg.Catalog.BaseURL)
	assert.Equal(t, "https://uploads.mangadex.org", cfg.Catalog.CoverBaseURL)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 5.0, cfg.Catalog.Rate)
	assert.Equal(t, 5, cfg.Catalog.Burst)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("MANGASEARCH_DB_DSN", "postgres://u:p@db:5432/mangasearch")
	t.Setenv("MANGASEARCH_CATALOG_TIMEOUT", "3s")
	t.Setenv("MANGASEARCH_LOG_FORMAT", "json")
	t.Setenv("MANGASEARCH_TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.Server.TrustedProxies)

	assert.Equal(t, "postgres://u:p@db:5432/mangasearch", cfg.DB.DSN)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MANGASEARCH_LOG_LEVEL=debug\n"), 0o644))
	t.Setenv("MANGASEARCH_LOG_LEVEL", "")
	os.Unsetenv("MANGASEARCH_LOG_LEVEL")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
catalog:
  timeout: "4s"
  rate: 2
`), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 4*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 2.0, cfg.Catalog.Rate)
	assert.Equal(t, 5, cfg.Catalog.Burst)
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("MANGASEARCH_CATALOG_TIMEOUT", "0s")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l := NewLogger(LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	l = NewLogger(LogConfig{Level: "loud"})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
