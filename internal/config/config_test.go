// ABOUTME: Tests for configuration loading, env expansion, and validation
// ABOUTME: Serve-mode validation is stricter than the shared baseline

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "127.0.0.1:8220"
  api_key: "secret-key"

database:
  path: "/tmp/daybook-test.db"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8220", cfg.Server.HTTPAddr)
	assert.Equal(t, "secret-key", cfg.Server.APIKey)
	assert.Equal(t, "/tmp/daybook-test.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: valid")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("DAYBOOK_TEST_KEY", "from-env")

	path := writeConfig(t, `
server:
  http_addr: "127.0.0.1:8220"
  api_key: "${DAYBOOK_TEST_KEY}"

database:
  path: "/tmp/daybook-test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Server.APIKey)
}

func TestLoadUnsetEnvVarExpandsEmpty(t *testing.T) {
	path := writeConfig(t, `
server:
  api_key: "${DAYBOOK_DEFINITELY_UNSET_VAR}"

database:
  path: "/tmp/daybook-test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.APIKey)
}

func TestLoadDefaultsDatabasePath(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: "info"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Database.Path, "missing database.path falls back to the default")
}

func TestValidateServe(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Path: "/tmp/daybook-test.db"},
	}
	require.NoError(t, cfg.Validate(), "baseline validation needs only a database path")

	err := cfg.ValidateServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http_addr")

	cfg.Server.HTTPAddr = "127.0.0.1:8220"
	err = cfg.ValidateServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")

	cfg.Server.APIKey = "secret"
	assert.NoError(t, cfg.ValidateServe())
}

func TestDefaultPathHonorsEnvOverride(t *testing.T) {
	t.Setenv("DAYBOOK_CONFIG", "/custom/daybook.yaml")
	assert.Equal(t, "/custom/daybook.yaml", DefaultPath())
}

func TestDefaultPathUsesXDG(t *testing.T) {
	t.Setenv("DAYBOOK_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	assert.Equal(t, "/xdg/config/daybook/config.yaml", DefaultPath())
}

func TestDefaultDatabasePathUsesXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	assert.Equal(t, "/xdg/data/daybook/daybook.db", DefaultDatabasePath())
}
