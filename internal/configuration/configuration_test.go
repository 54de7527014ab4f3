package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
server:
  address: ":8080"
classifier:
  url: "http://classifier:5000"
  timeout: 45s
catalog:
  path: "/var/lib/gatesort/catalog.db"
audit:
  file: "/var/log/gatesort/decisions.jsonl"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Logger.Level)
	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, 45*time.Second, config.Classifier.Timeout)
	assert.Equal(t, "/var/lib/gatesort/catalog.db", config.Catalog.Path)
	assert.Equal(t, 100, config.Audit.Size, "default audit size applied")
	assert.Equal(t, 20, config.Audit.Amount, "default audit amount applied")
	assert.Equal(t, 10*time.Second, config.Speech.Timeout, "default speech timeout applied")
}

func TestLoadConfig_MissingClassifierURL(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: info
server:
  address: ":8080"
catalog:
  path: "/tmp/catalog.db"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "classifier.url")
}

func TestLoadConfig_BadLoggerLevel(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: loud
server:
  address: ":8080"
classifier:
  url: "http://classifier:5000"
catalog:
  path: "/tmp/catalog.db"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger.level")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestClassifierConfig_DefaultTimeout(t *testing.T) {
	c := ClassifierConfig{URL: "http://classifier:5000"}
	require.NoError(t, c.Validate())
	assert.Equal(t, 30*time.Second, c.Timeout)
}
