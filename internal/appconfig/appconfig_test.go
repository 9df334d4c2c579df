package appconfig

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
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(BaseURLEnv, "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3001", cfg.API.BaseURL)
	assert.Equal(t, "/users", cfg.API.UsersPath)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.API.Mock)
	assert.Equal(t, time.Second, *cfg.API.MockLatency.List)
	assert.Equal(t, 500*time.Millisecond, *cfg.API.MockLatency.Update)
	assert.Equal(t, 500*time.Millisecond, *cfg.API.MockLatency.Delete)
	assert.Equal(t, 300*time.Millisecond, *cfg.API.MockLatency.Status)
	assert.Equal(t, 10, cfg.View.PageSize)
	assert.Empty(t, cfg.Pulsar.URL)
	assert.Equal(t, 100, cfg.Server.SeedUsers)
	assert.Equal(t, 10, cfg.Server.SeedGroups)
}

func TestLoadConfig_TemplatesEnvironment(t *testing.T) {
	t.Setenv(BaseURLEnv, "")
	t.Setenv("TEST_PULSAR_URL", "pulsar://localhost:6650")

	path := writeConfig(t, `
api:
  baseURL: https://users.example.com/
  timeout: 3s
  mock: true
  mockLatency:
    list: 0s
    status: 50ms
view:
  pageSize: 25
pulsar:
  url: {{ .TEST_PULSAR_URL }}
  topicProducer: persistent://public/default/users
server:
  seed: 42
console:
  historyFile: /tmp/history
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://users.example.com/", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.API.Mock)
	assert.Equal(t, time.Duration(0), *cfg.API.MockLatency.List)
	assert.Equal(t, 50*time.Millisecond, *cfg.API.MockLatency.Status)
	assert.Equal(t, 500*time.Millisecond, *cfg.API.MockLatency.Update)
	assert.Equal(t, 25, cfg.View.PageSize)
	assert.Equal(t, "pulsar://localhost:6650", cfg.Pulsar.URL)
	assert.Equal(t, "persistent://public/default/users", cfg.Pulsar.TopicConsumer)
	assert.Equal(t, int64(42), cfg.Server.Seed)
	assert.Equal(t, "/tmp/history", cfg.Console.HistoryFile)
}

func TestLoadConfig_MissingEnvIsEmpty(t *testing.T) {
	path := writeConfig(t, "pulsar:\n  url: \"{{ .UNSET_TEST_VARIABLE_FOR_CONFIG }}\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Pulsar.URL)
}

func TestLoadConfig_BaseURLOverride(t *testing.T) {
	t.Setenv(BaseURLEnv, "http://override:9000")
	path := writeConfig(t, "api:\n  baseURL: http://from-file\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000", cfg.API.BaseURL)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "api:\n  unknown: 1\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "view:\n  pageSize: -1\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "api:\n  timeout: soon\n"))
	assert.Error(t, err)
}
