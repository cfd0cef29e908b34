package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"CONFIG_FILE", "PORT", "POSTGRES_DSN", "WAREHOUSE_BASE_URL", "WAREHOUSE_TIMEOUT",
	"SUPPLEMENT_CONCURRENCY", "GRAPHQL_PLAYGROUND", "SHUTDOWN_TIMEOUT", "LOG_LEVEL",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 2*time.Second, cfg.WarehouseTimeout)
	assert.Equal(t, 8, cfg.SupplementConcurrency)
	assert.False(t, cfg.GraphQLPlayground)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
warehouse_base_url: http://warehouse.internal:5000
warehouse_timeout: 750ms
supplement_concurrency: 4
graphql_playground: true
log_level: debug
`), 0o600))
	t.Setenv("SUPPLEMENT_CONCURRENCY", "16")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://warehouse.internal:5000", cfg.WarehouseBaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.WarehouseTimeout)
	assert.Equal(t, 16, cfg.SupplementConcurrency)
	assert.True(t, cfg.GraphQLPlayground)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_ConfigFileFromEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7070\"\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"port":         {"PORT": "http"},
		"timeout":      {"WAREHOUSE_TIMEOUT": "soon"},
		"zero timeout": {"WAREHOUSE_TIMEOUT": "0s"},
		"concurrency":  {"SUPPLEMENT_CONCURRENCY": "-1"},
		"base url":     {"WAREHOUSE_BASE_URL": "warehouse:5000"},
		"log level":    {"LOG_LEVEL": "chatty"},
		"shutdown":     {"SHUTDOWN_TIMEOUT": "later"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("")
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearConfigEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
