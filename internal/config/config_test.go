package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 9000
log_level = "trace"
log_to_stdout = true
store_type = "badger"
badger_path = "./data/badger"
default_theme = "dark"

[production]
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/coffeepress/service.log"
store_type = "redis"
redis_host = "localhost"
redis_port = "6379"
default_theme = "light"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("dev", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "badger", cfg.StoreType)
	assert.Equal(t, "dark", cfg.DefaultTheme)
	assert.Equal(t, "dev", cfg.Environment)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("production", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.StoreType)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, "light", cfg.DefaultTheme)
}

func TestLoad_UnknownEnv(t *testing.T) {
	_, err := Load("staging", writeTestConfig(t))
	require.Error(t, err)
}
