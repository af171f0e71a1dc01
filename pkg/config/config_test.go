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
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeConfig(t, `
service_name = "trade-lifecycle"
version = "1.0.0"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "trade-lifecycle", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, int64(10), cfg.Engine.NodeID)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "trade.lifecycle", cfg.Kafka.Topic)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
service_name = "trade-lifecycle"
environment = "prod"

[http]
port = 9000

[engine]
node_id = 42

[database]
driver = "mysql"
dsn = "root:pw@tcp(localhost:3306)/trades"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, int64(42), cfg.Engine.NodeID)
	assert.Equal(t, "mysql", cfg.Database.Driver)
}

func TestLoadValidation(t *testing.T) {
	// 缺少 service_name
	path := writeConfig(t, `version = "1.0.0"`)
	_, err := Load(path)
	assert.Error(t, err)

	// 不支持的数据库驱动
	path = writeConfig(t, `
service_name = "trade-lifecycle"

[database]
driver = "postgres"
`)
	_, err = Load(path)
	assert.Error(t, err)

	// mysql 驱动缺少 DSN
	path = writeConfig(t, `
service_name = "trade-lifecycle"

[database]
driver = "mysql"
`)
	_, err = Load(path)
	assert.Error(t, err)

	// 启用 Kafka 但未配置 broker
	path = writeConfig(t, `
service_name = "trade-lifecycle"

[kafka]
enabled = true
`)
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
