// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: heatmap-chat
  environment: test
server:
  listen_address: ":9090"
ollama:
  host: http://ollama.internal:11434
  model: llama3.1:8b
  timeout: 30000
  response_format: legacy
dataset:
  source: redis
  redis:
    address: localhost:6379
    db: 2
    key_prefix: "rows:"
logging:
  level: debug
  format: console
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "heatmap-chat", cfg.App.Name)
	assert.Equal(t, ":9090", cfg.Server.ListenAddress)
	assert.Equal(t, "http://ollama.internal:11434", cfg.Ollama.Host)
	assert.Equal(t, "llama3.1:8b", cfg.Ollama.Model)
	assert.Equal(t, 30000, cfg.Ollama.Timeout)
	assert.Equal(t, "legacy", cfg.Ollama.ResponseFormat)
	assert.Equal(t, "redis", cfg.Dataset.Source)
	assert.Equal(t, "localhost:6379", cfg.Dataset.Redis.Address)
	assert.Equal(t, 2, cfg.Dataset.Redis.DB)
	assert.Equal(t, "rows:", cfg.Dataset.Redis.KeyPrefix)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFromFileDefaults(t *testing.T) {
	path := writeConfigFile(t, `
dataset:
  source: csv
  path: data/heatmap.csv
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "heatmap-chat", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.ListenAddress)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.Host)
	assert.Equal(t, "qwen2.5:7b", cfg.Ollama.Model)
	assert.Equal(t, 60000, cfg.Ollama.Timeout)
	assert.Equal(t, "chat", cfg.Ollama.ResponseFormat)
	assert.Equal(t, "heatmap:rows:", cfg.Dataset.Redis.KeyPrefix)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoadFromFileEnvOverride(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://override:11434")
	t.Setenv("OLLAMA_MODEL", "gemma2:9b")
	t.Setenv("DATASET_PATH", "/data/override.csv")

	path := writeConfigFile(t, `
ollama:
  host: http://original:11434
dataset:
  source: csv
  path: data/original.csv
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://override:11434", cfg.Ollama.Host)
	assert.Equal(t, "gemma2:9b", cfg.Ollama.Model)
	assert.Equal(t, "/data/override.csv", cfg.Dataset.Path)
}

func TestLoadFromFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{
			name: "csv source without path",
			content: `
dataset:
  source: csv
`,
			errSub: "dataset.path is required",
		},
		{
			name: "redis source without address",
			content: `
dataset:
  source: redis
`,
			errSub: "dataset.redis.address is required",
		},
		{
			name: "unknown source",
			content: `
dataset:
  source: postgres
`,
			errSub: "dataset.source must be csv or redis",
		},
		{
			name: "unknown response format",
			content: `
ollama:
  response_format: sse
dataset:
  source: csv
  path: data/heatmap.csv
`,
			errSub: "response_format must be chat or legacy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfigFile(t, tt.content))
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.errSub)
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 60*time.Second, GetDuration(60000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
