package config

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

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults fill missing values", func(t *testing.T) {
		// Given: a config file with only the storage set
		path := writeConfig(t, "storage: memory\n")

		// When: loading it
		conf, err := Load(path)

		// Then: every other field has its default
		require.NoError(t, err)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, 24*time.Hour, conf.SessionTTL)
		assert.Equal(t, 15*time.Second, conf.Groq.Timeout)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "secret")
		t.Setenv("REDIS_PORT", "6380")
		path := writeConfig(t, "storage: redis\nredis:\n  port: \"6379\"\n")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "secret", conf.Groq.APIKey)
		assert.Equal(t, "localhost:6380", conf.Redis.GetRedisAddr())
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
	})
}
