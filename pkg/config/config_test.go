package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetForTest clears keys for the duration of the test and restores them
// afterwards, so values loaded by godotenv do not leak.
func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetForTest(t, "APP_ENV", "SERVER_PORT", "EVENT_BUS_DRIVER", "LOG_FORMAT",
		"NOTIFICATION_TIMEOUT", "SEED_DEMO_DATA", "RATE_LIMIT_MAX_REQUESTS")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.EventBus.Driver)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 2*time.Second, cfg.Notification.Timeout)
	assert.Equal(t, uint32(5), cfg.Notification.BreakerMaxFailures)
	assert.True(t, cfg.Seed.DemoData)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
}

func TestLoadFromFile(t *testing.T) {
	unsetForTest(t, "EVENT_BUS_DRIVER", "REDIS_STREAM", "SERVER_PORT")
	path := filepath.Join(t.TempDir(), ".env.test")
	content := "EVENT_BUS_DRIVER=redis\nREDIS_STREAM=custom\nSERVER_PORT=8081\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.EventBus.Driver)
	assert.Equal(t, "custom", cfg.Redis.Stream)
	assert.Equal(t, "localhost:8081", cfg.Server.Addr())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("EVENT_BUS_DRIVER", "carrier-pigeon")

	_, err := Load()

	assert.ErrorContains(t, err, "invalid configuration")
}

func TestFindEnvTest(t *testing.T) {
	_, err := FindEnvTest("definitely-not-here.env")
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "x.env")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	found, err := FindEnvTest(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "re****6379", maskValue("redis://host:6379"))
}
