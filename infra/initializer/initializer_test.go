package initializer

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	infra_eventbus "github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitEventBus_DefaultsToMemory(t *testing.T) {
	bus, err := initEventBus(&config.App{}, discard())
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_ExplicitRedisRequiresURL(t *testing.T) {
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "redis"},
		Redis:    &config.Redis{},
	}
	_, err := initEventBus(cfg, discard())
	require.Error(t, err)
}

func TestInitEventBus_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "redis"},
		Redis:    &config.Redis{URL: "redis://" + mr.Addr(), Stream: "s", Group: "g"},
	}
	bus, err := initEventBus(cfg, discard())
	require.NoError(t, err)
	redisBus, ok := bus.(*infra_eventbus.RedisEventBus)
	require.True(t, ok)
	assert.NoError(t, redisBus.Close())
}

func TestInitEventBus_RedisConnectionErrorFallsBackToMemory(t *testing.T) {
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "redis"},
		Redis:    &config.Redis{URL: "redis://127.0.0.1:1"},
	}
	bus, err := initEventBus(cfg, discard())
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_Kafka(t *testing.T) {
	_, err := initEventBus(&config.App{
		EventBus: &config.EventBus{Driver: "kafka"},
		Kafka:    &config.Kafka{},
	}, discard())
	require.Error(t, err)

	bus, err := initEventBus(&config.App{
		EventBus: &config.EventBus{Driver: "kafka"},
		Kafka:    &config.Kafka{Brokers: "127.0.0.1:9092", Topic: "t", GroupID: "g"},
	}, discard())
	require.NoError(t, err)
	kafkaBus, ok := bus.(*infra_eventbus.KafkaEventBus)
	require.True(t, ok)
	assert.NoError(t, kafkaBus.Close())
}

func TestInitEventBus_UnsupportedDriverErrors(t *testing.T) {
	_, err := initEventBus(&config.App{EventBus: &config.EventBus{Driver: "nope"}}, discard())
	require.Error(t, err)
}

func TestInitialize_SeedsStore(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	var buf bytes.Buffer
	cfg := &config.App{
		Log:  &config.Log{Format: "json", Prefix: "[test]"},
		Seed: &config.Seed{DemoData: true},
	}

	deps, cleanup, err := initialize(&buf, cfg)
	require.NoError(t, err)
	defer cleanup()

	stats := deps.Store.Stats()
	assert.Equal(t, 2, stats.Users)
	assert.Equal(t, 3, stats.Accounts)
	assert.IsType(t, &infra_eventbus.MemoryEventBus{}, deps.EventBus)
	assert.Contains(t, buf.String(), "Seed data loaded")
}

func TestInitialize_BadSeedFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	cfg := &config.App{
		Log:  &config.Log{},
		Seed: &config.Seed{DemoData: true, File: "/nonexistent/seed.csv"},
	}
	_, _, err := initialize(io.Discard, cfg)
	assert.Error(t, err)
}
