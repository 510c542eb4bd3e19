package initializer

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	infra_eventbus "github.com/amirasaad/minibank/infra/eventbus"
	infra_repository "github.com/amirasaad/minibank/infra/repository"
	"github.com/amirasaad/minibank/internal/fixtures"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/eventbus"
)

// InitializeDependencies initializes all the application dependencies. The
// returned cleanup releases the event bus connections.
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	cleanup func(),
	err error,
) {
	return initialize(os.Stdout, cfg)
}

func initialize(w io.Writer, cfg *config.App) (*app.Deps, func(), error) {
	logger := setupLogger(w, cfg.Log)

	store := infra_repository.NewMemoryStore()
	if cfg.Seed != nil && cfg.Seed.DemoData {
		seed, err := fixtures.LoadSeedCSV(cfg.Seed.File)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load seed data: %w", err)
		}
		if err := seed.Apply(store); err != nil {
			return nil, nil, fmt.Errorf("failed to apply seed data: %w", err)
		}
		logger.Info("Seed data loaded", "store", store.String())
	}

	bus, err := initEventBus(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if c, ok := bus.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.Error("Failed to close event bus", "error", err)
			}
		}
	}

	return &app.Deps{
		Store:    store,
		EventBus: bus,
		Logger:   logger,
	}, cleanup, nil
}

// initEventBus selects the notification bus driver. A Redis bus that cannot
// connect falls back to the in-memory bus.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	driver := "memory"
	if cfg.EventBus != nil && cfg.EventBus.Driver != "" {
		driver = cfg.EventBus.Driver
	}

	switch driver {
	case "memory":
		return infra_eventbus.NewWithMemory(logger), nil
	case "redis":
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, fmt.Errorf("redis event bus requires REDIS_URL")
		}
		bus, err := infra_eventbus.NewWithRedis(cfg.Redis.URL, cfg.Redis.Stream, cfg.Redis.Group, logger)
		if err != nil {
			logger.Warn("Redis event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	case "kafka":
		if cfg.Kafka == nil || cfg.Kafka.Brokers == "" {
			return nil, fmt.Errorf("kafka event bus requires KAFKA_BROKERS")
		}
		bus, err := infra_eventbus.NewWithKafka(cfg.Kafka.Brokers, logger, &infra_eventbus.KafkaConfig{
			Topic:        cfg.Kafka.Topic,
			GroupID:      cfg.Kafka.GroupID,
			SASLUsername: cfg.Kafka.SASLUsername,
			SASLPassword: cfg.Kafka.SASLPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", driver)
	}
}
