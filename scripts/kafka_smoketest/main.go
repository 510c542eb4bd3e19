package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/segmentio/kafka-go"
)

// RunSmokeTest publishes a notification through the Kafka event bus and
// waits for the consumer group to deliver it back.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if brokers == "" {
		brokers = "localhost:9092"
	}
	cfg := eventbus.DefaultKafkaConfig()
	cfg.Topic = cfg.Topic + ".smoketest"
	cfg.GroupID = fmt.Sprintf("minibank-smoketest-%d", time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Create the topic up front so the group reader has partitions to join.
	{
		dialer := &kafka.Dialer{Timeout: 5 * time.Second}
		conn, err := dialer.DialContext(ctx, "tcp", strings.Split(brokers, ",")[0])
		if err != nil {
			logger.Error("dial failed", "error", err)
			return err
		}
		err = conn.CreateTopics(kafka.TopicConfig{
			Topic:             cfg.Topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		_ = conn.Close()
		if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
			logger.Error("create topic failed", "topic", cfg.Topic, "error", err)
			return err
		}
		logger.Info("topic ready", "topic", cfg.Topic)
	}

	bus, err := eventbus.NewWithKafka(brokers, logger, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	u, err := user.New(1, "smoketest")
	if err != nil {
		return err
	}
	sent := events.NewNotification(u, "kafka smoke test "+time.Now().Format(time.RFC3339Nano))

	// Earlier runs may have left messages on the topic; wait for ours.
	received := make(chan *events.Notification, 1)
	bus.Register(string(events.EventTypeNotificationSent), func(_ context.Context, e events.Event) error {
		if n, ok := e.(*events.Notification); ok && n.ID == sent.ID {
			select {
			case received <- n:
			default:
			}
		}
		return nil
	})

	if err := bus.Emit(ctx, sent); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("produced", "id", sent.ID)

	select {
	case got := <-received:
		logger.Info("consumed", "id", got.ID, "message", got.Message)
	case <-ctx.Done():
		logger.Error("no notification consumed before deadline")
		return ctx.Err()
	}

	logger.Info("kafka smoke test passed")
	return nil
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	if err := RunSmokeTest(); err != nil {
		os.Exit(1)
	}
}
