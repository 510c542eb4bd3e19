package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// KafkaConfig holds configuration for the Kafka event bus.
type KafkaConfig struct {
	Topic        string
	GroupID      string
	SASLUsername string
	SASLPassword string
}

// DefaultKafkaConfig returns default configuration for KafkaEventBus.
func DefaultKafkaConfig() *KafkaConfig {
	return &KafkaConfig{
		Topic:   "minibank.notifications",
		GroupID: "minibank",
	}
}

// KafkaEventBus implements a Kafka-backed event bus. All events share one
// topic and are keyed by recipient so a user's notifications stay ordered.
type KafkaEventBus struct {
	brokers []string
	writer  *kafka.Writer
	dialer  *kafka.Dialer
	config  *KafkaConfig
	logger  *slog.Logger

	handlers    map[string][]eventbus.HandlerFunc
	handlersMtx sync.RWMutex
	reader      *kafka.Reader
	readerOnce  sync.Once

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithKafka creates a new Kafka-backed event bus.
// brokers: Comma-separated brokers list (e.g. "localhost:9092,localhost:9093").
// Connections are opened lazily on the first Emit or Register.
func NewWithKafka(brokers string, logger *slog.Logger, config *KafkaConfig) (*KafkaEventBus, error) {
	parsed := parseBrokers(brokers)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	if config == nil {
		config = DefaultKafkaConfig()
	}
	if strings.TrimSpace(config.Topic) == "" {
		config.Topic = DefaultKafkaConfig().Topic
	}
	if config.GroupID == "" {
		config.GroupID = DefaultKafkaConfig().GroupID
	}
	if logger == nil {
		logger = slog.Default()
	}

	mechanism, err := saslMechanism(config)
	if err != nil {
		return nil, err
	}
	dialer := &kafka.Dialer{Timeout: 5 * time.Second, SASLMechanism: mechanism}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(parsed...),
		Topic:                  config.Topic,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}
	if mechanism != nil {
		writer.Transport = &kafka.Transport{SASL: mechanism}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaEventBus{
		brokers:  parsed,
		writer:   writer,
		dialer:   dialer,
		config:   config,
		logger:   logger.With("bus", "kafka", "topic", config.Topic),
		handlers: make(map[string][]eventbus.HandlerFunc),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Emit publishes an event to Kafka.
func (b *KafkaEventBus) Emit(ctx context.Context, e events.Event) error {
	data, err := encodeEnvelope(e)
	if err != nil {
		return fmt.Errorf("kafka event bus: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(keyOf(e)),
		Value: data,
		Time:  time.Now(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

// Register registers an event handler for a specific event type. The first
// registration starts the group consumer.
func (b *KafkaEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.handlersMtx.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.handlersMtx.Unlock()

	b.readerOnce.Do(func() {
		b.reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:     b.brokers,
			GroupID:     b.config.GroupID,
			Topic:       b.config.Topic,
			StartOffset: kafka.FirstOffset,
			MinBytes:    1,
			MaxBytes:    10e6,
			MaxWait:     time.Second,
			Dialer:      b.dialer,
		})
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.consumeLoop(b.reader)
		}()
	})
}

func (b *KafkaEventBus) consumeLoop(reader *kafka.Reader) {
	for {
		msg, err := reader.FetchMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			b.logger.Error("kafka consume error", "error", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}

		b.dispatch(msg)
		if err := reader.CommitMessages(b.ctx, msg); err != nil && b.ctx.Err() == nil {
			b.logger.Error("kafka commit error", "error", err, "partition", msg.Partition, "offset", msg.Offset)
		}
	}
}

func (b *KafkaEventBus) dispatch(msg kafka.Message) {
	e, err := decodeEnvelope(msg.Value, events.EventTypes)
	if err != nil {
		b.logger.Error("failed to decode event", "error", err, "offset", msg.Offset)
		return
	}
	for _, h := range b.getHandlers(e.Type()) {
		if err := h(b.ctx, e); err != nil {
			b.logger.Error("handler error", "error", err, "event_type", e.Type(), "offset", msg.Offset)
		}
	}
}

func (b *KafkaEventBus) getHandlers(eventType string) []eventbus.HandlerFunc {
	b.handlersMtx.RLock()
	defer b.handlersMtx.RUnlock()
	out := make([]eventbus.HandlerFunc, len(b.handlers[eventType]))
	copy(out, b.handlers[eventType])
	return out
}

// Close stops the consumer and flushes the writer.
func (b *KafkaEventBus) Close() error {
	b.cancel()
	if b.reader != nil {
		_ = b.reader.Close()
	}
	b.wg.Wait()
	return b.writer.Close()
}

func saslMechanism(config *KafkaConfig) (sasl.Mechanism, error) {
	username := strings.TrimSpace(config.SASLUsername)
	password := strings.TrimSpace(config.SASLPassword)
	if username == "" && password == "" {
		return nil, nil
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("kafka event bus: sasl username and password are required")
	}
	return plain.Mechanism{Username: username, Password: password}, nil
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
