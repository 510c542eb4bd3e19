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
	"github.com/redis/go-redis/v9"
)

const redisReadBlock = 500 * time.Millisecond

// RedisEventBus implements the Bus interface on top of a Redis stream.
// Emit appends an envelope with XADD; Register consumes through a consumer
// group and acknowledges every message it has handled.
type RedisEventBus struct {
	client    *redis.Client
	stream    string
	group     string
	factories map[string]func() events.Event
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis creates a new Redis-backed event bus.
// url: Redis connection URL (e.g., "redis://localhost:6379/0")
// stream: Name of the Redis stream to use
// group: Consumer group name for event processing
func NewWithRedis(url, stream, group string, logger *slog.Logger) (*RedisEventBus, error) {
	if url == "" {
		return nil, fmt.Errorf("redis event bus: url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}
	return NewWithRedisClient(client, stream, group, logger), nil
}

// NewWithRedisClient wraps an existing client. The bus owns the client and
// closes it on Close.
func NewWithRedisClient(client *redis.Client, stream, group string, logger *slog.Logger) *RedisEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:    client,
		stream:    stream,
		group:     group,
		factories: events.EventTypes,
		logger:    logger.With("component", "redis-event-bus", "stream", stream),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Emit publishes an event to the Redis stream.
func (b *RedisEventBus) Emit(ctx context.Context, e events.Event) error {
	data, err := encodeEnvelope(e)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}
	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]any{"event": string(data), "key": keyOf(e)},
	}).Err(); err != nil {
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	b.logger.Debug("event emitted", "type", e.Type())
	return nil
}

// Register starts a consumer for the stream and group, calling handler for
// each event of the given type.
func (b *RedisEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	err := b.client.XGroupCreateMkStream(b.ctx, b.stream, b.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		b.logger.Error("failed to create consumer group", "group", b.group, "error", err)
		return
	}
	consumer := fmt.Sprintf("consumer-%s-%d", eventType, time.Now().UnixNano())
	b.logger.Info("registering handler", "event_type", eventType, "consumer", consumer)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(eventType, consumer, handler)
	}()
}

func (b *RedisEventBus) consume(eventType, consumer string, handler eventbus.HandlerFunc) {
	for {
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    b.group,
			Consumer: consumer,
			Streams:  []string{b.stream, ">"},
			Count:    10,
			Block:    redisReadBlock,
		}).Result()
		if b.ctx.Err() != nil {
			return
		}
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				b.logger.Error("error reading from stream", "error", err, "consumer", consumer)
				time.Sleep(redisReadBlock)
			}
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				b.handle(eventType, msg, handler)
				if err := b.client.XAck(b.ctx, b.stream, b.group, msg.ID).Err(); err != nil {
					b.logger.Error("failed to ack message", "id", msg.ID, "error", err)
				}
			}
		}
	}
}

func (b *RedisEventBus) handle(eventType string, msg redis.XMessage, handler eventbus.HandlerFunc) {
	raw, ok := msg.Values["event"].(string)
	if !ok {
		return
	}
	e, err := decodeEnvelope([]byte(raw), b.factories)
	if err != nil {
		b.logger.Error("failed to decode event", "id", msg.ID, "error", err)
		return
	}
	if e.Type() != eventType {
		return
	}
	if err := handler(b.ctx, e); err != nil {
		b.logger.Error("failed to process event", "type", eventType, "id", msg.ID, "error", err)
	}
}

// Close stops all consumers and closes the client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	err := b.client.Close()
	b.wg.Wait()
	return err
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
