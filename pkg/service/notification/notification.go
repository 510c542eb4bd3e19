// Package notification informs account owners about transfer outcomes.
// Delivery is best-effort: failures are logged and never reach the caller.
package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/sony/gobreaker"
)

// Notifier delivers a message to a user.
type Notifier interface {
	Notify(ctx context.Context, u *user.User, message string, opts ...func(*events.Notification))
}

// Config tunes remote delivery.
type Config struct {
	// Timeout bounds a single Emit on the bus.
	Timeout time.Duration
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// DefaultConfig returns the delivery settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		Timeout:     2 * time.Second,
		MaxFailures: 5,
		OpenTimeout: 30 * time.Second,
	}
}

// Service logs every notification and emits it on the event bus.
type Service struct {
	bus     eventbus.Bus
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a notification service. A nil bus restricts delivery to the log.
func New(bus eventbus.Bus, logger *slog.Logger, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = def.MaxFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}

	logger = logger.With("service", "notification")
	s := &Service{bus: bus, timeout: cfg.Timeout, logger: logger}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notification-bus",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return s
}

// Notify logs the message and emits it as a Notification event. It never
// returns an error and never retries.
func (s *Service) Notify(ctx context.Context, u *user.User, message string, opts ...func(*events.Notification)) {
	if u == nil {
		s.logger.Warn("notification dropped: no recipient", "message", message)
		return
	}
	n := events.NewNotification(u, message, opts...)
	log := s.logger.With("context", "Notify", "user_id", u.ID, "notification_id", n.ID)
	log.Info("Notification to "+u.Name, "message", message)

	if s.bus == nil {
		return
	}

	emitCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.bus.Emit(emitCtx, n)
	})
	switch {
	case err == nil:
		log.Debug("notification emitted")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		log.Warn("notification not emitted: circuit open", "error", err)
	default:
		log.Error("notification emit failed", "error", err)
	}
}

// State reports the breaker state guarding the bus.
func (s *Service) State() gobreaker.State {
	return s.breaker.State()
}

var _ Notifier = (*Service)(nil)
