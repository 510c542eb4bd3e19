package eventbus

import (
	"context"

	"github.com/amirasaad/minibank/pkg/domain/events"
)

// HandlerFunc handles a single event delivered by a Bus.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus defines the contract for publishing and subscribing to events.
type Bus interface {
	Emit(ctx context.Context, e events.Event) error
	Register(eventType string, handler HandlerFunc)
}
