package notification

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/amirasaad/minibank/pkg/domain/events"
)

// DefaultInboxSize is the number of notifications kept per user.
const DefaultInboxSize = 100

// Inbox keeps the most recent notifications delivered to each user. It is
// the consumer side of the event bus.
type Inbox struct {
	mu     sync.RWMutex
	byUser map[int64][]events.Notification
	size   int
	logger *slog.Logger
}

func NewInbox(size int, logger *slog.Logger) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &Inbox{
		byUser: make(map[int64][]events.Notification),
		size:   size,
		logger: logger.With("component", "inbox"),
	}
}

// Handle is an eventbus.HandlerFunc for Notification events.
func (i *Inbox) Handle(_ context.Context, e events.Event) error {
	n, ok := e.(*events.Notification)
	if !ok {
		return fmt.Errorf("inbox: unexpected event %T", e)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	list := append(i.byUser[n.UserID], *n)
	if len(list) > i.size {
		list = list[len(list)-i.size:]
	}
	i.byUser[n.UserID] = list
	i.logger.Debug("notification delivered", "user_id", n.UserID, "notification_id", n.ID)
	return nil
}

// List returns the notifications of a user, oldest first.
func (i *Inbox) List(userID int64) []events.Notification {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byUser[userID])
}
