package events

import (
	"strconv"
	"time"

	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/google/uuid"
)

// Event is implemented by everything carried on the event bus.
type Event interface {
	Type() string
}

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	EventTypeNotificationSent EventType = "Notification.Sent"
)

// EventTypes maps wire type names to factories used when decoding events
// received from a remote bus.
var EventTypes = map[string]func() Event{
	string(EventTypeNotificationSent): func() Event { return &Notification{} },
}

// Notification carries a human-readable message for a single recipient.
type Notification struct {
	ID            uuid.UUID `json:"id"`
	UserID        int64     `json:"user_id"`
	UserName      string    `json:"user_name"`
	Message       string    `json:"message"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Status        string    `json:"status,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewNotification builds a notification addressed to u.
func NewNotification(u *user.User, message string, opts ...func(*Notification)) *Notification {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    u.ID,
		UserName:  u.Name,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// WithTransaction links the notification to a transaction and its outcome.
func WithTransaction(id int64, status string) func(*Notification) {
	return func(n *Notification) {
		n.TransactionID = id
		n.Status = status
	}
}

func (n *Notification) Type() string { return string(EventTypeNotificationSent) }

// Key partitions notifications by recipient.
func (n *Notification) Key() string { return strconv.FormatInt(n.UserID, 10) }
