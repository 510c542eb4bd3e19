package app

import (
	"github.com/amirasaad/minibank/pkg/domain/events"
)

// setupEventBus registers the event handlers of the application.
func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil {
		return
	}
	a.Deps.EventBus.Register(
		string(events.EventTypeNotificationSent),
		a.Inbox.Handle,
	)
}
