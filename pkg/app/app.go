package app

import (
	"log/slog"

	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/amirasaad/minibank/pkg/service/account"
	"github.com/amirasaad/minibank/pkg/service/auth"
	"github.com/amirasaad/minibank/pkg/service/notification"
	"github.com/amirasaad/minibank/pkg/service/user"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	Store    repository.Store
	EventBus eventbus.Bus
	Logger   *slog.Logger
}

type App struct {
	Deps                *Deps
	Config              *config.App
	AuthService         *auth.Service
	UserService         *user.Service
	AccountService      *account.Service
	NotificationService *notification.Service
	Inbox               *notification.Inbox
}

// New wires the services over deps. cfg may be nil, in which case
// notification defaults apply.
func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}

	notifyCfg := notification.DefaultConfig()
	if cfg != nil && cfg.Notification != nil {
		notifyCfg = notification.Config{
			Timeout:     cfg.Notification.Timeout,
			MaxFailures: cfg.Notification.BreakerMaxFailures,
			OpenTimeout: cfg.Notification.BreakerOpenTimeout,
		}
	}

	app.Inbox = notification.NewInbox(notification.DefaultInboxSize, deps.Logger)
	app.setupEventBus()

	app.NotificationService = notification.New(deps.EventBus, deps.Logger, notifyCfg)
	app.AuthService = auth.New(deps.Store, deps.Logger)
	app.UserService = user.New(deps.Store, deps.Logger)
	app.AccountService = account.New(deps.Store, app.NotificationService, deps.Logger)
	return app
}
