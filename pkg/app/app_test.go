package app_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/infra/repository"
	"github.com/amirasaad/minibank/internal/fixtures"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppWiresTransferToInbox(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewMemoryStore()
	require.NoError(t, fixtures.SeedDemo(store))
	bus := eventbus.NewWithMemory(logger)

	a := app.New(&app.Deps{Store: store, EventBus: bus, Logger: logger}, nil)

	u, ok := a.AuthService.Login(context.Background(), 1)
	require.True(t, ok)
	assert.Len(t, a.AccountService.ListAccounts(context.Background(), u), 2)

	tx, err := a.AccountService.Transfer(context.Background(), 101, 201, decimal.NewFromInt(120))
	require.NoError(t, err)
	assert.Equal(t, account.StatusCompleted, tx.Status())

	require.Len(t, a.Inbox.List(1), 1)
	assert.Equal(t, "Transfer of 120 to account 201 succeeded.", a.Inbox.List(1)[0].Message)
	require.Len(t, a.Inbox.List(2), 1)
	assert.Equal(t, "Received 120 from account 101.", a.Inbox.List(2)[0].Message)
	assert.Len(t, bus.Published(), 2)
}
