package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/infra/repository"
	"github.com/amirasaad/minibank/internal/fixtures"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newApp(t *testing.T) *app.App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewMemoryStore()
	require.NoError(t, fixtures.SeedDemo(store))
	return app.New(&app.Deps{Store: store, EventBus: eventbus.NewWithMemory(logger), Logger: logger}, nil)
}

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), &out, newApp(t), nil))

	want := "User logged in -> User(id=1, name=Alice)\n" +
		"Accounts for Alice -> [Account(id=101, owner=1, balance=500) Account(id=102, owner=1, balance=150)]\n" +
		"Transaction result -> Transaction(id=1, from=101, to=201, amount=120, status=COMPLETED)\n" +
		"Transaction result -> Transaction(id=2, from=102, to=201, amount=500, status=FAILED)\n"
	assert.Equal(t, want, out.String())
}

func TestRunCommands(t *testing.T) {
	a := newApp(t)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), &out, a, []string{"transfer", "101", "201", "12.5"}))
	assert.Contains(t, out.String(), "amount=12.5, status=COMPLETED")

	out.Reset()
	require.NoError(t, run(context.Background(), &out, a, []string{"accounts", "2"}))
	assert.Equal(t, "Accounts for Bob -> [Account(id=201, owner=2, balance=312.5)]\n", out.String())

	assert.Error(t, run(context.Background(), &out, a, []string{"transfer", "999", "201", "1"}))
	assert.Error(t, run(context.Background(), &out, a, []string{"transfer", "101", "201", "lots"}))
	assert.Error(t, run(context.Background(), &out, a, []string{"accounts", "9"}))
	assert.Error(t, run(context.Background(), &out, a, []string{"bogus"}))
}
