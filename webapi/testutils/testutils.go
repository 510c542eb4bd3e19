// Package testutils builds a seeded application for HTTP tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/infra/repository"
	"github.com/amirasaad/minibank/internal/fixtures"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// SetupTestApp returns a fiber app over a memory store seeded with the demo
// users and accounts, and the application behind it.
func SetupTestApp(t testing.TB, cfg *config.App) (*fiber.App, *app.App) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewMemoryStore()
	require.NoError(t, fixtures.SeedDemo(store))
	a := app.New(&app.Deps{
		Store:    store,
		EventBus: eventbus.NewWithMemory(logger),
		Logger:   logger,
	}, cfg)
	return webapi.SetupApp(a), a
}

// MakeRequest sends a request with an optional JSON body through the app.
func MakeRequest(app *fiber.App, method, url, body string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err)
	}
	return resp
}

// DecodeJSON decodes the response body into T and closes it.
func DecodeJSON[T any](t testing.TB, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// Envelope mirrors common.Response with a typed payload.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}
