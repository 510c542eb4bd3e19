package auth_test

import (
	"testing"

	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/amirasaad/minibank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Parallel()
	app, _ := testutils.SetupTestApp(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"known user", `{"user_id":1}`, fiber.StatusOK},
		{"unknown user", `{"user_id":99}`, fiber.StatusNotFound},
		{"missing id", `{}`, fiber.StatusBadRequest},
		{"bad body", `{"user_id":"one"}`, fiber.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := testutils.MakeRequest(app, fiber.MethodPost, "/auth/login", tc.body)
			defer resp.Body.Close() //nolint: errcheck
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestLoginReturnsProfile(t *testing.T) {
	t.Parallel()
	app, _ := testutils.SetupTestApp(t, nil)

	resp := testutils.MakeRequest(app, fiber.MethodPost, "/auth/login", `{"user_id":1}`)
	env := testutils.DecodeJSON[testutils.Envelope[user.Profile]](t, resp)

	assert.Equal(t, user.Profile{ID: 1, Name: "Alice", Accounts: 2}, env.Data)
}

func TestLoginUnknownIsProblem(t *testing.T) {
	t.Parallel()
	app, _ := testutils.SetupTestApp(t, nil)

	resp := testutils.MakeRequest(app, fiber.MethodPost, "/auth/login", `{"user_id":42}`)
	require.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
	pd := testutils.DecodeJSON[common.ProblemDetails](t, resp)

	assert.Equal(t, "Login failed", pd.Title)
	assert.Equal(t, "/auth/login", pd.Instance)
}
