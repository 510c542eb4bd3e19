// Package webapi exposes the banking services over HTTP.
// It is organized into sub-packages for different domains:
// - account: Account, history and transfer endpoints
// - auth: Login endpoint
// - user: User, account listing and notification endpoints
package webapi

import (
	"errors"
	"strings"
	"time"

	"github.com/amirasaad/minibank/pkg/app"
	accountweb "github.com/amirasaad/minibank/webapi/account"
	authweb "github.com/amirasaad/minibank/webapi/auth"
	"github.com/amirasaad/minibank/webapi/common"
	userweb "github.com/amirasaad/minibank/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const (
	defaultRateLimitMax    = 100
	defaultRateLimitWindow = time.Minute
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	maxRequests, window := defaultRateLimitMax, defaultRateLimitWindow
	if a.Config != nil && a.Config.RateLimit != nil {
		maxRequests, window = a.Config.RateLimit.MaxRequests, a.Config.RateLimit.Window
	}

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	// Uses X-Forwarded-For header when behind a proxy
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("MiniBank API is running! 🚀")
	})

	authweb.Routes(fiberApp, a.AuthService)
	userweb.Routes(fiberApp, a.UserService, a.AccountService, a.Inbox)
	accountweb.Routes(fiberApp, a.AccountService)
	return fiberApp
}
