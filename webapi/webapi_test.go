package webapi_test

import (
	"io"
	"testing"
	"time"

	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type RateLimitTestSuite struct {
	suite.Suite
	app *fiber.App
}

func (s *RateLimitTestSuite) SetupTest() {
	s.app, _ = testutils.SetupTestApp(s.T(), &config.App{
		RateLimit: &config.RateLimit{MaxRequests: 5, Window: time.Second},
	})
}

func (s *RateLimitTestSuite) TestHealth() {
	resp := testutils.MakeRequest(s.app, fiber.MethodGet, "/", "")
	defer resp.Body.Close() //nolint: errcheck
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Contains(string(body), "running")
}

func (s *RateLimitTestSuite) TestRateLimit() {
	for i := 0; i < 6; i++ {
		resp := testutils.MakeRequest(s.app, fiber.MethodGet, "/", "")
		resp.Body.Close() //nolint: errcheck
		if i < 5 {
			s.Equal(fiber.StatusOK, resp.StatusCode, "Expected OK for request %d", i+1)
		} else {
			s.Equal(fiber.StatusTooManyRequests, resp.StatusCode, "Expected Too Many Requests for request %d", i+1)
		}
	}

	time.Sleep(2 * time.Second)
	resp := testutils.MakeRequest(s.app, fiber.MethodGet, "/", "")
	resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode, "Expected OK after rate limit reset")
}

func TestRateLimitTestSuite(t *testing.T) {
	suite.Run(t, new(RateLimitTestSuite))
}
