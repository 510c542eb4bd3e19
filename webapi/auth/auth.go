package auth

import (
	"github.com/amirasaad/minibank/pkg/domain/user"
	authsvc "github.com/amirasaad/minibank/pkg/service/auth"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/auth/login", Login(authSvc))
}

// Login resolves a user id. There is no credential check; an unknown id
// answers 404.
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		u, ok := authSvc.Login(c.Context(), input.UserID)
		if !ok {
			return common.ProblemDetailsJSON(c, "Login failed", user.ErrUserNotFound)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", u.Profile())
	}
}
