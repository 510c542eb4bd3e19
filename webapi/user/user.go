package user

import (
	accountsvc "github.com/amirasaad/minibank/pkg/service/account"
	"github.com/amirasaad/minibank/pkg/service/notification"
	usersvc "github.com/amirasaad/minibank/pkg/service/user"
	accountweb "github.com/amirasaad/minibank/webapi/account"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(
	app *fiber.App,
	userSvc *usersvc.Service,
	accountSvc *accountsvc.Service,
	inbox *notification.Inbox,
) {
	app.Post("/users", Register(userSvc))
	app.Get("/users/:id", Profile(userSvc))
	app.Get("/users/:id/accounts", ListAccounts(userSvc, accountSvc))
	app.Get("/users/:id/notifications", Notifications(userSvc, inbox))
}

func Register(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterInput](c)
		if input == nil {
			return err
		}
		u, err := userSvc.Register(c.Context(), input.ID, input.Name)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to register user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User created", u.Profile())
	}
}

func Profile(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseIDParam(c, "id")
		if !ok {
			return err
		}
		p, err := userSvc.Profile(c.Context(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "User not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User fetched", p)
	}
}

// ListAccounts returns the user's accounts in the order they were opened.
func ListAccounts(userSvc *usersvc.Service, accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseIDParam(c, "id")
		if !ok {
			return err
		}
		u, err := userSvc.Get(c.Context(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "User not found", err)
		}
		accounts := accountSvc.ListAccounts(c.Context(), u)
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", accountweb.ToAccountDTOs(accounts))
	}
}

// Notifications returns what the inbox received for the user, oldest first.
func Notifications(userSvc *usersvc.Service, inbox *notification.Inbox) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseIDParam(c, "id")
		if !ok {
			return err
		}
		if _, err := userSvc.Get(c.Context(), id); err != nil {
			return common.ProblemDetailsJSON(c, "User not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Notifications fetched", ToNotificationDTOs(inbox.List(id)))
	}
}
