package account

import (
	accountsvc "github.com/amirasaad/minibank/pkg/service/account"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func Routes(app *fiber.App, accountSvc *accountsvc.Service) {
	app.Post("/accounts", OpenAccount(accountSvc))
	app.Get("/accounts/:id", GetAccount(accountSvc))
	app.Get("/accounts/:id/transactions", History(accountSvc))
	app.Post("/transfers", Transfer(accountSvc))
	app.Get("/transfers/:id", GetTransfer(accountSvc))
}

// OpenAccount opens an account for an existing user.
func OpenAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[OpenAccountInput](c)
		if input == nil {
			return err
		}
		initial := decimal.Zero
		if input.InitialBalance != nil {
			initial = *input.InitialBalance
		}
		a, err := accountSvc.OpenAccount(c.Context(), input.UserID, input.AccountID, initial)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to open account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountDTO(a))
	}
}

func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseIDParam(c, "id")
		if !ok {
			return err
		}
		a, err := accountSvc.GetAccount(c.Context(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", ToAccountDTO(a))
	}
}

// History lists the transactions recorded on an account, oldest first.
func History(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseIDParam(c, "id")
		if !ok {
			return err
		}
		txs, err := accountSvc.History(c.Context(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", ToTransactionDTOs(txs))
	}
}

// Transfer moves funds between two accounts. The transaction is created
// whether it completes or fails, so both outcomes answer 201.
func Transfer(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[TransferInput](c)
		if input == nil {
			return err
		}
		tx, err := accountSvc.Transfer(c.Context(), input.SourceAccountID, input.DestinationAccountID, *input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Transfer failed", err)
		}
		message := "Transfer completed"
		if tx.Err() != nil {
			message = "Transfer failed"
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, message, ToTransactionDTO(tx))
	}
}

func GetTransfer(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseIDParam(c, "id")
		if !ok {
			return err
		}
		tx, err := accountSvc.GetTransaction(c.Context(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Transfer not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer fetched", ToTransactionDTO(tx))
	}
}
