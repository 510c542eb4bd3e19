package account

import (
	"time"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// OpenAccountInput is the body of POST /accounts.
type OpenAccountInput struct {
	UserID         int64            `json:"user_id" validate:"required,gt=0"`
	AccountID      int64            `json:"account_id" validate:"required,gt=0"`
	InitialBalance *decimal.Decimal `json:"initial_balance"`
}

// TransferInput is the body of POST /transfers.
type TransferInput struct {
	SourceAccountID      int64            `json:"source_account_id" validate:"required,gt=0"`
	DestinationAccountID int64            `json:"destination_account_id" validate:"required,gt=0"`
	Amount               *decimal.Decimal `json:"amount" validate:"required"`
}

type AccountDTO struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

type TransactionDTO struct {
	ID            int64           `json:"id"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	SourceID      int64           `json:"source_id"`
	DestinationID int64           `json:"destination_id"`
	Reason        string          `json:"reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
}

func ToAccountDTO(a *account.Account) AccountDTO {
	return AccountDTO{
		ID:        a.ID,
		UserID:    a.UserID,
		Balance:   a.Balance(),
		CreatedAt: a.CreatedAt,
	}
}

func ToAccountDTOs(accounts []*account.Account) []AccountDTO {
	out := make([]AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, ToAccountDTO(a))
	}
	return out
}

func ToTransactionDTO(tx *account.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:            tx.ID,
		Status:        string(tx.Status()),
		Amount:        tx.Amount,
		SourceID:      tx.Source.ID,
		DestinationID: tx.Destination.ID,
		CreatedAt:     tx.CreatedAt,
	}
	if err := tx.Err(); err != nil {
		dto.Reason = err.Error()
	}
	if p := tx.ProcessedAt(); !p.IsZero() {
		dto.ProcessedAt = &p
	}
	return dto
}

func ToTransactionDTOs(txs []*account.Transaction) []TransactionDTO {
	out := make([]TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionDTO(tx))
	}
	return out
}
