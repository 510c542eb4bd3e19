package repository

import (
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/user"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	SaveUser(u *user.User)
	GetUser(id int64) (*user.User, bool)
}

// AccountRepository defines the interface for account data access operations.
type AccountRepository interface {
	SaveAccount(a *account.Account)
	GetAccount(id int64) (*account.Account, bool)
}

// TransactionRepository defines the interface for transaction data access operations.
type TransactionRepository interface {
	SaveTransaction(tx *account.Transaction)
	GetTransaction(id int64) (*account.Transaction, bool)
}

// Stats holds the number of stored entities per kind.
type Stats struct {
	Users        int `json:"users"`
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
}

// Store is the id-keyed persistence abstraction for users, accounts and
// transactions. Saves upsert by id. A miss is reported as (nil, false),
// never as an error. No validation happens at this layer.
type Store interface {
	UserRepository
	AccountRepository
	TransactionRepository
	Stats() Stats
}
