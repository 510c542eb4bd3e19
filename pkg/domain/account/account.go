package account

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", domain.ErrValidation)

	// ErrInsufficientFunds is returned when an account has insufficient funds for a withdrawal or transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = fmt.Errorf("account %w", domain.ErrNotFound)

	// ErrAccountExists is returned when an account id is already taken.
	ErrAccountExists = fmt.Errorf("account %w", domain.ErrAlreadyExists)

	// ErrOwnerRequired is returned when an account is built without an owner.
	ErrOwnerRequired = fmt.Errorf("%w: owner is required", domain.ErrValidation)

	// ErrInvalidID is returned for non-positive account ids.
	ErrInvalidID = fmt.Errorf("%w: account id must be positive", domain.ErrValidation)

	// ErrTransactionNotFound is returned when a transaction id is unknown.
	ErrTransactionNotFound = fmt.Errorf("transaction %w", domain.ErrNotFound)

	// ErrNilAccount is returned when a nil account is provided to a transaction.
	ErrNilAccount = errors.New("nil account")
)

// NotFoundError reports the id of an account that could not be resolved.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrAccountNotFound
}

// Account represents a user's account, encapsulating its balance and history.
//
// Invariants:
//   - An account has exactly one owner (UserID) for its whole lifetime.
//   - The balance is never negative after a committed operation.
//   - The transaction history is append-only.
//   - Balance mutations are serialized by the account mutex.
type Account struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time

	mu           sync.Mutex
	balance      decimal.Decimal
	transactions []*Transaction
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        int64
	owner     *user.User
	balance   decimal.Decimal
	createdAt time.Time
}

// New creates a new Builder with a zero balance.
func New() *Builder {
	return &Builder{
		balance:   decimal.Zero,
		createdAt: time.Now().UTC(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id int64) *Builder {
	b.id = id
	return b
}

// WithOwner sets the owning user. This is a mandatory field.
func (b *Builder) WithOwner(u *user.User) *Builder {
	b.owner = u
	return b
}

// WithBalance sets the opening balance of the account.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// Build validates the invariants and returns the new Account. On success the
// account is associated with its owner.
func (b *Builder) Build() (*Account, error) {
	if b.id <= 0 {
		return nil, ErrInvalidID
	}
	if b.owner == nil {
		return nil, ErrOwnerRequired
	}
	if b.balance.IsNegative() {
		return nil, ErrInvalidAmount
	}
	a := &Account{
		ID:        b.id,
		UserID:    b.owner.ID,
		CreatedAt: b.createdAt,
		balance:   b.balance,
	}
	b.owner.AddAccount(a.ID)
	return a, nil
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Deposit adds amount to the balance.
func (a *Account) Deposit(amount decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deposit(amount)
}

// Withdraw removes amount from the balance. The balance is left untouched
// when the amount is not positive or exceeds the balance.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.withdraw(amount)
}

// RecordTransaction appends tx to the history. It does not deduplicate.
func (a *Account) RecordTransaction(tx *Transaction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recordTransaction(tx)
}

// Transactions returns a snapshot of the history, oldest first.
func (a *Account) Transactions() []*Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.transactions)
}

func (a *Account) String() string {
	return fmt.Sprintf("Account(id=%d, owner=%d, balance=%s)", a.ID, a.UserID, a.Balance())
}

// The lower-case variants below expect a.mu to be held.

func (a *Account) deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.balance = a.balance.Add(amount)
	return nil
}

func (a *Account) withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

func (a *Account) recordTransaction(tx *Transaction) {
	a.transactions = append(a.transactions, tx)
}

// lockPair locks both accounts in ascending id order and returns the unlock
// function. The same account is locked once.
func lockPair(a, b *Account) (unlock func()) {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if second.ID < first.ID {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}
