package account

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a Transaction.
type Status string

// Transaction statuses. COMPLETED and FAILED are terminal.
const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Transaction represents a transfer between two accounts.
//
// The transaction references its endpoints but does not own them. Only the
// status and processing metadata change after construction, and only once:
// PENDING -> COMPLETED | FAILED.
type Transaction struct {
	ID          int64
	Source      *Account
	Destination *Account
	Amount      decimal.Decimal
	CreatedAt   time.Time

	mu          sync.Mutex
	status      Status
	err         error
	processedAt time.Time
}

// NewTransaction creates a PENDING transaction between source and destination.
func NewTransaction(id int64, source, destination *Account, amount decimal.Decimal) (*Transaction, error) {
	if source == nil || destination == nil {
		return nil, ErrNilAccount
	}
	return &Transaction{
		ID:          id,
		Source:      source,
		Destination: destination,
		Amount:      amount,
		CreatedAt:   time.Now().UTC(),
		status:      StatusPending,
	}, nil
}

// Status returns the current status.
func (t *Transaction) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Err returns the reason a FAILED transaction was declined, or nil.
func (t *Transaction) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// ProcessedAt returns when the transaction reached its terminal status.
func (t *Transaction) ProcessedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.processedAt
}

// Validate reports whether the amount is positive and the source balance
// covers it. It has no side effects.
func (t *Transaction) Validate() bool {
	t.Source.mu.Lock()
	defer t.Source.mu.Unlock()
	return t.check() == nil
}

// Process applies the transfer. It moves Amount from Source to Destination,
// records the transaction on both and marks it COMPLETED, or marks it FAILED
// leaving both balances untouched.
//
// Both account locks are held for the whole validate+mutate sequence,
// acquired in ascending account id order. Calling Process on a terminal
// transaction changes nothing and reports the existing outcome.
func (t *Transaction) Process() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsTerminal() {
		return t.status == StatusCompleted
	}

	unlock := lockPair(t.Source, t.Destination)
	defer unlock()

	if err := t.apply(); err != nil {
		t.finish(StatusFailed, err)
		return false
	}
	t.finish(StatusCompleted, nil)
	return true
}

func (t *Transaction) String() string {
	return fmt.Sprintf(
		"Transaction(id=%d, from=%d, to=%d, amount=%s, status=%s)",
		t.ID, t.Source.ID, t.Destination.ID, t.Amount, t.Status(),
	)
}

// check expects the source lock to be held.
func (t *Transaction) check() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Source.balance.LessThan(t.Amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// apply expects both account locks to be held.
func (t *Transaction) apply() error {
	if err := t.check(); err != nil {
		return err
	}
	if err := t.Source.withdraw(t.Amount); err != nil {
		return err
	}
	if err := t.Destination.deposit(t.Amount); err != nil {
		// undo the first leg
		t.Source.balance = t.Source.balance.Add(t.Amount)
		return err
	}
	t.Source.recordTransaction(t)
	if t.Destination != t.Source {
		t.Destination.recordTransaction(t)
	}
	return nil
}

func (t *Transaction) finish(status Status, err error) {
	t.status = status
	t.err = err
	t.processedAt = time.Now().UTC()
}
