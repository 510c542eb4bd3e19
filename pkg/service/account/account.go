// Package account orchestrates transfers: it resolves accounts from the
// store, processes the transaction, persists it and notifies the owners.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/amirasaad/minibank/pkg/service/notification"
	"github.com/shopspring/decimal"
)

// Service provides business logic for account operations including
// listing, opening, transfers and history.
type Service struct {
	store    repository.Store
	notifier notification.Notifier
	logger   *slog.Logger

	seq    atomic.Int64
	openMu sync.Mutex
}

// New creates a new Service. Transaction ids start at 1.
func New(store repository.Store, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger}
}

// ListAccounts returns the accounts owned by u in association order.
// Ids the store cannot resolve are skipped.
func (s *Service) ListAccounts(ctx context.Context, u *user.User) []*account.Account {
	if u == nil {
		return nil
	}
	log := s.logger.With("context", "ListAccounts", "userID", u.ID)
	ids := u.AccountIDs()
	accounts := make([]*account.Account, 0, len(ids))
	for _, id := range ids {
		a, ok := s.store.GetAccount(id)
		if !ok {
			log.Warn("owned account missing from store", "accountID", id)
			continue
		}
		accounts = append(accounts, a)
	}
	log.Debug("ListAccounts done", "count", len(accounts))
	return accounts
}

// Transfer moves amount from sourceID to destinationID.
//
// Unknown accounts yield an error wrapping account.ErrAccountNotFound; in that
// case no transaction id is consumed and nothing is persisted. Otherwise the
// processed transaction is persisted and returned whatever its outcome: a
// declined transfer is a FAILED transaction, not an error. Owners are
// notified after the account locks are released.
func (s *Service) Transfer(
	ctx context.Context,
	sourceID, destinationID int64,
	amount decimal.Decimal,
) (*account.Transaction, error) {
	log := s.logger.With(
		"context", "Transfer",
		"sourceID", sourceID,
		"destinationID", destinationID,
		"amount", amount.String(),
	)
	log.Debug("Transfer called")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, ok := s.store.GetAccount(sourceID)
	if !ok {
		log.Error("Transfer failed: source account not found")
		return nil, &account.NotFoundError{ID: sourceID}
	}
	destination, ok := s.store.GetAccount(destinationID)
	if !ok {
		log.Error("Transfer failed: destination account not found")
		return nil, &account.NotFoundError{ID: destinationID}
	}

	tx, err := account.NewTransaction(s.seq.Add(1), source, destination, amount)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	completed := tx.Process()
	s.store.SaveTransaction(tx)

	if completed {
		log.Info("Transfer completed", "transactionID", tx.ID)
	} else {
		log.Warn("Transfer failed", "transactionID", tx.ID, "reason", tx.Err())
	}
	s.notifyOwners(ctx, tx)
	return tx, nil
}

func (s *Service) notifyOwners(ctx context.Context, tx *account.Transaction) {
	amount := tx.Amount.String()
	status := string(tx.Status())
	sourceOwner, _ := s.store.GetUser(tx.Source.UserID)

	if tx.Status() != account.StatusCompleted {
		s.notifier.Notify(ctx, sourceOwner,
			fmt.Sprintf("Transfer of %s failed.", amount),
			events.WithTransaction(tx.ID, status))
		return
	}

	destinationOwner, _ := s.store.GetUser(tx.Destination.UserID)
	s.notifier.Notify(ctx, sourceOwner,
		fmt.Sprintf("Transfer of %s to account %d succeeded.", amount, tx.Destination.ID),
		events.WithTransaction(tx.ID, status))
	s.notifier.Notify(ctx, destinationOwner,
		fmt.Sprintf("Received %s from account %d.", amount, tx.Source.ID),
		events.WithTransaction(tx.ID, status))
}

// OpenAccount creates an account for ownerID with an opening balance.
func (s *Service) OpenAccount(
	ctx context.Context,
	ownerID, accountID int64,
	initial decimal.Decimal,
) (*account.Account, error) {
	log := s.logger.With("context", "OpenAccount", "userID", ownerID, "accountID", accountID)
	log.Debug("OpenAccount called", "initial", initial.String())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	owner, ok := s.store.GetUser(ownerID)
	if !ok {
		log.Error("OpenAccount failed: owner not found")
		return nil, user.ErrUserNotFound
	}

	s.openMu.Lock()
	defer s.openMu.Unlock()
	if _, exists := s.store.GetAccount(accountID); exists {
		log.Error("OpenAccount failed: duplicate id")
		return nil, fmt.Errorf("open account %d: %w", accountID, account.ErrAccountExists)
	}
	a, err := account.New().
		WithID(accountID).
		WithOwner(owner).
		WithBalance(initial).
		Build()
	if err != nil {
		log.Error("OpenAccount failed", "error", err)
		return nil, fmt.Errorf("open account %d: %w", accountID, err)
	}
	s.store.SaveAccount(a)
	log.Info("OpenAccount successful")
	return a, nil
}

// GetAccount returns the account with the given id.
func (s *Service) GetAccount(ctx context.Context, id int64) (*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, ok := s.store.GetAccount(id)
	if !ok {
		return nil, &account.NotFoundError{ID: id}
	}
	return a, nil
}

// GetTransaction returns the transaction with the given id.
func (s *Service) GetTransaction(ctx context.Context, id int64) (*account.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, ok := s.store.GetTransaction(id)
	if !ok {
		return nil, fmt.Errorf("transaction %d: %w", id, account.ErrTransactionNotFound)
	}
	return tx, nil
}

// History returns the completed transactions recorded on an account, oldest first.
func (s *Service) History(ctx context.Context, accountID int64) ([]*account.Transaction, error) {
	a, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return a.Transactions(), nil
}
