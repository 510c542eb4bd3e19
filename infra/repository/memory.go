package repository

import (
	"fmt"
	"sync"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/amirasaad/minibank/pkg/repository"
)

// table is a concurrency-safe id -> entity map.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[int64]*T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]*T)}
}

func (t *table[T]) put(id int64, v *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = v
}

func (t *table[T]) get(id int64) (*T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// MemoryStore is an in-memory implementation of repository.Store.
type MemoryStore struct {
	users        *table[user.User]
	accounts     *table[account.Account]
	transactions *table[account.Transaction]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        newTable[user.User](),
		accounts:     newTable[account.Account](),
		transactions: newTable[account.Transaction](),
	}
}

func (s *MemoryStore) SaveUser(u *user.User) { s.users.put(u.ID, u) }

func (s *MemoryStore) GetUser(id int64) (*user.User, bool) { return s.users.get(id) }

func (s *MemoryStore) SaveAccount(a *account.Account) { s.accounts.put(a.ID, a) }

func (s *MemoryStore) GetAccount(id int64) (*account.Account, bool) { return s.accounts.get(id) }

func (s *MemoryStore) SaveTransaction(tx *account.Transaction) { s.transactions.put(tx.ID, tx) }

func (s *MemoryStore) GetTransaction(id int64) (*account.Transaction, bool) {
	return s.transactions.get(id)
}

// Stats returns the number of stored entities per kind.
func (s *MemoryStore) Stats() repository.Stats {
	return repository.Stats{
		Users:        s.users.len(),
		Accounts:     s.accounts.len(),
		Transactions: s.transactions.len(),
	}
}

func (s *MemoryStore) String() string {
	st := s.Stats()
	return fmt.Sprintf("MemoryStore(users=%d, accounts=%d, transactions=%d)", st.Users, st.Accounts, st.Transactions)
}

var _ repository.Store = (*MemoryStore)(nil)
