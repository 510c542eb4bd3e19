package user

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = fmt.Errorf("user %w", domain.ErrNotFound)
	// ErrUserExists is returned when a user id is already registered.
	ErrUserExists = fmt.Errorf("user %w", domain.ErrAlreadyExists)
	// ErrNameRequired is returned when a user is created without a name.
	ErrNameRequired = fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	// ErrInvalidID is returned for non-positive user ids.
	ErrInvalidID = fmt.Errorf("%w: user id must be positive", domain.ErrValidation)
)

// User represents a user in the system.
//
// A user holds handles (ids) of the accounts it owns, in the order they were
// associated. Accounts are appended when built and never removed.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created"`

	mu         sync.RWMutex
	accountIDs []int64
}

// Profile is a simple summary of a user.
type Profile struct {
	ID       int64  `json:"user_id"`
	Name     string `json:"name"`
	Accounts int    `json:"accounts"`
}

// New creates a new User with the given id and display name.
func New(id int64, name string) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	return &User{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// AddAccount associates an account id with this user.
func (u *User) AddAccount(accountID int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.accountIDs = append(u.accountIDs, accountID)
}

// AccountIDs returns a snapshot of the owned account ids in association order.
func (u *User) AccountIDs() []int64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return slices.Clone(u.accountIDs)
}

// Profile returns a summary of the user.
func (u *User) Profile() Profile {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return Profile{ID: u.ID, Name: u.Name, Accounts: len(u.accountIDs)}
}

func (u *User) String() string {
	return fmt.Sprintf("User(id=%d, name=%s)", u.ID, u.Name)
}
