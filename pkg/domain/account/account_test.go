package account_test

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func newUser(t *testing.T, id int64, name string) *user.User {
	t.Helper()
	u, err := user.New(id, name)
	require.NoError(t, err)
	return u
}

func newAccount(t *testing.T, id int64, owner *user.User, balance int64) *account.Account {
	t.Helper()
	acc, err := account.New().
		WithID(id).
		WithOwner(owner).
		WithBalance(decimal.NewFromInt(balance)).
		Build()
	require.NoError(t, err)
	return acc
}

func TestNewAccount(t *testing.T) {
	t.Parallel()
	alice := newUser(t, 1, "Alice")

	acc := newAccount(t, 101, alice, 500)

	assert.Equal(t, int64(101), acc.ID)
	assert.Equal(t, alice.ID, acc.UserID)
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(500)))
	assert.Empty(t, acc.Transactions())
	assert.Equal(t, []int64{101}, alice.AccountIDs(), "account should be associated with its owner")
}

func TestBuildValidation(t *testing.T) {
	t.Parallel()
	owner := newUser(t, 1, "Alice")

	tests := []struct {
		name    string
		builder *account.Builder
		wantErr error
	}{
		{"missing id", account.New().WithOwner(owner), account.ErrInvalidID},
		{"missing owner", account.New().WithID(1), account.ErrOwnerRequired},
		{"negative balance", account.New().WithID(1).WithOwner(owner).WithBalance(decimal.NewFromInt(-1)), account.ErrInvalidAmount},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acc, err := tc.builder.Build()
			require.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Nil(t, acc)
		})
	}
	assert.Empty(t, owner.AccountIDs(), "failed builds must not associate accounts")
}

func TestDeposit(t *testing.T) {
	t.Parallel()
	acc := newAccount(t, 1, newUser(t, 1, "Alice"), 100)

	t.Run("positive amount", func(t *testing.T) {
		require.NoError(t, acc.Deposit(decimal.RequireFromString("25.50")))
		assert.Equal(t, "125.5", acc.Balance().String())
	})

	for _, amount := range []string{"0", "-10"} {
		t.Run("rejects "+amount, func(t *testing.T) {
			before := acc.Balance()
			err := acc.Deposit(decimal.RequireFromString(amount))
			assert.ErrorIs(t, err, account.ErrInvalidAmount)
			assert.True(t, acc.Balance().Equal(before))
		})
	}
}

func TestWithdraw(t *testing.T) {
	t.Parallel()
	acc := newAccount(t, 1, newUser(t, 1, "Alice"), 100)

	t.Run("successful withdrawal", func(t *testing.T) {
		require.NoError(t, acc.Withdraw(decimal.NewFromInt(40)))
		assert.True(t, acc.Balance().Equal(decimal.NewFromInt(60)))
	})

	t.Run("exact balance", func(t *testing.T) {
		other := newAccount(t, 2, newUser(t, 2, "Bob"), 30)
		require.NoError(t, other.Withdraw(decimal.NewFromInt(30)))
		assert.True(t, other.Balance().IsZero())
	})

	t.Run("insufficient funds", func(t *testing.T) {
		err := acc.Withdraw(decimal.NewFromInt(61))
		assert.ErrorIs(t, err, account.ErrInsufficientFunds)
		assert.True(t, acc.Balance().Equal(decimal.NewFromInt(60)))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		assert.ErrorIs(t, acc.Withdraw(decimal.Zero), account.ErrInvalidAmount)
		assert.ErrorIs(t, acc.Withdraw(decimal.NewFromInt(-5)), account.ErrInvalidAmount)
		assert.True(t, acc.Balance().Equal(decimal.NewFromInt(60)))
	})
}

func TestRecordTransaction(t *testing.T) {
	t.Parallel()
	owner := newUser(t, 1, "Alice")
	a := newAccount(t, 1, owner, 10)
	b := newAccount(t, 2, owner, 10)
	tx, err := account.NewTransaction(1, a, b, decimal.NewFromInt(1))
	require.NoError(t, err)

	a.RecordTransaction(tx)
	history := a.Transactions()
	require.Len(t, history, 1)
	assert.Same(t, tx, history[0])

	// snapshot must not alias internal storage
	history[0] = nil
	assert.Same(t, tx, a.Transactions()[0])
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()
	var err error = &account.NotFoundError{ID: 999}

	assert.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "999")
}

func TestAccountString(t *testing.T) {
	t.Parallel()
	acc := newAccount(t, 101, newUser(t, 1, "Alice"), 500)
	assert.Equal(t, "Account(id=101, owner=1, balance=500)", acc.String())
}
