package user_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/amirasaad/minibank/infra/repository"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/user"
	usersvc "github.com/amirasaad/minibank/pkg/service/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func newService() (*usersvc.Service, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	return usersvc.New(store, slog.Default()), store
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	svc, store := newService()

	u, err := svc.Register(context.Background(), 1, "Alice")

	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	stored, ok := store.GetUser(1)
	require.True(t, ok)
	assert.Same(t, u, stored)
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()
	svc, _ := newService()
	_, err := svc.Register(context.Background(), 1, "Alice")
	require.NoError(t, err)

	u, err := svc.Register(context.Background(), 1, "Mallory")

	assert.Nil(t, u)
	require.ErrorIs(t, err, user.ErrUserExists)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRegister_Invalid(t *testing.T) {
	t.Parallel()
	svc, store := newService()

	_, err := svc.Register(context.Background(), 3, "")
	require.ErrorIs(t, err, user.ErrNameRequired)
	_, err = svc.Register(context.Background(), 0, "Zero")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, store.Stats().Users)
}

func TestRegister_ConcurrentSameID(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Register(context.Background(), 7, "Racer"); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
}

func TestProfile(t *testing.T) {
	t.Parallel()
	svc, _ := newService()
	u, err := svc.Register(context.Background(), 2, "Bob")
	require.NoError(t, err)
	u.AddAccount(201)

	p, err := svc.Profile(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, user.Profile{ID: 2, Name: "Bob", Accounts: 1}, p)

	_, err = svc.Profile(context.Background(), 42)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
