package memory

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paylite/idempotent-ledger/internal/models"
	"github.com/paylite/idempotent-ledger/internal/money"
	"github.com/paylite/idempotent-ledger/internal/storage"
)

func TestInsertAndGet(t *testing.T) {
	s := NewAccountStore()
	id := uuid.New()

	require.NoError(t, s.Insert(models.NewAccountState(id)))

	account, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.True(t, account.Balance.Equal(money.Zero))

	err = s.Insert(models.NewAccountState(id))
	assert.ErrorIs(t, err, storage.ErrAccountAlreadyExists)
}

func TestGetUnknownAccount(t *testing.T) {
	s := NewAccountStore()

	_, err := s.Get(uuid.New())
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)

	_, err = s.Update(uuid.New(), func(state *models.AccountState) (models.Outcome, error) {
		t.Fatal("mutator must not run for a missing account")
		return models.Outcome{}, nil
	})
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
}

// TestUpdateSerializesPerAccount hammers one account with concurrent
// increments; with atomic read-modify-write no update can be lost.
func TestUpdateSerializesPerAccount(t *testing.T) {
	s := NewAccountStore()
	id := uuid.New()
	require.NoError(t, s.Insert(models.NewAccountState(id)))

	const (
		workers    = 8
		iterations = 200
	)
	one := money.MustFromString("1")

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				_, err := s.Update(id, func(state *models.AccountState) (models.Outcome, error) {
					state.Account.Balance = state.Account.Balance.Add(one)
					return models.Outcome{Account: state.Account}, nil
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	account, err := s.Get(id)
	require.NoError(t, err)
	want := money.MustFromString("1600")
	assert.True(t, account.Balance.Equal(want), "balance %s, want %s", account.Balance, want)
}

// Unrelated accounts must not contend for each other's critical section, and
// an update on one account can overlap freely with updates on another.
func TestUpdateIndependentAccounts(t *testing.T) {
	s := NewAccountStore()
	a, b := uuid.New(), uuid.New()
	require.NoError(t, s.Insert(models.NewAccountState(a)))
	require.NoError(t, s.Insert(models.NewAccountState(b)))

	entered := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_, _ = s.Update(a, func(state *models.AccountState) (models.Outcome, error) {
			close(entered)
			<-release
			return models.Outcome{}, nil
		})
	}()

	<-entered
	// While a's mutator is blocked, b must still be updatable.
	_, err := s.Update(b, func(state *models.AccountState) (models.Outcome, error) {
		state.Account.Balance = state.Account.Balance.Add(money.MustFromString("5"))
		return models.Outcome{Account: state.Account}, nil
	})
	require.NoError(t, err)
	close(release)
}
